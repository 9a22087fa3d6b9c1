package storage

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3Client implements the Client interface using the AWS SDK, which speaks to
// any S3-compatible endpoint (Amazon, Spaces, Wasabi, Backblaze, MinIO)
type S3Client struct {
	client *s3.Client
}

// NewS3Client creates a new S3 client for the given endpoint and credentials
func NewS3Client(ctx context.Context, cfg Config) (*S3Client, error) {
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("access key and secret key are required")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load SDK config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		// MinIO and most self-hosted gateways do not resolve virtual-host
		// bucket addressing
		o.UsePathStyle = cfg.PathStyle
	})

	return &S3Client{client: client}, nil
}

// ListPage fetches one page of the bucket listing via ListObjectsV2
func (c *S3Client) ListPage(ctx context.Context, bucket, prefix, delimiter, token string) (Page, error) {
	input := &s3.ListObjectsV2Input{
		Bucket: aws.String(bucket),
		Prefix: aws.String(prefix),
	}
	if delimiter != "" {
		input.Delimiter = aws.String(delimiter)
	}
	if token != "" {
		input.ContinuationToken = aws.String(token)
	}

	out, err := c.client.ListObjectsV2(ctx, input)
	if err != nil {
		return Page{}, err
	}

	page := Page{
		Objects: make([]ObjectInfo, 0, len(out.Contents)),
	}
	for _, obj := range out.Contents {
		page.Objects = append(page.Objects, ObjectInfo{
			Key:  aws.ToString(obj.Key),
			Size: aws.ToInt64(obj.Size),
		})
	}
	if aws.ToBool(out.IsTruncated) {
		page.NextToken = aws.ToString(out.NextContinuationToken)
	}

	return page, nil
}

// SetPublicRead applies the public-read canned ACL to a single object
func (c *S3Client) SetPublicRead(ctx context.Context, bucket, key string) error {
	_, err := c.client.PutObjectAcl(ctx, &s3.PutObjectAclInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
		ACL:    types.ObjectCannedACLPublicRead,
	})
	return err
}

// ListBuckets returns the names of all buckets visible to the credentials
func (c *S3Client) ListBuckets(ctx context.Context) ([]string, error) {
	out, err := c.client.ListBuckets(ctx, &s3.ListBucketsInput{})
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(out.Buckets))
	for _, b := range out.Buckets {
		names = append(names, aws.ToString(b.Name))
	}
	return names, nil
}
