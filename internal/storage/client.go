package storage

import (
	"context"
)

// Client defines the interface for S3-compatible storage operations
type Client interface {
	// ListPage fetches one page of a bucket listing. An empty token requests
	// the first page; an empty NextToken in the result means the listing is
	// exhausted. A non-empty delimiter groups keys so only direct children of
	// the prefix are returned.
	ListPage(ctx context.Context, bucket, prefix, delimiter, token string) (Page, error)

	// SetPublicRead sets the object's ACL to public-read. The call is
	// idempotent: repeating it on an already public object succeeds.
	SetPublicRead(ctx context.Context, bucket, key string) error

	// ListBuckets returns the names of all buckets visible to the credentials
	ListBuckets(ctx context.Context) ([]string, error)
}

// ObjectInfo contains the listing metadata for a single object
type ObjectInfo struct {
	Key  string
	Size int64
}

// Page is one page of a bucket listing
type Page struct {
	Objects   []ObjectInfo
	NextToken string
}

// Config contains client configuration
type Config struct {
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
	PathStyle bool
}
