package update

import (
	"context"
	"errors"
	"testing"

	"s3public/internal/storage"

	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// stubClient counts ACL calls and fails them with a configured error
type stubClient struct {
	aclErr   error
	aclCalls int
}

func (s *stubClient) ListPage(ctx context.Context, bucket, prefix, delimiter, token string) (storage.Page, error) {
	return storage.Page{}, nil
}

func (s *stubClient) SetPublicRead(ctx context.Context, bucket, key string) error {
	s.aclCalls++
	return s.aclErr
}

func (s *stubClient) ListBuckets(ctx context.Context) ([]string, error) {
	return nil, nil
}

func TestApplySuccess(t *testing.T) {
	client := &stubClient{}
	updater := New(client, "bucket", false, zap.NewNop())

	outcome := updater.Apply(context.Background(), ObjectRecord{Key: "file.txt", Size: 10})

	assert.Equal(t, StatusSuccess, outcome.Status)
	assert.Equal(t, 1, client.aclCalls)
}

func TestApplySkipsDirectoryMarker(t *testing.T) {
	tests := []struct {
		name   string
		dryRun bool
	}{
		{"real run", false},
		{"dry run", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &stubClient{}
			updater := New(client, "bucket", tt.dryRun, zap.NewNop())

			outcome := updater.Apply(context.Background(), ObjectRecord{Key: "a/c/", Size: 0, IsDirMarker: true})

			assert.Equal(t, StatusSkipped, outcome.Status)
			assert.Equal(t, SkipReasonDirMarker, outcome.SkipReason)
			assert.Zero(t, client.aclCalls, "markers never reach the backend")
		})
	}
}

func TestApplyDryRun(t *testing.T) {
	client := &stubClient{aclErr: errors.New("must not be called")}
	updater := New(client, "bucket", true, zap.NewNop())

	outcome := updater.Apply(context.Background(), ObjectRecord{Key: "file.txt", Size: 10})

	// Dry-run counts as "would succeed" without issuing the ACL call
	assert.Equal(t, StatusSuccess, outcome.Status)
	assert.Zero(t, client.aclCalls)
}

func TestApplyClassifiesFailures(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantKind storage.Kind
	}{
		{
			name:     "access denied",
			err:      &smithy.GenericAPIError{Code: "AccessDenied", Message: "Access Denied"},
			wantKind: storage.KindPermission,
		},
		{
			name:     "object vanished between listing and update",
			err:      &smithy.GenericAPIError{Code: "NoSuchKey", Message: "The specified key does not exist"},
			wantKind: storage.KindNotFound,
		},
		{
			name:     "throttled",
			err:      &smithy.GenericAPIError{Code: "SlowDown", Message: "Reduce your request rate"},
			wantKind: storage.KindTransient,
		},
		{
			name:     "network",
			err:      errors.New("dial tcp: i/o timeout"),
			wantKind: storage.KindTransient,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &stubClient{aclErr: tt.err}
			updater := New(client, "bucket", false, zap.NewNop())

			outcome := updater.Apply(context.Background(), ObjectRecord{Key: "file.txt", Size: 10})

			assert.Equal(t, StatusFailed, outcome.Status)
			assert.Equal(t, tt.wantKind, outcome.Kind)
			assert.NotEmpty(t, outcome.Message)
			assert.Equal(t, 1, client.aclCalls, "exactly one attempt, no internal retries")
		})
	}
}

func TestApplyIdempotent(t *testing.T) {
	client := &stubClient{}
	updater := New(client, "bucket", false, zap.NewNop())
	record := ObjectRecord{Key: "file.txt", Size: 10}

	first := updater.Apply(context.Background(), record)
	second := updater.Apply(context.Background(), record)

	assert.Equal(t, StatusSuccess, first.Status)
	assert.Equal(t, StatusSuccess, second.Status)
}
