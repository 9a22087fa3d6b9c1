package app

import (
	"context"
	"strings"
	"sync"

	"s3public/internal/storage"
)

// fakeObject is a seeded bucket entry for the fake client
type fakeObject struct {
	key  string
	size int64
}

// fakeClient implements storage.Client in memory with S3 listing semantics:
// prefix filtering, delimiter grouping and continuation tokens.
type fakeClient struct {
	mu sync.Mutex

	objects  []fakeObject
	pageSize int

	// failPage makes the n-th ListPage call (1-based) fail with listErr
	failPage int
	listErr  error
	// aclErrs returns an error for SetPublicRead on the given keys
	aclErrs map[string]error

	listCalls int
	aclCalls  []string
	buckets   []string
}

func (f *fakeClient) ListPage(ctx context.Context, bucket, prefix, delimiter, token string) (storage.Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.listCalls++
	if err := ctx.Err(); err != nil {
		return storage.Page{}, err
	}
	if f.failPage > 0 && f.listCalls == f.failPage {
		return storage.Page{}, f.listErr
	}

	var matched []fakeObject
	for _, obj := range f.objects {
		if !strings.HasPrefix(obj.key, prefix) {
			continue
		}
		if delimiter != "" {
			// Keys with the delimiter past the prefix are grouped away into
			// common prefixes, which a listing of objects does not return.
			// A trailing delimiter (directory marker of the prefix itself)
			// stays a direct child.
			rest := strings.TrimPrefix(obj.key, prefix)
			if idx := strings.Index(rest, delimiter); idx >= 0 && idx != len(rest)-len(delimiter) {
				continue
			}
		}
		matched = append(matched, obj)
	}

	pageSize := f.pageSize
	if pageSize <= 0 {
		pageSize = 1000
	}

	start := 0
	if token != "" {
		for i, obj := range matched {
			if obj.key == token {
				start = i
				break
			}
		}
	}

	end := start + pageSize
	page := storage.Page{}
	if end < len(matched) {
		page.NextToken = matched[end].key
	} else {
		end = len(matched)
	}

	for _, obj := range matched[start:end] {
		page.Objects = append(page.Objects, storage.ObjectInfo{Key: obj.key, Size: obj.size})
	}

	return page, nil
}

func (f *fakeClient) SetPublicRead(ctx context.Context, bucket, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.aclCalls = append(f.aclCalls, key)
	if err, ok := f.aclErrs[key]; ok {
		return err
	}
	return nil
}

func (f *fakeClient) ListBuckets(ctx context.Context) ([]string, error) {
	return f.buckets, nil
}

func (f *fakeClient) mutationCalls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.aclCalls...)
}
