package app

import (
	"context"
	"fmt"
	"strings"

	"s3public/internal/storage"
	"s3public/internal/update"

	"go.uber.org/zap"
)

// delimiter is the key path separator used for non-recursive listing and
// directory marker detection
const delimiter = "/"

// Enumerator produces a lazy stream of object records under a prefix. Pages
// are fetched from the backend one at a time, so the listing and the
// processing interleave and arbitrarily large buckets never accumulate in
// memory.
type Enumerator struct {
	client storage.Client
	logger *zap.Logger
}

// NewEnumerator creates an enumerator over the given storage client
func NewEnumerator(client storage.Client, logger *zap.Logger) *Enumerator {
	return &Enumerator{client: client, logger: logger}
}

// Enumerate lists the bucket under prefix and streams each object as a
// record. In non-recursive mode the backend groups keys by the path
// separator, so only direct children of the prefix are yielded. Directory
// markers are passed through; the updater decides whether to skip them.
//
// If a page fetch fails, one error is sent on the error channel and both
// channels close; records already delivered stand as partial results.
func (e *Enumerator) Enumerate(ctx context.Context, bucket, prefix string, recursive bool) (<-chan update.ObjectRecord, <-chan error) {
	records := make(chan update.ObjectRecord)
	errCh := make(chan error, 1)

	listDelimiter := delimiter
	if recursive {
		listDelimiter = ""
	}

	go func() {
		defer close(records)
		defer close(errCh)

		var token string
		var pages, total int

		for {
			page, err := e.client.ListPage(ctx, bucket, prefix, listDelimiter, token)
			if err != nil {
				errCh <- fmt.Errorf("failed to list page %d: %w", pages+1, err)
				return
			}
			pages++

			for _, obj := range page.Objects {
				record := update.ObjectRecord{
					Key:         obj.Key,
					Size:        obj.Size,
					IsDirMarker: obj.Size == 0 && strings.HasSuffix(obj.Key, delimiter),
				}

				select {
				case records <- record:
					total++
				case <-ctx.Done():
					errCh <- ctx.Err()
					return
				}
			}

			if page.NextToken == "" {
				e.logger.Info("Finished listing objects",
					zap.Int("pages", pages),
					zap.Int("total_objects", total),
				)
				return
			}
			token = page.NextToken
		}
	}()

	return records, errCh
}
