package update

import (
	"context"

	"s3public/internal/storage"

	"go.uber.org/zap"
)

// SkipReasonDirMarker is the skip reason recorded for directory placeholders
const SkipReasonDirMarker = "directory marker"

// Updater applies the public-read policy to enumerated objects. Each object
// is attempted exactly once per run; repeating the whole run is safe because
// setting public-read twice is a no-op on the backend.
type Updater struct {
	client storage.Client
	bucket string
	dryRun bool
	logger *zap.Logger
}

// New creates an updater for the given bucket
func New(client storage.Client, bucket string, dryRun bool, logger *zap.Logger) *Updater {
	return &Updater{
		client: client,
		bucket: bucket,
		dryRun: dryRun,
		logger: logger,
	}
}

// Apply decides and, unless dry-run, applies the public-read policy for one
// record. Directory markers are skipped without a backend call. In dry-run
// mode every remaining record counts as "would succeed" and no ACL call is
// issued.
func (u *Updater) Apply(ctx context.Context, record ObjectRecord) Outcome {
	if record.IsDirMarker {
		u.logger.Debug("Skipping directory marker", zap.String("key", record.Key))
		return skipped(SkipReasonDirMarker)
	}

	if u.dryRun {
		u.logger.Info("Would make object public",
			zap.String("bucket", u.bucket),
			zap.String("key", record.Key),
			zap.Int64("size", record.Size),
		)
		return success()
	}

	if err := u.client.SetPublicRead(ctx, u.bucket, record.Key); err != nil {
		kind := storage.Classify(err)
		u.logger.Warn("Failed to make object public",
			zap.String("key", record.Key),
			zap.String("kind", string(kind)),
			zap.Error(err),
		)
		return failed(kind, err.Error())
	}

	u.logger.Debug("Made object public", zap.String("key", record.Key))
	return success()
}
