package worker

import (
	"context"
	"time"

	"s3public/internal/metrics"
	"s3public/internal/progress"
	"s3public/internal/report"
	"s3public/internal/update"

	"go.uber.org/zap"
)

// Processor handles one record end to end: it applies the visibility update,
// feeds the outcome into the tracker, publishes the snapshot, and records
// metrics and the report row.
type Processor struct {
	bucket  string
	updater *update.Updater
	tracker *progress.Tracker
	sink    progress.Sink
	metrics *metrics.Collector
	report  report.Store
	logger  *zap.Logger
}

// Process processes a single object record
func (p *Processor) Process(ctx context.Context, record update.ObjectRecord) {
	start := time.Now()

	outcome := p.updater.Apply(ctx, record)

	snap := p.tracker.Observe(record, outcome)
	p.sink.Publish(snap)

	switch outcome.Status {
	case update.StatusSuccess:
		p.metrics.IncSuccess()
		p.metrics.ObserveDuration(time.Since(start))
	case update.StatusSkipped:
		p.metrics.IncSkipped()
	case update.StatusFailed:
		p.metrics.IncFailed(string(outcome.Kind))
	}

	if err := p.report.SaveOutcome(&report.OutcomeRecord{
		Bucket:  p.bucket,
		Key:     record.Key,
		Size:    record.Size,
		Status:  string(outcome.Status),
		Kind:    string(outcome.Kind),
		Message: outcome.Message,
	}); err != nil {
		p.logger.Error("Failed to save outcome",
			zap.String("key", record.Key),
			zap.Error(err),
		)
	}
}
