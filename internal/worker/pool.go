package worker

import (
	"context"
	"sync"

	"s3public/internal/metrics"
	"s3public/internal/progress"
	"s3public/internal/report"
	"s3public/internal/update"

	"go.uber.org/zap"
)

// Pool manages a bounded set of workers consuming object records. Size 1
// preserves the strictly sequential model; larger sizes cap the number of
// outstanding backend calls.
type Pool struct {
	size    int
	bucket  string
	updater *update.Updater
	tracker *progress.Tracker
	sink    progress.Sink
	metrics *metrics.Collector
	report  report.Store
	logger  *zap.Logger
}

// NewPool creates a new worker pool
func NewPool(
	size int,
	bucket string,
	updater *update.Updater,
	tracker *progress.Tracker,
	sink progress.Sink,
	metricsCollector *metrics.Collector,
	reportStore report.Store,
	logger *zap.Logger,
) *Pool {
	return &Pool{
		size:    size,
		bucket:  bucket,
		updater: updater,
		tracker: tracker,
		sink:    sink,
		metrics: metricsCollector,
		report:  reportStore,
		logger:  logger,
	}
}

// Start starts the worker pool consuming from records
func (p *Pool) Start(ctx context.Context, records <-chan update.ObjectRecord, wg *sync.WaitGroup) {
	for i := 0; i < p.size; i++ {
		wg.Add(1)
		go p.worker(ctx, i, records, wg)
	}
}

func (p *Pool) worker(ctx context.Context, id int, records <-chan update.ObjectRecord, wg *sync.WaitGroup) {
	defer wg.Done()

	logger := p.logger.With(zap.Int("worker_id", id))
	logger.Debug("Worker started")

	processor := &Processor{
		bucket:  p.bucket,
		updater: p.updater,
		tracker: p.tracker,
		sink:    p.sink,
		metrics: p.metrics,
		report:  p.report,
		logger:  logger,
	}

	for {
		select {
		case record, ok := <-records:
			if !ok {
				logger.Debug("Worker finished - no more records")
				return
			}

			processor.Process(ctx, record)

		case <-ctx.Done():
			logger.Debug("Worker stopped - context cancelled")
			return
		}
	}
}
