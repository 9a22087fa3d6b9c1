package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"s3public/internal/config"
	"s3public/internal/metrics"
	"s3public/internal/progress"
	"s3public/internal/report"
	"s3public/internal/storage"
	"s3public/internal/update"
	"s3public/internal/worker"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// State is the orchestrator's lifecycle state
type State string

const (
	StateIdle       State = "idle"
	StateListing    State = "listing"
	StateProcessing State = "processing"
	StateFinished   State = "finished"
	StateFailed     State = "failed"
)

// Runner wires the enumerator, the updater pool and the progress tracker for
// one run against one bucket
type Runner struct {
	cfg     *config.Config
	logger  *zap.Logger
	client  storage.Client
	metrics *metrics.Collector
	report  report.Store
	tracker *progress.Tracker
	sink    progress.Sink
	display *progress.Display

	mu    sync.Mutex
	state State
}

// New creates a runner from the configuration
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Runner, error) {
	endpoint := cfg.ResolveEndpoint()

	client, err := storage.NewS3Client(ctx, storage.Config{
		Region:    cfg.Region,
		Endpoint:  endpoint,
		AccessKey: cfg.AccessKey,
		SecretKey: cfg.SecretKey,
		// Self-hosted gateways need path-style bucket addressing
		PathStyle: cfg.Service == "minio" || cfg.Service == "custom",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	return NewWithClient(cfg, client, logger)
}

// NewWithClient creates a runner on an existing storage client
func NewWithClient(cfg *config.Config, client storage.Client, logger *zap.Logger) (*Runner, error) {
	var reportStore report.Store = report.Noop{}
	if cfg.ReportDB != "" {
		store, err := report.NewSQLiteStore(cfg.ReportDB)
		if err != nil {
			return nil, fmt.Errorf("failed to open report store: %w", err)
		}
		reportStore = store
	}

	tracker := progress.NewTracker(cfg.DryRun)

	var sink progress.Sink = progress.NopSink{}
	var display *progress.Display
	if cfg.ShowProgress && progress.IsTerminalSupported() {
		display = progress.NewDisplay(time.Second)
		sink = display
	}

	return &Runner{
		cfg:     cfg,
		logger:  logger,
		client:  client,
		metrics: metrics.New(prometheus.NewRegistry()),
		report:  reportStore,
		tracker: tracker,
		sink:    sink,
		display: display,
		state:   StateIdle,
	}, nil
}

// State returns the current lifecycle state
func (r *Runner) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

func (r *Runner) setState(s State) {
	r.mu.Lock()
	if r.state != s {
		r.state = s
		r.logger.Debug("State transition", zap.String("state", string(s)))
	}
	r.mu.Unlock()
}

// ListBuckets returns the names of all buckets visible to the credentials
func (r *Runner) ListBuckets(ctx context.Context) ([]string, error) {
	return r.client.ListBuckets(ctx)
}

// Run enumerates the bucket and makes every listed object public, streaming
// records to the worker pool as pages arrive. A per-object failure never
// aborts the run; only a listing failure does, and even then the counts
// accumulated so far are reported. The returned error is non-nil only for a
// listing-level failure.
func (r *Runner) Run(ctx context.Context) (progress.Summary, error) {
	r.logger.Info("Starting run",
		zap.String("service", r.cfg.Service),
		zap.String("bucket", r.cfg.Bucket),
		zap.String("prefix", r.cfg.Prefix),
		zap.Bool("recursive", r.cfg.Recursive),
		zap.Bool("dry_run", r.cfg.DryRun),
		zap.Int("concurrency", r.cfg.Concurrency),
	)

	if r.cfg.MetricsAddr != "" {
		go func() {
			if err := r.metrics.StartServer(r.cfg.MetricsAddr); err != nil {
				r.logger.Error("Metrics server stopped", zap.Error(err))
			}
		}()
	}

	if r.display != nil {
		r.display.Start()
	}

	updater := update.New(r.client, r.cfg.Bucket, r.cfg.DryRun, r.logger)
	pool := worker.NewPool(r.cfg.Concurrency, r.cfg.Bucket, updater, r.tracker, r.sink, r.metrics, r.report, r.logger)

	tasks := make(chan update.ObjectRecord, r.cfg.Concurrency*2)
	var wg sync.WaitGroup
	pool.Start(ctx, tasks, &wg)

	r.setState(StateListing)
	enumerator := NewEnumerator(r.client, r.logger)
	records, errCh := enumerator.Enumerate(ctx, r.cfg.Bucket, r.cfg.Prefix, r.cfg.Recursive)

	listErr := r.forward(ctx, records, errCh, tasks)

	close(tasks)
	wg.Wait()

	if r.display != nil {
		r.display.Stop()
	}

	summary := r.tracker.Summary(r.runStatus(ctx, listErr))
	if summary.Status == progress.StatusFailed {
		r.setState(StateFailed)
		r.logSummary(summary)
		return summary, listErr
	}

	r.setState(StateFinished)
	r.logSummary(summary)
	return summary, nil
}

// forward streams records into the task channel until the listing is
// exhausted, fails, or the run is cancelled. The returned error is the
// listing failure, if any.
func (r *Runner) forward(ctx context.Context, records <-chan update.ObjectRecord, errCh <-chan error, tasks chan<- update.ObjectRecord) error {
	var listErr error

	for records != nil || errCh != nil {
		select {
		case record, ok := <-records:
			if !ok {
				records = nil
				continue
			}

			r.setState(StateProcessing)
			select {
			case tasks <- record:
			case <-ctx.Done():
				return listErr
			}

		case err, ok := <-errCh:
			if !ok {
				errCh = nil
				continue
			}
			if err != nil && listErr == nil {
				listErr = err
			}

		case <-ctx.Done():
			return listErr
		}
	}

	return listErr
}

func (r *Runner) runStatus(ctx context.Context, listErr error) progress.RunStatus {
	canceled := ctx.Err() != nil ||
		errors.Is(listErr, context.Canceled) ||
		errors.Is(listErr, context.DeadlineExceeded)

	switch {
	case canceled:
		return progress.StatusCanceled
	case listErr != nil:
		return progress.StatusFailed
	case r.tracker.Snapshot().Failed > 0:
		return progress.StatusCompletedWithFailures
	default:
		return progress.StatusCompleted
	}
}

func (r *Runner) logSummary(s progress.Summary) {
	fields := []zap.Field{
		zap.String("status", string(s.Status)),
		zap.Int64("processed", s.Processed),
		zap.Int64("succeeded", s.Succeeded),
		zap.Int64("failed", s.Failed),
		zap.Int64("skipped", s.Skipped),
		zap.Duration("duration", s.Duration),
	}
	for kind, n := range s.FailedByKind {
		fields = append(fields, zap.Int64("failed_"+string(kind), n))
	}
	r.logger.Info("Run finished", fields...)
}

// Close cleans up resources
func (r *Runner) Close() error {
	return r.report.Close()
}
