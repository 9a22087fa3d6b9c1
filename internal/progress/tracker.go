package progress

import (
	"sync"
	"time"

	"s3public/internal/storage"
	"s3public/internal/update"
)

// Snapshot is the tracker state after one observed record. It is a value:
// sinks may hold it without synchronization.
type Snapshot struct {
	CurrentKey string
	Processed  int64
	Succeeded  int64
	Failed     int64
	Skipped    int64
	Elapsed    time.Duration
	// Rate is processed objects per second
	Rate float64
}

// RunStatus distinguishes how a run ended
type RunStatus string

const (
	// StatusCompleted means every enumerated object was processed and all succeeded
	StatusCompleted RunStatus = "completed"
	// StatusCompletedWithFailures means every object was processed but some failed
	StatusCompletedWithFailures RunStatus = "completed_with_failures"
	// StatusCanceled means the run was aborted by signal between objects
	StatusCanceled RunStatus = "canceled"
	// StatusFailed means enumeration itself broke off; counts are partial
	StatusFailed RunStatus = "failed"
)

// Summary is the final report of a run
type Summary struct {
	Status       RunStatus
	Processed    int64
	Succeeded    int64
	Failed       int64
	Skipped      int64
	FailedByKind map[storage.Kind]int64
	Duration     time.Duration
	DryRun       bool
}

// elapsed time floor, so the rate is defined from the first observation on
const minElapsed = time.Millisecond

// Tracker accumulates per-run counters and emits a snapshot after every
// observed record. Counters only increase; after every observation
// Processed == Succeeded + Failed + Skipped holds.
type Tracker struct {
	mu           sync.Mutex
	start        time.Time
	processed    int64
	succeeded    int64
	failed       int64
	skipped      int64
	failedByKind map[storage.Kind]int64
	dryRun       bool
}

// NewTracker creates a tracker; the clock starts immediately
func NewTracker(dryRun bool) *Tracker {
	return &Tracker{
		start:        time.Now(),
		failedByKind: make(map[storage.Kind]int64),
		dryRun:       dryRun,
	}
}

// Observe records one outcome and returns the resulting snapshot
func (t *Tracker) Observe(record update.ObjectRecord, outcome update.Outcome) Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.processed++
	switch outcome.Status {
	case update.StatusSuccess:
		t.succeeded++
	case update.StatusSkipped:
		t.skipped++
	case update.StatusFailed:
		t.failed++
		t.failedByKind[outcome.Kind]++
	}

	return t.snapshotLocked(record.Key)
}

func (t *Tracker) snapshotLocked(currentKey string) Snapshot {
	elapsed := time.Since(t.start)
	if elapsed < minElapsed {
		elapsed = minElapsed
	}

	return Snapshot{
		CurrentKey: currentKey,
		Processed:  t.processed,
		Succeeded:  t.succeeded,
		Failed:     t.failed,
		Skipped:    t.skipped,
		Elapsed:    elapsed,
		Rate:       float64(t.processed) / elapsed.Seconds(),
	}
}

// Snapshot returns the current state without observing anything
func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshotLocked("")
}

// Summary produces the final report with the given run status
func (t *Tracker) Summary(status RunStatus) Summary {
	t.mu.Lock()
	defer t.mu.Unlock()

	byKind := make(map[storage.Kind]int64, len(t.failedByKind))
	for kind, n := range t.failedByKind {
		byKind[kind] = n
	}

	return Summary{
		Status:       status,
		Processed:    t.processed,
		Succeeded:    t.succeeded,
		Failed:       t.failed,
		Skipped:      t.skipped,
		FailedByKind: byKind,
		Duration:     time.Since(t.start),
		DryRun:       t.dryRun,
	}
}
