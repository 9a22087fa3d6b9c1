package progress

import (
	"fmt"
	"testing"
	"time"

	"s3public/internal/storage"
	"s3public/internal/update"

	"github.com/stretchr/testify/assert"
)

func TestObserveCounts(t *testing.T) {
	tracker := NewTracker(false)

	outcomes := []update.Outcome{
		{Status: update.StatusSuccess},
		{Status: update.StatusFailed, Kind: storage.KindPermission},
		{Status: update.StatusSkipped, SkipReason: update.SkipReasonDirMarker},
		{Status: update.StatusSuccess},
		{Status: update.StatusFailed, Kind: storage.KindNotFound},
	}

	for i, outcome := range outcomes {
		record := update.ObjectRecord{Key: fmt.Sprintf("k/%d", i)}
		snap := tracker.Observe(record, outcome)

		// The counting invariant holds after every single observation
		assert.Equal(t, snap.Processed, snap.Succeeded+snap.Failed+snap.Skipped)
		assert.Equal(t, int64(i+1), snap.Processed)
		assert.Equal(t, record.Key, snap.CurrentKey)
	}

	final := tracker.Snapshot()
	assert.Equal(t, int64(5), final.Processed)
	assert.Equal(t, int64(2), final.Succeeded)
	assert.Equal(t, int64(2), final.Failed)
	assert.Equal(t, int64(1), final.Skipped)
}

func TestRateDefinedFromFirstObservation(t *testing.T) {
	tracker := NewTracker(false)

	snap := tracker.Observe(update.ObjectRecord{Key: "k"}, update.Outcome{Status: update.StatusSuccess})

	// Elapsed is floored, so the rate is finite even immediately after start
	assert.GreaterOrEqual(t, snap.Elapsed, minElapsed)
	assert.Greater(t, snap.Rate, 0.0)
}

func TestSummaryByKind(t *testing.T) {
	tracker := NewTracker(false)

	for i := 0; i < 3; i++ {
		tracker.Observe(update.ObjectRecord{Key: "p"}, update.Outcome{Status: update.StatusFailed, Kind: storage.KindPermission})
	}
	tracker.Observe(update.ObjectRecord{Key: "t"}, update.Outcome{Status: update.StatusFailed, Kind: storage.KindTransient})
	tracker.Observe(update.ObjectRecord{Key: "s"}, update.Outcome{Status: update.StatusSuccess})

	summary := tracker.Summary(StatusCompletedWithFailures)

	assert.Equal(t, StatusCompletedWithFailures, summary.Status)
	assert.Equal(t, int64(5), summary.Processed)
	assert.Equal(t, int64(3), summary.FailedByKind[storage.KindPermission])
	assert.Equal(t, int64(1), summary.FailedByKind[storage.KindTransient])
	assert.Zero(t, summary.FailedByKind[storage.KindNotFound])
	assert.Greater(t, summary.Duration, time.Duration(0))
}

func TestDisplayLatestWins(t *testing.T) {
	display := NewDisplay(time.Hour)

	// Publishing never blocks on rendering; only the latest snapshot is kept
	for i := 1; i <= 100; i++ {
		display.Publish(Snapshot{Processed: int64(i)})
	}

	display.mu.Lock()
	defer display.mu.Unlock()
	assert.Equal(t, int64(100), display.latest.Processed)
	assert.True(t, display.dirty)
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{5 * time.Second, "5s"},
		{90 * time.Second, "1m30s"},
		{2*time.Hour + 3*time.Minute + 4*time.Second, "2h3m4s"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatDuration(tt.d))
	}
}
