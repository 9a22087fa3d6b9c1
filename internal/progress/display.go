package progress

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"s3public/internal/storage"
)

// Sink receives snapshots from the run. Implementations must not block the
// caller; slow renderers drop intermediate snapshots and show only the most
// recent one per tick.
type Sink interface {
	Publish(snap Snapshot)
}

// NopSink discards every snapshot
type NopSink struct{}

func (NopSink) Publish(Snapshot) {}

// Display renders progress to the terminal on a fixed tick. Publishing only
// swaps the latest snapshot under a mutex, so the processing loop never waits
// on terminal I/O.
type Display struct {
	interval time.Duration

	mu     sync.Mutex
	latest Snapshot
	dirty  bool

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewDisplay creates a display updating at the given interval
func NewDisplay(interval time.Duration) *Display {
	return &Display{
		interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Publish stores the snapshot for the next render tick
func (d *Display) Publish(snap Snapshot) {
	d.mu.Lock()
	d.latest = snap
	d.dirty = true
	d.mu.Unlock()
}

// Start starts the render loop
func (d *Display) Start() {
	go d.renderLoop()
}

// Stop stops the render loop and waits for the final line to be written
func (d *Display) Stop() {
	close(d.stopCh)
	<-d.doneCh
}

func (d *Display) renderLoop() {
	defer close(d.doneCh)

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			d.render(false)
		case <-d.stopCh:
			d.render(true)
			return
		}
	}
}

func (d *Display) render(final bool) {
	d.mu.Lock()
	snap := d.latest
	dirty := d.dirty
	d.dirty = false
	d.mu.Unlock()

	if !dirty && !final {
		return
	}

	key := snap.CurrentKey
	if len(key) > 48 {
		key = "..." + key[len(key)-45:]
	}

	line := fmt.Sprintf("\r%d processed (%d ok, %d failed, %d skipped) | %.1f obj/s | %s | %s",
		snap.Processed, snap.Succeeded, snap.Failed, snap.Skipped,
		snap.Rate, FormatDuration(snap.Elapsed), key)

	// Pad so a shorter line fully overwrites the previous one
	fmt.Fprintf(os.Stdout, "%-110s", line)
	if final {
		fmt.Fprintln(os.Stdout)
	}
}

// PrintSummary writes the final run report to stdout
func PrintSummary(s Summary) {
	var b strings.Builder

	b.WriteString("\n")
	switch s.Status {
	case StatusCompleted:
		if s.DryRun {
			b.WriteString("Dry run completed - no changes were made\n")
		} else {
			b.WriteString("Run completed\n")
		}
	case StatusCompletedWithFailures:
		b.WriteString("Run completed with failures\n")
	case StatusCanceled:
		b.WriteString("Run canceled - partial results\n")
	case StatusFailed:
		b.WriteString("Run failed during listing - partial results\n")
	}
	b.WriteString(strings.Repeat("=", 50) + "\n")

	fmt.Fprintf(&b, "  processed: %d\n", s.Processed)
	fmt.Fprintf(&b, "  succeeded: %d\n", s.Succeeded)
	fmt.Fprintf(&b, "  failed:    %d\n", s.Failed)
	for _, kind := range []storage.Kind{storage.KindPermission, storage.KindNotFound, storage.KindTransient} {
		if n := s.FailedByKind[kind]; n > 0 {
			fmt.Fprintf(&b, "    %-11s %d\n", string(kind)+":", n)
		}
	}
	fmt.Fprintf(&b, "  skipped:   %d\n", s.Skipped)
	fmt.Fprintf(&b, "  duration:  %s\n", FormatDuration(s.Duration))

	fmt.Print(b.String())
}

// IsTerminalSupported reports whether stdout is a terminal that can render
// the live progress line
func IsTerminalSupported() bool {
	fileInfo, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}
