package report

import (
	"time"
)

// OutcomeRecord is one object's outcome as persisted for post-run auditing.
// Re-running the tool upserts by (bucket, key), so the journal always holds
// the latest outcome per object.
type OutcomeRecord struct {
	Bucket    string    `json:"bucket"`
	Key       string    `json:"key"`
	Size      int64     `json:"size"`
	Status    string    `json:"status"`
	Kind      string    `json:"kind,omitempty"`
	Message   string    `json:"message,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Store defines the interface for outcome persistence
type Store interface {
	SaveOutcome(record *OutcomeRecord) error
	ListFailed() ([]*OutcomeRecord, error)
	Close() error
}

// Noop is the store used when no report database is configured
type Noop struct{}

func (Noop) SaveOutcome(*OutcomeRecord) error      { return nil }
func (Noop) ListFailed() ([]*OutcomeRecord, error) { return nil, nil }
func (Noop) Close() error                          { return nil }
