package update

import "s3public/internal/storage"

// Status is the result category of one update attempt
type Status string

const (
	StatusSuccess Status = "success"
	StatusSkipped Status = "skipped"
	StatusFailed  Status = "failed"
)

// Outcome describes what happened to a single object. It is created once per
// record and never mutated afterwards.
type Outcome struct {
	Status     Status
	SkipReason string
	Kind       storage.Kind
	Message    string
}

// ObjectRecord is one enumerated object as handed to the updater
type ObjectRecord struct {
	Key  string
	Size int64
	// IsDirMarker is true for zero-byte keys ending in the path separator,
	// the placeholder objects some consoles create for empty "folders"
	IsDirMarker bool
}

func success() Outcome {
	return Outcome{Status: StatusSuccess}
}

func skipped(reason string) Outcome {
	return Outcome{Status: StatusSkipped, SkipReason: reason}
}

func failed(kind storage.Kind, message string) Outcome {
	return Outcome{Status: StatusFailed, Kind: kind, Message: message}
}
