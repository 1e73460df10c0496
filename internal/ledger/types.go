package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned by Store.Get when no record exists for a key.
var ErrNotFound = errors.New("ledger record not found")

// Key identifies one completed upload of a report file to a destination.
type Key string

// NewKey builds the composite ledger key filename_size_period, suffixed with
// _destination when the upload targets a named destination.
func NewKey(filename string, size int64, periodKey, destination string) Key {
	k := fmt.Sprintf("%s_%d_%s", filename, size, periodKey)
	if destination != "" {
		k += "_" + destination
	}
	return Key(k)
}

// Record describes a completed upload.
type Record struct {
	// UploadID is a unique identifier for the upload that produced this record.
	UploadID string `json:"upload_id"`

	Filename string `json:"filename"`
	Size     int64  `json:"size"`

	// PeriodKey is the reporting period of the file, e.g. 2025-05-27 or 2025-05.
	PeriodKey string `json:"period_key"`

	// Destination is empty for single-destination cadences.
	Destination string `json:"destination,omitempty"`

	StoragePath string    `json:"storage_path"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

// Store persists upload records so repeated runs skip work that already
// completed.
type Store interface {
	// IsRecorded reports whether an upload with this key exists.
	IsRecorded(ctx context.Context, key Key) (bool, error)

	// Get returns the record stored under key or ErrNotFound.
	Get(ctx context.Context, key Key) (*Record, error)

	// Record inserts or replaces the record under key and persists it before
	// returning.
	Record(ctx context.Context, key Key, rec Record) error
}
