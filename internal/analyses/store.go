package analyses

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no record exists for the given document id.
var ErrNotFound = errors.New("document not found")

// Store persists analysis records. Implementations must assign a document id
// and stored-at timestamp on write when the record carries none.
type Store interface {
	// Store persists the record and returns its document id.
	Store(ctx context.Context, rec *Record) (string, error)
	// Get retrieves a record by document id.
	Get(ctx context.Context, documentID string) (*Record, error)
	// List returns summaries of all records, newest first.
	List(ctx context.Context) ([]Summary, error)
	// Delete removes a record. It reports whether a record was removed.
	Delete(ctx context.Context, documentID string) (bool, error)
	// Stats reports aggregate storage usage.
	Stats(ctx context.Context) (Stats, error)
}
