// Package journal records which beacons were dispatched, for auditing.
//
// An entry says a URL was handed to the sender and whether the sender
// reported an error. It is not a delivery confirmation.
package journal

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Store persists journal entries.
// Implementations must be safe for concurrent use.
type Store interface {
	// Record appends an entry. Entries with an empty ID get a new one.
	Record(entry Entry) error

	// List returns the entries of a batch in the order they were recorded.
	// Returns an empty slice (not error) for unknown batches.
	List(batchID string) ([]Entry, error)

	// Recent returns up to limit entries, newest first.
	// A limit of zero or less returns every entry.
	Recent(limit int) ([]Entry, error)

	// Close releases any resources (connections, files).
	Close() error
}

// Entry is one dispatched beacon.
type Entry struct {
	ID      string
	BatchID string
	URL     string
	SentAt  time.Time
	// Error is the sender error text, empty on success.
	Error string
}

// Failed reports whether the sender returned an error.
func (e Entry) Failed() bool {
	return e.Error != ""
}

// NewEntry builds an entry for url stamped with the current time.
func NewEntry(batchID, url string, sendErr error) Entry {
	e := Entry{
		ID:      uuid.NewString(),
		BatchID: batchID,
		URL:     url,
		SentAt:  time.Now().UTC(),
	}
	if sendErr != nil {
		e.Error = sendErr.Error()
	}
	return e
}

// Sentinel errors for journal operations.
var (
	// ErrStoreClosed indicates the store has been closed.
	ErrStoreClosed = errors.New("journal store closed")
)
