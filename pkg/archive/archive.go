// Package archive persists completed voice turns. The rolling in-memory
// history only keeps the last few exchanges; the archive keeps all of
// them for later inspection via the /turns endpoint and the CLI.
package archive

import (
	"context"
	"time"
)

// Record is one completed turn: what the user said and what was spoken back.
type Record struct {
	ID         int64     `json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	UserText   string    `json:"user_text"`
	Reply      string    `json:"reply"`
	DurationMS int64     `json:"duration_ms"`
}

// Store defines the interface for persisting and listing turn records.
type Store interface {
	// Put appends a record, assigning its ID and timestamp if unset.
	Put(ctx context.Context, rec *Record) error

	// List returns all records in insertion order, oldest first.
	List(ctx context.Context) ([]*Record, error)

	// Close releases the store's resources.
	Close() error
}
