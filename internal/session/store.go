package session

import "context"

// Store is the engine's only persistence boundary: keyed fetch plus
// full-record replace. Listing and aggregation live elsewhere.
type Store interface {
	// Get retrieves a session by id. Returns (nil, nil) when the
	// session does not exist; the caller decides whether that is an
	// error.
	Get(ctx context.Context, id string) (*Session, error)

	// Put persists the full session record. On an existing id the
	// stored version must match s.Version or a KindConflict error is
	// returned; on success the stored version (and s.Version) is
	// incremented. New records are written with version 1.
	Put(ctx context.Context, s *Session) error

	// Close releases driver resources.
	Close() error
}
