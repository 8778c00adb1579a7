package door

import (
	"context"
	"errors"

	domain "adventcal/internal/domain/door"
)

// Storage errors
var (
	// ErrStoreUnavailable means the backing medium could not be read or
	// written. Transient: the admin may retry, the store never does.
	ErrStoreUnavailable = errors.New("message store unavailable")
	// ErrStoreCorrupt means the persisted table violates the one-record-
	// per-day invariant. Never auto-repaired; surfaced for manual fixing.
	ErrStoreCorrupt = errors.New("message store corrupt")
	// ErrValidation means an attempted save would violate the table
	// invariant. Nothing is written and the persisted table is untouched.
	ErrValidation = errors.New("table validation failed")
)

// Store persists the full door table. Load and Get always re-read the
// backing medium so readers see the last committed save; Save replaces
// the whole table in one atomic operation.
type Store interface {
	Load(ctx context.Context) ([]domain.Record, error)
	Save(ctx context.Context, records []domain.Record) error
	Get(ctx context.Context, day int) (domain.Record, error)
}
