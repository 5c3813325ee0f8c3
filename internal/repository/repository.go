package repository

import (
	"context"
	"errors"

	"lanpresence/internal/domain"
)

// ErrStoreUnavailable wraps every failure talking to the backing store
var ErrStoreUnavailable = errors.New("presence store unavailable")

// PresenceStore is a sorted-set store keyed by network address. Members are
// identity strings scored with their registration time in epoch milliseconds.
type PresenceStore interface {
	// Add inserts member with score, replacing the score if it already exists
	Add(ctx context.Context, networkKey string, score int64, member string) error

	// Range returns every member of networkKey by ascending score, ties
	// broken by member. A missing key yields an empty slice.
	Range(ctx context.Context, networkKey string) ([]domain.RawEntry, error)

	// Remove deletes members in a single request. Absent members are ignored.
	Remove(ctx context.Context, networkKey string, members ...string) error

	// Ping checks that the store is reachable
	Ping(ctx context.Context) error

	// Close releases resources
	Close() error
}
