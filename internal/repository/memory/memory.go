// Package memory is an in-process repository.PresenceStore for tests and
// single-node runs without Redis.
package memory

import (
	"context"
	"sort"
	"strconv"
	"sync"

	"lanpresence/internal/domain"
	"lanpresence/internal/repository"
)

// Store keeps one member->score map per network key
type Store struct {
	mu     sync.RWMutex
	sets   map[string]map[string]int64
	closed bool
}

var _ repository.PresenceStore = (*Store)(nil)

// New creates an empty store
func New() *Store {
	return &Store{
		sets: make(map[string]map[string]int64),
	}
}

// Add sets member's score under networkKey, creating the set if needed
func (s *Store) Add(_ context.Context, networkKey string, score int64, member string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return repository.Unavailable("add", errClosed)
	}
	set := s.sets[networkKey]
	if set == nil {
		set = make(map[string]int64)
		s.sets[networkKey] = set
	}
	set[member] = score
	return nil
}

// Range returns the members of networkKey by ascending score, ties by member
func (s *Store) Range(_ context.Context, networkKey string) ([]domain.RawEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, repository.Unavailable("range", errClosed)
	}

	set := s.sets[networkKey]
	members := make([]string, 0, len(set))
	for m := range set {
		members = append(members, m)
	}
	sort.Slice(members, func(i, j int) bool {
		a, b := set[members[i]], set[members[j]]
		if a != b {
			return a < b
		}
		return members[i] < members[j]
	})

	entries := make([]domain.RawEntry, 0, len(members))
	for _, m := range members {
		entries = append(entries, domain.RawEntry{
			Member: m,
			Score:  strconv.FormatInt(set[m], 10),
		})
	}
	return entries, nil
}

// Remove deletes members from networkKey and drops the set once it is empty
func (s *Store) Remove(_ context.Context, networkKey string, members ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return repository.Unavailable("remove", errClosed)
	}
	set := s.sets[networkKey]
	if set == nil {
		return nil
	}
	for _, m := range members {
		delete(set, m)
	}
	if len(set) == 0 {
		delete(s.sets, networkKey)
	}
	return nil
}

// Ping fails only after Close
func (s *Store) Ping(_ context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return repository.Unavailable("ping", errClosed)
	}
	return nil
}

// Close marks the store closed; later calls fail with ErrStoreUnavailable
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// Len returns the number of members stored under networkKey
func (s *Store) Len(networkKey string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sets[networkKey])
}
