package service

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"lanpresence/internal/domain"
	"lanpresence/internal/repository"
)

// PresenceService registers devices and answers discovery queries for the
// network a caller is on
type PresenceService struct {
	store    repository.PresenceStore
	eventBus *EventBus
	evictor  *Evictor
	window   atomic.Int64
	now      func() time.Time
	log      zerolog.Logger

	asyncEviction   bool
	evictionTimeout time.Duration
}

// Option configures a PresenceService
type Option func(*PresenceService)

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(s *PresenceService) { s.now = now }
}

// WithFreshnessWindow sets the maximum age of a visible registration
func WithFreshnessWindow(window time.Duration) Option {
	return func(s *PresenceService) { s.window.Store(int64(window)) }
}

// WithEventBus publishes registration and eviction events on bus
func WithEventBus(bus *EventBus) Option {
	return func(s *PresenceService) { s.eventBus = bus }
}

// WithLogger sets the service logger
func WithLogger(log zerolog.Logger) Option {
	return func(s *PresenceService) { s.log = log }
}

// WithEviction configures whether eviction runs detached and its timeout
func WithEviction(async bool, timeout time.Duration) Option {
	return func(s *PresenceService) {
		s.asyncEviction = async
		s.evictionTimeout = timeout
	}
}

// NewPresenceService creates a presence service backed by store
func NewPresenceService(store repository.PresenceStore, opts ...Option) *PresenceService {
	s := &PresenceService{
		store:           store,
		now:             time.Now,
		log:             zerolog.Nop(),
		asyncEviction:   true,
		evictionTimeout: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.window.Load() <= 0 {
		s.window.Store(int64(domain.FreshnessWindow))
	}
	s.evictor = NewEvictor(store, s.eventBus, s.asyncEviction, s.evictionTimeout, s.log)
	return s
}

// Register records that name is reachable at address on networkKey
func (s *PresenceService) Register(ctx context.Context, networkKey, name, address string) error {
	return s.RegisterAt(ctx, networkKey, name, address, s.now())
}

// RegisterAt is Register with an explicit registration time
func (s *PresenceService) RegisterAt(ctx context.Context, networkKey, name, address string, now time.Time) error {
	if domain.HasSeparator(name) {
		// Stored as-is; the name will be read back truncated at the separator
		s.log.Warn().
			Str("network", networkKey).
			Str("name", name).
			Msg("Device name contains the identity separator")
	}

	identity := domain.Identity(name, address)
	if err := s.store.Add(ctx, networkKey, now.UnixMilli(), identity); err != nil {
		return err
	}

	s.log.Debug().
		Str("network", networkKey).
		Str("name", name).
		Str("address", address).
		Msg("Registered device")

	s.eventBus.Publish(Event{
		Type:       EventDeviceRegistered,
		NetworkKey: networkKey,
		Payload: domain.Device{
			Name:     name,
			Address:  address,
			LastSeen: now.UnixMilli(),
		},
	})

	return nil
}

// Discover returns the devices visible on networkKey and schedules removal
// of stale and superseded entries
func (s *PresenceService) Discover(ctx context.Context, networkKey string) ([]domain.Device, error) {
	return s.DiscoverAt(ctx, networkKey, s.now())
}

// DiscoverAt is Discover evaluated at now
func (s *PresenceService) DiscoverAt(ctx context.Context, networkKey string, now time.Time) ([]domain.Device, error) {
	raw, err := s.store.Range(ctx, networkKey)
	if err != nil {
		return nil, err
	}

	result := domain.Reconcile(domain.ParseEntries(raw), now, s.FreshnessWindow())

	if len(result.Stale) > 0 {
		s.log.Debug().
			Str("network", networkKey).
			Int("live", len(result.Live)).
			Int("stale", len(result.Stale)).
			Msg("Reconciled presence")
	}

	s.evictor.Evict(ctx, networkKey, result.Stale)

	return result.Live, nil
}

// FreshnessWindow returns the maximum age of a visible registration
func (s *PresenceService) FreshnessWindow() time.Duration {
	return time.Duration(s.window.Load())
}

// SetFreshnessWindow changes the window for subsequent queries. Non-positive
// values are ignored.
func (s *PresenceService) SetFreshnessWindow(window time.Duration) {
	if window <= 0 {
		return
	}
	s.window.Store(int64(window))
}

// Ping checks the backing store
func (s *PresenceService) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// Close waits for scheduled evictions to finish. It does not close the store.
func (s *PresenceService) Close() {
	s.evictor.Close()
}
