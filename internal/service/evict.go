package service

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"lanpresence/internal/repository"
)

// Evictor removes stale identities from the store after a query. Failures
// are logged and dropped: the next query evicts whatever is still there.
type Evictor struct {
	store    repository.PresenceStore
	eventBus *EventBus
	async    bool
	timeout  time.Duration
	log      zerolog.Logger

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

// NewEvictor creates an evictor. With async set, Evict returns immediately
// and the removal runs on its own goroutine.
func NewEvictor(store repository.PresenceStore, eventBus *EventBus, async bool, timeout time.Duration, log zerolog.Logger) *Evictor {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Evictor{
		store:    store,
		eventBus: eventBus,
		async:    async,
		timeout:  timeout,
		log:      log,
	}
}

// Evict removes members from networkKey. It never blocks on the store when
// async and never reports an error. Cancelling ctx does not stop a removal
// that has been scheduled. After Close, Evict drops the request; the members
// are still stale on the next query.
func (e *Evictor) Evict(ctx context.Context, networkKey string, members []string) {
	if len(members) == 0 {
		return
	}

	ctx = context.WithoutCancel(ctx)

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		e.log.Debug().Str("network", networkKey).Int("count", len(members)).Msg("Evictor closed, skipping eviction")
		return
	}
	e.wg.Add(1)
	e.mu.Unlock()

	if !e.async {
		defer e.wg.Done()
		e.commit(ctx, networkKey, members)
		return
	}

	go func() {
		defer e.wg.Done()
		e.commit(ctx, networkKey, members)
	}()
}

// Close stops accepting evictions and waits for scheduled ones to finish.
// It is safe to call while queries are still running.
func (e *Evictor) Close() {
	e.mu.Lock()
	e.closed = true
	e.mu.Unlock()
	e.wg.Wait()
}

func (e *Evictor) commit(ctx context.Context, networkKey string, members []string) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	if err := e.store.Remove(ctx, networkKey, members...); err != nil {
		e.log.Warn().
			Err(err).
			Str("network", networkKey).
			Int("count", len(members)).
			Msg("Eviction failed, will retry on next query")
		return
	}

	e.log.Debug().
		Str("network", networkKey).
		Strs("members", members).
		Msg("Evicted stale presence entries")

	e.eventBus.Publish(Event{
		Type:       EventDevicesEvicted,
		NetworkKey: networkKey,
		Payload:    EvictedPayload{Count: len(members)},
	})
}
