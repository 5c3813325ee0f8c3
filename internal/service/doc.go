// Package service implements the presence logic for lanpresence.
//
// PresenceService sits between the HTTP handlers and a
// repository.PresenceStore. Register appends a "name|address" member scored
// with the current time under the caller's network key. Discover reads the
// whole set for that key, reconciles it with domain.Reconcile and hands the
// evictions to an Evictor before returning the live devices.
//
// # Eviction
//
// Evictor removes stale members in one batched store call. By default it runs
// on a detached goroutine so a slow or failing store never delays or fails a
// discovery response; Close waits for outstanding removals.
//
// # Event System
//
// Registrations and evictions are published on an EventBus, scoped to the
// network key they happened on, for delivery to SSE clients.
package service
