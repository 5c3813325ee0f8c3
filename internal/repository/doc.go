// Package repository defines the presence store abstraction for lanpresence.
//
// PresenceStore models the three sorted-set operations the presence service
// needs: add-with-score, range-with-scores and batched remove. Every
// implementation reports backend failures wrapped in ErrStoreUnavailable so
// callers can test for them with errors.Is.
//
// # Implementations
//
// - redis: Redis sorted sets via go-redis (ZADD, ZRANGE WITHSCORES, ZREM in MULTI/EXEC)
// - sqlite: a single table emulating a sorted set, for deployments without Redis
// - memory: a mutex-guarded map, for tests and single-process runs
//
// # Testing
//
// The redis store is tested against miniredis, the sqlite store against
// in-memory databases.
package repository
