// Package redis implements repository.PresenceStore on Redis sorted sets.
package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"lanpresence/internal/domain"
	"lanpresence/internal/repository"
)

// Options configures the Redis connection
type Options struct {
	Addr         string
	Password     string
	DB           int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Store implements repository.PresenceStore using one sorted set per network
type Store struct {
	client goredis.UniversalClient
}

var _ repository.PresenceStore = (*Store)(nil)

// New connects to Redis. The connection is lazy; call Ping to verify it.
func New(opts Options) *Store {
	return NewWithClient(goredis.NewClient(&goredis.Options{
		Addr:         opts.Addr,
		Password:     opts.Password,
		DB:           opts.DB,
		DialTimeout:  opts.DialTimeout,
		ReadTimeout:  opts.ReadTimeout,
		WriteTimeout: opts.WriteTimeout,
	}))
}

// NewWithClient wraps an existing client
func NewWithClient(client goredis.UniversalClient) *Store {
	return &Store{client: client}
}

// Add records member under networkKey with score (ZADD)
func (s *Store) Add(ctx context.Context, networkKey string, score int64, member string) error {
	err := s.client.ZAdd(ctx, networkKey, goredis.Z{
		Score:  float64(score),
		Member: member,
	}).Err()
	return repository.Unavailable("zadd", err)
}

// Range returns all members with scores (ZRANGE key 0 -1 WITHSCORES)
func (s *Store) Range(ctx context.Context, networkKey string) ([]domain.RawEntry, error) {
	zs, err := s.client.ZRangeWithScores(ctx, networkKey, 0, -1).Result()
	if err != nil {
		return nil, repository.Unavailable("zrange", err)
	}

	entries := make([]domain.RawEntry, 0, len(zs))
	for _, z := range zs {
		entries = append(entries, domain.RawEntry{
			Member: memberString(z.Member),
			Score:  strconv.FormatFloat(z.Score, 'f', -1, 64),
		})
	}
	return entries, nil
}

// Remove deletes members in one MULTI/EXEC transaction
func (s *Store) Remove(ctx context.Context, networkKey string, members ...string) error {
	if len(members) == 0 {
		return nil
	}

	args := make([]interface{}, len(members))
	for i, m := range members {
		args[i] = m
	}

	_, err := s.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.ZRem(ctx, networkKey, args...)
		return nil
	})
	return repository.Unavailable("zrem", err)
}

// Ping checks connectivity
func (s *Store) Ping(ctx context.Context) error {
	return repository.Unavailable("ping", s.client.Ping(ctx).Err())
}

// Close closes the client
func (s *Store) Close() error {
	return s.client.Close()
}

func memberString(m interface{}) string {
	switch v := m.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return fmt.Sprint(v)
	}
}
