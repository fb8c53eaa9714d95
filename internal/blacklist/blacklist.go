// Package blacklist records refresh and reset tokens that were rotated or
// explicitly invalidated before their natural expiry. Entries live exactly as
// long as the token they block stays cryptographically valid, so the store
// cleans itself.
package blacklist

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const sentinel = "blacklisted"

type Store struct {
	rdb *redis.Client
}

func New(rdb *redis.Client) *Store {
	return &Store{rdb: rdb}
}

// Add stores the token keyed by its own string. The TTL must be the token's
// remaining validity; an already-expired token needs no entry at all.
func (s *Store) Add(ctx context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return s.rdb.Set(ctx, token, sentinel, ttl).Err()
}

// Contains reports whether the token is blacklisted. A missing key, including
// one that aged out, means "not blacklisted".
func (s *Store) Contains(ctx context.Context, token string) (bool, error) {
	n, err := s.rdb.Exists(ctx, token).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
