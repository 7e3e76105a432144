package session

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "arcade:session:"

// RedisStore is a Redis-backed Store. Records are stored as JSON values
// with a TTL, so abandoned sessions age out without explicit deletion.
// Put uses WATCH so a concurrent writer surfaces as a version conflict
// instead of a silent overwrite.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a Redis-backed session store. A non-positive
// ttl defaults to 24 hours.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisStore{client: client, ttl: ttl}
}

func redisKey(id string) string { return redisKeyPrefix + id }

// Get implements Store.
func (r *RedisStore) Get(ctx context.Context, id string) (*Session, error) {
	val, err := r.client.Get(ctx, redisKey(id)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, StoreError("get", err)
	}

	var s Session
	if err := json.Unmarshal([]byte(val), &s); err != nil {
		return nil, StoreError("decode", err)
	}
	return &s, nil
}

// Put implements Store.
func (r *RedisStore) Put(ctx context.Context, s *Session) error {
	key := redisKey(s.ID)

	err := r.client.Watch(ctx, func(tx *redis.Tx) error {
		val, err := tx.Get(ctx, key).Result()
		if err != nil && err != redis.Nil {
			return err
		}

		if err != redis.Nil {
			var stored Session
			if err := json.Unmarshal([]byte(val), &stored); err != nil {
				return err
			}
			if stored.Version != s.Version {
				return NewError(KindConflict,
					"session %q version %d does not match stored version %d",
					s.ID, s.Version, stored.Version)
			}
		}

		s.Version++
		payload, err := json.Marshal(s)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, payload, r.ttl)
			return nil
		})
		return err
	}, key)

	if err == redis.TxFailedErr {
		return NewError(KindConflict, "session %q modified concurrently", s.ID)
	}
	if err != nil && KindOf(err) != KindConflict {
		return StoreError("put", err)
	}
	return err
}

// Close implements Store.
func (r *RedisStore) Close() error {
	return r.client.Close()
}
