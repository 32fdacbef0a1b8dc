package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"

	"github.com/stepankuzmin/BarmaidBot/core/catalog"
)

const redisKeyPrefix = "session:"

type redisStore struct {
	client *redis.Client
}

// NewRedisStore constructs a Store backed by Redis string values.
// Values carry the beverage symbol; an empty value is a cleared session.
func NewRedisStore(client *redis.Client) Store {
	return &redisStore{client: client}
}

func (r *redisStore) Get(ctx context.Context, key Key) (Session, bool, error) {
	val, err := r.client.Get(ctx, redisKeyPrefix+key.String()).Result()
	switch {
	case errors.Is(err, redis.Nil):
		return Session{}, false, nil
	case err != nil:
		return Session{}, false, fmt.Errorf("session get %s: %w", key, err)
	}
	if val == "" {
		return Session{}, true, nil
	}
	return Session{Beverage: catalog.Beverage(val)}, true, nil
}

func (r *redisStore) Put(ctx context.Context, key Key, s Session) error {
	if err := r.client.Set(ctx, redisKeyPrefix+key.String(), string(s.Beverage), 0).Err(); err != nil {
		return fmt.Errorf("session put %s: %w", key, err)
	}
	return nil
}
