// Package denylist stores logged-out token ids in Redis until they expire.
package denylist

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const keyPrefix = "shopdb:denylist:"

type Redis struct {
	client *redis.Client
}

func New(client *redis.Client) *Redis {
	return &Redis{client: client}
}

// Connect opens a client and verifies the server answers.
func Connect(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}

	return client, nil
}

func (r *Redis) Add(ctx context.Context, tokenID string, ttl time.Duration) error {
	if err := r.client.Set(ctx, keyPrefix+tokenID, 1, ttl).Err(); err != nil {
		return fmt.Errorf("setting denylist key: %w", err)
	}

	return nil
}

func (r *Redis) Contains(ctx context.Context, tokenID string) (bool, error) {
	n, err := r.client.Exists(ctx, keyPrefix+tokenID).Result()
	if err != nil {
		return false, fmt.Errorf("checking denylist key: %w", err)
	}

	return n > 0, nil
}
