package session

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const onlineKey = "sessions:online"

// RedisDirectory keeps the online set in a Redis list so multiple server
// instances share one view. List semantics preserve duplicate logins the same
// way the in-memory directory does.
type RedisDirectory struct {
	client *redis.Client
}

// NewRedisDirectory builds a directory backed by the given client.
func NewRedisDirectory(client *redis.Client) *RedisDirectory {
	return &RedisDirectory{client: client}
}

func (d *RedisDirectory) Add(ctx context.Context, username string) error {
	if err := d.client.RPush(ctx, onlineKey, username).Err(); err != nil {
		return fmt.Errorf("session add: %w", err)
	}
	return nil
}

// Remove drops one occurrence of the username, oldest first.
func (d *RedisDirectory) Remove(ctx context.Context, username string) error {
	if err := d.client.LRem(ctx, onlineKey, 1, username).Err(); err != nil {
		return fmt.Errorf("session remove: %w", err)
	}
	return nil
}

func (d *RedisDirectory) Online(ctx context.Context) ([]string, error) {
	online, err := d.client.LRange(ctx, onlineKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("session list: %w", err)
	}
	return online, nil
}
