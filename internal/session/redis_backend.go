package session

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	keySession        = "secondbrain:session:%s"
	keySessionChanged = "secondbrain:session:%s:changed"
)

// implements Backend as a Redis hash, so several terminals (or machines)
// can share one login. every write publishes the changed key names.
type RedisBackend struct {
	client  *redis.Client
	key     string
	channel string
	origin  string
	owned   bool
}

// creates a Redis-backed session store for a profile
func NewRedisBackend(client *redis.Client, profile string) *RedisBackend {
	return &RedisBackend{
		client:  client,
		key:     fmt.Sprintf(keySession, profile),
		channel: fmt.Sprintf(keySessionChanged, profile),
		origin:  uuid.NewString(),
	}
}

// creates a Redis-backed session store from a URL
func NewRedisBackendFromURL(redisURL, profile string) (*RedisBackend, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close() //nolint:errcheck
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	b := NewRedisBackend(client, profile)
	b.owned = true

	return b, nil
}

func (b *RedisBackend) Load(ctx context.Context) (map[string]string, error) {
	values, err := b.client.HGetAll(ctx, b.key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	return values, nil
}

// applies sets and deletes in one MULTI/EXEC and announces the keys
func (b *RedisBackend) Store(ctx context.Context, set map[string]string, del []string) error {
	if len(set) == 0 && len(del) == 0 {
		return nil
	}

	_, err := b.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		if len(del) > 0 {
			pipe.HDel(ctx, b.key, del...)
		}

		if len(set) > 0 {
			pipe.HSet(ctx, b.key, set)
		}

		for key := range set {
			pipe.Publish(ctx, b.channel, b.origin+" "+key)
		}

		for _, key := range del {
			if _, alsoSet := set[key]; !alsoSet {
				pipe.Publish(ctx, b.channel, b.origin+" "+key)
			}
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}

	return nil
}

func (b *RedisBackend) Watch(ctx context.Context, onChange func(key string)) error {
	pubsub := b.client.Subscribe(ctx, b.channel)
	defer pubsub.Close() //nolint:errcheck

	// wait for the subscription to be confirmed before reporting anything
	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to session changes: %w", err)
	}

	ch := pubsub.Channel()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case msg, ok := <-ch:
			if !ok {
				return nil
			}

			origin, key, found := strings.Cut(msg.Payload, " ")
			if !found || origin == b.origin {
				continue
			}

			onChange(key)
		}
	}
}

// closes the client if this backend created it
func (b *RedisBackend) Close() error {
	if !b.owned {
		return nil
	}

	return b.client.Close()
}
