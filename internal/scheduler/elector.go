package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const leaderKey = "leader:scheduler"

var ErrNotLeader = errors.New("another instance holds the scheduler lease")

type leaseClient interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
}

// RedisElector lets a single instance run the scheduled jobs. The leader
// holds a Redis key with a TTL and renews it every time it is asked.
type RedisElector struct {
	client     leaseClient
	instanceID string
	lease      time.Duration
}

func NewRedisElector(client *redis.Client, instanceID string, lease time.Duration) *RedisElector {
	return &RedisElector{client: client, instanceID: instanceID, lease: lease}
}

func (e *RedisElector) IsLeader(ctx context.Context) error {
	acquired, err := e.client.SetNX(ctx, leaderKey, e.instanceID, e.lease).Result()
	if err != nil {
		return fmt.Errorf("failed to acquire leadership: %w", err)
	}
	if acquired {
		return nil
	}

	current, err := e.client.Get(ctx, leaderKey).Result()
	if errors.Is(err, redis.Nil) {
		// Lease expired between the two calls; the next run retries.
		return ErrNotLeader
	}
	if err != nil {
		return fmt.Errorf("failed to read leader: %w", err)
	}
	if current != e.instanceID {
		return ErrNotLeader
	}

	renewed, err := e.client.Expire(ctx, leaderKey, e.lease).Result()
	if err != nil {
		return fmt.Errorf("failed to renew leadership: %w", err)
	}
	if !renewed {
		return ErrNotLeader
	}
	return nil
}
