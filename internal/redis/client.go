package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrQueueEmpty is returned by Pop when nothing arrived before the timeout.
var ErrQueueEmpty = errors.New("queue empty")

type Client struct {
	*redis.Client
}

func NewClient(redisURL string) (*Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return &Client{client}, nil
}

func (c *Client) Close() error {
	return c.Client.Close()
}

// Push appends a payload to the head of a list; Pop takes from the tail, so
// the list behaves as a FIFO queue.
func (c *Client) Push(ctx context.Context, key string, payload []byte) error {
	if err := c.LPush(ctx, key, payload).Err(); err != nil {
		return fmt.Errorf("push %s: %w", key, err)
	}
	return nil
}

// Pop blocks up to timeout for the oldest payload in the list.
func (c *Client) Pop(ctx context.Context, key string, timeout time.Duration) ([]byte, error) {
	result, err := c.BRPop(ctx, timeout, key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrQueueEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("pop %s: %w", key, err)
	}
	// BRPOP replies with [key, value].
	if len(result) != 2 {
		return nil, fmt.Errorf("pop %s: unexpected reply length %d", key, len(result))
	}
	return []byte(result[1]), nil
}
