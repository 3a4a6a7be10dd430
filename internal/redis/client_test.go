package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL not set")
	}
	client, err := NewClient(url)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return client
}

func TestNewClientRejectsBadURL(t *testing.T) {
	_, err := NewClient("not a url")
	assert.Error(t, err)
}

func TestQueueRoundTrip(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()
	key := "test:queue:" + time.Now().Format("150405.000000000")
	t.Cleanup(func() { client.Del(context.Background(), key) })

	require.NoError(t, client.Push(ctx, key, []byte("first")))
	require.NoError(t, client.Push(ctx, key, []byte("second")))

	n, err := client.LLen(ctx, key).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	got, err := client.Pop(ctx, key, time.Second)
	require.NoError(t, err)
	assert.Equal(t, "first", string(got))

	got, err = client.Pop(ctx, key, time.Second)
	require.NoError(t, err)
	assert.Equal(t, "second", string(got))

	_, err = client.Pop(ctx, key, time.Second)
	assert.ErrorIs(t, err, ErrQueueEmpty)
}
