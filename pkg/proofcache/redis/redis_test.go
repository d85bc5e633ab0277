package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/clearmatics/lithium/pkg/proofcache"
)

// testRedisAddress returns the Redis address for testing. Uses
// REDIS_TEST_ADDRESS if set, otherwise defaults to localhost:6379.
func testRedisAddress() string {
	if addr := os.Getenv("REDIS_TEST_ADDRESS"); addr != "" {
		return addr
	}
	return "localhost:6379"
}

func requireCache(t *testing.T) *Cache {
	t.Helper()
	c := New(Config{Address: testRedisAddress(), DB: 15, TTL: time.Minute}, zap.NewNop())
	if err := c.client.Ping(context.Background()).Err(); err != nil {
		t.Skipf("redis not available at %s: %v", testRedisAddress(), err)
	}
	return c
}

func TestGetSetRoundTrip(t *testing.T) {
	c := requireCache(t)
	defer c.Close()

	key := proofcache.Key{TxHash: [32]byte{7}, LogIndex: 3}
	_, ok, err := c.Get(context.Background(), key)
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, c.Set(context.Background(), key, []byte("blob")))

	got, ok, err := c.Get(context.Background(), key)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []byte("blob"), got)
}

func TestGetMissingKeyIsNotFoundNotError(t *testing.T) {
	c := requireCache(t)
	defer c.Close()

	_, ok, err := c.Get(context.Background(), proofcache.Key{TxHash: [32]byte{99}, LogIndex: -1})
	require.NoError(t, err)
	require.False(t, ok)
}
