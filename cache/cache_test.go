package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testValkeyClient skips the test when no Valkey server is reachable.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	addr := os.Getenv("PORTFOLIO_TEST_VALKEY_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	client := redis.NewClient(&redis.Options{Addr: addr, DB: 15})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping integration test: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		keys, _ := client.Keys(ctx, pageKeyPrefix+"*").Result()
		if len(keys) > 0 {
			client.Del(ctx, keys...)
		}
		client.Close()
	})
	return client
}

func TestNoop(t *testing.T) {
	var pc PageCache = Noop{}
	ctx := context.Background()

	pc.Set(ctx, "/about", []byte("<html></html>"))
	_, ok := pc.Get(ctx, "/about")
	assert.False(t, ok)
	pc.InvalidateAll(ctx)
}

func TestValkeyCache(t *testing.T) {
	client := testValkeyClient(t)
	pc := NewValkeyCache(client, time.Minute)
	ctx := context.Background()

	_, ok := pc.Get(ctx, "/about")
	require.False(t, ok)

	pc.Set(ctx, "/about", []byte("<h1>About</h1>"))
	pc.Set(ctx, "/projects", []byte("<h1>Projects</h1>"))

	html, ok := pc.Get(ctx, "/about")
	require.True(t, ok)
	assert.Equal(t, "<h1>About</h1>", string(html))

	ttl, err := client.TTL(ctx, pageKeyPrefix+"/about").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	pc.InvalidateAll(ctx)
	_, ok = pc.Get(ctx, "/projects")
	assert.False(t, ok)
}

func TestNewValkeyCacheDefaultTTL(t *testing.T) {
	pc := NewValkeyCache(nil, 0)
	assert.Equal(t, DefaultPageTTL, pc.ttl)
}
