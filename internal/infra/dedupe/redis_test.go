//go:build e2e

package dedupe

import (
	"context"
	"fmt"
	"testing"
	"time"

	"booking-service/internal/pkg/config"

	"github.com/docker/go-connections/nat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func startRedis(t *testing.T) config.RedisConfig {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForListeningPort(nat.Port("6379/tcp")).WithStartupTimeout(60 * time.Second),
			Labels:       map[string]string{"purpose": "e2e-tests"},
		},
		Started: true,
	})
	require.NoError(t, err, "failed to start redis container")
	t.Cleanup(func() {
		_ = c.Terminate(context.Background())
	})

	host, err := c.Host(ctx)
	require.NoError(t, err)
	port, err := c.MappedPort(ctx, "6379/tcp")
	require.NoError(t, err)

	return config.RedisConfig{
		Addr:      fmt.Sprintf("%s:%s", host, port.Port()),
		DedupeTTL: time.Hour,
	}
}

func TestRedisDeduper(t *testing.T) {
	cfg := startRedis(t)
	client := NewClient(cfg)
	t.Cleanup(func() { _ = client.Close() })

	d := NewRedisDeduper(client, cfg)
	ctx := context.Background()
	key := "8b0f6a1e-9f7e-4f51-9d0c-1b2a3c4d5e6f:CONFIRMED"

	first, err := d.Acquire(ctx, key)
	require.NoError(t, err)
	assert.True(t, first)

	again, err := d.Acquire(ctx, key)
	require.NoError(t, err)
	assert.False(t, again, "second acquire must report a duplicate")

	ttl, err := client.TTL(ctx, keyPrefix+key).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, 59*time.Minute)

	require.NoError(t, d.Release(ctx, key))
	afterRelease, err := d.Acquire(ctx, key)
	require.NoError(t, err)
	assert.True(t, afterRelease)

	other, err := d.Acquire(ctx, "8b0f6a1e-9f7e-4f51-9d0c-1b2a3c4d5e6f:CANCELED")
	require.NoError(t, err)
	assert.True(t, other, "event types are deduplicated separately")
}
