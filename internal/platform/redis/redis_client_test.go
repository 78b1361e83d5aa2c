package redis

import (
	"context"
	"net"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"auth_backend/internal/platform/config"
)

func TestNewRedisClient(t *testing.T) {
	t.Run("success: reachable server", func(t *testing.T) {
		mr := miniredis.RunT(t)
		host, port, err := net.SplitHostPort(mr.Addr())
		require.NoError(t, err)

		client, err := NewRedisClient(context.Background(), config.RedisConfig{Host: host, Port: port})

		require.NoError(t, err)
		t.Cleanup(func() { _ = client.Close() })
		assert.NoError(t, client.Ping(context.Background()).Err())
	})

	t.Run("failure: not configured", func(t *testing.T) {
		client, err := NewRedisClient(context.Background(), config.RedisConfig{})

		assert.Nil(t, client)
		assert.ErrorIs(t, err, ErrNotConfigured)
	})

	t.Run("failure: unreachable server", func(t *testing.T) {
		mr := miniredis.RunT(t)
		host, port, err := net.SplitHostPort(mr.Addr())
		require.NoError(t, err)
		mr.Close()

		client, err := NewRedisClient(context.Background(), config.RedisConfig{Host: host, Port: port})

		assert.Nil(t, client)
		assert.Error(t, err)
	})
}
