// Package testredis runs a Redis testcontainer shared by the tests of one package.
package testredis

import (
	"context"
	"sync"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

var (
	sharedContainer *RedisContainer
	sharedOnce      sync.Once
)

type RedisContainer struct {
	Container *tcredis.RedisContainer
	Client    *redis.Client
}

func SetupSharedRedis(t *testing.T) *RedisContainer {
	t.Helper()

	sharedOnce.Do(func() {
		ctx := context.Background()
		container, err := tcredis.Run(ctx, "redis:7-alpine")
		require.NoError(t, err)

		uri, err := container.ConnectionString(ctx)
		require.NoError(t, err)

		opts, err := redis.ParseURL(uri)
		require.NoError(t, err)

		client := redis.NewClient(opts)
		require.NoError(t, client.Ping(ctx).Err())

		sharedContainer = &RedisContainer{Container: container, Client: client}
	})

	require.NotNil(t, sharedContainer, "redis container failed to start")
	return sharedContainer
}

// Flush empties the current database between subtests.
func (rc *RedisContainer) Flush(t *testing.T) {
	t.Helper()
	require.NoError(t, rc.Client.FlushDB(context.Background()).Err())
}
