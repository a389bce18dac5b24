//go:build integration

package revocation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"

	"github.com/jhoicas/activos-ti-api/internal/domain"
)

func TestRedisRevoker(t *testing.T) {
	ctx := context.Background()
	rdC, err := tcRedis.RunContainer(ctx, testcontainers.WithImage("redis:7-alpine"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })

	url, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)
	rdb, err := NewRedisClient(ctx, url)
	require.NoError(t, err)

	r := NewRedisRevoker(rdb)
	require.NoError(t, r.Revoke(ctx, "jti-1", time.Now().Add(time.Minute)))

	revoked, err := r.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = r.IsRevoked(ctx, "jti-2")
	require.NoError(t, err)
	assert.False(t, revoked)

	ttl, err := rdb.TTL(ctx, keyPrefix+"jti-1").Result()
	require.NoError(t, err)
	assert.LessOrEqual(t, ttl, time.Minute)

	require.NoError(t, rdb.Close())
	_, err = r.IsRevoked(ctx, "jti-1")
	assert.ErrorIs(t, err, domain.ErrStorageUnavailable)
}
