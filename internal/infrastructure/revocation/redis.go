// Package revocation guarda los identificadores (jti) de los tokens revocados por logout
// hasta que expiran.
package revocation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/activos-ti-api/internal/application/auth"
	"github.com/jhoicas/activos-ti-api/internal/domain"
)

var _ auth.TokenRevoker = (*RedisRevoker)(nil)

const keyPrefix = "activos-ti:revoked:"

// NewRedisClient crea y valida la conexión a Redis.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis: URL inválida: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis: ping: %w", err)
	}
	return rdb, nil
}

// RedisRevoker revocación compartida entre réplicas: una clave por jti con TTL hasta
// la expiración del token, así Redis limpia solo.
type RedisRevoker struct {
	rdb *redis.Client
	now func() time.Time
}

// NewRedisRevoker construye el revocador sobre un cliente ya conectado.
func NewRedisRevoker(rdb *redis.Client) *RedisRevoker {
	return &RedisRevoker{rdb: rdb, now: time.Now}
}

// Revoke marca el token como revocado hasta until. Un token ya expirado no se guarda.
func (r *RedisRevoker) Revoke(ctx context.Context, tokenID string, until time.Time) error {
	ttl := until.Sub(r.now())
	if ttl <= 0 {
		return nil
	}
	if err := r.rdb.Set(ctx, keyPrefix+tokenID, 1, ttl).Err(); err != nil {
		return fmt.Errorf("%w: redis: %v", domain.ErrStorageUnavailable, err)
	}
	return nil
}

// IsRevoked consulta si el jti está en la lista de revocados.
func (r *RedisRevoker) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	err := r.rdb.Get(ctx, keyPrefix+tokenID).Err()
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, redis.Nil):
		return false, nil
	default:
		return false, fmt.Errorf("%w: redis: %v", domain.ErrStorageUnavailable, err)
	}
}

// Ping para el health check.
func (r *RedisRevoker) Ping(ctx context.Context) error {
	return r.rdb.Ping(ctx).Err()
}
