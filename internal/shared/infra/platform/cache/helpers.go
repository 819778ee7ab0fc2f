package cache

import (
	"context"
	"time"

	"go.uber.org/zap"
)

const asyncTimeout = 200 * time.Millisecond

// AsyncCacheSet guarda value en background; un fallo solo se registra.
func AsyncCacheSet(ctx context.Context, cache Cache, key string, value interface{}, ttl int, log *zap.Logger) {
	inBackground(cache, key, "set", log, func(c context.Context) error {
		return cache.Set(c, key, value, ttl)
	})
}

// AsyncCacheDelete invalida key en background.
func AsyncCacheDelete(ctx context.Context, cache Cache, key string, log *zap.Logger) {
	inBackground(cache, key, "delete", log, func(c context.Context) error {
		return cache.Delete(c, key)
	})
}

// inBackground no hereda ctx: la petición HTTP puede haber terminado antes que la escritura.
func inBackground(cache Cache, key, op string, log *zap.Logger, fn func(context.Context) error) {
	if cache == nil {
		return
	}
	go func() {
		c, cancel := context.WithTimeout(context.Background(), asyncTimeout)
		defer cancel()
		if err := fn(c); err != nil {
			log.Warn("Cache write failed", zap.String("op", op), zap.String("key", key), zap.Error(err))
		}
	}()
}
