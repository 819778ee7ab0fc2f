package geo

import (
	"context"
	"strings"

	sharedCache "github.com/davicafu/devcamper/internal/shared/infra/platform/cache"
	"go.uber.org/zap"
)

// CachedGeocoder evita repetir llamadas externas para el mismo lugar.
type CachedGeocoder struct {
	next    Geocoder
	cache   sharedCache.Cache
	ttlSecs int
	log     *zap.Logger
}

func NewCachedGeocoder(next Geocoder, cache sharedCache.Cache, ttlSecs int, log *zap.Logger) *CachedGeocoder {
	return &CachedGeocoder{next: next, cache: cache, ttlSecs: ttlSecs, log: log}
}

func GeocodeCacheKey(place string) string {
	return "geocode:" + strings.ToLower(strings.TrimSpace(place))
}

// Geocode implementa Geocoder. Los resultados vacíos no se cachean.
func (g *CachedGeocoder) Geocode(ctx context.Context, place string) ([]Location, error) {
	key := GeocodeCacheKey(place)
	if g.cache != nil {
		var cached []Location
		if hit, err := g.cache.Get(ctx, key, &cached); err != nil {
			g.log.Warn("Geocode cache read failed", zap.String("key", key), zap.Error(err))
		} else if hit {
			return cached, nil
		}
	}

	locations, err := g.next.Geocode(ctx, place)
	if err != nil {
		return nil, err
	}
	if len(locations) > 0 {
		sharedCache.AsyncCacheSet(ctx, g.cache, key, locations, g.ttlSecs, g.log)
	}
	return locations, nil
}
