package geo_test

import (
	"context"
	"testing"
	"time"

	"github.com/davicafu/devcamper/internal/shared/infra/mocks"
	"github.com/davicafu/devcamper/internal/shared/infra/platform/geo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCachedGeocoder_CachesHits(t *testing.T) {
	next := &mocks.StaticGeocoder{Places: map[string][]geo.Location{"02118": {mocks.Boston02118}}}
	cache := mocks.NewDummyCache()
	g := geo.NewCachedGeocoder(next, cache, 60, zap.NewNop())
	ctx := context.Background()

	locs, err := g.Geocode(ctx, "02118")
	require.NoError(t, err)
	assert.Equal(t, []geo.Location{mocks.Boston02118}, locs)

	assert.Eventually(t, func() bool { return cache.Has(geo.GeocodeCacheKey("02118")) }, time.Second, 5*time.Millisecond)

	locs, err = g.Geocode(ctx, " 02118 ")
	require.NoError(t, err)
	assert.Equal(t, []geo.Location{mocks.Boston02118}, locs)
	assert.Equal(t, 1, next.Calls(), "el segundo lookup sale de la caché")
}

func TestCachedGeocoder_DoesNotCacheEmptyResults(t *testing.T) {
	next := &mocks.StaticGeocoder{Places: map[string][]geo.Location{}}
	cache := mocks.NewDummyCache()
	g := geo.NewCachedGeocoder(next, cache, 60, zap.NewNop())

	_, _ = g.Geocode(context.Background(), "nowhere")
	_, _ = g.Geocode(context.Background(), "nowhere")

	assert.Equal(t, 2, next.Calls())
	assert.False(t, cache.Has(geo.GeocodeCacheKey("nowhere")))
}
