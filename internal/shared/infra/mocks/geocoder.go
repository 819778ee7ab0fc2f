package mocks

import (
	"context"
	"strings"
	"sync"

	"github.com/davicafu/devcamper/internal/shared/infra/platform/geo"
)

// StaticGeocoder resuelve lugares desde una tabla fija y cuenta las llamadas.
type StaticGeocoder struct {
	Places map[string][]geo.Location
	Err    error

	mu    sync.Mutex
	calls int
}

var _ geo.Geocoder = (*StaticGeocoder)(nil)

func (g *StaticGeocoder) Geocode(ctx context.Context, place string) ([]geo.Location, error) {
	g.mu.Lock()
	g.calls++
	g.mu.Unlock()

	if g.Err != nil {
		return nil, g.Err
	}
	return g.Places[strings.ToLower(strings.TrimSpace(place))], nil
}

func (g *StaticGeocoder) Calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

// Boston02118 es el punto usado en los tests de radio (centro de Boston, MA).
var Boston02118 = geo.Location{
	Latitude:         42.3426,
	Longitude:        -71.0709,
	FormattedAddress: "233 Bay State Rd, Boston, MA 02215, US",
	Street:           "233 Bay State Rd",
	City:             "Boston",
	State:            "MA",
	Zipcode:          "02118",
	Country:          "US",
}
