package geo

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	sharedDomain "github.com/davicafu/devcamper/internal/shared/domain"
)

// EarthRadiusMiles es el radio medio terrestre. Las distancias de radio se expresan SIEMPRE en millas.
const EarthRadiusMiles = 3963.0

// LocationField es el campo GeoJSON Point de los documentos sobre el que se filtra.
const LocationField = "location"

var ErrGeocoderUnavailable = errors.New("geocoder not configured")

// Location es un resultado de geocodificación.
type Location struct {
	Latitude         float64 `json:"latitude"`
	Longitude        float64 `json:"longitude"`
	FormattedAddress string  `json:"formattedAddress"`
	Street           string  `json:"street"`
	City             string  `json:"city"`
	State            string  `json:"state"`
	Zipcode          string  `json:"zipcode"`
	Country          string  `json:"country"`
}

// Geocoder resuelve un lugar (código postal, dirección) en coordenadas. Puede devolver cero resultados.
type Geocoder interface {
	Geocode(ctx context.Context, place string) ([]Location, error)
}

// MilesToRadians convierte una distancia lineal en el ángulo central equivalente.
func MilesToRadians(miles float64) float64 {
	return miles / EarthRadiusMiles
}

// BuildRadiusFilter geocodifica place y construye un filtro de contención esférica de
// distanceMiles alrededor del primer resultado. No se combina con el filtro del Translator.
func BuildRadiusFilter(ctx context.Context, place string, distanceMiles float64, geocoder Geocoder) (sharedDomain.Filter, error) {
	place = strings.TrimSpace(place)
	if place == "" {
		return nil, sharedDomain.ValidationError{Fields: map[string]string{"place": "is required"}}
	}
	if math.IsNaN(distanceMiles) || math.IsInf(distanceMiles, 0) || distanceMiles < 0 {
		return nil, sharedDomain.ValidationError{Fields: map[string]string{"distance": "must be a non-negative number of miles"}}
	}
	if geocoder == nil {
		return nil, ErrGeocoderUnavailable
	}

	locations, err := geocoder.Geocode(ctx, place)
	if err != nil {
		return nil, fmt.Errorf("geocode %q: %w", place, err)
	}
	if len(locations) == 0 {
		return nil, sharedDomain.LocationNotFoundError{Place: place}
	}

	loc := locations[0]
	return sharedDomain.Filter{{
		Field: LocationField,
		Op:    sharedDomain.OpWithinSphere,
		Value: sharedDomain.CenterSphere{
			Longitude: loc.Longitude,
			Latitude:  loc.Latitude,
			Radius:    MilesToRadians(distanceMiles),
		},
	}}, nil
}

// CentralAngle devuelve el ángulo (radianes) entre dos puntos usando haversine.
func CentralAngle(lng1, lat1, lng2, lat2 float64) float64 {
	toRad := func(deg float64) float64 { return deg * math.Pi / 180 }
	dLat := toRad(lat2 - lat1)
	dLng := toRad(lng2 - lng1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * math.Asin(math.Min(1, math.Sqrt(a)))
}
