package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const DefaultMapQuestURL = "https://www.mapquestapi.com/geocoding/v1/address"

// MapQuestGeocoder consulta el API de direcciones de MapQuest.
type MapQuestGeocoder struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewMapQuestGeocoder(apiKey, baseURL string, timeout time.Duration) *MapQuestGeocoder {
	if baseURL == "" {
		baseURL = DefaultMapQuestURL
	}
	return &MapQuestGeocoder{
		apiKey:  apiKey,
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

type mapQuestResponse struct {
	Info struct {
		StatusCode int      `json:"statuscode"`
		Messages   []string `json:"messages"`
	} `json:"info"`
	Results []struct {
		Locations []struct {
			Street     string `json:"street"`
			AdminArea5 string `json:"adminArea5"` // ciudad
			AdminArea3 string `json:"adminArea3"` // estado
			AdminArea1 string `json:"adminArea1"` // país
			PostalCode string `json:"postalCode"`
			LatLng     struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"latLng"`
		} `json:"locations"`
	} `json:"results"`
}

// Geocode implementa Geocoder.
func (g *MapQuestGeocoder) Geocode(ctx context.Context, place string) ([]Location, error) {
	q := url.Values{}
	q.Set("key", g.apiKey)
	q.Set("location", place)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := g.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("mapquest: unexpected status %d", resp.StatusCode)
	}

	var body mapQuestResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("mapquest: decode response: %w", err)
	}
	if body.Info.StatusCode != 0 {
		return nil, fmt.Errorf("mapquest: status %d: %s", body.Info.StatusCode, strings.Join(body.Info.Messages, "; "))
	}

	var out []Location
	for _, r := range body.Results {
		for _, l := range r.Locations {
			out = append(out, Location{
				Latitude:         l.LatLng.Lat,
				Longitude:        l.LatLng.Lng,
				FormattedAddress: formatAddress(l.Street, l.AdminArea5, l.AdminArea3, l.PostalCode, l.AdminArea1),
				Street:           l.Street,
				City:             l.AdminArea5,
				State:            l.AdminArea3,
				Zipcode:          l.PostalCode,
				Country:          l.AdminArea1,
			})
		}
	}
	return out, nil
}

func formatAddress(parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, ", ")
}
