package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/paulmach/orb"

	"muteonloc/geo"
)

const googleURL = "https://maps.googleapis.com/maps/api/geocode/json"

// Google uses the Google Maps Geocoding API.
type Google struct {
	BaseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewGoogle(apiKey string) *Google {
	return &Google{
		BaseURL:    googleURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (g *Google) Name() string { return "google" }

type googleGeocodeResponse struct {
	Results      []googleResult `json:"results"`
	Status       string         `json:"status"`
	ErrorMessage string         `json:"error_message,omitempty"`
}

type googleResult struct {
	FormattedAddress string         `json:"formatted_address"`
	Geometry         googleGeometry `json:"geometry"`
}

type googleGeometry struct {
	Location struct {
		Lat float64 `json:"lat"`
		Lng float64 `json:"lng"`
	} `json:"location"`
}

func (g *Google) Resolve(ctx context.Context, address string) (orb.Point, error) {
	params := url.Values{}
	params.Set("address", address)
	params.Set("key", g.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.BaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return orb.Point{}, fmt.Errorf("google geocode: build request: %w", err)
	}
	resp, err := g.httpClient.Do(req)
	if err != nil {
		return orb.Point{}, fmt.Errorf("google geocode: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return orb.Point{}, fmt.Errorf("google geocode: %s", resp.Status)
	}

	var apiResp googleGeocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return orb.Point{}, fmt.Errorf("google geocode: decode: %w", err)
	}
	switch apiResp.Status {
	case "OK":
	case "ZERO_RESULTS":
		return orb.Point{}, fmt.Errorf("google geocode %q: %w", address, ErrNoResult)
	default:
		return orb.Point{}, fmt.Errorf("google geocode: %s %s", apiResp.Status, apiResp.ErrorMessage)
	}
	if len(apiResp.Results) == 0 {
		return orb.Point{}, fmt.Errorf("google geocode %q: %w", address, ErrNoResult)
	}
	loc := apiResp.Results[0].Geometry.Location
	return geo.Point(loc.Lat, loc.Lng), nil
}
