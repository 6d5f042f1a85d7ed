package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/paulmach/orb"

	"muteonloc/geo"
)

const nominatimURL = "https://nominatim.openstreetmap.org/search"

// Nominatim uses the OpenStreetMap search API. Its usage policy requires an
// identifying User-Agent.
type Nominatim struct {
	BaseURL    string
	UserAgent  string
	httpClient *http.Client
}

func NewNominatim() *Nominatim {
	return &Nominatim{
		BaseURL:    nominatimURL,
		UserAgent:  "muteonloc/1.0",
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (n *Nominatim) Name() string { return "nominatim" }

type nominatimPlace struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

func (n *Nominatim) Resolve(ctx context.Context, address string) (orb.Point, error) {
	params := url.Values{}
	params.Set("q", address)
	params.Set("format", "jsonv2")
	params.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.BaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return orb.Point{}, fmt.Errorf("nominatim: build request: %w", err)
	}
	req.Header.Set("User-Agent", n.UserAgent)

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return orb.Point{}, fmt.Errorf("nominatim: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return orb.Point{}, fmt.Errorf("nominatim: %s", resp.Status)
	}

	var places []nominatimPlace
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		return orb.Point{}, fmt.Errorf("nominatim: decode: %w", err)
	}
	if len(places) == 0 {
		return orb.Point{}, fmt.Errorf("nominatim %q: %w", address, ErrNoResult)
	}

	lat, err := strconv.ParseFloat(places[0].Lat, 64)
	if err != nil {
		return orb.Point{}, fmt.Errorf("nominatim: lat: %w", err)
	}
	lon, err := strconv.ParseFloat(places[0].Lon, 64)
	if err != nil {
		return orb.Point{}, fmt.Errorf("nominatim: lon: %w", err)
	}
	return geo.Point(lat, lon), nil
}
