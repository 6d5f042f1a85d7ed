package location

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/paulmach/orb"

	"muteonloc/geo"
)

const ipAPIURL = "http://ip-api.com/json/?fields=status,message,lat,lon"

// IPProvider estimates the position from the public IP address. It needs no
// permission and is only accurate to the city level.
type IPProvider struct {
	URL    string
	Client *http.Client
}

func NewIPProvider() *IPProvider {
	return &IPProvider{
		URL:    ipAPIURL,
		Client: &http.Client{Timeout: 15 * time.Second},
	}
}

type ipAPIResponse struct {
	Status  string  `json:"status"`
	Message string  `json:"message"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

func (p *IPProvider) Authorization() Status                       { return AuthorizedAlways }
func (p *IPProvider) RequestAuthorization(_ context.Context) error { return nil }
func (p *IPProvider) Close() error                                { return nil }

func (p *IPProvider) Locate(ctx context.Context, _ Accuracy) (orb.Point, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.URL, nil)
	if err != nil {
		return orb.Point{}, err
	}
	resp, err := p.Client.Do(req)
	if err != nil {
		return orb.Point{}, fmt.Errorf("ip geolocation: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return orb.Point{}, fmt.Errorf("ip geolocation: %s", resp.Status)
	}
	var r ipAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return orb.Point{}, fmt.Errorf("ip geolocation: decode: %w", err)
	}
	if r.Status != "success" {
		return orb.Point{}, fmt.Errorf("ip geolocation: %s", r.Message)
	}
	pt := geo.Point(r.Lat, r.Lon)
	if !geo.Valid(pt) {
		return orb.Point{}, fmt.Errorf("ip geolocation: invalid coordinate %v,%v", r.Lat, r.Lon)
	}
	return pt, nil
}
