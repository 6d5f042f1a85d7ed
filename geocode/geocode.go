// Package geocode resolves free-form addresses to coordinates.
package geocode

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/paulmach/orb"
)

var ErrNoResult = errors.New("address not found")

type Geocoder interface {
	Resolve(ctx context.Context, address string) (orb.Point, error)
	Name() string
}

// FromEnv picks the backend: Google when GOOGLE_MAPS_API_KEY is set unless
// MUTEONLOC_GEOCODER=nominatim, otherwise Nominatim.
func FromEnv() Geocoder {
	key := os.Getenv("GOOGLE_MAPS_API_KEY")
	choice := strings.ToLower(os.Getenv("MUTEONLOC_GEOCODER"))
	if key != "" && choice != "nominatim" {
		return NewGoogle(key)
	}
	return NewNominatim()
}
