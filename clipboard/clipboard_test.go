package clipboard

import (
	"testing"

	"github.com/paulmach/orb"
)

func TestLocation(t *testing.T) {
	tests := []struct {
		p    orb.Point
		want string
	}{
		{orb.Point{8.5417, 47.3769}, "47.376900, 8.541700"},
		{orb.Point{-74.006, 40.7128}, "40.712800, -74.006000"},
		{orb.Point{0, 0}, "0.000000, 0.000000"},
	}
	for _, tt := range tests {
		if got := Location(tt.p); got != tt.want {
			t.Errorf("Location(%v) = %q, want %q", tt.p, got, tt.want)
		}
	}
}
