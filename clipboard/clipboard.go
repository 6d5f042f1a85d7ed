// Package clipboard copies the current position for pasting elsewhere.
package clipboard

import (
	"fmt"

	cb "github.com/atotto/clipboard"
	"github.com/paulmach/orb"
)

func Read() (string, error) {
	return cb.ReadAll()
}

func Copy(text string) error {
	return cb.WriteAll(text)
}

// Location formats p as "lat, lon" with six decimals, the form map apps
// accept in their search box.
func Location(p orb.Point) string {
	return fmt.Sprintf("%.6f, %.6f", p.Lat(), p.Lon())
}

func CopyLocation(p orb.Point) error {
	if cb.Unsupported {
		return fmt.Errorf("no clipboard utility available (install xclip, xsel or wl-clipboard)")
	}
	return Copy(Location(p))
}
