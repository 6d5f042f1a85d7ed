package zone

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/paulmach/orb"

	"muteonloc/geo"
)

var (
	ErrEmptyAddress      = errors.New("address must not be empty")
	ErrRadiusNotNumber   = errors.New("radius must be a number")
	ErrRadiusNotPositive = errors.New("radius must be a positive number")
)

// DefaultRadius is offered when the user adds a new zone.
const DefaultRadius = 100

// Zone is a circular target region identified by its address.
type Zone struct {
	Address string `json:"address"`
	Radius  int    `json:"radius"` // meters
}

func (z Zone) String() string {
	return fmt.Sprintf("%s (%dm)", z.Address, z.Radius)
}

// New validates user input and builds a Zone. The radius is given as typed
// by the user.
func New(address, radius string) (Zone, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return Zone{}, ErrEmptyAddress
	}
	r, err := ParseRadius(radius)
	if err != nil {
		return Zone{}, err
	}
	return Zone{Address: address, Radius: r}, nil
}

func ParseRadius(s string) (int, error) {
	r, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, ErrRadiusNotNumber
	}
	if r <= 0 {
		return 0, ErrRadiusNotPositive
	}
	return r, nil
}

// Index maps zone addresses to resolved coordinates.
type Index struct {
	coords map[string]orb.Point
}

func NewIndex() *Index {
	return &Index{coords: make(map[string]orb.Point)}
}

func (ix *Index) Get(address string) (orb.Point, bool) {
	p, ok := ix.coords[address]
	return p, ok
}

func (ix *Index) Set(address string, p orb.Point) {
	ix.coords[address] = p
}

func (ix *Index) Remove(address string) {
	delete(ix.coords, address)
}

func (ix *Index) Len() int { return len(ix.coords) }

// Resolved reports whether every zone has a coordinate.
func (ix *Index) Resolved(zones []Zone) bool {
	for _, z := range zones {
		if _, ok := ix.coords[z.Address]; !ok {
			return false
		}
	}
	return true
}

// Result is the outcome of a membership check.
type Result struct {
	Inside   bool
	Zone     *Zone   // first zone containing the position
	Distance float64 // meters to Zone, valid when Inside
	// Missing lists addresses checked before the loop stopped that have no
	// coordinate yet. Callers should request geocoding for them.
	Missing []string
}

// Evaluate reports whether pos lies inside any zone. Zones are checked in
// list order and the check stops at the first match. A point exactly radius
// meters away is inside.
func Evaluate(pos orb.Point, zones []Zone, ix *Index) Result {
	var res Result
	for i := range zones {
		z := zones[i]
		center, ok := ix.Get(z.Address)
		if !ok {
			res.Missing = append(res.Missing, z.Address)
			continue
		}
		d := geo.Distance(pos, center)
		if d <= float64(z.Radius) {
			res.Inside = true
			res.Zone = &z
			res.Distance = d
			return res
		}
	}
	return res
}

// Nearest returns the zone with a known coordinate closest to pos, for
// display. ok is false when no zone is resolved.
func Nearest(pos orb.Point, zones []Zone, ix *Index) (z Zone, dist float64, ok bool) {
	for _, cand := range zones {
		center, found := ix.Get(cand.Address)
		if !found {
			continue
		}
		d := geo.Distance(pos, center)
		if !ok || d < dist {
			z, dist, ok = cand, d, true
		}
	}
	return z, dist, ok
}
