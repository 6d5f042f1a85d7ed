package geo

import (
	"math"

	"github.com/paulmach/orb"
)

// EarthRadius is the mean earth radius in meters used by Distance.
// orb.EarthRadius is the equatorial radius and would overstate distances.
const EarthRadius = 6371000.0

// Point builds an orb.Point from latitude and longitude in degrees.
func Point(lat, lon float64) orb.Point {
	return orb.Point{lon, lat}
}

// Distance returns the great-circle distance in meters between a and b
// using the haversine formula.
func Distance(a, b orb.Point) float64 {
	lat1 := deg2rad(a.Lat())
	lat2 := deg2rad(b.Lat())
	dLat := lat2 - lat1
	dLon := deg2rad(b.Lon() - a.Lon())

	sLat := math.Sin(dLat / 2)
	sLon := math.Sin(dLon / 2)
	h := sLat*sLat + math.Cos(lat1)*math.Cos(lat2)*sLon*sLon
	// rounding can push h a hair above 1 for antipodal points
	h = math.Min(h, 1)
	return 2 * math.Asin(math.Sqrt(h)) * EarthRadius
}

// Valid reports whether p is a real coordinate. Distance does not check.
func Valid(p orb.Point) bool {
	return p.Lat() >= -90 && p.Lat() <= 90 && p.Lon() >= -180 && p.Lon() <= 180
}

func deg2rad(d float64) float64 {
	return d * math.Pi / 180
}
