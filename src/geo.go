package aloha

import (
	"fmt"
	"math"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
	"github.com/tzneal/coordconv"
)

// PlanarPoint wraps a node's position for the Euclidean channel model in
// section 4.2. It is always in meters on a single, topology-wide plane —
// geodetic input is converted to this plane once, at topology-construction
// time; nothing downstream of Channel ever sees lat/lon again.
func PlanarPoint(x, y float64) r2.Point {
	return r2.Point{X: x, Y: y}
}

// distance is the Euclidean distance spec.md's Channel model operates on.
// golang/geo's r2.Point has no built-in metric (that lives on the sphere
// package, s1/s2, not the plane package), so this is the one place plain
// math is used on top of the library's point type.
func distance(a, b r2.Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// degreesToRadians mirrors the D2R helper in the teacher's
// cmd/samoyed-ll2utm, which this function's caller is grounded on.
func degreesToRadians(d float64) float64 {
	return d * math.Pi / 180
}

// GeodeticToPlanar converts a node specified by (lat, lon) in decimal
// degrees into a PlanarPoint in meters, relative to (originLat, originLon).
// It goes through UTM via coordconv so that every node in a geodetically
// specified topology lands in one consistent planar frame before the
// Euclidean channel model ever sees it; the origin itself maps to (0, 0).
func GeodeticToPlanar(lat, lon, originLat, originLon float64) (r2.Point, error) {
	origin, err := utmOf(originLat, originLon)
	if err != nil {
		return r2.Point{}, fmt.Errorf("aloha: converting topology origin to UTM: %w", err)
	}
	p, err := utmOf(lat, lon)
	if err != nil {
		return r2.Point{}, fmt.Errorf("aloha: converting node position to UTM: %w", err)
	}
	if p.Zone != origin.Zone || p.Hemisphere != origin.Hemisphere {
		return r2.Point{}, fmt.Errorf("aloha: node at (%g, %g) falls in a different UTM zone/hemisphere than the topology origin; specify all node positions in the same zone", lat, lon)
	}
	return r2.Point{
		X: p.Easting - origin.Easting,
		Y: p.Northing - origin.Northing,
	}, nil
}

func utmOf(lat, lon float64) (coordconv.UTMCoord, error) {
	latlng := s2.LatLng{
		Lat: s1.Angle(degreesToRadians(lat)),
		Lng: s1.Angle(degreesToRadians(lon)),
	}
	return coordconv.DefaultUTMConverter.ConvertFromGeodetic(latlng, 0)
}
