// Package geo implements the great-circle distance calculator and the
// two-phase proximity filter used by the producers nearby search.
package geo

import (
	"math"
	"sort"
)

const (
	earthRadiusKm = 6371.0

	// One degree of latitude spans roughly 111 km everywhere; one degree of
	// longitude spans 111 km only at the equator.
	kmPerDegree = 111.0
)

type Point struct {
	Lat float64
	Lon float64
}

// Distance returns the Haversine great-circle distance between two points in
// kilometers. Inputs are degrees and are not validated here.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	lat1Rad := degreesToRadians(lat1)
	lat2Rad := degreesToRadians(lat2)
	deltaLat := degreesToRadians(lat2 - lat1)
	deltaLon := degreesToRadians(lon2 - lon1)

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(deltaLon/2)*math.Sin(deltaLon/2)

	return 2 * earthRadiusKm * math.Asin(math.Sqrt(a))
}

// Box is an axis-aligned latitude/longitude rectangle.
type Box struct {
	MinLat float64
	MaxLat float64
	MinLon float64
	MaxLon float64
}

func (b Box) Contains(lat, lon float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat && lon >= b.MinLon && lon <= b.MaxLon
}

// BoundingBox returns a rectangle that fully contains the radius around the
// center point. The longitude delta widens with latitude to compensate for
// meridian convergence; near the poles it is clamped to a full longitude band
// rather than dividing by a vanishing cosine.
func BoundingBox(center Point, radiusKm float64) Box {
	latDelta := radiusKm / kmPerDegree

	cosLat := math.Abs(math.Cos(degreesToRadians(center.Lat)))
	lonDelta := 180.0
	if cosLat > 1e-9 {
		lonDelta = radiusKm / (kmPerDegree * cosLat)
		if lonDelta > 180.0 {
			lonDelta = 180.0
		}
	}

	return Box{
		MinLat: center.Lat - latDelta,
		MaxLat: center.Lat + latDelta,
		MinLon: center.Lon - lonDelta,
		MaxLon: center.Lon + lonDelta,
	}
}

// Located is anything with a geographic position.
type Located interface {
	Position() Point
}

// WithDistance pairs a candidate with its exact distance from the center.
type WithDistance[T Located] struct {
	Item       T
	DistanceKm float64
}

// Nearby narrows candidates to those within radiusKm of center and returns
// them nearest-first. The bounding-box pass is a cheap range check that
// eliminates most candidates before the trigonometry; the exact pass never
// admits a point the box excluded, so the box is a strict superset filter.
// Ties keep their input order.
func Nearby[T Located](center Point, radiusKm float64, candidates []T) []WithDistance[T] {
	box := BoundingBox(center, radiusKm)

	result := make([]WithDistance[T], 0, len(candidates))
	for _, candidate := range candidates {
		pos := candidate.Position()
		if !box.Contains(pos.Lat, pos.Lon) {
			continue
		}
		distance := Distance(center.Lat, center.Lon, pos.Lat, pos.Lon)
		if distance > radiusKm {
			continue
		}
		result = append(result, WithDistance[T]{Item: candidate, DistanceKm: distance})
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].DistanceKm < result[j].DistanceKm
	})

	return result
}

func degreesToRadians(degrees float64) float64 {
	return degrees * math.Pi / 180.0
}
