// Package geometry holds the small amount of polygon math the zone editor
// needs: label centroids, ring closure and GeoJSON axis ordering.
package geometry

import (
	"github.com/twpayne/go-geom"

	"github.com/mr1hm/go-risk-zones/internal/models"
)

// Centroid returns the arithmetic mean of the vertices. It is not the
// area-weighted centroid; it is only used to place a zone's label.
func Centroid(points []models.Point) (models.Point, bool) {
	if len(points) == 0 {
		return models.Point{}, false
	}

	var lat, lng float64
	for _, p := range points {
		lat += p.Lat
		lng += p.Lng
	}
	n := float64(len(points))
	return models.Point{Lat: lat / n, Lng: lng / n}, true
}

// CloseRing returns a copy of points with the first vertex appended.
// The input is never modified.
func CloseRing(points []models.Point) []models.Point {
	if len(points) == 0 {
		return nil
	}
	ring := make([]models.Point, 0, len(points)+1)
	ring = append(ring, points...)
	return append(ring, points[0])
}

// ToLngLat converts points to GeoJSON axis order ([lng, lat]).
func ToLngLat(points []models.Point) [][]float64 {
	out := make([][]float64, len(points))
	for i, p := range points {
		out[i] = []float64{p.Lng, p.Lat}
	}
	return out
}

// ToCoords converts points to go-geom XY coordinates (X=lng, Y=lat).
func ToCoords(points []models.Point) []geom.Coord {
	out := make([]geom.Coord, len(points))
	for i, p := range points {
		out[i] = geom.Coord{p.Lng, p.Lat}
	}
	return out
}

// Polygon builds a single-ring go-geom polygon from an open vertex list,
// closing the ring on the way.
func Polygon(points []models.Point) (*geom.Polygon, error) {
	return geom.NewPolygon(geom.XY).SetCoords([][]geom.Coord{ToCoords(CloseRing(points))})
}
