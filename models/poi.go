package models

import "math"

// POI represents a point of interest rendered on the map.
// Coords holds [latitude, longitude]; entries arriving from the data source
// may carry malformed coords and must be filtered before use.
type POI struct {
	ID          string    `json:"id"`
	Coords      []float64 `json:"coords"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Image       string    `json:"image,omitempty"`
}

// LatLon returns the POI coordinates and whether they are usable.
// Coords are valid when they hold exactly two finite values within the
// WGS84 range.
func (p *POI) LatLon() (lat, lon float64, ok bool) {
	if len(p.Coords) != 2 {
		return 0, 0, false
	}
	lat, lon = p.Coords[0], p.Coords[1]
	if !ValidLatLon(lat, lon) {
		return 0, 0, false
	}
	return lat, lon, true
}

// ValidLatLon reports whether lat/lon form a usable geographic coordinate.
func ValidLatLon(lat, lon float64) bool {
	if math.IsNaN(lat) || math.IsInf(lat, 0) || math.IsNaN(lon) || math.IsInf(lon, 0) {
		return false
	}
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

// Bounds is a geographic bounding box over a set of coordinates.
// Used as fitBounds input by map clients.
type Bounds struct {
	MinLat float64 `json:"min_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLat float64 `json:"max_lat"`
	MaxLon float64 `json:"max_lon"`
}

// NewBounds returns a bounding box containing a single point.
func NewBounds(lat, lon float64) Bounds {
	return Bounds{MinLat: lat, MinLon: lon, MaxLat: lat, MaxLon: lon}
}

// Extend grows the bounding box to include the given point.
func (b *Bounds) Extend(lat, lon float64) {
	if lat < b.MinLat {
		b.MinLat = lat
	}
	if lat > b.MaxLat {
		b.MaxLat = lat
	}
	if lon < b.MinLon {
		b.MinLon = lon
	}
	if lon > b.MaxLon {
		b.MaxLon = lon
	}
}

// Center returns the midpoint of the bounding box.
func (b Bounds) Center() (lat, lon float64) {
	return (b.MinLat + b.MaxLat) / 2, (b.MinLon + b.MaxLon) / 2
}
