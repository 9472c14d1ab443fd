package domain

// GeoPoint represents a geographic coordinate (WGS 84).
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Span is the angular size of a camera viewport in degrees.
type Span struct {
	LatDelta float64 `json:"lat_delta"`
	LonDelta float64 `json:"lon_delta"`
}

// SquareSpan returns a span with equal latitude and longitude deltas.
func SquareSpan(delta float64) Span {
	return Span{LatDelta: delta, LonDelta: delta}
}

// Region is a camera viewport: a center plus a span.
type Region struct {
	Center GeoPoint `json:"center"`
	Span   Span     `json:"span"`
}

// Bounds represents a geographic bounding box.
type Bounds struct {
	MinLat float64 `json:"min_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLat float64 `json:"max_lat"`
	MaxLon float64 `json:"max_lon"`
}

// Bounds returns the box covered by the region.
func (r Region) Bounds() Bounds {
	halfLat := r.Span.LatDelta / 2
	halfLon := r.Span.LonDelta / 2
	return Bounds{
		MinLat: r.Center.Lat - halfLat,
		MinLon: r.Center.Lon - halfLon,
		MaxLat: r.Center.Lat + halfLat,
		MaxLon: r.Center.Lon + halfLon,
	}
}

// Contains reports whether p lies inside the box (edges inclusive).
func (b Bounds) Contains(p GeoPoint) bool {
	return p.Lat >= b.MinLat && p.Lat <= b.MaxLat && p.Lon >= b.MinLon && p.Lon <= b.MaxLon
}
