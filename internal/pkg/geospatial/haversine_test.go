package geospatial

import (
	"math"
	"testing"
)

func TestHaversine_SamePoint(t *testing.T) {
	if d := Haversine(28.156, 112.9765, 28.156, 112.9765); d != 0 {
		t.Errorf("expected 0, got %f", d)
	}
}

func TestHaversine_AlongMeridian(t *testing.T) {
	lat := 28.0668
	for _, meters := range []float64{50, 850, 1500, 5000} {
		d := Haversine(lat, 113.0095, lat+meters/MetersPerDegree, 113.0095)
		if math.Abs(d-meters) > 1e-6*meters {
			t.Errorf("expected %.1fm, got %.6f", meters, d)
		}
	}
}

func TestHaversine_CampusToCampus(t *testing.T) {
	// Jinpenling to Yuntang is roughly 10.5 km.
	d := Haversine(28.1560, 112.9765, 28.0668, 113.0095)
	if d < 10000 || d > 11000 {
		t.Errorf("unexpected campus distance %f", d)
	}
}
