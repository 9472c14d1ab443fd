package domain_test

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ccsustmap/campusmap/internal/core/domain"
)

func TestParseCampus(t *testing.T) {
	for _, c := range domain.Campuses() {
		got, err := domain.ParseCampus(string(c))
		if err != nil || got != c {
			t.Errorf("ParseCampus(%q) = %q, %v", c, got, err)
		}
	}

	for _, s := range []string{"", "Jinpenling", "mars"} {
		if _, err := domain.ParseCampus(s); !errors.Is(err, domain.ErrUnknownCampus) {
			t.Errorf("ParseCampus(%q): expected ErrUnknownCampus, got %v", s, err)
		}
	}
}

func TestCampusInfo(t *testing.T) {
	info := domain.CampusYuntang.Info()
	if info.ID != domain.CampusYuntang || info.Name != "云塘校区" {
		t.Errorf("unexpected info %+v", info)
	}
	if info.Region.Center != domain.CampusYuntang.Center() {
		t.Errorf("region not centered on campus: %+v", info.Region.Center)
	}
	if info.Region.Span.LatDelta != domain.CampusSpanDegrees || info.Region.Span.LonDelta != domain.CampusSpanDegrees {
		t.Errorf("unexpected span %+v", info.Region.Span)
	}
}

func TestParseCategory(t *testing.T) {
	cats := domain.Categories()
	if cats[0] != domain.CategoryAll {
		t.Fatalf("expected sentinel first, got %s", cats[0])
	}
	for _, c := range cats {
		if got, err := domain.ParseCategory(string(c)); err != nil || got != c {
			t.Errorf("ParseCategory(%q) = %q, %v", c, got, err)
		}
	}
	if _, err := domain.ParseCategory("pubs"); !errors.Is(err, domain.ErrUnknownCategory) {
		t.Errorf("expected ErrUnknownCategory, got %v", err)
	}
}

func TestCategoryMatches(t *testing.T) {
	tests := []struct {
		filter, place domain.Category
		want          bool
	}{
		{domain.CategoryAll, domain.CategoryDining, true},
		{domain.CategoryAll, domain.CategoryGate, true},
		{domain.CategoryDining, domain.CategoryDining, true},
		{domain.CategoryDining, domain.CategoryLibrary, false},
		{domain.CategoryGate, domain.CategoryAll, false},
	}
	for _, tt := range tests {
		if got := tt.filter.Matches(tt.place); got != tt.want {
			t.Errorf("%s.Matches(%s) = %v, want %v", tt.filter, tt.place, got, tt.want)
		}
	}
}

func TestRegionBounds(t *testing.T) {
	r := domain.Region{
		Center: domain.GeoPoint{Lat: 28.0, Lon: 113.0},
		Span:   domain.SquareSpan(0.01),
	}
	b := r.Bounds()

	if !b.Contains(r.Center) {
		t.Error("center should be inside")
	}
	if !b.Contains(domain.GeoPoint{Lat: b.MaxLat, Lon: b.MinLon}) {
		t.Error("edges are inclusive")
	}
	if b.Contains(domain.GeoPoint{Lat: 28.006, Lon: 113.0}) {
		t.Error("point north of the box should be outside")
	}
	if b.Contains(domain.GeoPoint{Lat: 28.0, Lon: 112.994}) {
		t.Error("point west of the box should be outside")
	}
}

func TestCameraTransitionJSON(t *testing.T) {
	in := domain.CameraTransition{
		Region:   domain.CampusJinpenling.DefaultRegion(),
		Duration: 300 * time.Millisecond,
		Reason:   domain.ReasonPlaceSelected,
	}
	data, err := json.Marshal(in)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"duration_ms":300`) {
		t.Errorf("expected duration in milliseconds, got %s", data)
	}

	var out domain.CameraTransition
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatal(err)
	}
	if out != in {
		t.Errorf("got %+v, want %+v", out, in)
	}
}

func TestViewStateSnapshot(t *testing.T) {
	s := domain.NewViewState(domain.CampusJinpenling)
	if !s.Camera.Automatic || s.SelectedCategory != domain.CategoryAll {
		t.Fatalf("unexpected initial state %+v", s)
	}

	s.SelectedPlace = &domain.Place{ID: "a"}
	s.UserPosition = &domain.Fix{HorizontalAccuracy: 5}

	snap := s.Snapshot()
	s.SelectedPlace.ID = "b"
	s.UserPosition.HorizontalAccuracy = 50

	if snap.SelectedPlace.ID != "a" || snap.UserPosition.HorizontalAccuracy != 5 {
		t.Errorf("snapshot shares pointers with state: %+v", snap)
	}
}
