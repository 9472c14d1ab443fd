package usecases_test

import (
	"context"

	"github.com/ccsustmap/campusmap/internal/core/domain"
	"github.com/ccsustmap/campusmap/internal/pkg/geospatial"
)

// --- Fake MapSurface ---

type fakeSurface struct {
	transitions []domain.CameraTransition
	err         error
}

func (f *fakeSurface) RequestCameraTransition(ctx context.Context, t domain.CameraTransition) error {
	f.transitions = append(f.transitions, t)
	return f.err
}

// --- Fake PlaceCatalog ---

type fakeCatalog struct {
	places []domain.Place
}

func (f *fakeCatalog) Places() []domain.Place { return f.places }

func (f *fakeCatalog) ByID(id string) (domain.Place, bool) {
	for _, p := range f.places {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Place{}, false
}

// --- Fake NavigationLauncher ---

type fakeLauncher struct {
	launchFn func(ctx context.Context, req domain.NavigationRequest) error
	requests []domain.NavigationRequest
}

func (f *fakeLauncher) Name() string { return "fake" }

func (f *fakeLauncher) Launch(ctx context.Context, req domain.NavigationRequest) error {
	f.requests = append(f.requests, req)
	if f.launchFn != nil {
		return f.launchFn(ctx, req)
	}
	return nil
}

// --- Fixtures ---

var (
	library = domain.Place{
		ID: "jpl-library", Name: "Library",
		Location: domain.GeoPoint{Lat: 28.1555, Lon: 112.9770},
		Campus:   domain.CampusJinpenling, Category: domain.CategoryLibrary,
	}
	canteen = domain.Place{
		ID: "jpl-canteen", Name: "Canteen No.1",
		Location: domain.GeoPoint{Lat: 28.1570, Lon: 112.9755},
		Campus:   domain.CampusJinpenling, Category: domain.CategoryDining,
	}
	teachingA = domain.Place{
		ID: "jpl-teaching-a", Name: "Teaching Building A",
		Location: domain.GeoPoint{Lat: 28.1562, Lon: 112.9779},
		Campus:   domain.CampusJinpenling, Category: domain.CategoryTeaching,
	}
	ytCanteen = domain.Place{
		ID: "yt-canteen", Name: "Yuntang Canteen",
		Location: domain.GeoPoint{Lat: 28.0672, Lon: 113.0088},
		Campus:   domain.CampusYuntang, Category: domain.CategoryDining,
	}
	ytGate = domain.Place{
		ID: "yt-gate", Name: "North Gate",
		Location: domain.GeoPoint{Lat: 28.0701, Lon: 113.0101},
		Campus:   domain.CampusYuntang, Category: domain.CategoryGate,
	}
)

func fixtureCatalog() *fakeCatalog {
	return &fakeCatalog{places: []domain.Place{library, ytCanteen, canteen, ytGate, teachingA}}
}

func goodFix(lat, lon float64) domain.Fix {
	return domain.Fix{
		Location:           domain.GeoPoint{Lat: lat, Lon: lon},
		HorizontalAccuracy: 10,
		VerticalAccuracy:   15,
	}
}

// placeNorthOf returns a place the given number of meters due north of p.
func placeNorthOf(p domain.GeoPoint, meters float64) domain.Place {
	return domain.Place{
		ID:       "target",
		Name:     "Target",
		Location: domain.GeoPoint{Lat: p.Lat + meters/geospatial.MetersPerDegree, Lon: p.Lon},
		Campus:   domain.CampusJinpenling,
		Category: domain.CategoryService,
	}
}
