package usecases_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ccsustmap/campusmap/internal/core/domain"
	"github.com/ccsustmap/campusmap/internal/core/usecases"
	"github.com/ccsustmap/campusmap/internal/pkg/logging"
)

type controllerFixture struct {
	ctrl     *usecases.SelectionController
	tracker  *usecases.LocationTracker
	state    *domain.ViewState
	surface  *fakeSurface
	launcher *fakeLauncher
}

func newController(opts usecases.SelectionOptions) controllerFixture {
	state := domain.NewViewState(domain.CampusJinpenling)
	surface := &fakeSurface{}
	launcher := &fakeLauncher{}
	logger := logging.Discard()
	return controllerFixture{
		ctrl:     usecases.NewSelectionController(state, fixtureCatalog(), surface, launcher, opts, logger),
		tracker:  usecases.NewLocationTracker(state, surface, logger),
		state:    state,
		surface:  surface,
		launcher: launcher,
	}
}

func TestNewViewState_Defaults(t *testing.T) {
	state := domain.NewViewState(domain.CampusYuntang)
	if !state.Camera.Automatic {
		t.Error("expected automatic camera at session start")
	}
	if state.SelectedCategory != domain.CategoryAll {
		t.Errorf("expected all categories, got %s", state.SelectedCategory)
	}
	if state.SelectedPlace != nil || state.UserPosition != nil || state.HasCenteredOnUser {
		t.Error("expected empty selection and position")
	}
}

func TestSelectCampus_ResetsCamera(t *testing.T) {
	f := newController(usecases.SelectionOptions{})
	ctx := context.Background()

	f.ctrl.SelectPlace(ctx, library)
	f.ctrl.SelectCampus(ctx, domain.CampusYuntang)

	if f.state.SelectedCampus != domain.CampusYuntang {
		t.Fatalf("expected yuntang, got %s", f.state.SelectedCampus)
	}
	want := domain.Region{
		Center: domain.GeoPoint{Lat: 28.0668, Lon: 113.0095},
		Span:   domain.SquareSpan(0.005),
	}
	if f.state.Camera.Region != want || f.state.Camera.Automatic {
		t.Errorf("expected campus default region %+v, got %+v", want, f.state.Camera)
	}

	last := f.surface.transitions[len(f.surface.transitions)-1]
	if last.Reason != domain.ReasonCampusSelected || last.Region != want || last.Duration != 0 {
		t.Errorf("unexpected campus transition %+v", last)
	}
}

func TestSelectCampus_SameCampusStillResets(t *testing.T) {
	f := newController(usecases.SelectionOptions{})
	ctx := context.Background()

	f.ctrl.SelectPlace(ctx, canteen)
	f.ctrl.SelectCampus(ctx, domain.CampusJinpenling)

	if f.state.Camera.Region != domain.CampusJinpenling.DefaultRegion() {
		t.Errorf("expected reset to default region, got %+v", f.state.Camera.Region)
	}
}

func TestSelectCampus_KeepsSelectedPlaceByDefault(t *testing.T) {
	f := newController(usecases.SelectionOptions{})
	ctx := context.Background()

	f.ctrl.SelectPlace(ctx, library)
	f.ctrl.SelectCampus(ctx, domain.CampusYuntang)

	if f.state.SelectedPlace == nil || f.state.SelectedPlace.ID != library.ID {
		t.Errorf("expected selection to persist, got %+v", f.state.SelectedPlace)
	}
}

func TestSelectCampus_ClearsCrossCampusPlaceWhenConfigured(t *testing.T) {
	f := newController(usecases.SelectionOptions{ClearPlaceOnCampusChange: true})
	ctx := context.Background()

	f.ctrl.SelectPlace(ctx, ytGate)
	f.ctrl.SelectCampus(ctx, domain.CampusYuntang)
	if f.state.SelectedPlace == nil {
		t.Fatal("place on the new campus should stay selected")
	}

	f.ctrl.SelectCampus(ctx, domain.CampusJinpenling)
	if f.state.SelectedPlace != nil {
		t.Errorf("expected cross-campus selection cleared, got %+v", f.state.SelectedPlace)
	}
}

func TestSelectCategory_NoCameraEffect(t *testing.T) {
	f := newController(usecases.SelectionOptions{})

	f.ctrl.SelectCategory(domain.CategoryDining)

	if f.state.SelectedCategory != domain.CategoryDining {
		t.Errorf("expected dining, got %s", f.state.SelectedCategory)
	}
	if len(f.surface.transitions) != 0 || !f.state.Camera.Automatic {
		t.Error("category change must not move the camera")
	}
	equalIDs(t, f.ctrl.FilteredPlaces(), "jpl-canteen")
}

func TestFilteredPlaces_FollowsSelection(t *testing.T) {
	f := newController(usecases.SelectionOptions{})
	ctx := context.Background()

	equalIDs(t, f.ctrl.FilteredPlaces(), "jpl-library", "jpl-canteen", "jpl-teaching-a")

	f.ctrl.SelectCampus(ctx, domain.CampusYuntang)
	equalIDs(t, f.ctrl.FilteredPlaces(), "yt-canteen", "yt-gate")

	f.ctrl.SelectCategory(domain.CategoryLibrary)
	if got := f.ctrl.FilteredPlaces(); got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil result, got %v", got)
	}
}

func TestSelectPlace_FramesPlace(t *testing.T) {
	f := newController(usecases.SelectionOptions{})

	f.ctrl.SelectPlace(context.Background(), canteen)

	if f.state.SelectedPlace == nil || f.state.SelectedPlace.ID != canteen.ID {
		t.Fatalf("expected canteen selected, got %+v", f.state.SelectedPlace)
	}
	want := domain.Region{Center: canteen.Location, Span: domain.SquareSpan(0.002)}
	if f.state.Camera.Region != want {
		t.Errorf("expected %+v, got %+v", want, f.state.Camera.Region)
	}
	tr := f.surface.transitions[0]
	if tr.Duration != usecases.PlaceTransitionDuration || tr.Reason != domain.ReasonPlaceSelected {
		t.Errorf("unexpected transition %+v", tr)
	}
}

func TestSelectPlace_OutsideFilterAllowed(t *testing.T) {
	f := newController(usecases.SelectionOptions{})
	ctx := context.Background()

	f.ctrl.SelectCategory(domain.CategoryLibrary)
	f.ctrl.SelectPlace(ctx, ytGate)

	if f.state.Camera.Region.Center != ytGate.Location {
		t.Errorf("expected camera on out-of-campus place, got %+v", f.state.Camera.Region)
	}
	if f.state.SelectedCampus != domain.CampusJinpenling {
		t.Error("selecting a place must not change the campus")
	}
}

func TestPlaceByID(t *testing.T) {
	f := newController(usecases.SelectionOptions{})

	p, err := f.ctrl.PlaceByID("yt-gate")
	if err != nil || p.Name != "North Gate" {
		t.Fatalf("unexpected result %+v, %v", p, err)
	}
	if _, err := f.ctrl.PlaceByID("nope"); !errors.Is(err, domain.ErrPlaceNotFound) {
		t.Errorf("expected ErrPlaceNotFound, got %v", err)
	}
}

func TestDistanceAndETA_AbsentWithoutPosition(t *testing.T) {
	f := newController(usecases.SelectionOptions{})

	for _, p := range fixtureCatalog().Places() {
		if _, ok := f.ctrl.DistanceAndETA(p); ok {
			t.Errorf("expected absent estimate for %s", p.ID)
		}
	}

	// A rejected fix does not make the estimate available.
	f.tracker.FixReceived(context.Background(), domain.Fix{HorizontalAccuracy: 120, VerticalAccuracy: 5})
	if _, ok := f.ctrl.DistanceAndETA(library); ok {
		t.Error("expected absent estimate after a rejected fix")
	}
}

func TestDistanceAndETA_FromUserPosition(t *testing.T) {
	f := newController(usecases.SelectionOptions{})
	user := goodFix(28.1500, 112.9700)
	f.tracker.FixReceived(context.Background(), user)

	cases := []struct {
		meters   float64
		distance string
		eta      string
	}{
		{850.5, "850m", "11 minutes"},
		{600.5, "600m", "8 minutes"},
		{50.5, "50m", "within 1 minute"},
		{1500, "1.5km", "20 minutes"},
		{5000, "5.0km", "1 hour"},
	}
	for _, tc := range cases {
		est, ok := f.ctrl.DistanceAndETA(placeNorthOf(user.Location, tc.meters))
		if !ok {
			t.Fatalf("expected estimate for %vm", tc.meters)
		}
		if est.Distance != tc.distance || est.ETA != tc.eta {
			t.Errorf("%vm: got %q/%q, want %q/%q", tc.meters, est.Distance, est.ETA, tc.distance, tc.eta)
		}
	}
}

func TestDistanceAndETA_ChineseLocale(t *testing.T) {
	f := newController(usecases.SelectionOptions{Locale: usecases.LocaleChinese})
	user := goodFix(28.1500, 112.9700)
	f.tracker.FixReceived(context.Background(), user)

	est, ok := f.ctrl.DistanceAndETA(placeNorthOf(user.Location, 600.5))
	if !ok || est.ETA != "8分钟" {
		t.Errorf("expected 8分钟, got %+v", est)
	}
}

func TestNavigate_HandsOffWalking(t *testing.T) {
	f := newController(usecases.SelectionOptions{})

	f.ctrl.Navigate(context.Background(), teachingA)
	f.ctrl.WaitHandoffs()

	if len(f.launcher.requests) != 1 {
		t.Fatalf("expected 1 launch, got %d", len(f.launcher.requests))
	}
	req := f.launcher.requests[0]
	if req.Destination != teachingA.Location || req.Name != teachingA.Name || req.Mode != domain.TravelModeWalking {
		t.Errorf("unexpected request %+v", req)
	}
}

func TestNavigate_LauncherFailureIsAbsorbed(t *testing.T) {
	f := newController(usecases.SelectionOptions{})
	f.launcher.launchFn = func(ctx context.Context, req domain.NavigationRequest) error {
		return errors.New("maps app unavailable")
	}
	before := f.state.Snapshot()

	f.ctrl.Navigate(context.Background(), teachingA)
	f.ctrl.WaitHandoffs()

	after := f.state.Snapshot()
	if after.Camera != before.Camera || after.SelectedPlace != nil {
		t.Error("navigation must not touch view state")
	}
}

func TestNavigate_OutlivesCallerContext(t *testing.T) {
	f := newController(usecases.SelectionOptions{LaunchTimeout: time.Minute})
	var (
		callerErr   error
		hasDeadline bool
	)
	f.launcher.launchFn = func(ctx context.Context, req domain.NavigationRequest) error {
		callerErr = ctx.Err()
		_, hasDeadline = ctx.Deadline()
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	f.ctrl.Navigate(ctx, teachingA)
	f.ctrl.WaitHandoffs()

	if len(f.launcher.requests) != 1 {
		t.Fatalf("expected 1 launch, got %d", len(f.launcher.requests))
	}
	if callerErr != nil {
		t.Errorf("launch saw the caller's cancellation: %v", callerErr)
	}
	if !hasDeadline {
		t.Error("launch context must carry its own deadline")
	}
}

func TestNavigate_NoLauncher(t *testing.T) {
	state := domain.NewViewState(domain.CampusJinpenling)
	ctrl := usecases.NewSelectionController(state, fixtureCatalog(), nil, nil, usecases.SelectionOptions{}, logging.Discard())

	ctrl.Navigate(context.Background(), library) // must not panic
}

func TestState_IsACopy(t *testing.T) {
	f := newController(usecases.SelectionOptions{})
	f.ctrl.SelectPlace(context.Background(), library)

	snap := f.ctrl.State()
	snap.SelectedPlace.Name = "changed"

	if f.state.SelectedPlace.Name != library.Name {
		t.Error("snapshot must not alias live state")
	}
}
