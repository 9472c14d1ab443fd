package usecases_test

import (
	"context"
	"errors"
	"testing"

	"github.com/ccsustmap/campusmap/internal/core/domain"
	"github.com/ccsustmap/campusmap/internal/core/usecases"
	"github.com/ccsustmap/campusmap/internal/pkg/logging"
)

func newTracker() (*usecases.LocationTracker, *domain.ViewState, *fakeSurface) {
	state := domain.NewViewState(domain.CampusJinpenling)
	surface := &fakeSurface{}
	return usecases.NewLocationTracker(state, surface, logging.Discard()), state, surface
}

func TestAccepted_Gate(t *testing.T) {
	cases := []struct {
		h, v float64
		want bool
	}{
		{10, 10, true},
		{99.9, 99.9, true},
		{100, 10, false},
		{10, 100, false},
		{150, 150, false},
	}
	for _, tc := range cases {
		fix := domain.Fix{HorizontalAccuracy: tc.h, VerticalAccuracy: tc.v}
		if got := usecases.Accepted(fix); got != tc.want {
			t.Errorf("Accepted(h=%v, v=%v) = %v, want %v", tc.h, tc.v, got, tc.want)
		}
	}
}

func TestLocationTracker_RejectedFixDoesNotMutate(t *testing.T) {
	tracker, state, surface := newTracker()
	before := state.Snapshot()

	tracker.FixReceived(context.Background(), domain.Fix{
		Location:           domain.GeoPoint{Lat: 28.15, Lon: 112.97},
		HorizontalAccuracy: 100,
		VerticalAccuracy:   5,
	})
	tracker.FixReceived(context.Background(), domain.Fix{
		Location:           domain.GeoPoint{Lat: 28.15, Lon: 112.97},
		HorizontalAccuracy: 5,
		VerticalAccuracy:   250,
	})

	if state.UserPosition != nil {
		t.Error("rejected fix must not set the user position")
	}
	if state.HasCenteredOnUser {
		t.Error("rejected fix must not latch centering")
	}
	if state.Camera != before.Camera {
		t.Error("rejected fix must not move the camera")
	}
	if len(surface.transitions) != 0 {
		t.Errorf("expected no transitions, got %d", len(surface.transitions))
	}
}

func TestLocationTracker_FirstAcceptedFixCenters(t *testing.T) {
	tracker, state, surface := newTracker()

	fix := goodFix(28.1561, 112.9766)
	tracker.FixReceived(context.Background(), fix)

	if state.UserPosition == nil || *state.UserPosition != fix {
		t.Fatalf("expected user position %+v, got %+v", fix, state.UserPosition)
	}
	if !state.HasCenteredOnUser {
		t.Fatal("expected centering latch to be set")
	}
	if len(surface.transitions) != 1 {
		t.Fatalf("expected 1 transition, got %d", len(surface.transitions))
	}

	tr := surface.transitions[0]
	if tr.Region.Center != fix.Location {
		t.Errorf("expected center %+v, got %+v", fix.Location, tr.Region.Center)
	}
	if tr.Region.Span != domain.SquareSpan(usecases.UserSpanDegrees) {
		t.Errorf("unexpected span %+v", tr.Region.Span)
	}
	if tr.Duration != usecases.UserTransitionDuration {
		t.Errorf("expected %s, got %s", usecases.UserTransitionDuration, tr.Duration)
	}
	if tr.Reason != domain.ReasonUserLocated {
		t.Errorf("unexpected reason %s", tr.Reason)
	}
	if state.Camera.Automatic || state.Camera.Region != tr.Region {
		t.Errorf("camera not moved to user: %+v", state.Camera)
	}
}

func TestLocationTracker_OnlyFirstFixCenters(t *testing.T) {
	tracker, state, surface := newTracker()
	ctx := context.Background()

	tracker.FixReceived(ctx, domain.Fix{HorizontalAccuracy: 500, VerticalAccuracy: 500})
	tracker.FixReceived(ctx, goodFix(28.1561, 112.9766))
	tracker.FixReceived(ctx, goodFix(28.1570, 112.9770))
	last := goodFix(28.1580, 112.9780)
	tracker.FixReceived(ctx, last)

	if len(surface.transitions) != 1 {
		t.Fatalf("expected exactly 1 transition, got %d", len(surface.transitions))
	}
	if *state.UserPosition != last {
		t.Errorf("expected latest accepted fix, got %+v", state.UserPosition)
	}
	if !state.HasCenteredOnUser {
		t.Error("latch must stay set")
	}
}

func TestLocationTracker_LatchSurvivesRejectedFixes(t *testing.T) {
	tracker, state, _ := newTracker()
	ctx := context.Background()

	first := goodFix(28.1561, 112.9766)
	tracker.FixReceived(ctx, first)
	tracker.FixReceived(ctx, domain.Fix{HorizontalAccuracy: 300, VerticalAccuracy: 300})

	if !state.HasCenteredOnUser {
		t.Error("latch must never reset")
	}
	if *state.UserPosition != first {
		t.Errorf("rejected fix replaced user position: %+v", state.UserPosition)
	}
}

func TestLocationTracker_AcquisitionFailureLeavesState(t *testing.T) {
	tracker, state, surface := newTracker()
	ctx := context.Background()

	tracker.AcquisitionFailed(ctx, errors.New("kCLErrorLocationUnknown"))
	if state.UserPosition != nil || state.HasCenteredOnUser || len(surface.transitions) != 0 {
		t.Fatal("failure must not mutate state")
	}

	// Tracking resumes on the next good fix.
	tracker.FixReceived(ctx, goodFix(28.1561, 112.9766))
	if !state.HasCenteredOnUser || len(surface.transitions) != 1 {
		t.Fatal("expected tracking to resume after failure")
	}
}

func TestLocationTracker_SurfaceErrorStillUpdatesCamera(t *testing.T) {
	state := domain.NewViewState(domain.CampusJinpenling)
	surface := &fakeSurface{err: errors.New("surface gone")}
	tracker := usecases.NewLocationTracker(state, surface, logging.Discard())

	fix := goodFix(28.1561, 112.9766)
	tracker.FixReceived(context.Background(), fix)

	if state.Camera.Region.Center != fix.Location {
		t.Errorf("camera target should be recorded even if delivery fails: %+v", state.Camera)
	}
	if !state.HasCenteredOnUser {
		t.Error("expected latch set")
	}
}
