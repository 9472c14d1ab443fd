package usecases

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/ccsustmap/campusmap/internal/core/domain"
	"github.com/ccsustmap/campusmap/internal/core/ports"
	"github.com/ccsustmap/campusmap/internal/pkg/metrics"
	"github.com/ccsustmap/campusmap/internal/pkg/telemetry"
)

const (
	// PlaceSpanDegrees is the viewport span used when framing a selected place.
	PlaceSpanDegrees = 0.002

	// PlaceTransitionDuration is the animation length when framing a place.
	PlaceTransitionDuration = 300 * time.Millisecond

	// CampusTransitionDuration is zero: the campus region is applied immediately.
	CampusTransitionDuration = 0

	// DefaultLaunchTimeout bounds a navigation hand-off.
	DefaultLaunchTimeout = 10 * time.Second
)

// SelectionOptions tunes controller behavior.
type SelectionOptions struct {
	Locale Locale
	// ClearPlaceOnCampusChange drops the selected place when the campus changes.
	// Off by default: a cross-campus selection stays selected.
	ClearPlaceOnCampusChange bool
	// LaunchTimeout bounds each hand-off, independent of the caller's context.
	LaunchTimeout time.Duration
}

// SelectionController owns campus, category and place selection and drives the camera.
// It must only be driven from the session loop.
type SelectionController struct {
	state    *domain.ViewState
	catalog  ports.PlaceCatalog
	camera   *cameraDriver
	launcher ports.NavigationLauncher
	opts     SelectionOptions
	logger   *slog.Logger
	handoffs sync.WaitGroup
}

// NewSelectionController creates a new SelectionController.
func NewSelectionController(
	state *domain.ViewState,
	catalog ports.PlaceCatalog,
	surface ports.MapSurface,
	launcher ports.NavigationLauncher,
	opts SelectionOptions,
	logger *slog.Logger,
) *SelectionController {
	if opts.Locale == "" {
		opts.Locale = LocaleEnglish
	}
	if opts.LaunchTimeout <= 0 {
		opts.LaunchTimeout = DefaultLaunchTimeout
	}
	return &SelectionController{
		state:    state,
		catalog:  catalog,
		camera:   &cameraDriver{state: state, surface: surface, logger: logger},
		launcher: launcher,
		opts:     opts,
		logger:   logger,
	}
}

// State returns a copy of the current view state.
func (s *SelectionController) State() domain.ViewState {
	return s.state.Snapshot()
}

// SelectCampus switches campus and resets the camera to its default region.
func (s *SelectionController) SelectCampus(ctx context.Context, c domain.Campus) {
	s.state.SelectedCampus = c
	if s.opts.ClearPlaceOnCampusChange && s.state.SelectedPlace != nil && s.state.SelectedPlace.Campus != c {
		s.state.SelectedPlace = nil
	}
	s.camera.transition(ctx, domain.CameraTransition{
		Region:   c.DefaultRegion(),
		Duration: CampusTransitionDuration,
		Reason:   domain.ReasonCampusSelected,
	})
}

// SelectCategory changes the category filter.
func (s *SelectionController) SelectCategory(cat domain.Category) {
	s.state.SelectedCategory = cat
}

// SelectPlace selects p and frames the camera on it. p need not be on the
// selected campus or pass the current filter.
func (s *SelectionController) SelectPlace(ctx context.Context, p domain.Place) {
	s.state.SelectedPlace = &p
	s.camera.transition(ctx, domain.CameraTransition{
		Region:   domain.Region{Center: p.Location, Span: domain.SquareSpan(PlaceSpanDegrees)},
		Duration: PlaceTransitionDuration,
		Reason:   domain.ReasonPlaceSelected,
	})
}

// FilteredPlaces returns the places visible under the current selection.
func (s *SelectionController) FilteredPlaces() []domain.Place {
	return CollectPlaces(FilterPlaces(s.catalog.Places(), s.state.SelectedCampus, s.state.SelectedCategory))
}

// PlaceByID looks a place up in the catalog.
func (s *SelectionController) PlaceByID(id string) (domain.Place, error) {
	p, ok := s.catalog.ByID(id)
	if !ok {
		return domain.Place{}, domain.ErrPlaceNotFound
	}
	return p, nil
}

// DistanceAndETA estimates the walk from the user's last accepted fix to p.
// ok is false while the user position is unknown.
func (s *SelectionController) DistanceAndETA(p domain.Place) (est Estimate, ok bool) {
	if s.state.UserPosition == nil {
		metrics.Estimates.WithLabelValues("unknown").Inc()
		return Estimate{}, false
	}
	metrics.Estimates.WithLabelValues("computed").Inc()
	return EstimateWalk(Distance(s.state.UserPosition.Location, p.Location), s.opts.Locale), true
}

// Navigate hands p to the external navigation launcher in walking mode.
// The request is built on the caller's goroutine and launched in the
// background, so a slow or unavailable launcher never holds up the session
// loop. Launcher failures are logged and never reach the caller.
func (s *SelectionController) Navigate(ctx context.Context, p domain.Place) {
	if s.launcher == nil {
		s.logger.Warn("navigation requested without a launcher", "place_id", p.ID)
		return
	}

	req := NavigationRequestFor(p)
	s.handoffs.Add(1)
	go func() {
		defer s.handoffs.Done()
		s.launch(context.WithoutCancel(ctx), p.ID, req)
	}()
}

func (s *SelectionController) launch(ctx context.Context, placeID string, req domain.NavigationRequest) {
	ctx, cancel := context.WithTimeout(ctx, s.opts.LaunchTimeout)
	defer cancel()

	ctx, span := telemetry.Tracer().Start(ctx, "navigation.launch")
	defer span.End()
	name := s.launcher.Name()
	span.SetAttributes(
		attribute.String("place.id", placeID),
		attribute.String("navigation.launcher", name),
	)

	if err := s.launcher.Launch(ctx, req); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "launch failed")
		metrics.NavigationHandoffs.WithLabelValues(name, "error").Inc()
		s.logger.Warn("navigation hand-off failed", "place_id", placeID, "launcher", name, "error", err)
		return
	}
	metrics.NavigationHandoffs.WithLabelValues(name, "ok").Inc()
	s.logger.Info("navigation handed off", "place_id", placeID, "launcher", name)
}

// WaitHandoffs blocks until every hand-off started by Navigate has finished.
func (s *SelectionController) WaitHandoffs() {
	s.handoffs.Wait()
}

// NavigationRequestFor builds the walking hand-off for p.
func NavigationRequestFor(p domain.Place) domain.NavigationRequest {
	return domain.NavigationRequest{Destination: p.Location, Name: p.Name, Mode: domain.TravelModeWalking}
}
