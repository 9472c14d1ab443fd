package usecases

import (
	"context"
	"log/slog"
	"time"

	"github.com/ccsustmap/campusmap/internal/core/domain"
	"github.com/ccsustmap/campusmap/internal/core/ports"
	"github.com/ccsustmap/campusmap/internal/pkg/metrics"
)

const (
	// AccuracyThreshold is the exclusive upper bound, in meters, for both
	// horizontal and vertical accuracy of an accepted fix.
	AccuracyThreshold = 100.0

	// UserSpanDegrees is the viewport span used when centering on the user.
	UserSpanDegrees = 0.005

	// UserTransitionDuration is the animation length of the first centering.
	UserTransitionDuration = 800 * time.Millisecond
)

// Accepted reports whether a fix passes the accuracy gate.
func Accepted(fix domain.Fix) bool {
	return fix.HorizontalAccuracy < AccuracyThreshold && fix.VerticalAccuracy < AccuracyThreshold
}

// LocationTracker gates raw fixes and centers the camera on the user once per session.
// It must only be driven from the session loop.
type LocationTracker struct {
	state  *domain.ViewState
	camera *cameraDriver
	logger *slog.Logger
}

// NewLocationTracker creates a tracker mutating state.
func NewLocationTracker(state *domain.ViewState, surface ports.MapSurface, logger *slog.Logger) *LocationTracker {
	return &LocationTracker{
		state:  state,
		camera: &cameraDriver{state: state, surface: surface, logger: logger},
		logger: logger,
	}
}

// FixReceived applies the accuracy gate and, for the first accepted fix,
// requests a camera transition to the user's position.
func (t *LocationTracker) FixReceived(ctx context.Context, fix domain.Fix) {
	if !Accepted(fix) {
		metrics.FixesRejected.Inc()
		t.logger.Debug("fix rejected",
			"horizontal_accuracy", fix.HorizontalAccuracy,
			"vertical_accuracy", fix.VerticalAccuracy,
		)
		return
	}
	metrics.FixesAccepted.Inc()

	t.state.UserPosition = &fix

	if t.state.HasCenteredOnUser {
		return
	}
	t.state.HasCenteredOnUser = true
	t.camera.transition(ctx, domain.CameraTransition{
		Region:   domain.Region{Center: fix.Location, Span: domain.SquareSpan(UserSpanDegrees)},
		Duration: UserTransitionDuration,
		Reason:   domain.ReasonUserLocated,
	})
	t.logger.Info("centered on user", "lat", fix.Location.Lat, "lon", fix.Location.Lon)
}

// AcquisitionFailed reports a platform failure. State is left untouched.
func (t *LocationTracker) AcquisitionFailed(ctx context.Context, err error) {
	metrics.AcquisitionFailures.Inc()
	t.logger.WarnContext(ctx, "location update failed", "error", err)
}

// cameraDriver writes the camera target and forwards the request to the surface.
type cameraDriver struct {
	state   *domain.ViewState
	surface ports.MapSurface
	logger  *slog.Logger
}

func (d *cameraDriver) transition(ctx context.Context, t domain.CameraTransition) {
	d.state.Camera = domain.Camera{Region: t.Region}
	metrics.CameraTransitions.WithLabelValues(string(t.Reason)).Inc()

	if d.surface == nil {
		return
	}
	if err := d.surface.RequestCameraTransition(ctx, t); err != nil {
		metrics.CameraTransitionErrors.Inc()
		d.logger.Warn("camera transition not delivered", "reason", t.Reason, "error", err)
	}
}
