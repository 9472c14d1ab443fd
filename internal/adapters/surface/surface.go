package surface

import (
	"context"
	"errors"
	"log/slog"

	"github.com/ccsustmap/campusmap/internal/core/domain"
	"github.com/ccsustmap/campusmap/internal/core/ports"
)

// Logging is a surface that only records transitions. Used when no renderer
// is attached.
type Logging struct {
	logger *slog.Logger
}

func NewLogging(logger *slog.Logger) *Logging {
	return &Logging{logger: logger}
}

func (l *Logging) RequestCameraTransition(ctx context.Context, t domain.CameraTransition) error {
	l.logger.InfoContext(ctx, "camera transition",
		"reason", t.Reason,
		"lat", t.Region.Center.Lat,
		"lon", t.Region.Center.Lon,
		"span", t.Region.Span.LatDelta,
		"duration", t.Duration,
	)
	return nil
}

// Fanout delivers each transition to every surface and joins their errors.
type Fanout []ports.MapSurface

func (f Fanout) RequestCameraTransition(ctx context.Context, t domain.CameraTransition) error {
	var errs []error
	for _, s := range f {
		if err := s.RequestCameraTransition(ctx, t); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

var (
	_ ports.MapSurface = (*Hub)(nil)
	_ ports.MapSurface = (*Logging)(nil)
	_ ports.MapSurface = Fanout(nil)
)
