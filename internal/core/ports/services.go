package ports

import (
	"context"

	"github.com/ccsustmap/campusmap/internal/core/domain"
)

// PositionHandler receives events from a position source.
type PositionHandler interface {
	FixReceived(ctx context.Context, fix domain.Fix)
	AcquisitionFailed(ctx context.Context, err error)
}

// PositionSource delivers fixes for the lifetime of the session.
type PositionSource interface {
	Subscribe(ctx context.Context, handler PositionHandler) error
}

// MapSurface renders camera transitions. Requests are fire-and-forget.
type MapSurface interface {
	RequestCameraTransition(ctx context.Context, t domain.CameraTransition) error
}

// NavigationLauncher hands a destination to an external navigation app.
type NavigationLauncher interface {
	Name() string
	Launch(ctx context.Context, req domain.NavigationRequest) error
}
