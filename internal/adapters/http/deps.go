package http

import (
	"context"

	"github.com/nats-io/nats.go"

	"github.com/ccsustmap/campusmap/internal/adapters/surface"
	"github.com/ccsustmap/campusmap/internal/core/ports"
	"github.com/ccsustmap/campusmap/internal/core/usecases"
)

// Pinger is a dependency that can report connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Dependencies holds everything the HTTP handlers need.
type Dependencies struct {
	Session  *usecases.Session
	Catalog  ports.PlaceCatalog
	Hub      *surface.Hub
	Launcher string // name of the selected navigation launcher
	LinkBase string // base URL for navigation deep links
	NATS     *nats.Conn
	Instance string // camera transitions stamped with this ID are already on the hub
	DB       Pinger // nil when the catalog is built in
	Version  string
}
