package ports

import (
	"context"

	"github.com/ccsustmap/campusmap/internal/core/domain"
)

// PlaceCatalog is the immutable set of places, in catalog order.
type PlaceCatalog interface {
	Places() []domain.Place
	ByID(id string) (domain.Place, bool)
}

// PlaceRepository loads and seeds catalog records.
type PlaceRepository interface {
	LoadAll(ctx context.Context) ([]domain.Place, error)
	UpsertBatch(ctx context.Context, places []domain.Place) error
}
