package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/ccsustmap/campusmap/internal/core/domain"
)

// PlaceRepo implements ports.PlaceRepository with pgx.
type PlaceRepo struct {
	q Querier
}

// NewPlaceRepo creates a new PlaceRepo.
func NewPlaceRepo(q Querier) *PlaceRepo {
	return &PlaceRepo{q: q}
}

// LoadAll returns every place in catalog order.
func (r *PlaceRepo) LoadAll(ctx context.Context) ([]domain.Place, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, name, lat, lon, campus, category
		FROM places
		ORDER BY ordinal, id
	`)
	if err != nil {
		return nil, fmt.Errorf("query places: %w", err)
	}
	defer rows.Close()

	places := []domain.Place{}
	for rows.Next() {
		var (
			p                domain.Place
			campus, category string
		)
		if err := rows.Scan(&p.ID, &p.Name, &p.Location.Lat, &p.Location.Lon, &campus, &category); err != nil {
			return nil, fmt.Errorf("scan place: %w", err)
		}
		if p.Campus, err = domain.ParseCampus(campus); err != nil {
			return nil, fmt.Errorf("place %q: %w", p.ID, err)
		}
		if p.Category, err = domain.ParseCategory(category); err != nil {
			return nil, fmt.Errorf("place %q: %w", p.ID, err)
		}
		places = append(places, p)
	}
	return places, rows.Err()
}

// UpsertBatch inserts or updates places using pgx.Batch. Slice position
// becomes the catalog ordinal.
func (r *PlaceRepo) UpsertBatch(ctx context.Context, places []domain.Place) error {
	if len(places) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for i, p := range places {
		batch.Queue(`
			INSERT INTO places (id, name, lat, lon, campus, category, ordinal)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (id) DO UPDATE
			SET name = EXCLUDED.name, lat = EXCLUDED.lat, lon = EXCLUDED.lon,
			    campus = EXCLUDED.campus, category = EXCLUDED.category,
			    ordinal = EXCLUDED.ordinal
		`, p.ID, p.Name, p.Location.Lat, p.Location.Lon, string(p.Campus), string(p.Category), i)
	}
	br := r.q.SendBatch(ctx, batch)
	defer br.Close()
	for range places {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("batch exec: %w", err)
		}
	}
	return nil
}
