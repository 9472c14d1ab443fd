package catalog

import (
	"fmt"

	"github.com/ccsustmap/campusmap/internal/core/domain"
)

// Catalog is an immutable, ordered set of places with an ID index.
type Catalog struct {
	places []domain.Place
	byID   map[string]int
}

// New validates places and builds a catalog. IDs must be unique and every
// place must carry a known campus and a concrete category.
func New(places []domain.Place) (*Catalog, error) {
	c := &Catalog{
		places: make([]domain.Place, len(places)),
		byID:   make(map[string]int, len(places)),
	}
	copy(c.places, places)

	for i, p := range c.places {
		if p.ID == "" {
			return nil, fmt.Errorf("place %d: empty id", i)
		}
		if _, dup := c.byID[p.ID]; dup {
			return nil, fmt.Errorf("place %q: duplicate id", p.ID)
		}
		if _, err := domain.ParseCampus(string(p.Campus)); err != nil {
			return nil, fmt.Errorf("place %q: %w", p.ID, err)
		}
		if _, err := domain.ParseCategory(string(p.Category)); err != nil || p.Category == domain.CategoryAll {
			return nil, fmt.Errorf("place %q: %w: %q", p.ID, domain.ErrUnknownCategory, p.Category)
		}
		c.byID[p.ID] = i
	}
	return c, nil
}

// Places returns the places in catalog order. Callers must not modify the slice.
func (c *Catalog) Places() []domain.Place {
	return c.places
}

// ByID looks up a place.
func (c *Catalog) ByID(id string) (domain.Place, bool) {
	i, ok := c.byID[id]
	if !ok {
		return domain.Place{}, false
	}
	return c.places[i], true
}

// Len is the number of places.
func (c *Catalog) Len() int {
	return len(c.places)
}
