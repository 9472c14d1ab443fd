package usecases

import (
	"iter"

	"github.com/ccsustmap/campusmap/internal/core/domain"
)

// FilterPlaces yields, in catalog order, every place on campus whose category
// passes the category filter. The sequence is recomputed on each iteration.
func FilterPlaces(places []domain.Place, campus domain.Campus, category domain.Category) iter.Seq[domain.Place] {
	return func(yield func(domain.Place) bool) {
		for _, p := range places {
			if p.Campus != campus || !category.Matches(p.Category) {
				continue
			}
			if !yield(p) {
				return
			}
		}
	}
}

// CollectPlaces drains a place sequence into a non-nil slice.
func CollectPlaces(seq iter.Seq[domain.Place]) []domain.Place {
	out := []domain.Place{}
	for p := range seq {
		out = append(out, p)
	}
	return out
}
