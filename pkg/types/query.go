package types

import "slices"

type SortMode string

const (
	SortRelevance SortMode = "relevance"
	SortPriceAsc  SortMode = "price-asc"
	SortPriceDesc SortMode = "price-desc"
	SortNewest    SortMode = "newest"
)

// ParseSortMode validates a sort mode at the mutation boundary. Unknown
// values are rejected rather than defaulted so the store never holds one.
func ParseSortMode(s string) (SortMode, bool) {
	switch SortMode(s) {
	case SortRelevance, SortPriceAsc, SortPriceDesc, SortNewest:
		return SortMode(s), true
	}
	return SortRelevance, false
}

type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

func (r PriceRange) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Clamp orders the pair and clamps both ends into the domain. Inverted
// input is repaired by swapping, never rejected.
func (r PriceRange) Clamp(domain PriceRange) PriceRange {
	lo, hi := r.Min, r.Max
	if lo > hi {
		lo, hi = hi, lo
	}
	return PriceRange{
		Min: clamp(lo, domain.Min, domain.Max),
		Max: clamp(hi, domain.Min, domain.Max),
	}
}

func clamp[T int | float64](value, min, max T) T {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// QueryState is the user-controlled criteria applied to the catalog.
// An empty SelectedCategories set is an open constraint and admits every
// product; it occurs on deep links before the category listing arrives. The
// store re-seeds both the initial empty selection and a deselected-everything
// one from the full discovered set.
type QueryState struct {
	SelectedCategories []string   `json:"categories"`
	PriceRange         PriceRange `json:"priceRange"`
	Sort               SortMode   `json:"sort"`
	Keyword            string     `json:"keyword"`
}

func (q *QueryState) HasCategory(label string) bool {
	if len(q.SelectedCategories) == 0 {
		return true
	}
	return slices.Contains(q.SelectedCategories, label)
}
