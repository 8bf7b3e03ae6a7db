// Package engine derives the ordered result list from a catalog snapshot
// and the current query state. Apply is pure: same inputs, same output, no
// mutation of the snapshot.
package engine

import (
	"sort"
	"strings"

	"github.com/raosahab/catalog-query/pkg/types"
)

// Apply filters the catalog with the query state and the debounced keyword,
// then orders the survivors. The keyword is passed separately from
// state.Keyword because filtering follows the debounced derivative, not the
// raw input. Ties keep catalog order under every sort mode.
func Apply(catalog []types.Product, state types.QueryState, keyword string) []types.Product {
	kw := strings.ToLower(strings.TrimSpace(keyword))

	result := make([]types.Product, 0, len(catalog))
	for _, p := range catalog {
		if matches(&p, &state, kw) {
			result = append(result, p)
		}
	}

	switch state.Sort {
	case types.SortPriceAsc:
		sort.SliceStable(result, func(i, j int) bool {
			return result[i].PriceValue() < result[j].PriceValue()
		})
	case types.SortPriceDesc:
		sort.SliceStable(result, func(i, j int) bool {
			return result[i].PriceValue() > result[j].PriceValue()
		})
	case types.SortNewest:
		sort.SliceStable(result, func(i, j int) bool {
			return result[i].CreatedUnix() > result[j].CreatedUnix()
		})
	}
	// relevance keeps catalog order, there is no scoring

	return result
}

func matches(p *types.Product, state *types.QueryState, keyword string) bool {
	if !state.HasCategory(p.ResolvedCategory()) {
		return false
	}
	if !state.PriceRange.Contains(p.PriceValue()) {
		return false
	}
	if keyword != "" && !strings.Contains(p.SearchText(), keyword) {
		return false
	}
	return true
}
