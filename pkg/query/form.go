package query

import (
	"fmt"
	"net/url"

	"github.com/gorilla/schema"
	"github.com/raosahab/catalog-query/pkg/types"
)

// Form is the query-string shape of the state, one value per control:
//
//	?keyword=kurta&cat=Formal&cat=Casual&rng=0-3000&sort=newest&size=40
type Form struct {
	Keyword    string   `schema:"keyword"`
	Sort       string   `schema:"sort,default:relevance"`
	Size       int      `schema:"size"`
	Categories []string `schema:"cat"`
	Range      string   `schema:"rng"`
}

var decoder = schema.NewDecoder()

func init() {
	decoder.IgnoreUnknownKeys(true)
}

const maxResultSize = 1000

// StateFromValues decodes a query string into a sanitized QueryState plus a
// result-size bound (0 means unbounded, the storefront default). Out-of-range
// values clamp, unknown sort modes fall back to relevance.
func StateFromValues(cfg types.Config, values url.Values) (types.QueryState, int, error) {
	cfg = cfg.WithDefaults()
	form := Form{}
	if err := decoder.Decode(&form, values); err != nil {
		return types.QueryState{}, 0, err
	}

	state := types.QueryState{
		SelectedCategories: form.Categories,
		PriceRange:         cfg.PriceDomain,
		Sort:               types.SortRelevance,
		Keyword:            form.Keyword,
	}
	if state.SelectedCategories == nil {
		state.SelectedCategories = []string{}
	}
	if parsed, ok := types.ParseSortMode(form.Sort); ok {
		state.Sort = parsed
	}
	if form.Range != "" {
		var lo, hi float64
		if _, err := fmt.Sscanf(form.Range, "%f-%f", &lo, &hi); err == nil {
			state.PriceRange = types.PriceRange{Min: lo, Max: hi}.Clamp(cfg.PriceDomain)
		}
	}

	size := form.Size
	if size < 0 {
		size = 0
	}
	if size > maxResultSize {
		size = maxResultSize
	}
	return state, size, nil
}

// ValuesFromState is the inverse of StateFromValues, used to echo a
// shareable URL for the current state.
func ValuesFromState(cfg types.Config, state types.QueryState) url.Values {
	cfg = cfg.WithDefaults()
	values := url.Values{}
	if kw := trimKeyword(state.Keyword); kw != "" {
		values.Set(cfg.KeywordParam, kw)
	}
	for _, label := range state.SelectedCategories {
		values.Add("cat", label)
	}
	if state.PriceRange != cfg.PriceDomain {
		values.Set("rng", fmt.Sprintf("%g-%g", state.PriceRange.Min, state.PriceRange.Max))
	}
	if state.Sort != types.SortRelevance {
		values.Set("sort", string(state.Sort))
	}
	return values
}
