package query

import (
	"net/url"
	"reflect"
	"testing"

	"github.com/raosahab/catalog-query/pkg/types"
)

func TestStateFromValues(t *testing.T) {
	values := url.Values{
		"keyword": []string{"kurta"},
		"cat":     []string{"Formal", "Casual"},
		"rng":     []string{"100-3000"},
		"sort":    []string{"newest"},
		"size":    []string{"40"},
		"unknown": []string{"ignored"},
	}

	state, size, err := StateFromValues(types.DefaultConfig(), values)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if state.Keyword != "kurta" {
		t.Errorf("Expected keyword kurta, got %q", state.Keyword)
	}
	if !reflect.DeepEqual(state.SelectedCategories, []string{"Formal", "Casual"}) {
		t.Errorf("Expected categories [Formal Casual], got %v", state.SelectedCategories)
	}
	if state.PriceRange != (types.PriceRange{Min: 100, Max: 3000}) {
		t.Errorf("Expected range 100-3000, got %v", state.PriceRange)
	}
	if state.Sort != types.SortNewest {
		t.Errorf("Expected sort newest, got %v", state.Sort)
	}
	if size != 40 {
		t.Errorf("Expected size 40, got %d", size)
	}
}

func TestStateFromValuesDefaults(t *testing.T) {
	state, size, err := StateFromValues(types.DefaultConfig(), url.Values{})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(state.SelectedCategories) != 0 {
		t.Errorf("Expected open category constraint, got %v", state.SelectedCategories)
	}
	if state.PriceRange != (types.PriceRange{Min: 0, Max: 25000}) {
		t.Errorf("Expected full domain, got %v", state.PriceRange)
	}
	if state.Sort != types.SortRelevance {
		t.Errorf("Expected relevance, got %v", state.Sort)
	}
	if size != 0 {
		t.Errorf("Expected unbounded size, got %d", size)
	}
}

func TestStateFromValuesSanitizes(t *testing.T) {
	values := url.Values{
		"rng":  []string{"90000-(-5)"},
		"sort": []string{"by-vibes"},
		"size": []string{"99999"},
	}
	state, size, err := StateFromValues(types.DefaultConfig(), values)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if state.Sort != types.SortRelevance {
		t.Errorf("Expected unknown sort to fall back to relevance, got %v", state.Sort)
	}
	if state.PriceRange != (types.PriceRange{Min: 0, Max: 25000}) {
		t.Errorf("Expected unparseable range to keep the domain, got %v", state.PriceRange)
	}
	if size != 1000 {
		t.Errorf("Expected size clamped to 1000, got %d", size)
	}
}

func TestValuesFromStateRoundTrip(t *testing.T) {
	cfg := types.DefaultConfig()
	state := types.QueryState{
		SelectedCategories: []string{"Casual"},
		PriceRange:         types.PriceRange{Min: 0, Max: 3000},
		Sort:               types.SortPriceAsc,
		Keyword:            " kurta ",
	}

	values := ValuesFromState(cfg, state)
	back, _, err := StateFromValues(cfg, values)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if back.Keyword != "kurta" {
		t.Errorf("Expected trimmed keyword, got %q", back.Keyword)
	}
	if !reflect.DeepEqual(back.SelectedCategories, state.SelectedCategories) {
		t.Errorf("Expected categories to round-trip, got %v", back.SelectedCategories)
	}
	if back.PriceRange != state.PriceRange {
		t.Errorf("Expected range to round-trip, got %v", back.PriceRange)
	}
	if back.Sort != state.Sort {
		t.Errorf("Expected sort to round-trip, got %v", back.Sort)
	}
}
