package query

import (
	"net/url"
	"reflect"
	"testing"
	"time"

	"github.com/raosahab/catalog-query/pkg/types"
)

func testConfig() types.Config {
	cfg := types.DefaultConfig()
	cfg.KeywordDelay = 20 * time.Millisecond
	return cfg
}

func TestInitialStateFromUrl(t *testing.T) {
	loc := NewMemoryLocation(url.Values{"keyword": []string{"kurta"}})
	store := NewStore(testConfig(), loc)
	defer store.Close()

	if store.State().Keyword != "kurta" {
		t.Errorf("Expected keyword from URL, got %q", store.State().Keyword)
	}
	if store.DebouncedKeyword() != "kurta" {
		t.Errorf("Expected debounced keyword initialized from URL, got %q", store.DebouncedKeyword())
	}
	if store.State().PriceRange != (types.PriceRange{Min: 0, Max: 25000}) {
		t.Errorf("Expected full price domain, got %v", store.State().PriceRange)
	}
}

func TestSetKeywordDoesNotTouchUrl(t *testing.T) {
	loc := NewMemoryLocation(nil)
	store := NewStore(testConfig(), loc)
	defer store.Close()

	store.SetKeyword("bandhgala")

	if got := loc.Query().Get("keyword"); got != "" {
		t.Errorf("Typing must not write the URL, got %q", got)
	}
	if store.State().Keyword != "bandhgala" {
		t.Errorf("Raw keyword must update immediately, got %q", store.State().Keyword)
	}
}

func TestDebouncedKeywordCatchesUp(t *testing.T) {
	loc := NewMemoryLocation(nil)
	store := NewStore(testConfig(), loc)
	defer store.Close()

	store.SetKeyword("k")
	store.SetKeyword("ku")
	store.SetKeyword("kur")

	if store.DebouncedKeyword() != "" {
		t.Errorf("Debounced keyword must lag, got %q", store.DebouncedKeyword())
	}

	time.Sleep(80 * time.Millisecond)
	if store.DebouncedKeyword() != "kur" {
		t.Errorf("Expected debounced keyword kur, got %q", store.DebouncedKeyword())
	}
}

func TestSubmitSearchWritesUrl(t *testing.T) {
	loc := NewMemoryLocation(nil)
	store := NewStore(testConfig(), loc)
	defer store.Close()

	store.SetKeyword("  linen kurta ")
	store.SubmitSearch()

	if got := loc.Query().Get("keyword"); got != "linen kurta" {
		t.Errorf("Expected trimmed keyword in URL, got %q", got)
	}
	if store.DebouncedKeyword() != "  linen kurta " {
		t.Errorf("Expected submit to flush the debounce window, got %q", store.DebouncedKeyword())
	}
}

func TestSubmitEmptyKeywordRemovesParameter(t *testing.T) {
	loc := NewMemoryLocation(url.Values{"keyword": []string{"old"}})
	store := NewStore(testConfig(), loc)
	defer store.Close()

	store.SetKeyword("   ")
	store.SubmitSearch()

	if _, present := loc.Query()["keyword"]; present {
		t.Errorf("Expected keyword parameter removed, got %v", loc.Query())
	}
}

func TestLocationChangeResyncsKeyword(t *testing.T) {
	loc := NewMemoryLocation(nil)
	store := NewStore(testConfig(), loc)
	defer store.Close()

	loc.SetQuery(url.Values{"keyword": []string{"sherwani"}})
	store.LocationChanged()

	if store.State().Keyword != "sherwani" {
		t.Errorf("Expected raw keyword resynced from URL, got %q", store.State().Keyword)
	}
	time.Sleep(80 * time.Millisecond)
	if store.DebouncedKeyword() != "sherwani" {
		t.Errorf("Expected debounced keyword to catch up, got %q", store.DebouncedKeyword())
	}
}

func TestSeedCategoriesOnlyWhenEmpty(t *testing.T) {
	loc := NewMemoryLocation(nil)
	store := NewStore(testConfig(), loc)
	defer store.Close()

	store.SeedCategories([]string{"Formal", "Casual"})
	got := store.State().SelectedCategories
	if !reflect.DeepEqual(got, []string{"Formal", "Casual"}) {
		t.Errorf("Expected empty selection seeded with full set, got %v", got)
	}

	store.SetCategories([]string{"Casual"})
	store.SeedCategories([]string{"Formal", "Casual", "Party"})
	got = store.State().SelectedCategories
	if !reflect.DeepEqual(got, []string{"Casual"}) {
		t.Errorf("Expected non-empty selection untouched by seeding, got %v", got)
	}
}

func TestDeselectingAllCategoriesReseeds(t *testing.T) {
	loc := NewMemoryLocation(nil)
	store := NewStore(testConfig(), loc)
	defer store.Close()

	store.SetCategories(nil)
	if got := store.State().SelectedCategories; len(got) != 0 {
		t.Errorf("Expected empty selection before any categories are known, got %v", got)
	}

	store.SeedCategories([]string{"Formal", "Casual"})
	store.SetCategories([]string{"Casual"})
	store.SetCategories([]string{})

	got := store.State().SelectedCategories
	if !reflect.DeepEqual(got, []string{"Formal", "Casual"}) {
		t.Errorf("Expected deselecting everything to restore the full set, got %v", got)
	}
}

func TestPriceRangeClampedAtBoundary(t *testing.T) {
	loc := NewMemoryLocation(nil)
	store := NewStore(testConfig(), loc)
	defer store.Close()

	store.SetPriceRange(types.PriceRange{Min: 9000, Max: 100})
	if got := store.State().PriceRange; got != (types.PriceRange{Min: 100, Max: 9000}) {
		t.Errorf("Expected inverted range reordered, got %v", got)
	}

	store.SetPriceRange(types.PriceRange{Min: -10, Max: 99999})
	if got := store.State().PriceRange; got != (types.PriceRange{Min: 0, Max: 25000}) {
		t.Errorf("Expected range clamped to domain, got %v", got)
	}
}

func TestUnknownSortModeIgnored(t *testing.T) {
	loc := NewMemoryLocation(nil)
	store := NewStore(testConfig(), loc)
	defer store.Close()

	if !store.SetSortMode("newest") {
		t.Fatalf("Expected newest to be accepted")
	}
	if store.SetSortMode("by-vibes") {
		t.Errorf("Expected unknown mode rejected")
	}
	if store.State().Sort != types.SortNewest {
		t.Errorf("Expected state unchanged by rejected mutation, got %v", store.State().Sort)
	}
}

func TestClearFilters(t *testing.T) {
	loc := NewMemoryLocation(url.Values{"keyword": []string{"kurta"}})
	store := NewStore(testConfig(), loc)
	defer store.Close()

	store.SeedCategories([]string{"Formal", "Casual"})
	store.SetCategories([]string{"Casual"})
	store.SetPriceRange(types.PriceRange{Min: 0, Max: 3000})
	store.SetSortMode("price-asc")

	store.ClearFilters()

	state := store.State()
	if !reflect.DeepEqual(state.SelectedCategories, []string{"Formal", "Casual"}) {
		t.Errorf("Expected categories restored to full set, got %v", state.SelectedCategories)
	}
	if state.PriceRange != (types.PriceRange{Min: 0, Max: 25000}) {
		t.Errorf("Expected full price domain, got %v", state.PriceRange)
	}
	if state.Sort != types.SortRelevance {
		t.Errorf("Expected relevance sort, got %v", state.Sort)
	}
	if state.Keyword != "" || store.DebouncedKeyword() != "" {
		t.Errorf("Expected empty keyword, got %q / %q", state.Keyword, store.DebouncedKeyword())
	}
	if _, present := loc.Query()["keyword"]; present {
		t.Errorf("Expected keyword parameter removed from URL")
	}
}

func TestOnChangeFires(t *testing.T) {
	loc := NewMemoryLocation(nil)
	store := NewStore(testConfig(), loc)
	defer store.Close()

	calls := 0
	store.OnChange(func() { calls++ })

	store.SetCategories([]string{"Formal"})
	store.SetPriceRange(types.PriceRange{Min: 0, Max: 100})
	store.SetSortMode("newest")

	if calls != 3 {
		t.Errorf("Expected 3 change notifications, got %d", calls)
	}
}
