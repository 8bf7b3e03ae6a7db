// Package query owns the user-controlled filter, sort and search criteria
// and keeps the keyword in sync with the URL.
package query

import (
	"net/url"
	"strings"
	"sync"

	"github.com/raosahab/catalog-query/pkg/debounce"
	"github.com/raosahab/catalog-query/pkg/types"
)

func trimKeyword(s string) string {
	return strings.TrimSpace(s)
}

// Location abstracts the router that owns the URL. The store only ever
// touches its query string.
type Location interface {
	Query() url.Values
	SetQuery(url.Values)
}

// MemoryLocation is a Location with no router behind it, for embedders and
// tests.
type MemoryLocation struct {
	mu     sync.Mutex
	values url.Values
}

func NewMemoryLocation(values url.Values) *MemoryLocation {
	if values == nil {
		values = url.Values{}
	}
	return &MemoryLocation{values: values}
}

func (l *MemoryLocation) Query() url.Values {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := url.Values{}
	for k, v := range l.values {
		out[k] = append([]string{}, v...)
	}
	return out
}

func (l *MemoryLocation) SetQuery(values url.Values) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.values = values
}

// Store holds the query state for one page session. Mutations come from a
// single serialized stream of user and router events; the mutex only guards
// against the debounce timer goroutine.
type Store struct {
	mu        sync.Mutex
	cfg       types.Config
	state     types.QueryState
	known     []string
	debounced string
	keyword   *debounce.Debouncer[string]
	loc       Location
	onChange  func()
}

// NewStore initializes the state from the URL's keyword parameter and the
// configured price domain. The debounced keyword starts equal to the raw
// one, so a deep link filters immediately.
func NewStore(cfg types.Config, loc Location) *Store {
	cfg = cfg.WithDefaults()
	s := &Store{
		cfg: cfg,
		loc: loc,
	}
	kw := loc.Query().Get(cfg.KeywordParam)
	s.state = types.QueryState{
		SelectedCategories: []string{},
		PriceRange:         cfg.PriceDomain,
		Sort:               types.SortRelevance,
		Keyword:            kw,
	}
	s.debounced = kw
	s.keyword = debounce.New(cfg.KeywordDelay, s.setDebounced)
	return s
}

// OnChange registers the recompute trigger. Called after every effective
// mutation, outside the store lock.
func (s *Store) OnChange(fn func()) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

func (s *Store) notify() {
	s.mu.Lock()
	fn := s.onChange
	s.mu.Unlock()
	if fn != nil {
		fn()
	}
}

func (s *Store) setDebounced(value string) {
	s.mu.Lock()
	s.debounced = value
	s.mu.Unlock()
	s.notify()
}

// SetKeyword records a keystroke. The raw keyword updates immediately; the
// debounced derivative follows once input pauses. No URL mutation here.
func (s *Store) SetKeyword(text string) {
	s.mu.Lock()
	s.state.Keyword = text
	s.mu.Unlock()
	s.keyword.Update(text)
	s.notify()
}

// SubmitSearch writes the current raw keyword into the URL, removing the
// parameter when the trimmed keyword is empty, and flushes the debounce
// window so filtering reflects the submission at once.
func (s *Store) SubmitSearch() {
	s.mu.Lock()
	raw := s.state.Keyword
	trimmed := trimKeyword(raw)
	param := s.cfg.KeywordParam
	s.mu.Unlock()

	values := s.loc.Query()
	if trimmed != "" {
		values.Set(param, trimmed)
	} else {
		values.Del(param)
	}
	s.loc.SetQuery(values)

	s.keyword.Update(raw)
	s.keyword.Flush()
}

// SetCategories replaces the selection. Deselecting everything re-seeds the
// selection from the full known set, the storefront's show-all baseline; it
// only stays empty while no categories are known yet.
func (s *Store) SetCategories(labels []string) {
	s.mu.Lock()
	if len(labels) == 0 && len(s.known) > 0 {
		labels = s.known
	}
	s.state.SelectedCategories = append([]string{}, labels...)
	s.mu.Unlock()
	s.notify()
}

// SetPriceRange clamps into the configured domain; an inverted pair is
// reordered rather than rejected.
func (s *Store) SetPriceRange(r types.PriceRange) {
	s.mu.Lock()
	s.state.PriceRange = r.Clamp(s.cfg.PriceDomain)
	s.mu.Unlock()
	s.notify()
}

// SetSortMode ignores unknown modes so the store never holds one.
func (s *Store) SetSortMode(mode string) bool {
	parsed, ok := types.ParseSortMode(mode)
	if !ok {
		return false
	}
	s.mu.Lock()
	s.state.Sort = parsed
	s.mu.Unlock()
	s.notify()
	return true
}

// SeedCategories records the discovered category set and, when the current
// selection is empty, seeds it with the full set (the default show-everything
// behavior).
func (s *Store) SeedCategories(labels []string) {
	s.mu.Lock()
	s.known = append([]string{}, labels...)
	if len(s.state.SelectedCategories) == 0 {
		s.state.SelectedCategories = append([]string{}, labels...)
	}
	s.mu.Unlock()
	s.notify()
}

// ClearFilters resets every criterion: categories back to the full known
// set, price to the full domain, sort to relevance, keyword to empty, and
// removes the keyword parameter from the URL.
func (s *Store) ClearFilters() {
	s.keyword.Cancel()

	s.mu.Lock()
	s.state = types.QueryState{
		SelectedCategories: append([]string{}, s.known...),
		PriceRange:         s.cfg.PriceDomain,
		Sort:               types.SortRelevance,
		Keyword:            "",
	}
	s.debounced = ""
	param := s.cfg.KeywordParam
	s.mu.Unlock()

	values := s.loc.Query()
	values.Del(param)
	s.loc.SetQuery(values)

	s.notify()
}

// LocationChanged resynchronizes the raw keyword from the URL after an
// external navigation (back/forward). The debounced derivative catches up
// through the normal window.
func (s *Store) LocationChanged() {
	kw := s.loc.Query().Get(s.cfg.KeywordParam)

	s.mu.Lock()
	if s.state.Keyword == kw {
		s.mu.Unlock()
		return
	}
	s.state.Keyword = kw
	s.mu.Unlock()

	s.keyword.Update(kw)
	s.notify()
}

// State returns a copy safe to hand to the rendering layer.
func (s *Store) State() types.QueryState {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.state
	out.SelectedCategories = append([]string{}, s.state.SelectedCategories...)
	return out
}

// DebouncedKeyword is the keyword value that drives filtering.
func (s *Store) DebouncedKeyword() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.debounced
}

func (s *Store) KnownCategories() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string{}, s.known...)
}

// Close cancels any pending debounce window without emitting.
func (s *Store) Close() {
	s.keyword.Cancel()
}
