// Package browse composes the catalog cache, the query state store and the
// filter engine into one page session and keeps a derived view current.
package browse

import (
	"context"
	"log"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/raosahab/catalog-query/pkg/catalog"
	"github.com/raosahab/catalog-query/pkg/engine"
	"github.com/raosahab/catalog-query/pkg/query"
	"github.com/raosahab/catalog-query/pkg/types"
)

var noRecomputes = promauto.NewCounter(prometheus.CounterOpts{
	Name: "catalogquery_recomputes_total",
	Help: "The total number of derived result recomputations",
})

// View is everything the rendering layer consumes: skeletons while Loading,
// the error state with its retry affordance, or the ordered result list.
type View struct {
	Loading  bool             `json:"loading"`
	Error    string           `json:"error,omitempty"`
	Products []types.Product  `json:"products"`
	Total    int              `json:"total"`
	State    types.QueryState `json:"query"`
	Known    []string         `json:"knownCategories"`
}

// Session is one page view's engine instance. All mutations funnel through
// the store and cache, every change recomputes the derived view. Lifecycle
// ends with Close; in-flight fetches resolving afterwards are discarded.
type Session struct {
	cfg    types.Config
	cache  *catalog.Cache
	store  *query.Store
	ctx    context.Context
	cancel context.CancelFunc

	// recomputeMu serializes whole recompute passes. Each pass reads the
	// state current at its turn, so the last writer always published the
	// freshest view.
	recomputeMu sync.Mutex

	mu   sync.RWMutex
	view View
}

func NewSession(cfg types.Config, client *catalog.Client, loc query.Location) *Session {
	cfg = cfg.WithDefaults()
	ctx, cancel := context.WithCancel(context.Background())

	s := &Session{
		cfg:    cfg,
		cache:  catalog.NewCache(client),
		store:  query.NewStore(cfg, loc),
		ctx:    ctx,
		cancel: cancel,
	}
	s.store.OnChange(s.recompute)
	s.cache.OnCategories(s.store.SeedCategories)
	s.recompute()
	return s
}

// Start kicks off the initial catalog load without blocking the caller.
func (s *Session) Start() {
	go s.load()
}

// Reload is the retry affordance for the connection-error state.
func (s *Session) Reload() {
	go s.load()
}

func (s *Session) load() {
	if err := s.cache.Load(s.ctx); err != nil {
		if s.ctx.Err() != nil {
			// session torn down mid-flight, results were discarded
			return
		}
		log.Printf("catalog load failed: %v", err)
	}
	s.recompute()
}

func (s *Session) recompute() {
	s.recomputeMu.Lock()
	defer s.recomputeMu.Unlock()
	noRecomputes.Inc()

	products, _ := s.cache.Snapshot()
	state := s.store.State()
	result := engine.Apply(products, state, s.store.DebouncedKeyword())

	s.mu.Lock()
	s.view = View{
		Loading:  s.cache.Loading(),
		Error:    s.cache.ErrorMessage(),
		Products: result,
		Total:    len(result),
		State:    state,
		Known:    s.store.KnownCategories(),
	}
	s.mu.Unlock()
}

// View returns the current derived snapshot.
func (s *Session) View() View {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.view
}

func (s *Session) SetKeyword(text string)           { s.store.SetKeyword(text) }
func (s *Session) SubmitSearch()                    { s.store.SubmitSearch(); s.recompute() }
func (s *Session) SetCategories(labels []string)    { s.store.SetCategories(labels) }
func (s *Session) SetPriceRange(r types.PriceRange) { s.store.SetPriceRange(r) }
func (s *Session) SetSortMode(mode string) bool     { return s.store.SetSortMode(mode) }
func (s *Session) ClearFilters()                    { s.store.ClearFilters() }
func (s *Session) LocationChanged()                 { s.store.LocationChanged() }

// Close tears the session down: the pending debounce window is dropped and
// any in-flight load resolves into the void.
func (s *Session) Close() {
	s.cancel()
	s.store.Close()
}
