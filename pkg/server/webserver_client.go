package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/raosahab/catalog-query/pkg/catalog"
	"github.com/raosahab/catalog-query/pkg/engine"
	"github.com/raosahab/catalog-query/pkg/query"
	"github.com/raosahab/catalog-query/pkg/storage"
	"github.com/raosahab/catalog-query/pkg/types"
)

// handleProducts runs one query over the cached catalog. An HTTP request is
// an explicit submission, so the raw keyword filters directly; debouncing
// belongs to interactive sessions, not this endpoint.
func (ws *WebServer) handleProducts(w http.ResponseWriter, r *http.Request, sessionId string, enc *json.Encoder) error {
	noSearches.Inc()

	state, size, err := query.StateFromValues(ws.Config, r.URL.Query())
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return enc.Encode(ErrorResponse{Error: err.Error()})
	}

	products, _ := ws.Cache.Snapshot()
	result := engine.Apply(products, state, state.Keyword)
	total := len(result)
	if size > 0 && len(result) > size {
		result = result[:size]
	}

	if ws.Tracking != nil {
		go ws.Tracking.TrackSearch(sessionId, state, total, r)
	}

	return enc.Encode(SearchResponse{
		Products: result,
		Total:    total,
		Query:    state,
		Loading:  ws.Cache.Loading(),
		Error:    ws.Cache.ErrorMessage(),
	})
}

func (ws *WebServer) handleCategories(w http.ResponseWriter, r *http.Request, sessionId string, enc *json.Encoder) error {
	type category struct {
		Name string `json:"name"`
	}
	labels := ws.Cache.Categories()
	out := make([]category, len(labels))
	for i, label := range labels {
		out[i] = category{Name: label}
	}
	return enc.Encode(out)
}

// handleQuery echoes the sanitized state for a query string plus its
// canonical URL form, so controls can reflect exactly what will be applied.
func (ws *WebServer) handleQuery(w http.ResponseWriter, r *http.Request, sessionId string, enc *json.Encoder) error {
	state, _, err := query.StateFromValues(ws.Config, r.URL.Query())
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return enc.Encode(ErrorResponse{Error: err.Error()})
	}
	return enc.Encode(QueryResponse{
		Query: state,
		Url:   query.ValuesFromState(ws.Config, state).Encode(),
	})
}

// handleReload re-runs the catalog load, the retry affordance for the
// connection-error state. A client gone before the join completes discards
// the results through the request context.
func (ws *WebServer) handleReload(w http.ResponseWriter, r *http.Request, sessionId string, enc *json.Encoder) error {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return enc.Encode(ReloadResponse{Ok: false, Error: "POST required"})
	}
	noReloads.Inc()

	if err := ws.Cache.Load(r.Context()); err != nil {
		w.WriteHeader(http.StatusBadGateway)
		return enc.Encode(ReloadResponse{Ok: false, Error: ws.Cache.ErrorMessage()})
	}

	if ws.Storage != nil {
		products, categories := ws.Cache.Snapshot()
		if err := ws.Storage.SaveCatalog(&storage.CatalogSnapshot{
			Products:   products,
			Categories: categories,
			FetchedAt:  time.Now().UTC(),
		}); err != nil {
			return enc.Encode(ReloadResponse{Ok: true, Error: err.Error()})
		}
	}
	if ws.OnReload != nil {
		go ws.OnReload()
	}
	return enc.Encode(ReloadResponse{Ok: true})
}

// handleReset is the clear-filters action: every criterion back to its
// default. The response echoes the reset state so controls can follow.
func (ws *WebServer) handleReset(w http.ResponseWriter, r *http.Request, sessionId string, enc *json.Encoder) error {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return enc.Encode(ErrorResponse{Error: "POST required"})
	}

	cfg := ws.Config.WithDefaults()
	state := types.QueryState{
		SelectedCategories: []string{},
		PriceRange:         cfg.PriceDomain,
		Sort:               types.SortRelevance,
	}
	if ws.Tracking != nil {
		go ws.Tracking.TrackFiltersCleared(sessionId, r)
	}
	return enc.Encode(QueryResponse{
		Query: state,
		Url:   query.ValuesFromState(cfg, state).Encode(),
	})
}

// warm start, used by main before the first remote load finishes
func SeedFromDisk(cache *catalog.Cache, disk *storage.DiskStorage) error {
	snapshot, err := disk.LoadCatalog()
	if err != nil || snapshot == nil {
		return err
	}
	cache.Seed(snapshot.Products, snapshot.Categories)
	return nil
}
