// Package server exposes the catalog query engine over HTTP to the
// rendering layer.
package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/raosahab/catalog-query/pkg/catalog"
	"github.com/raosahab/catalog-query/pkg/common"
	"github.com/raosahab/catalog-query/pkg/storage"
	"github.com/raosahab/catalog-query/pkg/tracking"
	"github.com/raosahab/catalog-query/pkg/types"
)

var (
	noSearches = promauto.NewCounter(prometheus.CounterOpts{
		Name: "catalogquery_searches_total",
		Help: "The total number of processed searches",
	})
	noReloads = promauto.NewCounter(prometheus.CounterOpts{
		Name: "catalogquery_reloads_total",
		Help: "The total number of catalog reload requests",
	})
)

type WebServer struct {
	Config   types.Config
	Cache    *catalog.Cache
	Tracking tracking.Tracking
	Storage  *storage.DiskStorage
	// OnReload, when set, is fired after every successful reload so peer
	// nodes can be told to refresh their own caches.
	OnReload func()
}

// ClientHandler serves the storefront-facing endpoints, mounted under /api.
func (ws *WebServer) ClientHandler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/products", common.JsonHandler(ws.Tracking, ws.handleProducts))
	mux.HandleFunc("/categories", common.JsonHandler(ws.Tracking, ws.handleCategories))
	mux.HandleFunc("/query", common.JsonHandler(ws.Tracking, ws.handleQuery))
	mux.HandleFunc("/reload", common.JsonHandler(ws.Tracking, ws.handleReload))
	mux.HandleFunc("/reset", common.JsonHandler(ws.Tracking, ws.handleReset))
	return mux
}
