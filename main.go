package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"net/http/pprof"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/raosahab/catalog-query/pkg/catalog"
	"github.com/raosahab/catalog-query/pkg/common"
	"github.com/raosahab/catalog-query/pkg/common/jsoncompat"
	"github.com/raosahab/catalog-query/pkg/messaging"
	"github.com/raosahab/catalog-query/pkg/server"
	"github.com/raosahab/catalog-query/pkg/storage"
	"github.com/raosahab/catalog-query/pkg/tracking"
	"github.com/raosahab/catalog-query/pkg/types"
)

var enableProfiling = flag.Bool("profiling", true, "enable profiling endpoints")
var dataFolder = flag.String("data", "data", "folder for catalog snapshots")
var catalogUrl = os.Getenv("CATALOG_URL")
var redisUrl = os.Getenv("REDIS_URL")
var redisPassword = os.Getenv("REDIS_PASSWORD")
var rabbitUrl = os.Getenv("RABBIT_URL")
var storefront = os.Getenv("STOREFRONT_NAME")
var listenAddress = ":8080"
var debugAddress = ":8081"

func main() {
	flag.Parse()

	if catalogUrl == "" {
		log.Fatalf("No catalog url provided")
	}
	if storefront == "" {
		storefront = "raosahab"
	}

	cfg := types.DefaultConfig()
	cfg.BaseURL = catalogUrl

	client := catalog.NewClient(catalogUrl)
	if redisUrl != "" {
		client.Cache = catalog.NewResponseCache(redisUrl, redisPassword, 0)
		log.Printf("Response cache enabled, url: %s", redisUrl)
	}

	cache := catalog.NewCache(client)
	disk := storage.NewDiskStorage(*dataFolder)

	srv := &server.WebServer{
		Config:  cfg,
		Cache:   cache,
		Storage: disk,
	}

	if rabbitUrl != "" {
		trk, err := tracking.NewRabbitTracking(rabbitUrl, storefront)
		if err != nil {
			log.Fatalf("Failed to create rabbit tracking: %v", err)
		}
		srv.Tracking = trk
		log.Printf("Tracking enabled for storefront %s", storefront)

		if err := connectRefreshFanout(rabbitUrl, srv, cache, disk); err != nil {
			log.Fatalf("Failed to connect refresh fanout: %v", err)
		}
	}

	if err := server.SeedFromDisk(cache, disk); err != nil {
		log.Printf("Failed to load catalog snapshot: %v", err)
	} else if cache.Loaded() {
		log.Println("Warm start from catalog snapshot")
	}

	go func() {
		if err := cache.Load(context.Background()); err != nil {
			log.Printf("Initial catalog load failed: %v", err)
			return
		}
		log.Println("Catalog loaded")
		products, categories := cache.Snapshot()
		if err := disk.SaveCatalog(&storage.CatalogSnapshot{
			Products:   products,
			Categories: categories,
			FetchedAt:  time.Now().UTC(),
		}); err != nil {
			log.Printf("Failed to save catalog snapshot: %v", err)
		}
	}()

	debugMux := http.NewServeMux()
	debugMux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if !cache.Loaded() {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("not ready"))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	debugMux.Handle("/metrics", promhttp.Handler())
	if enableProfiling != nil && *enableProfiling {
		log.Println("Profiling enabled")
		debugMux.HandleFunc("/debug/pprof/", pprof.Index)
		debugMux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
		debugMux.HandleFunc("/debug/pprof/profile", pprof.Profile)
		debugMux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
		debugMux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	}
	go func() {
		log.Printf("Starting debug server %v", debugAddress)
		log.Fatal(http.ListenAndServe(debugAddress, debugMux))
	}()

	mux := http.NewServeMux()
	mux.Handle("/api/", http.StripPrefix("/api", srv.ClientHandler()))

	timeouts := common.LoadTimeoutConfig(common.TimeoutConfig{
		ReadHeader: 5 * time.Second,
		Read:       30 * time.Second,
		Write:      30 * time.Second,
		Idle:       60 * time.Second,
		Shutdown:   15 * time.Second,
		Hook:       5 * time.Second,
	})
	apiServer := common.NewServerWithTimeouts(&http.Server{Addr: listenAddress, Handler: mux}, timeouts)

	saveSnapshot := func(ctx context.Context) error {
		if !cache.Loaded() {
			return nil
		}
		products, categories := cache.Snapshot()
		return disk.SaveCatalog(&storage.CatalogSnapshot{
			Products:   products,
			Categories: categories,
			FetchedAt:  time.Now().UTC(),
		})
	}

	common.RunServerWithShutdown(apiServer, "catalog query api", timeouts.Shutdown, timeouts.Hook, saveSnapshot)
}

type refreshEvent struct {
	Node string `json:"node"`
}

// connectRefreshFanout makes a successful reload on one node refresh the
// caches of its peers. Events carry the publishing node's id so a node
// ignores its own.
func connectRefreshFanout(url string, srv *server.WebServer, cache *catalog.Cache, disk *storage.DiskStorage) error {
	conn, err := amqp.Dial(url)
	if err != nil {
		return err
	}
	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	if err := messaging.DefineTopic(ch, storefront, messaging.TopicCatalogRefresh); err != nil {
		return err
	}
	nodeId := uuid.New().String()

	srv.OnReload = func() {
		if err := messaging.SendEvent(conn, storefront, messaging.TopicCatalogRefresh, refreshEvent{Node: nodeId}); err != nil {
			log.Printf("Failed to publish catalog refresh: %v", err)
		}
	}

	return messaging.ListenToTopic(ch, storefront, messaging.TopicCatalogRefresh, func(d amqp.Delivery) error {
		evt := refreshEvent{}
		if err := jsoncompat.Unmarshal(d.Body, &evt); err != nil {
			log.Printf("Ignoring malformed refresh event: %v", err)
			return nil
		}
		if evt.Node == nodeId {
			return nil
		}
		log.Printf("Catalog refresh requested by node %s", evt.Node)
		if err := cache.Load(context.Background()); err != nil {
			log.Printf("Refresh load failed: %v", err)
			return nil
		}
		products, categories := cache.Snapshot()
		if err := disk.SaveCatalog(&storage.CatalogSnapshot{
			Products:   products,
			Categories: categories,
			FetchedAt:  time.Now().UTC(),
		}); err != nil {
			log.Printf("Failed to save catalog snapshot: %v", err)
		}
		return nil
	})
}
