package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/raosahab/catalog-query/pkg/common/jsoncompat"
	"github.com/raosahab/catalog-query/pkg/types"
)

var (
	noFetches = promauto.NewCounter(prometheus.CounterOpts{
		Name: "catalogquery_fetches_total",
		Help: "The total number of catalog service requests",
	})
	noFetchFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "catalogquery_fetch_failures_total",
		Help: "The total number of failed catalog service requests",
	})
)

const responseCacheTtl = time.Minute * 5

// Client talks to the remote catalog service. An optional ResponseCache
// short-circuits repeated fetches of the same collection.
type Client struct {
	BaseURL string
	Http    *http.Client
	Cache   *ResponseCache
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		Http:    &http.Client{},
	}
}

func (c *Client) getBody(ctx context.Context, path, cacheKey string) ([]byte, error) {
	if c.Cache != nil {
		if data, err := c.Cache.GetRaw(cacheKey); err == nil {
			return data, nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return nil, err
	}
	noFetches.Inc()
	resp, err := c.Http.Do(req)
	if err != nil {
		noFetchFailures.Inc()
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		noFetchFailures.Inc()
		return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, path)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		noFetchFailures.Inc()
		return nil, err
	}
	if c.Cache != nil {
		// cache is best effort
		_ = c.Cache.SetRaw(cacheKey, data, responseCacheTtl)
	}
	return data, nil
}

// FetchProducts fetches the full product collection. The service responds
// with either {"products": [...]} or a bare array; any other valid JSON
// shape degrades to an empty collection rather than an error.
func (c *Client) FetchProducts(ctx context.Context) ([]types.Product, error) {
	data, err := c.getBody(ctx, "/api/products", "catalog_products")
	if err != nil {
		return nil, err
	}

	var envelope struct {
		Products []types.Product `json:"products"`
	}
	if err := jsoncompat.Unmarshal(data, &envelope); err == nil && envelope.Products != nil {
		return envelope.Products, nil
	}

	var bare []types.Product
	if err := jsoncompat.Unmarshal(data, &bare); err == nil && bare != nil {
		return bare, nil
	}

	if !jsoncompat.Valid(data) {
		return nil, fmt.Errorf("malformed products response")
	}
	return []types.Product{}, nil
}

// FetchCategories fetches the category listing and extracts the labels.
func (c *Client) FetchCategories(ctx context.Context) ([]string, error) {
	data, err := c.getBody(ctx, "/api/categories", "catalog_categories")
	if err != nil {
		return nil, err
	}

	var categories []types.Category
	if err := jsoncompat.Unmarshal(data, &categories); err != nil {
		if !jsoncompat.Valid(data) {
			return nil, fmt.Errorf("malformed categories response")
		}
		return []string{}, nil
	}

	labels := make([]string, 0, len(categories))
	for _, cat := range categories {
		if cat.Name != "" {
			labels = append(labels, cat.Name)
		}
	}
	return labels, nil
}
