// Package catalog fetches and caches the remote product collection.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/raosahab/catalog-query/pkg/types"
)

// ErrConnection wraps any failure of the paired catalog fetches. Callers
// show one connection-error state and offer a retry, they never see the
// individual request errors.
var ErrConnection = errors.New("catalog connection failed")

// ConnectionErrorMessage is the user-facing text for the error state.
const ConnectionErrorMessage = "Failed to fetch data. Please check your connection."

type fetchedProducts struct {
	products []types.Product
	err      error
}

type fetchedCategories struct {
	labels []string
	err    error
}

// Cache holds the most recently fetched product collection and the known
// category labels. Load runs the two fetches concurrently and applies their
// combined result only after both complete.
type Cache struct {
	client *Client

	mu         sync.RWMutex
	products   []types.Product
	categories []string
	loaded     bool
	loading    bool
	errMsg     string

	onCategories func([]string)
}

func NewCache(client *Client) *Cache {
	return &Cache{
		client:   client,
		loading:  true,
		products: []types.Product{},
	}
}

// OnCategories registers the seeding hook invoked with the discovered
// category labels after every successful load.
func (c *Cache) OnCategories(fn func([]string)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onCategories = fn
}

// Load fetches products and categories concurrently and joins both before
// touching cache state. A context cancelled before the join completes means
// the requester is gone: the results are discarded and the shared state goes
// back to what it was, other consumers keep seeing the previous data and
// error state. A failed load keeps whatever data a previous load left; the
// error state only changes once the join decides.
func (c *Cache) Load(ctx context.Context) error {
	c.mu.Lock()
	wasLoading := c.loading
	c.loading = true
	c.mu.Unlock()

	productsChan := make(chan fetchedProducts, 1)
	categoriesChan := make(chan fetchedCategories, 1)

	go func() {
		products, err := c.client.FetchProducts(ctx)
		productsChan <- fetchedProducts{products: products, err: err}
	}()
	go func() {
		labels, err := c.client.FetchCategories(ctx)
		categoriesChan <- fetchedCategories{labels: labels, err: err}
	}()

	productsResult := <-productsChan
	categoriesResult := <-categoriesChan

	if err := ctx.Err(); err != nil {
		c.mu.Lock()
		c.loading = wasLoading
		c.mu.Unlock()
		return err
	}

	if productsResult.err != nil || categoriesResult.err != nil {
		c.mu.Lock()
		c.loading = false
		c.errMsg = ConnectionErrorMessage
		c.mu.Unlock()
		cause := productsResult.err
		if cause == nil {
			cause = categoriesResult.err
		}
		return fmt.Errorf("%w: %v", ErrConnection, cause)
	}

	c.mu.Lock()
	c.products = productsResult.products
	c.categories = categoriesResult.labels
	c.loaded = true
	c.loading = false
	c.errMsg = ""
	seed := c.onCategories
	labels := c.categories
	c.mu.Unlock()

	if seed != nil {
		seed(labels)
	}
	return nil
}

// Seed installs a previously persisted snapshot, used for warm starts. It
// does not count as a load for error-state purposes.
func (c *Cache) Seed(products []types.Product, categories []string) {
	c.mu.Lock()
	if products == nil {
		products = []types.Product{}
	}
	c.products = products
	c.categories = categories
	c.loaded = true
	c.loading = false
	seed := c.onCategories
	c.mu.Unlock()

	if seed != nil && len(categories) > 0 {
		seed(categories)
	}
}

// Snapshot returns the cached collections. The product slice is shared and
// read-only by convention; the engine never mutates it.
func (c *Cache) Snapshot() ([]types.Product, []string) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.products, c.categories
}

func (c *Cache) Products() []types.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.products
}

func (c *Cache) Categories() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.categories
}

func (c *Cache) Loading() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loading
}

func (c *Cache) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}

// ErrorMessage returns the connection-error text, empty when healthy.
func (c *Cache) ErrorMessage() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.errMsg
}
