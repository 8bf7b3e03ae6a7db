package types

import "time"

// Config carries the values the original storefront kept as module-level
// constants. One Config is injected at construction, nothing reads globals.
type Config struct {
	// BaseURL of the remote catalog service, without trailing slash.
	BaseURL string
	// PriceDomain bounds every price range the store will accept.
	PriceDomain PriceRange
	// KeywordDelay is the debounce window for free-text input.
	KeywordDelay time.Duration
	// KeywordParam is the URL query parameter the keyword round-trips
	// through.
	KeywordParam string
}

func DefaultConfig() Config {
	return Config{
		PriceDomain:  PriceRange{Min: 0, Max: 25000},
		KeywordDelay: 450 * time.Millisecond,
		KeywordParam: "keyword",
	}
}

// WithDefaults fills unset fields so partially constructed configs behave.
func (c Config) WithDefaults() Config {
	def := DefaultConfig()
	if c.PriceDomain.Min == 0 && c.PriceDomain.Max == 0 {
		c.PriceDomain = def.PriceDomain
	}
	if c.KeywordDelay <= 0 {
		c.KeywordDelay = def.KeywordDelay
	}
	if c.KeywordParam == "" {
		c.KeywordParam = def.KeywordParam
	}
	return c
}
