package types

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// UncategorizedLabel is the resolved category for products that arrive
// without one.
const UncategorizedLabel = "Uncategorized"

// ItemId is the stable product identifier. The catalog service emits it as
// either a string or a number depending on backend version.
type ItemId string

func (id *ItemId) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*id = ""
		return nil
	}
	if strings.HasPrefix(s, "\"") {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*id = ItemId(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = ItemId(n.String())
	return nil
}

// Price coerces the catalog's mixed price encodings (number or numeric
// string) into a float. Anything non-numeric decodes as zero.
type Price float64

func (p *Price) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "" || s == "null" {
		*p = 0
		return nil
	}
	if strings.HasPrefix(s, "\"") {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			*p = 0
			return nil
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			*p = 0
			return nil
		}
		*p = Price(f)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		*p = 0
		return nil
	}
	*p = Price(f)
	return nil
}

func (p Price) MarshalJSON() ([]byte, error) {
	return json.Marshal(float64(p))
}

// CategoryRef is either an inline label ("Formal") or a reference object
// ({"name":"Formal"}) depending on whether the backend populated the
// relation.
type CategoryRef struct {
	Name string
}

func (c *CategoryRef) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		c.Name = ""
		return nil
	}
	if strings.HasPrefix(s, "\"") {
		return json.Unmarshal(data, &c.Name)
	}
	var ref struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &ref); err != nil {
		c.Name = ""
		return nil
	}
	c.Name = ref.Name
	return nil
}

func (c CategoryRef) MarshalJSON() ([]byte, error) {
	if c.Name == "" {
		return []byte("null"), nil
	}
	return json.Marshal(c.Name)
}

type Product struct {
	Id          ItemId      `json:"_id"`
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Category    CategoryRef `json:"category"`
	Price       Price       `json:"price"`
	CreatedAt   string      `json:"createdAt,omitempty"`

	// Presentation payload, passed through untouched.
	Images json.RawMessage `json:"images,omitempty"`
	Stock  json.RawMessage `json:"countInStock,omitempty"`
	Rating json.RawMessage `json:"rating,omitempty"`
}

// ResolvedCategory returns the category label used for filtering and
// keyword matching.
func (p *Product) ResolvedCategory() string {
	if p.Category.Name == "" {
		return UncategorizedLabel
	}
	return p.Category.Name
}

func (p *Product) PriceValue() float64 {
	return float64(p.Price)
}

// CreatedUnix parses createdAt for recency ordering. Unparseable timestamps
// order as epoch, so they sink to the bottom of a newest-first sort.
func (p *Product) CreatedUnix() int64 {
	if p.CreatedAt == "" {
		return 0
	}
	t, err := time.Parse(time.RFC3339, p.CreatedAt)
	if err != nil {
		return 0
	}
	return t.Unix()
}

// SearchText is the haystack for keyword matching: name, description and
// resolved category, case-folded.
func (p *Product) SearchText() string {
	return strings.ToLower(p.Name + " " + p.Description + " " + p.ResolvedCategory())
}

// Category is one entry of the catalog service's category listing.
type Category struct {
	Id   ItemId `json:"_id,omitempty"`
	Name string `json:"name"`
}
