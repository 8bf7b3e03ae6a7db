package types

import (
	"encoding/json"
	"testing"
)

func TestProductDecodeInlineCategory(t *testing.T) {
	data := []byte(`{"_id":"p1","name":"Linen Kurta","category":"Casual","price":2499,"createdAt":"2024-06-01T10:00:00Z"}`)
	var p Product
	if err := json.Unmarshal(data, &p); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if p.ResolvedCategory() != "Casual" {
		t.Errorf("Expected category Casual, got %v", p.ResolvedCategory())
	}
	if p.PriceValue() != 2499 {
		t.Errorf("Expected price 2499, got %v", p.PriceValue())
	}
	if p.CreatedUnix() == 0 {
		t.Errorf("Expected parseable createdAt")
	}
}

func TestProductDecodeCategoryReference(t *testing.T) {
	data := []byte(`{"_id":1,"name":"Royal Bandhgala","category":{"_id":"c1","name":"Formal"},"price":"8999"}`)
	var p Product
	if err := json.Unmarshal(data, &p); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if p.Id != "1" {
		t.Errorf("Expected numeric id coerced to string, got %v", p.Id)
	}
	if p.ResolvedCategory() != "Formal" {
		t.Errorf("Expected category Formal, got %v", p.ResolvedCategory())
	}
	if p.PriceValue() != 8999 {
		t.Errorf("Expected string price coerced to 8999, got %v", p.PriceValue())
	}
}

func TestProductDecodeDefaults(t *testing.T) {
	data := []byte(`{"name":"Mystery Box","price":"not a number"}`)
	var p Product
	if err := json.Unmarshal(data, &p); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if p.ResolvedCategory() != UncategorizedLabel {
		t.Errorf("Expected %v, got %v", UncategorizedLabel, p.ResolvedCategory())
	}
	if p.PriceValue() != 0 {
		t.Errorf("Expected non-numeric price to coerce to 0, got %v", p.PriceValue())
	}
	if p.CreatedUnix() != 0 {
		t.Errorf("Expected missing createdAt to order as epoch, got %v", p.CreatedUnix())
	}
}

func TestPriceRangeClamp(t *testing.T) {
	domain := PriceRange{Min: 0, Max: 25000}
	tests := []struct {
		name string
		in   PriceRange
		want PriceRange
	}{
		{"inside", PriceRange{100, 3000}, PriceRange{100, 3000}},
		{"inverted", PriceRange{3000, 100}, PriceRange{100, 3000}},
		{"outside domain", PriceRange{-50, 90000}, PriceRange{0, 25000}},
	}
	for _, tt := range tests {
		if got := tt.in.Clamp(domain); got != tt.want {
			t.Errorf("%s: expected %v, got %v", tt.name, tt.want, got)
		}
	}
}

func TestParseSortMode(t *testing.T) {
	if _, ok := ParseSortMode("price-asc"); !ok {
		t.Errorf("Expected price-asc to be valid")
	}
	if _, ok := ParseSortMode("by-vibes"); ok {
		t.Errorf("Expected unknown sort mode to be rejected")
	}
}
