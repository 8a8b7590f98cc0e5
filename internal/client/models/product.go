package models

import "maps"

// Product is the client view of a looked-up barcode. It is immutable for the
// session; a new lookup produces a new value.
type Product struct {
	Barcode       string         `json:"barcode"`
	ProductName   string         `json:"productName"`
	ImageURL      string         `json:"imageUrl,omitempty"`
	RawAttributes map[string]any `json:"rawAttributes,omitempty"`
	Ingredients   []string       `json:"ingredients"`
}

// Clone copies the product; RawAttributes is copied one level deep.
func (p Product) Clone() Product {
	p.RawAttributes = maps.Clone(p.RawAttributes)
	p.Ingredients = append([]string(nil), p.Ingredients...)
	return p
}

// SimilarProduct is a disambiguation candidate offered by the backend when a
// barcode is unknown.
type SimilarProduct struct {
	Barcode     string `json:"barcode"`
	ProductName string `json:"productName"`
}
