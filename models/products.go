package models

import (
	"errors"

	"github.com/shopspring/decimal"
)

// ProductFields are the normalized spreadsheet values of one product, before
// nutrition metrics are derived.
type ProductFields struct {
	ID          string
	Name        string
	Price       decimal.NullDecimal
	Taste       float64
	Similarity  *float64
	Calories    float64
	Protein     float64
	Fat         float64
	Carbs       float64
	TotalMacros string
	LabTested   bool
	Links       []string
	Tag         Tag
}

// Product is one food item of the catalog. Values are built by NewProduct and
// carry their derived metrics from the start; nothing in this module mutates
// a Product after construction.
type Product struct {
	ProductFields
	Metrics
}

// NewProduct derives the nutrition metrics for f and returns the finished
// product. Links and Similarity are copied so the caller's slices and pointers
// are not shared.
func NewProduct(f ProductFields) Product {
	if f.Links != nil {
		links := make([]string, len(f.Links))
		copy(links, f.Links)
		f.Links = links
	} else {
		f.Links = []string{}
	}
	if f.Similarity != nil {
		s := *f.Similarity
		f.Similarity = &s
	}
	if !f.Tag.IsValid() {
		f.Tag = TagOther
	}

	return Product{
		ProductFields: f,
		Metrics:       ComputeMetrics(f.Calories, f.Protein, f.Fat, f.Carbs),
	}
}

// Clone returns a copy of p that shares no slices or pointers with it.
func (p Product) Clone() Product {
	out := p
	out.Links = append([]string{}, p.Links...)
	if p.Similarity != nil {
		s := *p.Similarity
		out.Similarity = &s
	}
	return out
}

// HasPrice reports whether the spreadsheet carried a price for the product.
func (p Product) HasPrice() bool {
	return p.Price.Valid
}

// ErrProductNotFound is returned when a product is not found.
var ErrProductNotFound = errors.New("product not found")
