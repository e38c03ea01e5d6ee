package catalog

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Product mirrors a catalog entry returned by /products.
type Product struct {
	ID          int             `json:"id"`
	Title       string          `json:"title"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	Category    Category        `json:"category"`
	Image       string          `json:"image"`
	Rating      Rating          `json:"rating"`
}

// MarshalJSON writes the price as a JSON number, matching the upstream
// payload.
func (p Product) MarshalJSON() ([]byte, error) {
	type wire Product
	return json.Marshal(struct {
		wire
		Price json.Number `json:"price"`
	}{wire: wire(p), Price: json.Number(p.Price.String())})
}

// Rating summarises customer reviews for a product.
type Rating struct {
	Rate  float64 `json:"rate"`
	Count int     `json:"count"`
}

// Category is a bare catalog label such as "electronics".
type Category = string

// PageResult is one client-side page of the catalog.
type PageResult struct {
	Items       []Product `json:"data"`
	TotalPages  int       `json:"totalPages"`
	CurrentPage int       `json:"currentPage"`
	TotalItems  int       `json:"totalItems"`
}

// PriceLabel formats the price with two decimals and a dollar sign.
func (p Product) PriceLabel() string {
	return "$" + p.Price.StringFixed(2)
}
