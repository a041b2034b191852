// Package product is the client for the remote products API
// (GET /products and GET /products/search).
package product

import (
	"errors"
	"strconv"
)

// ErrFetch is the single failure kind for every remote call. The cause is
// logged by the client and never wrapped into the returned error.
var ErrFetch = errors.New("fetch failed")

// Product is one catalog entry. ID is opaque and Thumbnail may be any
// string, relative paths included; individual items are never rejected.
type Product struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Price       float64 `json:"price"`
	Thumbnail   string  `json:"thumbnail,omitempty"`
	Description string  `json:"description,omitempty"`
	Category    string  `json:"category,omitempty"`
	Brand       string  `json:"brand,omitempty"`
	Rating      float64 `json:"rating,omitempty"`
	Stock       int     `json:"stock,omitempty"`
}

// PriceLabel formats the price the way the catalog shows it: "$9.99 USD".
func (p Product) PriceLabel() string {
	return "$" + strconv.FormatFloat(p.Price, 'f', -1, 64) + " USD"
}

// listResponse is the body shape of both endpoints. Only Products is used;
// a body without it is malformed.
type listResponse struct {
	Products []Product `json:"products" validate:"required"`
	Total    int       `json:"total"`
	Skip     int       `json:"skip"`
	Limit    int       `json:"limit"`
}
