package catalog

import (
	"context"
	"errors"
	"fmt"
)

// Product is the externally-owned product entity. It is never
// persisted here beyond caching.
type Product struct {
	ID     uint     `json:"id"`
	Title  string   `json:"title"`
	Image  string   `json:"image"`
	Price  float64  `json:"price"`
	Rating *float64 `json:"rating,omitempty"`
}

// ErrProductNotFound is returned when the upstream API answers 404
// for a product id.
var ErrProductNotFound = errors.New("product not found")

// UnexpectedResponseError is returned for any other non-2xx upstream
// response and carries the raw body and status code.
type UnexpectedResponseError struct {
	StatusCode int
	Body       []byte
}

func (e *UnexpectedResponseError) Error() string {
	return fmt.Sprintf("unexpected response from store API: %d - %s", e.StatusCode, e.Body)
}

// Client defines the contract for product catalog access
type Client interface {
	// ListProducts returns every product the catalog offers.
	ListProducts(ctx context.Context) ([]Product, error)

	// GetProduct returns a single product or ErrProductNotFound.
	GetProduct(ctx context.Context, id uint) (Product, error)

	// GetProductsInBatch resolves all ids concurrently. The first
	// failure aborts the whole batch; no partial results.
	GetProductsInBatch(ctx context.Context, ids []uint) ([]Product, error)
}
