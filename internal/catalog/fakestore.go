package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/sync/errgroup"
)

// maxBatchConcurrency bounds the fan-out of batch product lookups.
const maxBatchConcurrency = 10

// FakeStoreClient fetches products from a FakeStore-shaped HTTP API
type FakeStoreClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewFakeStoreClient creates a catalog client for the given base URL
func NewFakeStoreClient(baseURL string) *FakeStoreClient {
	return &FakeStoreClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   10 * time.Second,
		},
	}
}

// ListProducts fetches and validates all products from the store API
func (c *FakeStoreClient) ListProducts(ctx context.Context) ([]Product, error) {
	body, err := c.get(ctx, c.baseURL+"/products")
	if err != nil {
		return nil, err
	}

	var raw []productRaw
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode product list: %w", err)
	}

	products := make([]Product, 0, len(raw))
	for _, item := range raw {
		product, err := item.validate()
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, nil
}

// GetProduct fetches a single product; a 404 maps to ErrProductNotFound
func (c *FakeStoreClient) GetProduct(ctx context.Context, id uint) (Product, error) {
	body, err := c.get(ctx, fmt.Sprintf("%s/products/%d", c.baseURL, id))
	if err != nil {
		return Product{}, err
	}

	var raw productRaw
	if err := json.Unmarshal(body, &raw); err != nil {
		return Product{}, fmt.Errorf("failed to decode product: %w", err)
	}
	return raw.validate()
}

// GetProductsInBatch resolves every id concurrently; the first error
// cancels the remaining lookups and fails the whole batch
func (c *FakeStoreClient) GetProductsInBatch(ctx context.Context, ids []uint) ([]Product, error) {
	return fanOut(ctx, ids, c.GetProduct)
}

func (c *FakeStoreClient) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("store API request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrProductNotFound
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, &UnexpectedResponseError{StatusCode: resp.StatusCode, Body: body}
	}

	return body, nil
}

// fanOut runs fetch for every id on a bounded errgroup, preserving
// input order in the result slice.
func fanOut(ctx context.Context, ids []uint, fetch func(context.Context, uint) (Product, error)) ([]Product, error) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxBatchConcurrency)

	products := make([]Product, len(ids))
	for i, id := range ids {
		g.Go(func() error {
			product, err := fetch(ctx, id)
			if err != nil {
				return err
			}
			products[i] = product
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return products, nil
}

// productRaw mirrors the upstream wire shape. Required fields are
// pointers so missing keys can be detected after decoding.
type productRaw struct {
	ID     *uint    `json:"id"`
	Title  *string  `json:"title"`
	Image  *string  `json:"image"`
	Price  *float64 `json:"price"`
	Rating *struct {
		Rate *float64 `json:"rate"`
	} `json:"rating"`
}

func (r productRaw) validate() (Product, error) {
	switch {
	case r.ID == nil:
		return Product{}, fmt.Errorf("invalid product payload: missing id")
	case r.Title == nil:
		return Product{}, fmt.Errorf("invalid product payload: missing title")
	case r.Image == nil:
		return Product{}, fmt.Errorf("invalid product payload: missing image")
	case r.Price == nil:
		return Product{}, fmt.Errorf("invalid product payload: missing price")
	}

	product := Product{
		ID:    *r.ID,
		Title: *r.Title,
		Image: *r.Image,
		Price: *r.Price,
	}
	// rating.rate is optional upstream
	if r.Rating != nil && r.Rating.Rate != nil {
		product.Rating = r.Rating.Rate
	}
	return product, nil
}
