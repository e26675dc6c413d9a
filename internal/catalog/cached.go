package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/AlexEnrique/aiqfav/pkg/cache"
	"github.com/AlexEnrique/aiqfav/pkg/logger"
)

const productsKey = "products"

func productKey(id uint) string {
	return fmt.Sprintf("product:%d", id)
}

// CachedClient decorates a Client with a read-through cache. Cache
// entries are derived data: behavior is identical with a cold or a
// warm cache, modulo latency.
type CachedClient struct {
	remote Client
	store  cache.Store
	ttl    time.Duration
}

// NewCachedClient wraps a catalog client with read-through caching
func NewCachedClient(remote Client, store cache.Store, ttl time.Duration) *CachedClient {
	return &CachedClient{remote: remote, store: store, ttl: ttl}
}

// GetProduct checks the cache first and only calls the remote API on
// a miss. Store failures other than a miss propagate unchanged.
func (c *CachedClient) GetProduct(ctx context.Context, id uint) (Product, error) {
	key := productKey(id)

	cached, err := c.store.Get(ctx, key)
	if err == nil {
		var product Product
		if err := json.Unmarshal(cached, &product); err != nil {
			return Product{}, fmt.Errorf("corrupt cache entry %q: %w", key, err)
		}
		return product, nil
	}
	if !errors.Is(err, cache.ErrMiss) {
		return Product{}, err
	}

	product, err := c.remote.GetProduct(ctx, id)
	if err != nil {
		return Product{}, err
	}

	if err := c.cacheProduct(ctx, key, product); err != nil {
		return Product{}, err
	}
	return product, nil
}

// ListProducts serves the aggregate cache entry when present. On a
// miss it fetches the full list, caches it, and fans the individual
// products out to their own keys in a single pipelined write.
func (c *CachedClient) ListProducts(ctx context.Context) ([]Product, error) {
	cached, err := c.store.Get(ctx, productsKey)
	if err == nil {
		var products []Product
		if err := json.Unmarshal(cached, &products); err != nil {
			return nil, fmt.Errorf("corrupt cache entry %q: %w", productsKey, err)
		}
		return products, nil
	}
	if !errors.Is(err, cache.ErrMiss) {
		return nil, err
	}

	products, err := c.remote.ListProducts(ctx)
	if err != nil {
		return nil, err
	}

	listPayload, err := json.Marshal(products)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize product list: %w", err)
	}

	pipe := c.store.Pipeline()
	pipe.Set(productsKey, listPayload, c.ttl)
	for _, product := range products {
		payload, err := json.Marshal(product)
		if err != nil {
			return nil, fmt.Errorf("failed to serialize product %d: %w", product.ID, err)
		}
		pipe.Set(productKey(product.ID), payload, c.ttl)
	}
	if err := pipe.Exec(ctx); err != nil {
		return nil, err
	}

	logger.Debug(ctx).
		Int("count", len(products)).
		Msg("Product list cached")

	return products, nil
}

// GetProductsInBatch fans out cached lookups; the first error aborts
// the batch with no partial results
func (c *CachedClient) GetProductsInBatch(ctx context.Context, ids []uint) ([]Product, error) {
	return fanOut(ctx, ids, c.GetProduct)
}

func (c *CachedClient) cacheProduct(ctx context.Context, key string, product Product) error {
	payload, err := json.Marshal(product)
	if err != nil {
		return fmt.Errorf("failed to serialize product %d: %w", product.ID, err)
	}
	return c.store.Set(ctx, key, payload, c.ttl)
}
