package catalog_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlexEnrique/aiqfav/internal/catalog"
	"github.com/AlexEnrique/aiqfav/pkg/cache"
	"github.com/AlexEnrique/aiqfav/pkg/testsupport"
)

func rating(v float64) *float64 { return &v }

func testProducts() []catalog.Product {
	return []catalog.Product{
		{ID: 1, Title: "Backpack", Image: "https://img/1.jpg", Price: 109.95, Rating: rating(3.9)},
		{ID: 2, Title: "T-Shirt", Image: "https://img/2.jpg", Price: 22.3},
	}
}

func TestGetProductMissFetchesAndCaches(t *testing.T) {
	remote := testsupport.NewCountingCatalog(testProducts()...)
	store := cache.NewMemoryStore()
	client := catalog.NewCachedClient(remote, store, time.Minute)
	ctx := context.Background()

	product, err := client.GetProduct(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Backpack", product.Title)
	assert.Equal(t, 1, remote.GetCalls)

	// Second lookup is served from the store
	product, err = client.GetProduct(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Backpack", product.Title)
	assert.Equal(t, 1, remote.GetCalls, "cache hit must not reach the remote")
}

func TestGetProductNotFoundIsNotCached(t *testing.T) {
	remote := testsupport.NewCountingCatalog(testProducts()...)
	store := cache.NewMemoryStore()
	client := catalog.NewCachedClient(remote, store, time.Minute)
	ctx := context.Background()

	_, err := client.GetProduct(ctx, 404)
	assert.ErrorIs(t, err, catalog.ErrProductNotFound)
	assert.Equal(t, 0, store.Len())

	_, err = client.GetProduct(ctx, 404)
	assert.ErrorIs(t, err, catalog.ErrProductNotFound)
	assert.Equal(t, 2, remote.GetCalls, "failed lookups retry the remote")
}

func TestGetProductStoreFailurePropagates(t *testing.T) {
	boom := errors.New("connection refused")
	remote := testsupport.NewCountingCatalog(testProducts()...)
	client := catalog.NewCachedClient(remote, &testsupport.FailingStore{Err: boom}, time.Minute)

	_, err := client.GetProduct(context.Background(), 1)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, remote.GetCalls, "infrastructure failure must not fall through to the remote")
}

func TestListProductsCachesAggregateAndIndividuals(t *testing.T) {
	remote := testsupport.NewCountingCatalog(testProducts()...)
	store := cache.NewMemoryStore()
	client := catalog.NewCachedClient(remote, store, time.Minute)
	ctx := context.Background()

	products, err := client.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, 1, remote.ListCalls)

	// Aggregate entry plus one entry per product
	assert.Equal(t, 3, store.Len())

	// Individual lookups are now warm too
	product, err := client.GetProduct(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "T-Shirt", product.Title)
	assert.Equal(t, 0, remote.GetCalls)

	// And the list itself is warm
	_, err = client.ListProducts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, remote.ListCalls)
}

func TestListProductsExpiryRefetches(t *testing.T) {
	remote := testsupport.NewCountingCatalog(testProducts()...)
	store := cache.NewMemoryStore()
	client := catalog.NewCachedClient(remote, store, time.Nanosecond)
	ctx := context.Background()

	_, err := client.ListProducts(ctx)
	require.NoError(t, err)

	time.Sleep(time.Millisecond)

	_, err = client.ListProducts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, remote.ListCalls)
}

func TestGetProductsInBatchUsesCachePerProduct(t *testing.T) {
	remote := testsupport.NewCountingCatalog(testProducts()...)
	store := cache.NewMemoryStore()
	client := catalog.NewCachedClient(remote, store, time.Minute)
	ctx := context.Background()

	// Warm one of the two products
	_, err := client.GetProduct(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, 1, remote.GetCalls)

	products, err := client.GetProductsInBatch(ctx, []uint{1, 2})
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, uint(1), products[0].ID)
	assert.Equal(t, uint(2), products[1].ID)
	assert.Equal(t, 2, remote.GetCalls, "only the cold product reaches the remote")
}

func TestGetProductsInBatchFirstErrorAborts(t *testing.T) {
	remote := testsupport.NewCountingCatalog(testProducts()...)
	store := cache.NewMemoryStore()
	client := catalog.NewCachedClient(remote, store, time.Minute)

	products, err := client.GetProductsInBatch(context.Background(), []uint{1, 404, 2})
	assert.ErrorIs(t, err, catalog.ErrProductNotFound)
	assert.Nil(t, products)
}

func TestGetProductCorruptEntryFails(t *testing.T) {
	remote := testsupport.NewCountingCatalog(testProducts()...)
	store := cache.NewMemoryStore()
	client := catalog.NewCachedClient(remote, store, time.Minute)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "product:1", []byte("{not json"), time.Minute))

	_, err := client.GetProduct(ctx, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "corrupt cache entry")
}
