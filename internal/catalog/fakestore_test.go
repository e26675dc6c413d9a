package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetProductDecodesPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products/3", r.URL.Path)
		w.Write([]byte(`{"id":3,"title":"Mens Cotton Jacket","price":55.99,"image":"https://img/3.jpg","rating":{"rate":4.7,"count":500}}`))
	}))
	defer server.Close()

	client := NewFakeStoreClient(server.URL)

	product, err := client.GetProduct(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, uint(3), product.ID)
	assert.Equal(t, "Mens Cotton Jacket", product.Title)
	assert.Equal(t, 55.99, product.Price)
	require.NotNil(t, product.Rating)
	assert.Equal(t, 4.7, *product.Rating)
}

func TestGetProductMapsNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewFakeStoreClient(server.URL)

	_, err := client.GetProduct(context.Background(), 9999)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestGetProductWrapsUpstreamFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream down"))
	}))
	defer server.Close()

	client := NewFakeStoreClient(server.URL)

	_, err := client.GetProduct(context.Background(), 1)
	var unexpected *UnexpectedResponseError
	require.True(t, errors.As(err, &unexpected))
	assert.Equal(t, http.StatusBadGateway, unexpected.StatusCode)
	assert.Contains(t, unexpected.Error(), "upstream down")
}

func TestGetProductRejectsIncompletePayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":1,"title":"No price here","image":"https://img/1.jpg"}`))
	}))
	defer server.Close()

	client := NewFakeStoreClient(server.URL)

	_, err := client.GetProduct(context.Background(), 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing price")
}

func TestListProductsValidatesEveryItem(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products", r.URL.Path)
		w.Write([]byte(`[
			{"id":1,"title":"Backpack","price":109.95,"image":"https://img/1.jpg","rating":{"rate":3.9}},
			{"id":2,"title":"T-Shirt","price":22.3,"image":"https://img/2.jpg"}
		]`))
	}))
	defer server.Close()

	client := NewFakeStoreClient(server.URL)

	products, err := client.ListProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "Backpack", products[0].Title)
	require.NotNil(t, products[0].Rating)
	assert.Nil(t, products[1].Rating, "missing rating stays nil")
}

func TestGetProductsInBatchPreservesOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/products/1":
			w.Write([]byte(`{"id":1,"title":"One","price":1,"image":"i"}`))
		case "/products/2":
			w.Write([]byte(`{"id":2,"title":"Two","price":2,"image":"i"}`))
		case "/products/3":
			w.Write([]byte(`{"id":3,"title":"Three","price":3,"image":"i"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := NewFakeStoreClient(server.URL)

	products, err := client.GetProductsInBatch(context.Background(), []uint{3, 1, 2})
	require.NoError(t, err)
	require.Len(t, products, 3)
	assert.Equal(t, uint(3), products[0].ID)
	assert.Equal(t, uint(1), products[1].ID)
	assert.Equal(t, uint(2), products[2].ID)
}

func TestGetProductsInBatchFailsWhole(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		if r.URL.Path == "/products/2" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte(`{"id":1,"title":"One","price":1,"image":"i"}`))
	}))
	defer server.Close()

	client := NewFakeStoreClient(server.URL)

	products, err := client.GetProductsInBatch(context.Background(), []uint{1, 2, 3})
	assert.ErrorIs(t, err, ErrProductNotFound)
	assert.Nil(t, products, "no partial results on failure")
}
