package query

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/AlexEnrique/aiqfav/internal/catalog"
	"github.com/AlexEnrique/aiqfav/internal/customer/domain"
	"github.com/AlexEnrique/aiqfav/pkg/cache"
	"github.com/AlexEnrique/aiqfav/pkg/logger"
)

// ListFavoritesQuery represents the query for a customer's favorites
type ListFavoritesQuery struct {
	CustomerID uint
}

// ListFavoritesHandler resolves a customer's favorite edges into full
// products through the catalog client, caching the resolved list
type ListFavoritesHandler struct {
	repo    domain.CustomerRepository
	catalog catalog.Client
	store   cache.Store
	ttl     time.Duration
}

// NewListFavoritesHandler creates a new list favorites handler
func NewListFavoritesHandler(repo domain.CustomerRepository, catalogClient catalog.Client, store cache.Store, ttl time.Duration) *ListFavoritesHandler {
	return &ListFavoritesHandler{repo: repo, catalog: catalogClient, store: store, ttl: ttl}
}

// Handle executes the list favorites query. The customer-existence
// check runs only on the miss path; a warm entry is served directly.
// delete_customer drops this entry, which keeps the window where a
// deleted customer's list could be served to a minimum.
func (h *ListFavoritesHandler) Handle(ctx context.Context, q ListFavoritesQuery) ([]catalog.Product, error) {
	if q.CustomerID == 0 {
		return nil, fmt.Errorf("invalid customer id")
	}

	key := domain.FavoritesKey(q.CustomerID)

	cached, err := h.store.Get(ctx, key)
	if err == nil {
		var products []catalog.Product
		if err := json.Unmarshal(cached, &products); err != nil {
			return nil, fmt.Errorf("corrupt cache entry %q: %w", key, err)
		}
		logger.Debug(ctx).Str("key", key).Msg("Cache hit")
		return products, nil
	}
	if !errors.Is(err, cache.ErrMiss) {
		return nil, err
	}

	if _, err := h.repo.FindByID(q.CustomerID); err != nil {
		return nil, err
	}

	favorites, err := h.repo.ListFavorites(q.CustomerID)
	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(favorites))
	for _, favorite := range favorites {
		ids = append(ids, favorite.ProductID)
	}

	// Partial failure aborts the whole batch
	products, err := h.catalog.GetProductsInBatch(ctx, ids)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(products)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize favorites: %w", err)
	}
	if err := h.store.Set(ctx, key, payload, h.ttl); err != nil {
		return nil, err
	}

	return products, nil
}
