package query

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/AlexEnrique/aiqfav/internal/customer/domain"
	"github.com/AlexEnrique/aiqfav/pkg/cache"
	"github.com/AlexEnrique/aiqfav/pkg/logger"
)

// GetCustomerQuery represents the query to get a customer by ID
type GetCustomerQuery struct {
	ID uint
}

// GetCustomerHandler handles get customer queries with a read-through
// cache in front of the repository
type GetCustomerHandler struct {
	repo  domain.CustomerRepository
	store cache.Store
	ttl   time.Duration
}

// NewGetCustomerHandler creates a new get customer handler
func NewGetCustomerHandler(repo domain.CustomerRepository, store cache.Store, ttl time.Duration) *GetCustomerHandler {
	return &GetCustomerHandler{repo: repo, store: store, ttl: ttl}
}

// Handle executes the get customer query. A miss re-queries the
// repository every time; not-found is never cached, so a never-created
// id pays the full cost on each call.
func (h *GetCustomerHandler) Handle(ctx context.Context, q GetCustomerQuery) (*domain.CustomerPublic, error) {
	if q.ID == 0 {
		return nil, fmt.Errorf("invalid customer id")
	}

	key := domain.CustomerKey(q.ID)

	cached, err := h.store.Get(ctx, key)
	if err == nil {
		var public domain.CustomerPublic
		if err := json.Unmarshal(cached, &public); err != nil {
			return nil, fmt.Errorf("corrupt cache entry %q: %w", key, err)
		}
		logger.Debug(ctx).Str("key", key).Msg("Cache hit")
		return &public, nil
	}
	if !errors.Is(err, cache.ErrMiss) {
		// Infrastructure failure, not a miss; surface it.
		return nil, err
	}

	customer, err := h.repo.FindByID(q.ID)
	if err != nil {
		return nil, err
	}

	public := customer.Public()
	payload, err := json.Marshal(public)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize customer: %w", err)
	}
	if err := h.store.Set(ctx, key, payload, h.ttl); err != nil {
		return nil, err
	}

	return &public, nil
}
