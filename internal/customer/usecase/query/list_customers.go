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

// ListCustomersQuery represents the query to list all customers
type ListCustomersQuery struct{}

// ListCustomersHandler handles customer listing behind a single
// aggregate cache entry
type ListCustomersHandler struct {
	repo  domain.CustomerRepository
	store cache.Store
	ttl   time.Duration
}

// NewListCustomersHandler creates a new list customers handler
func NewListCustomersHandler(repo domain.CustomerRepository, store cache.Store, ttl time.Duration) *ListCustomersHandler {
	return &ListCustomersHandler{repo: repo, store: store, ttl: ttl}
}

// Handle executes the list customers query. The aggregate entry is
// invalidated by create and delete, so a hit is never missing a
// member.
func (h *ListCustomersHandler) Handle(ctx context.Context, _ ListCustomersQuery) ([]domain.CustomerPublic, error) {
	cached, err := h.store.Get(ctx, domain.CustomersKey)
	if err == nil {
		var customers []domain.CustomerPublic
		if err := json.Unmarshal(cached, &customers); err != nil {
			return nil, fmt.Errorf("corrupt cache entry %q: %w", domain.CustomersKey, err)
		}
		logger.Debug(ctx).Str("key", domain.CustomersKey).Msg("Cache hit")
		return customers, nil
	}
	if !errors.Is(err, cache.ErrMiss) {
		return nil, err
	}

	customers, err := h.repo.FindAll()
	if err != nil {
		return nil, err
	}

	public := make([]domain.CustomerPublic, 0, len(customers))
	for _, customer := range customers {
		public = append(public, customer.Public())
	}

	payload, err := json.Marshal(public)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize customer list: %w", err)
	}
	if err := h.store.Set(ctx, domain.CustomersKey, payload, h.ttl); err != nil {
		return nil, err
	}

	return public, nil
}
