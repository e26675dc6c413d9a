package command

import (
	"context"
	"fmt"

	"github.com/AlexEnrique/aiqfav/internal/catalog"
	"github.com/AlexEnrique/aiqfav/internal/customer/domain"
	"github.com/AlexEnrique/aiqfav/kafka"
	"github.com/AlexEnrique/aiqfav/pkg/cache"
	"github.com/AlexEnrique/aiqfav/pkg/logger"
)

// AddFavoriteCommand represents the command to favorite a product
type AddFavoriteCommand struct {
	CustomerID uint
	ProductID  uint
}

// AddFavoriteHandler handles adding a product to a customer's favorites
type AddFavoriteHandler struct {
	repo    domain.CustomerRepository
	catalog catalog.Client
	store   cache.Store
	events  EventPublisher
}

// NewAddFavoriteHandler creates a new add favorite handler
func NewAddFavoriteHandler(repo domain.CustomerRepository, catalogClient catalog.Client, store cache.Store, events EventPublisher) *AddFavoriteHandler {
	return &AddFavoriteHandler{repo: repo, catalog: catalogClient, store: store, events: events}
}

// Handle executes the add favorite command and returns the resolved
// product. Favoriting a product unknown upstream is rejected.
func (h *AddFavoriteHandler) Handle(ctx context.Context, cmd AddFavoriteCommand) (*catalog.Product, error) {
	if cmd.CustomerID == 0 || cmd.ProductID == 0 {
		return nil, fmt.Errorf("invalid favorite pair")
	}

	if _, err := h.repo.FindByID(cmd.CustomerID); err != nil {
		return nil, err
	}

	product, err := h.catalog.GetProduct(ctx, cmd.ProductID)
	if err != nil {
		return nil, err
	}

	// Idempotent upsert: a duplicate pair is a safe no-op
	if err := h.repo.AddFavorite(cmd.CustomerID, cmd.ProductID); err != nil {
		return nil, err
	}

	if _, err := h.store.Delete(ctx, domain.FavoritesKey(cmd.CustomerID)); err != nil {
		return nil, err
	}

	if h.events != nil {
		if err := h.events.PublishFavoriteEvent(ctx, kafka.EventTypeFavoriteAdded, cmd.CustomerID, cmd.ProductID); err != nil {
			logger.Warn(ctx).Err(err).Msg("Failed to publish favorite added event")
		}
	}

	logger.Info(ctx).
		Uint("customer_id", cmd.CustomerID).
		Uint("product_id", cmd.ProductID).
		Msg("Favorite added")

	return &product, nil
}
