package command

import (
	"context"
	"fmt"

	"github.com/AlexEnrique/aiqfav/internal/customer/domain"
	"github.com/AlexEnrique/aiqfav/kafka"
	"github.com/AlexEnrique/aiqfav/pkg/cache"
	"github.com/AlexEnrique/aiqfav/pkg/logger"
)

// RemoveFavoriteCommand represents the command to unfavorite a product
type RemoveFavoriteCommand struct {
	CustomerID uint
	ProductID  uint
}

// RemoveFavoriteHandler handles removing a product from a customer's favorites
type RemoveFavoriteHandler struct {
	repo   domain.CustomerRepository
	store  cache.Store
	events EventPublisher
}

// NewRemoveFavoriteHandler creates a new remove favorite handler
func NewRemoveFavoriteHandler(repo domain.CustomerRepository, store cache.Store, events EventPublisher) *RemoveFavoriteHandler {
	return &RemoveFavoriteHandler{repo: repo, store: store, events: events}
}

// Handle executes the remove favorite command. Removing an edge that
// does not exist is tolerated as a no-op.
func (h *RemoveFavoriteHandler) Handle(ctx context.Context, cmd RemoveFavoriteCommand) error {
	if cmd.CustomerID == 0 || cmd.ProductID == 0 {
		return fmt.Errorf("invalid favorite pair")
	}

	if _, err := h.repo.FindByID(cmd.CustomerID); err != nil {
		return err
	}

	if err := h.repo.RemoveFavorite(cmd.CustomerID, cmd.ProductID); err != nil {
		return err
	}

	if _, err := h.store.Delete(ctx, domain.FavoritesKey(cmd.CustomerID)); err != nil {
		return err
	}

	if h.events != nil {
		if err := h.events.PublishFavoriteEvent(ctx, kafka.EventTypeFavoriteRemoved, cmd.CustomerID, cmd.ProductID); err != nil {
			logger.Warn(ctx).Err(err).Msg("Failed to publish favorite removed event")
		}
	}

	logger.Info(ctx).
		Uint("customer_id", cmd.CustomerID).
		Uint("product_id", cmd.ProductID).
		Msg("Favorite removed")

	return nil
}
