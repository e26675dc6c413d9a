package command

import (
	"context"
	"fmt"

	"github.com/AlexEnrique/aiqfav/internal/customer/domain"
	"github.com/AlexEnrique/aiqfav/kafka"
	"github.com/AlexEnrique/aiqfav/pkg/cache"
	"github.com/AlexEnrique/aiqfav/pkg/logger"
)

// DeleteCustomerCommand represents the command to delete a customer
type DeleteCustomerCommand struct {
	ID uint
}

// DeleteCustomerHandler handles customer deletion
type DeleteCustomerHandler struct {
	repo   domain.CustomerRepository
	store  cache.Store
	events EventPublisher
}

// NewDeleteCustomerHandler creates a new delete customer handler
func NewDeleteCustomerHandler(repo domain.CustomerRepository, store cache.Store, events EventPublisher) *DeleteCustomerHandler {
	return &DeleteCustomerHandler{repo: repo, store: store, events: events}
}

// Handle executes the delete customer command
func (h *DeleteCustomerHandler) Handle(ctx context.Context, cmd DeleteCustomerCommand) error {
	if cmd.ID == 0 {
		return fmt.Errorf("invalid customer id")
	}

	if err := h.repo.Delete(cmd.ID); err != nil {
		return err
	}

	// Invalidation strictly after the repository delete succeeded.
	// The favorites entry is dropped too so a deleted customer's
	// list cannot be served from a warm cache.
	for _, key := range []string{
		domain.CustomerKey(cmd.ID),
		domain.CustomersKey,
		domain.FavoritesKey(cmd.ID),
	} {
		if _, err := h.store.Delete(ctx, key); err != nil {
			return err
		}
	}

	if h.events != nil {
		if err := h.events.PublishCustomerEvent(ctx, kafka.EventTypeCustomerDeleted, cmd.ID, ""); err != nil {
			logger.Warn(ctx).Err(err).Msg("Failed to publish customer deleted event")
		}
	}

	logger.Info(ctx).
		Uint("customer_id", cmd.ID).
		Msg("Customer deleted")

	return nil
}
