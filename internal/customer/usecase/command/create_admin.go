package command

import (
	"context"
	"fmt"

	"github.com/AlexEnrique/aiqfav/internal/customer/domain"
	"github.com/AlexEnrique/aiqfav/pkg/logger"
)

// CreateAdminCommand represents the command to create an administrator
type CreateAdminCommand struct {
	Name     string
	Email    string
	Password string
}

// CreateAdminHandler creates a customer and promotes it in one step
type CreateAdminHandler struct {
	create *CreateCustomerHandler
	repo   domain.CustomerRepository
}

// NewCreateAdminHandler creates a new create admin handler
func NewCreateAdminHandler(create *CreateCustomerHandler, repo domain.CustomerRepository) *CreateAdminHandler {
	return &CreateAdminHandler{create: create, repo: repo}
}

// Handle registers the customer through the regular flow, then sets
// the administrator flag. The public projection is unaffected by the
// flag, so the write-through cache entry stays valid.
func (h *CreateAdminHandler) Handle(ctx context.Context, cmd CreateAdminCommand) (*domain.CustomerPublic, error) {
	created, err := h.create.Handle(ctx, CreateCustomerCommand{
		Name:     cmd.Name,
		Email:    cmd.Email,
		Password: cmd.Password,
	})
	if err != nil {
		return nil, err
	}

	if _, err := h.repo.SetAdmin(created.ID); err != nil {
		return nil, fmt.Errorf("failed to promote customer %d: %w", created.ID, err)
	}

	logger.Info(ctx).
		Uint("customer_id", created.ID).
		Str("email", created.Email).
		Msg("Admin customer created")

	return created, nil
}
