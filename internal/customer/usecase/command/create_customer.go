package command

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/AlexEnrique/aiqfav/internal/customer/domain"
	"github.com/AlexEnrique/aiqfav/kafka"
	"github.com/AlexEnrique/aiqfav/pkg/auth"
	"github.com/AlexEnrique/aiqfav/pkg/cache"
	"github.com/AlexEnrique/aiqfav/pkg/logger"
)

// CreateCustomerCommand represents the command to register a new customer
type CreateCustomerCommand struct {
	Name     string
	Email    string
	Password string
}

// CreateCustomerHandler handles customer registration
type CreateCustomerHandler struct {
	repo   domain.CustomerRepository
	store  cache.Store
	ttl    time.Duration
	events EventPublisher
}

// NewCreateCustomerHandler creates a new create customer handler
func NewCreateCustomerHandler(repo domain.CustomerRepository, store cache.Store, ttl time.Duration, events EventPublisher) *CreateCustomerHandler {
	return &CreateCustomerHandler{repo: repo, store: store, ttl: ttl, events: events}
}

// Handle executes the create customer command
func (h *CreateCustomerHandler) Handle(ctx context.Context, cmd CreateCustomerCommand) (*domain.CustomerPublic, error) {
	// Validation
	if cmd.Name == "" {
		return nil, fmt.Errorf("name is required")
	}
	if cmd.Email == "" {
		return nil, fmt.Errorf("email is required")
	}
	if cmd.Password == "" {
		return nil, fmt.Errorf("password is required")
	}
	if len(cmd.Password) < 6 {
		return nil, fmt.Errorf("password must be at least 6 characters")
	}

	// Uniqueness check aborts before any mutation
	_, err := h.repo.FindByEmail(cmd.Email)
	if err == nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	if !errors.Is(err, domain.ErrCustomerNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hashedPassword, err := auth.HashPassword(cmd.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	customer := &domain.Customer{
		Name:           cmd.Name,
		Email:          cmd.Email,
		HashedPassword: hashedPassword,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}

	if err := h.repo.Create(customer); err != nil {
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}

	public := customer.Public()

	// Write-through: the fresh record is cached immediately so the
	// next read skips the repository.
	payload, err := json.Marshal(public)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize customer: %w", err)
	}
	if err := h.store.Set(ctx, domain.CustomerKey(customer.ID), payload, h.ttl); err != nil {
		return nil, err
	}

	// The aggregate list entry is stale now; drop it.
	if _, err := h.store.Delete(ctx, domain.CustomersKey); err != nil {
		return nil, err
	}

	if h.events != nil {
		if err := h.events.PublishCustomerEvent(ctx, kafka.EventTypeCustomerRegistered, customer.ID, customer.Email); err != nil {
			logger.Warn(ctx).Err(err).Msg("Failed to publish customer registered event")
		}
	}

	logger.Info(ctx).
		Uint("customer_id", customer.ID).
		Str("email", customer.Email).
		Msg("Customer created")

	return &public, nil
}
