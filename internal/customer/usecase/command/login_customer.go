package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/AlexEnrique/aiqfav/internal/customer/domain"
	"github.com/AlexEnrique/aiqfav/pkg/auth"
)

// LoginCustomerCommand represents the command to authenticate a customer
type LoginCustomerCommand struct {
	Email    string
	Password string
}

// LoginResponse carries the issued token pair and the customer
type LoginResponse struct {
	AccessToken  string                `json:"access_token"`
	RefreshToken string                `json:"refresh_token"`
	Customer     domain.CustomerPublic `json:"customer"`
}

// LoginCustomerHandler handles customer authentication
type LoginCustomerHandler struct {
	repo domain.CustomerRepository
}

// NewLoginCustomerHandler creates a new login handler
func NewLoginCustomerHandler(repo domain.CustomerRepository) *LoginCustomerHandler {
	return &LoginCustomerHandler{repo: repo}
}

// Handle verifies credentials and issues an access/refresh pair. A
// missing customer and a bad password are indistinguishable to the
// caller.
func (h *LoginCustomerHandler) Handle(ctx context.Context, cmd LoginCustomerCommand) (*LoginResponse, error) {
	if cmd.Email == "" {
		return nil, fmt.Errorf("email is required")
	}
	if cmd.Password == "" {
		return nil, fmt.Errorf("password is required")
	}

	customer, err := h.repo.FindByEmail(cmd.Email)
	if err != nil {
		if errors.Is(err, domain.ErrCustomerNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !auth.CheckPassword(customer.HashedPassword, cmd.Password) {
		return nil, domain.ErrInvalidCredentials
	}

	access, refresh, err := auth.GenerateTokenPair(customer.ID, customer.Email, customer.IsAdmin)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	return &LoginResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		Customer:     customer.Public(),
	}, nil
}
