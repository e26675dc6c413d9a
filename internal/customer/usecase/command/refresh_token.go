package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/AlexEnrique/aiqfav/internal/customer/domain"
	"github.com/AlexEnrique/aiqfav/pkg/auth"
)

// RefreshTokenCommand represents the command to rotate a token pair
type RefreshTokenCommand struct {
	RefreshToken string
}

// RefreshTokenHandler exchanges a valid refresh token for a new pair
type RefreshTokenHandler struct {
	repo domain.CustomerRepository
}

// NewRefreshTokenHandler creates a new refresh token handler
func NewRefreshTokenHandler(repo domain.CustomerRepository) *RefreshTokenHandler {
	return &RefreshTokenHandler{repo: repo}
}

// Handle validates the refresh token against the refresh audience and
// re-issues a pair from the current customer record, so a promotion
// or deletion since issuance takes effect.
func (h *RefreshTokenHandler) Handle(ctx context.Context, cmd RefreshTokenCommand) (*LoginResponse, error) {
	if cmd.RefreshToken == "" {
		return nil, fmt.Errorf("refresh token is required")
	}

	claims, err := auth.ValidateToken(cmd.RefreshToken, auth.AudienceRefresh)
	if err != nil {
		return nil, err
	}

	customer, err := h.repo.FindByID(claims.CustomerID)
	if err != nil {
		if errors.Is(err, domain.ErrCustomerNotFound) {
			return nil, auth.ErrInvalidToken
		}
		return nil, err
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
