package query

import (
	"context"
	"errors"
	"fmt"

	"github.com/AlexEnrique/aiqfav/internal/customer/domain"
)

// CheckEmailQuery represents the query for email availability
type CheckEmailQuery struct {
	Email string
}

// CheckEmailHandler reports whether an email is still available, the
// inverse of existence
type CheckEmailHandler struct {
	repo domain.CustomerRepository
}

// NewCheckEmailHandler creates a new check email handler
func NewCheckEmailHandler(repo domain.CustomerRepository) *CheckEmailHandler {
	return &CheckEmailHandler{repo: repo}
}

// Handle executes the check email query
func (h *CheckEmailHandler) Handle(ctx context.Context, q CheckEmailQuery) (bool, error) {
	if q.Email == "" {
		return false, fmt.Errorf("email is required")
	}

	_, err := h.repo.FindByEmail(q.Email)
	if err == nil {
		return false, nil
	}
	if errors.Is(err, domain.ErrCustomerNotFound) {
		return true, nil
	}
	return false, err
}
