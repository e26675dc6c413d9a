package query

import (
	"context"
	"fmt"

	"github.com/AlexEnrique/aiqfav/internal/customer/domain"
)

// CheckAdminQuery represents the query for a customer's admin flag
type CheckAdminQuery struct {
	ID uint
}

// CheckAdminHandler reports whether a customer is an administrator.
// Deliberately uncached: the check is infrequent and security
// sensitive, so staleness is unacceptable.
type CheckAdminHandler struct {
	repo domain.CustomerRepository
}

// NewCheckAdminHandler creates a new check admin handler
func NewCheckAdminHandler(repo domain.CustomerRepository) *CheckAdminHandler {
	return &CheckAdminHandler{repo: repo}
}

// Handle executes the check admin query
func (h *CheckAdminHandler) Handle(ctx context.Context, q CheckAdminQuery) (bool, error) {
	if q.ID == 0 {
		return false, fmt.Errorf("invalid customer id")
	}

	customer, err := h.repo.FindByID(q.ID)
	if err != nil {
		return false, err
	}
	return customer.IsAdmin, nil
}
