package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/AlexEnrique/aiqfav/internal/customer/usecase/query"
	"github.com/AlexEnrique/aiqfav/pkg/auth"
)

type contextKey string

const (
	CustomerIDKey contextKey = "customer_id"
	EmailKey      contextKey = "email"
)

// AuthMiddleware validates the JWT access token
func AuthMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			respondError(w, http.StatusUnauthorized, "Authorization header required")
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			respondError(w, http.StatusUnauthorized, "Invalid authorization header format")
			return
		}

		claims, err := auth.ValidateToken(parts[1], auth.AudienceAccess)
		if err != nil {
			respondError(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		ctx := context.WithValue(r.Context(), CustomerIDKey, claims.CustomerID)
		ctx = context.WithValue(ctx, EmailKey, claims.Email)

		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// AdminMiddleware checks the administrator flag against the
// repository rather than trusting the token claim, so a demotion
// takes effect immediately.
func (h *CustomerHandler) AdminMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return AuthMiddleware(func(w http.ResponseWriter, r *http.Request) {
		customerID, ok := r.Context().Value(CustomerIDKey).(uint)
		if !ok {
			respondError(w, http.StatusUnauthorized, "Customer ID not found in context")
			return
		}

		isAdmin, err := h.checkAdminHandler.Handle(r.Context(), query.CheckAdminQuery{ID: customerID})
		if err != nil || !isAdmin {
			respondError(w, http.StatusForbidden, "Admin access required")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func contextWithTimeout(r *http.Request, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), timeout)
}
