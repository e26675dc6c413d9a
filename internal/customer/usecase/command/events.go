package command

import "context"

// EventPublisher emits domain events after successful mutations.
// Publishing is best-effort: failures are logged, never propagated.
// A nil publisher disables events.
type EventPublisher interface {
	PublishCustomerEvent(ctx context.Context, eventType string, customerID uint, email string) error
	PublishFavoriteEvent(ctx context.Context, eventType string, customerID, productID uint) error
}
