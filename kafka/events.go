package kafka

import "time"

// CustomerEvent signals a customer lifecycle change
type CustomerEvent struct {
	EventID    string    `json:"event_id"`
	EventType  string    `json:"event_type"`
	CustomerID uint      `json:"customer_id"`
	Email      string    `json:"email"`
	Timestamp  time.Time `json:"timestamp"`
}

// FavoriteEvent signals a change to a customer's favorites
type FavoriteEvent struct {
	EventID    string    `json:"event_id"`
	EventType  string    `json:"event_type"`
	CustomerID uint      `json:"customer_id"`
	ProductID  uint      `json:"product_id"`
	Timestamp  time.Time `json:"timestamp"`
}

// Event types
const (
	EventTypeCustomerRegistered = "customer.registered"
	EventTypeCustomerDeleted    = "customer.deleted"
	EventTypeFavoriteAdded      = "favorite.added"
	EventTypeFavoriteRemoved    = "favorite.removed"
)

// Kafka topics
const (
	TopicCustomerEvents = "customer-events"
	TopicFavoriteEvents = "favorite-events"
)
