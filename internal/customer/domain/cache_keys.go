package domain

import "fmt"

// CustomersKey is the aggregate cache entry for the customer list
const CustomersKey = "customers"

// CustomerKey returns the cache key for a single customer
func CustomerKey(id uint) string {
	return fmt.Sprintf("customer:%d", id)
}

// FavoritesKey returns the cache key for a customer's resolved
// favorite products
func FavoritesKey(customerID uint) string {
	return fmt.Sprintf("favorites:%d", customerID)
}
