package domain

// Favorite is an edge in the many-to-many relation between a customer
// and an externally-owned product. Duplicate inserts are a no-op,
// enforced by the composite primary key.
type Favorite struct {
	CustomerID uint `json:"customer_id" gorm:"primaryKey;index"`
	ProductID  uint `json:"product_id" gorm:"primaryKey"`
}

// TableName specifies the table name
func (Favorite) TableName() string {
	return "favorites"
}
