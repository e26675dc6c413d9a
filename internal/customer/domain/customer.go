package domain

import (
	"errors"
	"time"
)

// Customer represents the customer entity (domain model)
type Customer struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	Name           string    `json:"name" gorm:"size:255;not null"`
	Email          string    `json:"email" gorm:"size:255;uniqueIndex;not null"`
	HashedPassword string    `json:"-" gorm:"size:255;not null"` // Never expose the hash in JSON
	IsAdmin        bool      `json:"is_admin" gorm:"not null;default:false"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	Favorites []Favorite `json:"-" gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name
func (Customer) TableName() string {
	return "customers"
}

// CustomerPublic is the projection returned to clients. It never
// carries the credential hash.
type CustomerPublic struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Public returns the client-facing projection of the customer
func (c *Customer) Public() CustomerPublic {
	return CustomerPublic{
		ID:    c.ID,
		Name:  c.Name,
		Email: c.Email,
	}
}

// Service-level errors. Repository implementations return these so
// callers can branch with errors.Is.
var (
	ErrCustomerNotFound   = errors.New("customer not found")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// CustomerRepository defines the contract for customer data access
type CustomerRepository interface {
	Create(customer *Customer) error
	FindByID(id uint) (*Customer, error)
	FindByEmail(email string) (*Customer, error)
	FindAll() ([]Customer, error)
	Delete(id uint) error
	SetAdmin(id uint) (*Customer, error)

	ListFavorites(customerID uint) ([]Favorite, error)
	AddFavorite(customerID, productID uint) error
	RemoveFavorite(customerID, productID uint) error
}
