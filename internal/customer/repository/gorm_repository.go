package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/AlexEnrique/aiqfav/internal/customer/domain"
)

// GormCustomerRepository implements CustomerRepository using GORM
type GormCustomerRepository struct {
	db *gorm.DB
}

// NewGormCustomerRepository creates a new GORM customer repository
func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

// Create inserts a new customer into the database
func (r *GormCustomerRepository) Create(customer *domain.Customer) error {
	if err := r.db.Create(customer).Error; err != nil {
		return fmt.Errorf("failed to create customer: %w", err)
	}
	return nil
}

// FindByID retrieves a customer by ID
func (r *GormCustomerRepository) FindByID(id uint) (*domain.Customer, error) {
	var customer domain.Customer
	if err := r.db.First(&customer, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCustomerNotFound
		}
		return nil, fmt.Errorf("failed to find customer: %w", err)
	}
	return &customer, nil
}

// FindByEmail retrieves a customer by email (alternate key)
func (r *GormCustomerRepository) FindByEmail(email string) (*domain.Customer, error) {
	var customer domain.Customer
	if err := r.db.Where("email = ?", email).First(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCustomerNotFound
		}
		return nil, fmt.Errorf("failed to find customer: %w", err)
	}
	return &customer, nil
}

// FindAll retrieves all customers
func (r *GormCustomerRepository) FindAll() ([]domain.Customer, error) {
	var customers []domain.Customer
	if err := r.db.Order("id").Find(&customers).Error; err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	return customers, nil
}

// Delete removes a customer. Favorite edges are removed by the
// ON DELETE CASCADE constraint.
func (r *GormCustomerRepository) Delete(id uint) error {
	result := r.db.Delete(&domain.Customer{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete customer: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrCustomerNotFound
	}
	return nil
}

// SetAdmin flips the administrator flag and returns the updated customer
func (r *GormCustomerRepository) SetAdmin(id uint) (*domain.Customer, error) {
	customer, err := r.FindByID(id)
	if err != nil {
		return nil, err
	}

	customer.IsAdmin = true
	if err := r.db.Save(customer).Error; err != nil {
		return nil, fmt.Errorf("failed to set admin: %w", err)
	}
	return customer, nil
}

// ListFavorites retrieves all favorite edges for a customer
func (r *GormCustomerRepository) ListFavorites(customerID uint) ([]domain.Favorite, error) {
	var favorites []domain.Favorite
	if err := r.db.Where("customer_id = ?", customerID).Find(&favorites).Error; err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}
	return favorites, nil
}

// AddFavorite upserts a favorite edge. A conflict on the composite
// key is ignored, so repeated calls with the same pair are a no-op.
func (r *GormCustomerRepository) AddFavorite(customerID, productID uint) error {
	favorite := domain.Favorite{CustomerID: customerID, ProductID: productID}
	err := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&favorite).Error
	if err != nil {
		return fmt.Errorf("failed to add favorite: %w", err)
	}
	return nil
}

// RemoveFavorite deletes a favorite edge if it exists. Removing a
// nonexistent edge is not an error.
func (r *GormCustomerRepository) RemoveFavorite(customerID, productID uint) error {
	err := r.db.
		Where("customer_id = ? AND product_id = ?", customerID, productID).
		Delete(&domain.Favorite{}).Error
	if err != nil {
		return fmt.Errorf("failed to remove favorite: %w", err)
	}
	return nil
}

// AutoMigrate runs database migrations
func (r *GormCustomerRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.Customer{}, &domain.Favorite{})
}
