package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/AlexEnrique/aiqfav/internal/customer/domain"
)

// PostgresCustomerRepository implements CustomerRepository over plain
// database/sql. Kept alongside the GORM implementation for
// deployments that avoid the ORM.
type PostgresCustomerRepository struct {
	db *sql.DB
}

// NewPostgresCustomerRepository creates a new PostgreSQL customer repository
func NewPostgresCustomerRepository(db *sql.DB) *PostgresCustomerRepository {
	return &PostgresCustomerRepository{db: db}
}

// Create inserts a new customer into the database
func (r *PostgresCustomerRepository) Create(customer *domain.Customer) error {
	query := `
		INSERT INTO customers (name, email, hashed_password, is_admin, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	err := r.db.QueryRow(
		query,
		customer.Name,
		customer.Email,
		customer.HashedPassword,
		customer.IsAdmin,
		customer.CreatedAt,
		customer.UpdatedAt,
	).Scan(&customer.ID)

	if err != nil {
		return fmt.Errorf("failed to create customer: %w", err)
	}

	return nil
}

// FindByID retrieves a customer by ID
func (r *PostgresCustomerRepository) FindByID(id uint) (*domain.Customer, error) {
	query := `
		SELECT id, name, email, hashed_password, is_admin, created_at, updated_at
		FROM customers
		WHERE id = $1
	`
	return r.scanCustomer(r.db.QueryRow(query, id))
}

// FindByEmail retrieves a customer by email
func (r *PostgresCustomerRepository) FindByEmail(email string) (*domain.Customer, error) {
	query := `
		SELECT id, name, email, hashed_password, is_admin, created_at, updated_at
		FROM customers
		WHERE email = $1
	`
	return r.scanCustomer(r.db.QueryRow(query, email))
}

// FindAll retrieves all customers
func (r *PostgresCustomerRepository) FindAll() ([]domain.Customer, error) {
	query := `
		SELECT id, name, email, hashed_password, is_admin, created_at, updated_at
		FROM customers
		ORDER BY id
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	defer rows.Close()

	var customers []domain.Customer
	for rows.Next() {
		var c domain.Customer
		if err := rows.Scan(
			&c.ID, &c.Name, &c.Email, &c.HashedPassword,
			&c.IsAdmin, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan customer: %w", err)
		}
		customers = append(customers, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate customers: %w", err)
	}
	return customers, nil
}

// Delete removes a customer; favorite edges cascade at the schema level
func (r *PostgresCustomerRepository) Delete(id uint) error {
	result, err := r.db.Exec(`DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete customer: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete customer: %w", err)
	}
	if affected == 0 {
		return domain.ErrCustomerNotFound
	}
	return nil
}

// SetAdmin flips the administrator flag and returns the updated customer
func (r *PostgresCustomerRepository) SetAdmin(id uint) (*domain.Customer, error) {
	query := `
		UPDATE customers
		SET is_admin = TRUE, updated_at = NOW()
		WHERE id = $1
		RETURNING id, name, email, hashed_password, is_admin, created_at, updated_at
	`
	return r.scanCustomer(r.db.QueryRow(query, id))
}

// ListFavorites retrieves all favorite edges for a customer
func (r *PostgresCustomerRepository) ListFavorites(customerID uint) ([]domain.Favorite, error) {
	rows, err := r.db.Query(
		`SELECT customer_id, product_id FROM favorites WHERE customer_id = $1`,
		customerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}
	defer rows.Close()

	var favorites []domain.Favorite
	for rows.Next() {
		var f domain.Favorite
		if err := rows.Scan(&f.CustomerID, &f.ProductID); err != nil {
			return nil, fmt.Errorf("failed to scan favorite: %w", err)
		}
		favorites = append(favorites, f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate favorites: %w", err)
	}
	return favorites, nil
}

// AddFavorite upserts a favorite edge; duplicates are a no-op
func (r *PostgresCustomerRepository) AddFavorite(customerID, productID uint) error {
	query := `
		INSERT INTO favorites (customer_id, product_id)
		VALUES ($1, $2)
		ON CONFLICT (customer_id, product_id) DO NOTHING
	`
	if _, err := r.db.Exec(query, customerID, productID); err != nil {
		return fmt.Errorf("failed to add favorite: %w", err)
	}
	return nil
}

// RemoveFavorite deletes a favorite edge if it exists
func (r *PostgresCustomerRepository) RemoveFavorite(customerID, productID uint) error {
	query := `DELETE FROM favorites WHERE customer_id = $1 AND product_id = $2`
	if _, err := r.db.Exec(query, customerID, productID); err != nil {
		return fmt.Errorf("failed to remove favorite: %w", err)
	}
	return nil
}

func (r *PostgresCustomerRepository) scanCustomer(row *sql.Row) (*domain.Customer, error) {
	var c domain.Customer
	err := row.Scan(
		&c.ID, &c.Name, &c.Email, &c.HashedPassword,
		&c.IsAdmin, &c.CreatedAt, &c.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrCustomerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find customer: %w", err)
	}
	return &c, nil
}
