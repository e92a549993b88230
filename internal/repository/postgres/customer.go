package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/obuzietter/Messah-Enterprise/internal/domain"
	"github.com/obuzietter/Messah-Enterprise/pkg/database"
	apperrors "github.com/obuzietter/Messah-Enterprise/pkg/errors"
)

// CustomerRepository implements repository.CustomerRepository using PostgreSQL.
type CustomerRepository struct {
	pool database.DBTX
}

// NewCustomerRepository creates a new PostgreSQL-backed customer repository.
func NewCustomerRepository(pool database.DBTX) *CustomerRepository {
	return &CustomerRepository{pool: pool}
}

// GetByID retrieves a customer by its ID.
func (r *CustomerRepository) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	query := `
		SELECT id, email, first_name, last_name, is_active, is_suspended, created_at
		FROM customers
		WHERE id = $1`

	var c domain.Customer
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&c.ID,
		&c.Email,
		&c.FirstName,
		&c.LastName,
		&c.IsActive,
		&c.IsSuspended,
		&c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan customer: %w", err)
	}

	return &c, nil
}

// LatestAddress returns the customer's most recently created address.
func (r *CustomerRepository) LatestAddress(ctx context.Context, customerID string) (*domain.Address, error) {
	query := `
		SELECT id, first_name, last_name, street, city, state, postal_code, country, phone
		FROM customer_addresses
		WHERE customer_id = $1
		ORDER BY created_at DESC
		LIMIT 1`

	var (
		a     domain.Address
		state *string
		phone *string
	)
	err := r.pool.QueryRow(ctx, query, customerID).Scan(
		&a.ID,
		&a.FirstName,
		&a.LastName,
		&a.Street,
		&a.City,
		&state,
		&a.PostalCode,
		&a.Country,
		&phone,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan customer address: %w", err)
	}

	if state != nil {
		a.State = *state
	}
	if phone != nil {
		a.Phone = *phone
	}

	return &a, nil
}
