package repository

import (
	"context"

	"github.com/obuzietter/Messah-Enterprise/internal/domain"
)

// CartRepository defines the interface for cart persistence operations.
type CartRepository interface {
	// GetByID retrieves a cart by its unique identifier, including items.
	GetByID(ctx context.Context, id string) (*domain.Cart, error)

	// GetActiveBySession retrieves the active cart bound to a storefront
	// session, including items.
	GetActiveBySession(ctx context.Context, sessionID string) (*domain.Cart, error)

	// SaveAddresses stores the billing and shipping addresses on the cart.
	// A nil shipping address clears any previously stored one.
	SaveAddresses(ctx context.Context, cartID string, billing, shipping *domain.Address) error

	// SaveShippingMethod stores the selected shipping rate on the cart.
	SaveShippingMethod(ctx context.Context, cartID, method string, amount int64) error

	// SavePaymentMethod stores the selected payment method on the cart.
	SavePaymentMethod(ctx context.Context, cartID, method string) error

	// UpdateTotals persists recomputed cart totals.
	UpdateTotals(ctx context.Context, cart *domain.Cart) error

	// Deactivate marks the cart inactive. Carts are deactivated when an
	// order is created from them.
	Deactivate(ctx context.Context, cartID string) error

	// Activate marks a previously deactivated cart active again.
	Activate(ctx context.Context, cartID string) error
}

// OrderRepository defines the interface for order persistence operations.
type OrderRepository interface {
	// Create inserts a new order and its items into the store atomically
	// and returns the persisted order.
	Create(ctx context.Context, data domain.OrderData) (*domain.Order, error)

	// GetByID retrieves an order by its unique identifier, including items.
	GetByID(ctx context.Context, id string) (*domain.Order, error)
}

// CustomerRepository defines the interface for customer lookups.
type CustomerRepository interface {
	// GetByID retrieves a customer by its unique identifier.
	GetByID(ctx context.Context, id string) (*domain.Customer, error)

	// LatestAddress returns the customer's most recently created address,
	// or a not-found error when the customer has none.
	LatestAddress(ctx context.Context, customerID string) (*domain.Address, error)
}
