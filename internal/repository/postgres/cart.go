package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/obuzietter/Messah-Enterprise/internal/domain"
	"github.com/obuzietter/Messah-Enterprise/pkg/database"
	apperrors "github.com/obuzietter/Messah-Enterprise/pkg/errors"
)

// CartRepository implements repository.CartRepository using PostgreSQL.
type CartRepository struct {
	pool database.DBTX
}

// NewCartRepository creates a new PostgreSQL-backed cart repository.
func NewCartRepository(pool database.DBTX) *CartRepository {
	return &CartRepository{pool: pool}
}

// Carts are fetched with their items in a single query; the item rows are
// aggregated into a JSONB array to avoid a second round trip.
const cartSelect = `
	SELECT
		c.id, c.session_id, c.customer_id, c.currency,
		c.billing_address, c.shipping_address,
		c.shipping_method, c.shipping_amount, c.payment_method,
		c.subtotal_amount, c.grand_total,
		c.is_active, c.has_error, c.created_at, c.updated_at,
		COALESCE(
			JSONB_AGG(
				JSONB_BUILD_OBJECT(
					'id', ci.id,
					'product_id', ci.product_id,
					'sku', ci.sku,
					'name', ci.name,
					'price', ci.price,
					'quantity', ci.quantity,
					'is_stockable', ci.is_stockable,
					'guest_checkout', ci.guest_checkout
				) ORDER BY ci.created_at
			) FILTER (WHERE ci.id IS NOT NULL),
			'[]'::jsonb
		) AS items
	FROM carts c
	LEFT JOIN cart_items ci ON c.id = ci.cart_id`

const cartGroupBy = `
	GROUP BY c.id, c.session_id, c.customer_id, c.currency,
		c.billing_address, c.shipping_address,
		c.shipping_method, c.shipping_amount, c.payment_method,
		c.subtotal_amount, c.grand_total,
		c.is_active, c.has_error, c.created_at, c.updated_at`

// GetByID retrieves a cart by its ID, eagerly loading its items.
func (r *CartRepository) GetByID(ctx context.Context, id string) (*domain.Cart, error) {
	query := cartSelect + `
	WHERE c.id = $1` + cartGroupBy

	return r.scanCart(r.pool.QueryRow(ctx, query, id))
}

// GetActiveBySession retrieves the active cart bound to a storefront session.
func (r *CartRepository) GetActiveBySession(ctx context.Context, sessionID string) (*domain.Cart, error) {
	query := cartSelect + `
	WHERE c.session_id = $1 AND c.is_active = TRUE` + cartGroupBy + `
	ORDER BY c.updated_at DESC
	LIMIT 1`

	return r.scanCart(r.pool.QueryRow(ctx, query, sessionID))
}

func (r *CartRepository) scanCart(row pgx.Row) (*domain.Cart, error) {
	var (
		c            domain.Cart
		customerID   *string
		billingJSON  []byte
		shippingJSON []byte
		method       *string
		payment      *string
		itemsJSON    []byte
	)

	err := row.Scan(
		&c.ID,
		&c.SessionID,
		&customerID,
		&c.Currency,
		&billingJSON,
		&shippingJSON,
		&method,
		&c.ShippingAmount,
		&payment,
		&c.SubtotalAmount,
		&c.GrandTotal,
		&c.IsActive,
		&c.HasError,
		&c.CreatedAt,
		&c.UpdatedAt,
		&itemsJSON,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan cart: %w", err)
	}

	if customerID != nil {
		c.CustomerID = *customerID
	}
	if method != nil {
		c.ShippingMethod = *method
	}
	if payment != nil {
		c.PaymentMethod = *payment
	}

	if len(billingJSON) > 0 && string(billingJSON) != "null" {
		var addr domain.Address
		if err := json.Unmarshal(billingJSON, &addr); err != nil {
			return nil, fmt.Errorf("unmarshal billing address: %w", err)
		}
		c.BillingAddress = &addr
	}

	if len(shippingJSON) > 0 && string(shippingJSON) != "null" {
		var addr domain.Address
		if err := json.Unmarshal(shippingJSON, &addr); err != nil {
			return nil, fmt.Errorf("unmarshal shipping address: %w", err)
		}
		c.ShippingAddress = &addr
	}

	if len(itemsJSON) > 0 && string(itemsJSON) != "null" && string(itemsJSON) != "[]" {
		if err := json.Unmarshal(itemsJSON, &c.Items); err != nil {
			return nil, fmt.Errorf("unmarshal cart items: %w", err)
		}
	} else {
		c.Items = []domain.CartItem{}
	}

	return &c, nil
}

// SaveAddresses stores the billing and shipping addresses on the cart.
func (r *CartRepository) SaveAddresses(ctx context.Context, cartID string, billing, shipping *domain.Address) error {
	billingJSON, err := json.Marshal(billing)
	if err != nil {
		return fmt.Errorf("marshal billing address: %w", err)
	}

	var shippingJSON []byte
	if shipping != nil {
		shippingJSON, err = json.Marshal(shipping)
		if err != nil {
			return fmt.Errorf("marshal shipping address: %w", err)
		}
	}

	query := `
		UPDATE carts
		SET billing_address = $2, shipping_address = $3, updated_at = $4
		WHERE id = $1 AND is_active = TRUE`

	tag, err := r.pool.Exec(ctx, query, cartID, billingJSON, shippingJSON, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update cart addresses: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

// SaveShippingMethod stores the selected shipping rate on the cart.
func (r *CartRepository) SaveShippingMethod(ctx context.Context, cartID, method string, amount int64) error {
	query := `
		UPDATE carts
		SET shipping_method = $2, shipping_amount = $3, updated_at = $4
		WHERE id = $1 AND is_active = TRUE`

	tag, err := r.pool.Exec(ctx, query, cartID, method, amount, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update cart shipping method: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

// SavePaymentMethod stores the selected payment method on the cart.
func (r *CartRepository) SavePaymentMethod(ctx context.Context, cartID, method string) error {
	query := `
		UPDATE carts
		SET payment_method = $2, updated_at = $3
		WHERE id = $1 AND is_active = TRUE`

	tag, err := r.pool.Exec(ctx, query, cartID, method, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update cart payment method: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

// UpdateTotals persists recomputed cart totals.
func (r *CartRepository) UpdateTotals(ctx context.Context, cart *domain.Cart) error {
	query := `
		UPDATE carts
		SET subtotal_amount = $2, shipping_amount = $3, grand_total = $4, updated_at = $5
		WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query,
		cart.ID, cart.SubtotalAmount, cart.ShippingAmount, cart.GrandTotal, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update cart totals: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

// Deactivate marks the cart inactive.
func (r *CartRepository) Deactivate(ctx context.Context, cartID string) error {
	return r.setActive(ctx, cartID, false)
}

// Activate marks a previously deactivated cart active again.
func (r *CartRepository) Activate(ctx context.Context, cartID string) error {
	return r.setActive(ctx, cartID, true)
}

func (r *CartRepository) setActive(ctx context.Context, cartID string, active bool) error {
	query := `UPDATE carts SET is_active = $2, updated_at = $3 WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, cartID, active, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update cart active flag: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}
