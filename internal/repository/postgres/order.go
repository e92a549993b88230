package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/obuzietter/Messah-Enterprise/internal/domain"
	"github.com/obuzietter/Messah-Enterprise/pkg/database"
	apperrors "github.com/obuzietter/Messah-Enterprise/pkg/errors"
)

// OrderRepository implements repository.OrderRepository using PostgreSQL.
type OrderRepository struct {
	pool database.DBTX
}

// NewOrderRepository creates a new PostgreSQL-backed order repository.
func NewOrderRepository(pool database.DBTX) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// Create inserts a new order and its items atomically within a transaction.
func (r *OrderRepository) Create(ctx context.Context, data domain.OrderData) (*domain.Order, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var billingJSON, shippingJSON []byte

	if data.BillingAddress != nil {
		billingJSON, err = json.Marshal(data.BillingAddress)
		if err != nil {
			return nil, fmt.Errorf("marshal billing address: %w", err)
		}
	}

	if data.ShippingAddress != nil {
		shippingJSON, err = json.Marshal(data.ShippingAddress)
		if err != nil {
			return nil, fmt.Errorf("marshal shipping address: %w", err)
		}
	}

	order := &domain.Order{
		ID:              uuid.NewString(),
		CartID:          data.CartID,
		CustomerID:      data.CustomerID,
		Status:          domain.OrderStatusPending,
		Currency:        data.Currency,
		BillingAddress:  data.BillingAddress,
		ShippingAddress: data.ShippingAddress,
		ShippingMethod:  data.ShippingMethod,
		PaymentMethod:   data.PaymentMethod,
		SubtotalAmount:  data.SubtotalAmount,
		ShippingAmount:  data.ShippingAmount,
		GrandTotal:      data.GrandTotal,
		CreatedAt:       time.Now().UTC(),
	}

	orderQuery := `
		INSERT INTO orders (id, cart_id, customer_id, status, currency, billing_address, shipping_address, shipping_method, payment_method, subtotal_amount, shipping_amount, grand_total, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err = tx.Exec(ctx, orderQuery,
		order.ID,
		order.CartID,
		nullable(order.CustomerID),
		order.Status,
		order.Currency,
		billingJSON,
		shippingJSON,
		nullable(order.ShippingMethod),
		order.PaymentMethod,
		order.SubtotalAmount,
		order.ShippingAmount,
		order.GrandTotal,
		order.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert order: %w", err)
	}

	itemQuery := `
		INSERT INTO order_items (id, order_id, product_id, sku, name, price, quantity)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	order.Items = make([]domain.OrderItem, 0, len(data.Items))
	for _, item := range data.Items {
		item.ID = uuid.NewString()
		_, err = tx.Exec(ctx, itemQuery,
			item.ID,
			order.ID,
			item.ProductID,
			item.SKU,
			item.Name,
			item.Price,
			item.Quantity,
		)
		if err != nil {
			return nil, fmt.Errorf("insert order item: %w", err)
		}
		order.Items = append(order.Items, item)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	return order, nil
}

// GetByID retrieves an order by its ID, eagerly loading its items.
func (r *OrderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	query := `
		SELECT
			o.id, o.cart_id, o.customer_id, o.status, o.currency,
			o.billing_address, o.shipping_address,
			o.shipping_method, o.payment_method,
			o.subtotal_amount, o.shipping_amount, o.grand_total, o.created_at,
			COALESCE(
				JSONB_AGG(
					JSONB_BUILD_OBJECT(
						'id', oi.id,
						'product_id', oi.product_id,
						'sku', oi.sku,
						'name', oi.name,
						'price', oi.price,
						'quantity', oi.quantity
					) ORDER BY oi.created_at
				) FILTER (WHERE oi.id IS NOT NULL),
				'[]'::jsonb
			) AS items
		FROM orders o
		LEFT JOIN order_items oi ON o.id = oi.order_id
		WHERE o.id = $1
		GROUP BY o.id, o.cart_id, o.customer_id, o.status, o.currency,
			o.billing_address, o.shipping_address,
			o.shipping_method, o.payment_method,
			o.subtotal_amount, o.shipping_amount, o.grand_total, o.created_at`

	var (
		o            domain.Order
		customerID   *string
		method       *string
		billingJSON  []byte
		shippingJSON []byte
		itemsJSON    []byte
	)

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&o.ID,
		&o.CartID,
		&customerID,
		&o.Status,
		&o.Currency,
		&billingJSON,
		&shippingJSON,
		&method,
		&o.PaymentMethod,
		&o.SubtotalAmount,
		&o.ShippingAmount,
		&o.GrandTotal,
		&o.CreatedAt,
		&itemsJSON,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan order: %w", err)
	}

	if customerID != nil {
		o.CustomerID = *customerID
	}
	if method != nil {
		o.ShippingMethod = *method
	}

	if len(billingJSON) > 0 && string(billingJSON) != "null" {
		var addr domain.Address
		if err := json.Unmarshal(billingJSON, &addr); err != nil {
			return nil, fmt.Errorf("unmarshal billing address: %w", err)
		}
		o.BillingAddress = &addr
	}

	if len(shippingJSON) > 0 && string(shippingJSON) != "null" {
		var addr domain.Address
		if err := json.Unmarshal(shippingJSON, &addr); err != nil {
			return nil, fmt.Errorf("unmarshal shipping address: %w", err)
		}
		o.ShippingAddress = &addr
	}

	if len(itemsJSON) > 0 && string(itemsJSON) != "null" && string(itemsJSON) != "[]" {
		if err := json.Unmarshal(itemsJSON, &o.Items); err != nil {
			return nil, fmt.Errorf("unmarshal order items: %w", err)
		}
	} else {
		o.Items = []domain.OrderItem{}
	}

	return &o, nil
}

// nullable maps an empty string to NULL for optional text columns.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
