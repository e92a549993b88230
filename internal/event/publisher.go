// Package event publishes checkout domain events to Kafka.
package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/obuzietter/Messah-Enterprise/internal/domain"
	"github.com/obuzietter/Messah-Enterprise/pkg/kafka"
	"github.com/obuzietter/Messah-Enterprise/pkg/logger"
)

const (
	// TypeOrderPlaced is emitted once per successfully created order.
	TypeOrderPlaced = "order.placed"

	// TypeCheckoutFailed is emitted when a submitted cart fails order
	// validation.
	TypeCheckoutFailed = "checkout.failed"

	source = "checkout-service"
)

// OrderPlaced is the payload of an order.placed event.
type OrderPlaced struct {
	OrderID       string `json:"order_id"`
	CartID        string `json:"cart_id"`
	CustomerID    string `json:"customer_id,omitempty"`
	PaymentMethod string `json:"payment_method"`
	GrandTotal    int64  `json:"grand_total"`
	Currency      string `json:"currency"`
}

// CheckoutFailed is the payload of a checkout.failed event.
type CheckoutFailed struct {
	CartID     string `json:"cart_id"`
	CustomerID string `json:"customer_id,omitempty"`
	Reason     string `json:"reason"`
}

// Publisher emits checkout events to the order topic.
type Publisher struct {
	producer *kafka.Producer
	topic    string
	logger   *slog.Logger
}

// NewPublisher creates an event publisher on top of an existing producer.
func NewPublisher(producer *kafka.Producer, topic string, logger *slog.Logger) *Publisher {
	return &Publisher{producer: producer, topic: topic, logger: logger}
}

// PublishOrderPlaced emits an order.placed event for the given order.
func (p *Publisher) PublishOrderPlaced(ctx context.Context, order *domain.Order) error {
	evt, err := kafka.NewEvent(TypeOrderPlaced, order.ID, "order", source, OrderPlaced{
		OrderID:       order.ID,
		CartID:        order.CartID,
		CustomerID:    order.CustomerID,
		PaymentMethod: order.PaymentMethod,
		GrandTotal:    order.GrandTotal,
		Currency:      order.Currency,
	})
	if err != nil {
		return fmt.Errorf("build order.placed event: %w", err)
	}

	if cid := logger.CorrelationIDFromContext(ctx); cid != "" {
		evt = evt.WithCorrelationID(cid)
	}

	if err := p.producer.Publish(ctx, p.topic, evt); err != nil {
		return fmt.Errorf("publish order.placed: %w", err)
	}

	return nil
}

// PublishCheckoutFailed emits a checkout.failed event for a cart that did not
// pass order validation.
func (p *Publisher) PublishCheckoutFailed(ctx context.Context, cart *domain.Cart, reason string) error {
	evt, err := kafka.NewEvent(TypeCheckoutFailed, cart.ID, "cart", source, CheckoutFailed{
		CartID:     cart.ID,
		CustomerID: cart.CustomerID,
		Reason:     reason,
	})
	if err != nil {
		return fmt.Errorf("build checkout.failed event: %w", err)
	}

	if cid := logger.CorrelationIDFromContext(ctx); cid != "" {
		evt = evt.WithCorrelationID(cid)
	}

	if err := p.producer.Publish(ctx, p.topic, evt); err != nil {
		return fmt.Errorf("publish checkout.failed: %w", err)
	}

	return nil
}
