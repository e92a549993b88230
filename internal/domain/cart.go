package domain

import (
	"time"
)

// Payment method identifiers. The enabled set is configuration-driven; these
// are the identifiers the orchestrator branches on.
const (
	MethodCashOnDelivery = "cashondelivery"
	MethodMoneyTransfer  = "moneytransfer"
	MethodHostedGateway  = "hostedgateway"
)

// Cart is the in-progress purchase aggregate prior to order creation.
// Address, shipping and payment fields are filled in monotonically during a
// checkout attempt; the cart is deactivated exactly once, when an order is
// created from it.
type Cart struct {
	ID              string     `json:"id"`
	SessionID       string     `json:"session_id"`
	CustomerID      string     `json:"customer_id,omitempty"`
	Currency        string     `json:"currency"`
	Items           []CartItem `json:"items"`
	BillingAddress  *Address   `json:"billing_address,omitempty"`
	ShippingAddress *Address   `json:"shipping_address,omitempty"`
	ShippingMethod  string     `json:"shipping_method,omitempty"`
	ShippingAmount  int64      `json:"shipping_amount"`
	PaymentMethod   string     `json:"payment_method,omitempty"`
	SubtotalAmount  int64      `json:"subtotal_amount"`
	GrandTotal      int64      `json:"grand_total"`
	IsActive        bool       `json:"is_active"`
	HasError        bool       `json:"has_error"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// CartItem is a single line in the cart. Stockable items require physical
// shipment; digital/service items do not.
type CartItem struct {
	ID            string `json:"id"`
	ProductID     string `json:"product_id"`
	SKU           string `json:"sku"`
	Name          string `json:"name"`
	Price         int64  `json:"price"`
	Quantity      int    `json:"quantity"`
	IsStockable   bool   `json:"is_stockable"`
	GuestCheckout bool   `json:"guest_checkout"`
}

// Address belongs to a customer or cart. Phone is used for mobile-money
// payment notification.
type Address struct {
	ID         string `json:"id,omitempty"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
	Phone      string `json:"phone,omitempty"`
}

// HasStockableItems reports whether any line item requires physical shipment.
func (c *Cart) HasStockableItems() bool {
	for _, item := range c.Items {
		if item.IsStockable {
			return true
		}
	}
	return false
}

// HasGuestCheckoutItems reports whether at least one line item permits
// checkout without an authenticated customer account.
func (c *Cart) HasGuestCheckoutItems() bool {
	for _, item := range c.Items {
		if item.GuestCheckout {
			return true
		}
	}
	return false
}

// IsGuest reports whether the cart has no authenticated owner.
func (c *Cart) IsGuest() bool {
	return c.CustomerID == ""
}

// CollectTotals recomputes the cart totals from its line items and the
// selected shipping rate.
func (c *Cart) CollectTotals() {
	var subtotal int64
	for _, item := range c.Items {
		subtotal += item.Price * int64(item.Quantity)
	}
	c.SubtotalAmount = subtotal
	c.GrandTotal = subtotal + c.ShippingAmount
}

// MeetsMinimumOrder reports whether the grand total satisfies the configured
// minimum order amount. A total exactly equal to the minimum passes.
func (c *Cart) MeetsMinimumOrder(minimum int64) bool {
	return c.GrandTotal >= minimum
}
