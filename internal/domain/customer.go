package domain

import "time"

// Customer is the authenticated account attached to a cart. Guests have no
// customer record.
type Customer struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	IsActive    bool      `json:"is_active"`
	IsSuspended bool      `json:"is_suspended"`
	CreatedAt   time.Time `json:"created_at"`
}

// ShippingRate is one carrier option quoted for a cart.
type ShippingRate struct {
	Carrier      string `json:"carrier"`
	CarrierTitle string `json:"carrier_title"`
	Method       string `json:"method"`
	MethodTitle  string `json:"method_title"`
	Description  string `json:"description,omitempty"`
	Amount       int64  `json:"amount"`
}

// PaymentMethod is one enabled payment option offered at checkout.
type PaymentMethod struct {
	Method      string `json:"method"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Sort        int    `json:"sort"`
}
