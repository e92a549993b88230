package domain

import "time"

// Order statuses.
const (
	OrderStatusPending = "pending"
)

// OrderData is the payload assembled from a finalized cart. It carries
// everything the order store needs to persist an order atomically.
type OrderData struct {
	CartID          string      `json:"cart_id"`
	CustomerID      string      `json:"customer_id,omitempty"`
	Currency        string      `json:"currency"`
	Items           []OrderItem `json:"items"`
	BillingAddress  *Address    `json:"billing_address"`
	ShippingAddress *Address    `json:"shipping_address,omitempty"`
	ShippingMethod  string      `json:"shipping_method,omitempty"`
	PaymentMethod   string      `json:"payment_method"`
	SubtotalAmount  int64       `json:"subtotal_amount"`
	ShippingAmount  int64       `json:"shipping_amount"`
	GrandTotal      int64       `json:"grand_total"`
}

// Order is the persisted result of a successful checkout.
type Order struct {
	ID              string      `json:"id"`
	CartID          string      `json:"cart_id"`
	CustomerID      string      `json:"customer_id,omitempty"`
	Status          string      `json:"status"`
	Currency        string      `json:"currency"`
	Items           []OrderItem `json:"items"`
	BillingAddress  *Address    `json:"billing_address"`
	ShippingAddress *Address    `json:"shipping_address,omitempty"`
	ShippingMethod  string      `json:"shipping_method,omitempty"`
	PaymentMethod   string      `json:"payment_method"`
	SubtotalAmount  int64       `json:"subtotal_amount"`
	ShippingAmount  int64       `json:"shipping_amount"`
	GrandTotal      int64       `json:"grand_total"`
	CreatedAt       time.Time   `json:"created_at"`
}

// OrderItem is a purchased line item snapshotted from the cart.
type OrderItem struct {
	ID        string `json:"id"`
	ProductID string `json:"product_id"`
	SKU       string `json:"sku"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Quantity  int    `json:"quantity"`
}

// PrepareOrderPayload snapshots the cart into an OrderData ready for
// persistence. Totals are taken as-is; callers recompute them first.
func PrepareOrderPayload(cart *Cart) OrderData {
	items := make([]OrderItem, 0, len(cart.Items))
	for _, item := range cart.Items {
		items = append(items, OrderItem{
			ProductID: item.ProductID,
			SKU:       item.SKU,
			Name:      item.Name,
			Price:     item.Price,
			Quantity:  item.Quantity,
		})
	}

	return OrderData{
		CartID:          cart.ID,
		CustomerID:      cart.CustomerID,
		Currency:        cart.Currency,
		Items:           items,
		BillingAddress:  cart.BillingAddress,
		ShippingAddress: cart.ShippingAddress,
		ShippingMethod:  cart.ShippingMethod,
		PaymentMethod:   cart.PaymentMethod,
		SubtotalAmount:  cart.SubtotalAmount,
		ShippingAmount:  cart.ShippingAmount,
		GrandTotal:      cart.GrandTotal,
	}
}
