package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCartCollectTotals(t *testing.T) {
	cart := &Cart{
		Items: []CartItem{
			{Price: 150000, Quantity: 2},
			{Price: 2550, Quantity: 1},
		},
		ShippingAmount: 1000,
	}

	cart.CollectTotals()

	assert.Equal(t, int64(302550), cart.SubtotalAmount)
	assert.Equal(t, int64(303550), cart.GrandTotal)
}

func TestCartCollectTotalsEmpty(t *testing.T) {
	cart := &Cart{}
	cart.CollectTotals()

	assert.Zero(t, cart.SubtotalAmount)
	assert.Zero(t, cart.GrandTotal)
}

func TestCartHasStockableItems(t *testing.T) {
	cart := &Cart{Items: []CartItem{
		{IsStockable: false},
		{IsStockable: true},
	}}
	assert.True(t, cart.HasStockableItems())

	digital := &Cart{Items: []CartItem{{IsStockable: false}}}
	assert.False(t, digital.HasStockableItems())
}

func TestCartHasGuestCheckoutItems(t *testing.T) {
	cart := &Cart{Items: []CartItem{
		{GuestCheckout: true},
		{GuestCheckout: false},
	}}
	assert.True(t, cart.HasGuestCheckoutItems())

	restricted := &Cart{Items: []CartItem{{GuestCheckout: false}}}
	assert.False(t, restricted.HasGuestCheckoutItems())
}

func TestCartMeetsMinimumOrder(t *testing.T) {
	cart := &Cart{GrandTotal: 5000}

	assert.True(t, cart.MeetsMinimumOrder(4999))
	assert.True(t, cart.MeetsMinimumOrder(5000))
	assert.False(t, cart.MeetsMinimumOrder(5001))
}

func TestPrepareOrderPayload(t *testing.T) {
	billing := &Address{FirstName: "Amani", City: "Nairobi"}
	cart := &Cart{
		ID:             "cart-1",
		CustomerID:     "cust-1",
		Currency:       "KES",
		BillingAddress: billing,
		ShippingMethod: "flatrate_flatrate",
		PaymentMethod:  MethodCashOnDelivery,
		SubtotalAmount: 10000,
		ShippingAmount: 500,
		GrandTotal:     10500,
		Items: []CartItem{
			{ProductID: "p1", SKU: "SKU-1", Name: "Widget", Price: 5000, Quantity: 2, IsStockable: true},
		},
	}

	data := PrepareOrderPayload(cart)

	assert.Equal(t, "cart-1", data.CartID)
	assert.Equal(t, "cust-1", data.CustomerID)
	assert.Equal(t, billing, data.BillingAddress)
	assert.Equal(t, int64(10500), data.GrandTotal)
	assert.Len(t, data.Items, 1)
	assert.Equal(t, "SKU-1", data.Items[0].SKU)
	assert.Equal(t, 2, data.Items[0].Quantity)
}
