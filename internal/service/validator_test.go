package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/obuzietter/Messah-Enterprise/internal/domain"
)

func validCart() *domain.Cart {
	addr := &domain.Address{FirstName: "Amani", City: "Nairobi", Phone: "254712345678"}
	cart := &domain.Cart{
		ID:              "cart-1",
		Currency:        "KES",
		BillingAddress:  addr,
		ShippingAddress: addr,
		ShippingMethod:  "flatrate_flatrate",
		ShippingAmount:  500,
		PaymentMethod:   domain.MethodCashOnDelivery,
		Items: []domain.CartItem{
			{Price: 10000, Quantity: 1, IsStockable: true, GuestCheckout: true},
		},
	}
	cart.CollectTotals()
	return cart
}

func activeCustomer() *domain.Customer {
	return &domain.Customer{ID: "cust-1", IsActive: true}
}

func TestValidateOrder_Passes(t *testing.T) {
	assert.Nil(t, ValidateOrder(validCart(), activeCustomer(), 0, "KES"))
}

func TestValidateOrder_GuestPasses(t *testing.T) {
	assert.Nil(t, ValidateOrder(validCart(), nil, 0, "KES"))
}

func TestValidateOrder_SuspendedAccount(t *testing.T) {
	customer := activeCustomer()
	customer.IsSuspended = true

	v := ValidateOrder(validCart(), customer, 0, "KES")

	require.NotNil(t, v)
	assert.Equal(t, RuleSuspendedAccount, v.Rule)
}

func TestValidateOrder_InactiveAccount(t *testing.T) {
	customer := activeCustomer()
	customer.IsActive = false

	v := ValidateOrder(validCart(), customer, 0, "KES")

	require.NotNil(t, v)
	assert.Equal(t, RuleInactiveAccount, v.Rule)
}

func TestValidateOrder_SuspendedWinsOverInactive(t *testing.T) {
	customer := &domain.Customer{ID: "cust-1", IsActive: false, IsSuspended: true}

	v := ValidateOrder(validCart(), customer, 0, "KES")

	require.NotNil(t, v)
	assert.Equal(t, RuleSuspendedAccount, v.Rule)
}

func TestValidateOrder_MinimumOrder(t *testing.T) {
	cart := validCart()

	v := ValidateOrder(cart, activeCustomer(), cart.GrandTotal+1, "KES")

	require.NotNil(t, v)
	assert.Equal(t, RuleMinimumOrder, v.Rule)
	assert.Contains(t, v.Message, "KES")
}

func TestValidateOrder_MinimumOrderExactTotalPasses(t *testing.T) {
	cart := validCart()
	assert.Nil(t, ValidateOrder(cart, activeCustomer(), cart.GrandTotal, "KES"))
}

func TestValidateOrder_MissingShippingAddress(t *testing.T) {
	cart := validCart()
	cart.ShippingAddress = nil

	v := ValidateOrder(cart, activeCustomer(), 0, "KES")

	require.NotNil(t, v)
	assert.Equal(t, RuleShippingAddress, v.Rule)
}

func TestValidateOrder_DigitalCartSkipsShippingRules(t *testing.T) {
	cart := validCart()
	cart.Items = []domain.CartItem{{Price: 10000, Quantity: 1, IsStockable: false}}
	cart.ShippingAddress = nil
	cart.ShippingMethod = ""
	cart.CollectTotals()

	assert.Nil(t, ValidateOrder(cart, activeCustomer(), 0, "KES"))
}

func TestValidateOrder_MissingBillingAddress(t *testing.T) {
	cart := validCart()
	cart.BillingAddress = nil

	v := ValidateOrder(cart, activeCustomer(), 0, "KES")

	require.NotNil(t, v)
	assert.Equal(t, RuleBillingAddress, v.Rule)
}

func TestValidateOrder_MissingShippingMethod(t *testing.T) {
	cart := validCart()
	cart.ShippingMethod = ""

	v := ValidateOrder(cart, activeCustomer(), 0, "KES")

	require.NotNil(t, v)
	assert.Equal(t, RuleShippingMethod, v.Rule)
}

func TestValidateOrder_MissingPaymentMethod(t *testing.T) {
	cart := validCart()
	cart.PaymentMethod = ""

	v := ValidateOrder(cart, activeCustomer(), 0, "KES")

	require.NotNil(t, v)
	assert.Equal(t, RulePaymentMethod, v.Rule)
}

func TestValidateOrder_PriorityOrder(t *testing.T) {
	// Everything is wrong at once; the minimum order rule outranks the
	// address and method rules.
	cart := &domain.Cart{
		Currency: "KES",
		Items:    []domain.CartItem{{Price: 100, Quantity: 1, IsStockable: true}},
	}
	cart.CollectTotals()

	v := ValidateOrder(cart, activeCustomer(), 1000000, "KES")

	require.NotNil(t, v)
	assert.Equal(t, RuleMinimumOrder, v.Rule)
}

func TestCheckMinimumOrder(t *testing.T) {
	cart := validCart()

	pass := CheckMinimumOrder(cart, cart.GrandTotal, "KES")
	assert.True(t, pass.Status)
	assert.Equal(t, "Success", pass.Message)

	fail := CheckMinimumOrder(cart, cart.GrandTotal+1, "KES")
	assert.False(t, fail.Status)
	assert.Contains(t, fail.Message, "KES")
}
