package shipping

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/obuzietter/Messah-Enterprise/internal/domain"
)

func stockableCart(subtotal int64) *domain.Cart {
	return &domain.Cart{
		SubtotalAmount: subtotal,
		Items: []domain.CartItem{
			{IsStockable: true, Quantity: 2},
			{IsStockable: false, Quantity: 1},
		},
	}
}

func TestFlatRate_Quote(t *testing.T) {
	rate, ok := FlatRate{RatePerUnit: 500}.Quote(stockableCart(10000))

	require.True(t, ok)
	assert.Equal(t, "flatrate_flatrate", rate.Method)
	assert.Equal(t, int64(1000), rate.Amount)
}

func TestFlatRate_Quote_NoStockableItems(t *testing.T) {
	cart := &domain.Cart{Items: []domain.CartItem{{IsStockable: false, Quantity: 3}}}

	_, ok := FlatRate{RatePerUnit: 500}.Quote(cart)

	assert.False(t, ok)
}

func TestFreeShipping_Quote_BelowThreshold(t *testing.T) {
	_, ok := FreeShipping{MinSubtotal: 50000}.Quote(stockableCart(10000))
	assert.False(t, ok)
}

func TestFreeShipping_Quote_AtThreshold(t *testing.T) {
	rate, ok := FreeShipping{MinSubtotal: 10000}.Quote(stockableCart(10000))

	require.True(t, ok)
	assert.Equal(t, "free_free", rate.Method)
	assert.Zero(t, rate.Amount)
}

func TestProvider_CollectRates(t *testing.T) {
	provider := NewProvider(
		FlatRate{RatePerUnit: 500},
		FreeShipping{MinSubtotal: 5000},
	)

	rates, err := provider.CollectRates(context.Background(), stockableCart(10000))

	require.NoError(t, err)
	require.Len(t, rates, 2)
	assert.Equal(t, "flatrate_flatrate", rates[0].Method)
	assert.Equal(t, "free_free", rates[1].Method)
}

func TestProvider_RateByMethod(t *testing.T) {
	provider := NewProvider(FlatRate{RatePerUnit: 500})

	rate, ok := provider.RateByMethod(context.Background(), stockableCart(10000), "flatrate_flatrate")
	require.True(t, ok)
	assert.Equal(t, int64(1000), rate.Amount)

	_, ok = provider.RateByMethod(context.Background(), stockableCart(10000), "unknown")
	assert.False(t, ok)
}
