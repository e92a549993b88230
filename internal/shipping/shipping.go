// Package shipping quotes carrier rates for a cart. Carriers are registered
// on a Provider; each decides for itself whether it applies to the cart.
package shipping

import (
	"context"

	"github.com/obuzietter/Messah-Enterprise/internal/domain"
)

// Carrier quotes a single shipping rate for a cart. A carrier that does not
// apply to the cart returns false.
type Carrier interface {
	Quote(cart *domain.Cart) (domain.ShippingRate, bool)
}

// Provider collects rates from all registered carriers.
type Provider struct {
	carriers []Carrier
}

// NewProvider creates a rate provider over the given carriers. Order is
// preserved in the returned rate list.
func NewProvider(carriers ...Carrier) *Provider {
	return &Provider{carriers: carriers}
}

// CollectRates returns every applicable carrier rate for the cart. The list
// is empty when no carrier serves the cart.
func (p *Provider) CollectRates(ctx context.Context, cart *domain.Cart) ([]domain.ShippingRate, error) {
	rates := make([]domain.ShippingRate, 0, len(p.carriers))
	for _, carrier := range p.carriers {
		if rate, ok := carrier.Quote(cart); ok {
			rates = append(rates, rate)
		}
	}
	return rates, nil
}

// RateByMethod returns the quoted rate matching the given method identifier.
func (p *Provider) RateByMethod(ctx context.Context, cart *domain.Cart, method string) (domain.ShippingRate, bool) {
	rates, err := p.CollectRates(ctx, cart)
	if err != nil {
		return domain.ShippingRate{}, false
	}
	for _, rate := range rates {
		if rate.Method == method {
			return rate, true
		}
	}
	return domain.ShippingRate{}, false
}
