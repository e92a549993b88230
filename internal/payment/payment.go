// Package payment owns the set of payment methods offered at checkout.
package payment

import (
	"sort"

	"github.com/obuzietter/Messah-Enterprise/internal/domain"
)

// Method is an enabled payment option. RedirectURL is set only for hosted
// gateways that take over the flow before an order is created.
type Method struct {
	Code        string
	Title       string
	Description string
	Sort        int
	RedirectURL string
}

// Provider exposes the enabled payment methods.
type Provider struct {
	methods []Method
}

// NewProvider creates a payment provider over the enabled methods.
func NewProvider(methods ...Method) *Provider {
	sorted := make([]Method, len(methods))
	copy(sorted, methods)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Sort < sorted[j].Sort })
	return &Provider{methods: sorted}
}

// DefaultMethods returns the standard storefront payment set.
func DefaultMethods() []Method {
	return []Method{
		{Code: domain.MethodCashOnDelivery, Title: "Cash On Delivery", Description: "Pay on delivery", Sort: 1},
		{Code: domain.MethodMoneyTransfer, Title: "Mobile Money", Description: "Pay via mobile money prompt", Sort: 2},
	}
}

// Methods lists the enabled methods in sort order.
func (p *Provider) Methods() []domain.PaymentMethod {
	out := make([]domain.PaymentMethod, 0, len(p.methods))
	for _, m := range p.methods {
		out = append(out, domain.PaymentMethod{
			Method:      m.Code,
			Title:       m.Title,
			Description: m.Description,
			Sort:        m.Sort,
		})
	}
	return out
}

// IsEnabled reports whether the given method code is offered.
func (p *Provider) IsEnabled(code string) bool {
	for _, m := range p.methods {
		if m.Code == code {
			return true
		}
	}
	return false
}

// RedirectURL returns the hosted gateway URL for the method, or empty when
// the method completes inline.
func (p *Provider) RedirectURL(code string) string {
	for _, m := range p.methods {
		if m.Code == code {
			return m.RedirectURL
		}
	}
	return ""
}
