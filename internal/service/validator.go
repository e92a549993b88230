package service

import (
	"fmt"

	"github.com/obuzietter/Messah-Enterprise/internal/domain"
	"github.com/obuzietter/Messah-Enterprise/pkg/money"
)

// Validation rule identifiers, in evaluation order.
const (
	RuleSuspendedAccount = "suspended_account"
	RuleInactiveAccount  = "inactive_account"
	RuleMinimumOrder     = "minimum_order"
	RuleShippingAddress  = "shipping_address"
	RuleBillingAddress   = "billing_address"
	RuleShippingMethod   = "shipping_method"
	RulePaymentMethod    = "payment_method"
)

const minimumOrderSuccess = "Success"

// RuleViolation is the first failed order validation rule. The message is
// user-visible.
type RuleViolation struct {
	Rule    string
	Message string
}

// ValidateOrder checks whether the cart may become an order. Rules are
// evaluated in a fixed priority order and the first failure wins; a nil
// result means the cart passed every rule. The function never mutates its
// inputs. A nil customer means a guest checkout, which skips the account
// rules.
func ValidateOrder(cart *domain.Cart, customer *domain.Customer, minimum int64, currency string) *RuleViolation {
	if customer != nil && customer.IsSuspended {
		return &RuleViolation{
			Rule:    RuleSuspendedAccount,
			Message: "Your account has been suspended, please contact the administrator.",
		}
	}

	if customer != nil && !customer.IsActive {
		return &RuleViolation{
			Rule:    RuleInactiveAccount,
			Message: "Your account is inactive, please contact the administrator.",
		}
	}

	if !cart.MeetsMinimumOrder(minimum) {
		return &RuleViolation{
			Rule:    RuleMinimumOrder,
			Message: minimumOrderMessage(minimum, currency),
		}
	}

	if cart.HasStockableItems() && cart.ShippingAddress == nil {
		return &RuleViolation{
			Rule:    RuleShippingAddress,
			Message: "Please check the shipping address.",
		}
	}

	if cart.BillingAddress == nil {
		return &RuleViolation{
			Rule:    RuleBillingAddress,
			Message: "Please check the billing address.",
		}
	}

	if cart.HasStockableItems() && cart.ShippingMethod == "" {
		return &RuleViolation{
			Rule:    RuleShippingMethod,
			Message: "Please specify a shipping method.",
		}
	}

	if cart.PaymentMethod == "" {
		return &RuleViolation{
			Rule:    RulePaymentMethod,
			Message: "Please specify a payment method.",
		}
	}

	return nil
}

// MinimumOrderStatus is the outcome of the standalone minimum-order check.
type MinimumOrderStatus struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
}

// CheckMinimumOrder evaluates only the minimum order rule against the cart.
func CheckMinimumOrder(cart *domain.Cart, minimum int64, currency string) MinimumOrderStatus {
	if cart.MeetsMinimumOrder(minimum) {
		return MinimumOrderStatus{Status: true, Message: minimumOrderSuccess}
	}
	return MinimumOrderStatus{Status: false, Message: minimumOrderMessage(minimum, currency)}
}

func minimumOrderMessage(minimum int64, currency string) string {
	return fmt.Sprintf("The minimum order amount is %s.", money.Format(minimum, currency))
}
