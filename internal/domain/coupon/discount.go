package coupon

import (
	"fmt"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// MinPurchaseError indicates the cart subtotal does not reach the coupon's
// minimum purchase requirement.
type MinPurchaseError struct {
	Required decimal.Decimal
}

func (e *MinPurchaseError) Error() string {
	return fmt.Sprintf("Minimum purchase of %s required", e.Required)
}

// Apply calculates the discount for the given rule and cart subtotal.
// It is a pure function: no side effects, deterministic over its inputs.
//
// The computed amount is capped at MaxDiscount (when set), clamped at the
// subtotal so the resulting total can never go negative, and rounded to the
// nearest whole currency unit.
func Apply(rule *Rule, subtotal decimal.Decimal) (Discount, error) {
	if rule.MinPurchase != nil && subtotal.LessThan(*rule.MinPurchase) {
		return Discount{}, &MinPurchaseError{Required: *rule.MinPurchase}
	}

	var amount decimal.Decimal
	switch rule.DiscountType {
	case DiscountPercentage:
		amount = subtotal.Mul(rule.Value).Div(hundred)
		if rule.MaxDiscount != nil {
			amount = decimal.Min(amount, *rule.MaxDiscount)
		}
	case DiscountFixed:
		amount = rule.Value
	default:
		return Discount{}, errors.Errorf("unsupported discount type: %q", rule.DiscountType)
	}

	amount = decimal.Min(amount, subtotal)
	if amount.IsNegative() {
		amount = decimal.Zero
	}
	amount = amount.Round(0)

	return Discount{
		Code:   rule.Code,
		Amount: amount,
	}, nil
}
