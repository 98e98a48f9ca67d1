package coupon

import (
	"context"
	"strings"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// Validator validates a coupon code against a cart subtotal and returns the
// computed discount.
type Validator interface {
	Validate(ctx context.Context, code string, subtotal decimal.Decimal) (*Discount, error)
}

// ProviderValidator implements Validator by looking up coupon rules from a
// Provider and applying them via the Apply function.
type ProviderValidator struct {
	provider Provider
}

// NewProviderValidator creates a ProviderValidator backed by the given Provider.
func NewProviderValidator(provider Provider) *ProviderValidator {
	return &ProviderValidator{provider: provider}
}

// Validate normalizes the code, looks up the matching active rule, and applies
// it to the subtotal. It returns ErrInvalidCoupon when the code is unknown or
// inactive, and a *MinPurchaseError when the subtotal is below the rule's
// minimum.
func (v *ProviderValidator) Validate(ctx context.Context, code string, subtotal decimal.Decimal) (*Discount, error) {
	rule, err := v.provider.FindByCode(ctx, NormalizeCode(code))
	if err != nil {
		if errors.Is(err, ErrInvalidCoupon) {
			return nil, ErrInvalidCoupon
		}
		return nil, errors.Wrap(err, "lookup coupon")
	}

	d, err := Apply(rule, subtotal)
	if err != nil {
		return nil, err
	}

	return &d, nil
}

// NormalizeCode trims surrounding whitespace and uppercases a coupon code so
// comparisons and stored codes share one canonical form.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
