package coupon

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// DiscountType enumerates the supported coupon discount strategies.
type DiscountType string

const (
	// DiscountPercentage applies a percentage-based discount to the cart subtotal.
	DiscountPercentage DiscountType = "percentage"
	// DiscountFixed subtracts a fixed monetary amount, capped at the subtotal.
	DiscountFixed DiscountType = "fixed"
)

// ErrInvalidCoupon is returned when a coupon code is not found or is inactive.
var ErrInvalidCoupon = errors.New("Invalid coupon code")

// Rule defines a coupon's discount behaviour and eligibility constraints.
// Rules are read-only at runtime; they come from an injected Provider.
type Rule struct {
	Code         string
	DiscountType DiscountType
	Value        decimal.Decimal
	// MinPurchase is the minimum cart subtotal required to apply the coupon.
	// Nil means no minimum.
	MinPurchase *decimal.Decimal
	// MaxDiscount caps the computed discount amount. Nil means uncapped.
	// Only meaningful for percentage coupons.
	MaxDiscount *decimal.Decimal
	Active      bool
	Description string
}

// Discount holds the computed discount for a validated coupon.
type Discount struct {
	Code   string
	Amount decimal.Decimal
}

// Provider looks up coupon rules by code. Lookups are case-insensitive and
// must only return active rules; anything else maps to ErrInvalidCoupon.
type Provider interface {
	FindByCode(ctx context.Context, code string) (*Rule, error)
}
