package coupon

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestApply(t *testing.T) {
	tests := []struct {
		name       string
		rule       Rule
		subtotal   string
		wantAmount string
		wantErr    string
	}{
		{
			name: "WELCOME10 on 1000 gives 100",
			rule: Rule{
				Code:         "WELCOME10",
				DiscountType: DiscountPercentage,
				Value:        dec("10"),
				MinPurchase:  decPtr("500"),
				MaxDiscount:  decPtr("200"),
				Active:       true,
			},
			subtotal:   "1000",
			wantAmount: "100",
		},
		{
			name: "SAVE20 on 1200 gives 240",
			rule: Rule{
				Code:         "SAVE20",
				DiscountType: DiscountPercentage,
				Value:        dec("20"),
				MinPurchase:  decPtr("1000"),
				MaxDiscount:  decPtr("500"),
				Active:       true,
			},
			subtotal:   "1200",
			wantAmount: "240",
		},
		{
			name: "FLAT500 below minimum purchase fails",
			rule: Rule{
				Code:         "FLAT500",
				DiscountType: DiscountFixed,
				Value:        dec("500"),
				MinPurchase:  decPtr("2000"),
				Active:       true,
			},
			subtotal: "1500",
			wantErr:  "Minimum purchase of 2000 required",
		},
		{
			name: "percentage capped at max discount",
			rule: Rule{
				Code:         "BIGSALE",
				DiscountType: DiscountPercentage,
				Value:        dec("50"),
				MaxDiscount:  decPtr("300"),
				Active:       true,
			},
			subtotal:   "10000",
			wantAmount: "300",
		},
		{
			name: "percentage uncapped without max discount",
			rule: Rule{
				Code:         "HALF",
				DiscountType: DiscountPercentage,
				Value:        dec("50"),
				Active:       true,
			},
			subtotal:   "10000",
			wantAmount: "5000",
		},
		{
			name: "no minimum purchase always passes",
			rule: Rule{
				Code:         "ANY5",
				DiscountType: DiscountFixed,
				Value:        dec("5"),
				Active:       true,
			},
			subtotal:   "1",
			wantAmount: "1",
		},
		{
			name: "fixed discount clamped at subtotal",
			rule: Rule{
				Code:         "FLAT500",
				DiscountType: DiscountFixed,
				Value:        dec("500"),
				Active:       true,
			},
			subtotal:   "300",
			wantAmount: "300",
		},
		{
			name: "discount rounded to whole currency unit",
			rule: Rule{
				Code:         "ODD",
				DiscountType: DiscountPercentage,
				Value:        dec("15"),
				Active:       true,
			},
			subtotal:   "333",
			wantAmount: "50", // 49.95 rounds to 50
		},
		{
			name: "zero subtotal yields zero discount",
			rule: Rule{
				Code:         "TEN",
				DiscountType: DiscountPercentage,
				Value:        dec("10"),
				Active:       true,
			},
			subtotal:   "0",
			wantAmount: "0",
		},
		{
			name: "unsupported discount type rejected",
			rule: Rule{
				Code:         "WEIRD",
				DiscountType: DiscountType("bogo"),
				Value:        dec("1"),
				Active:       true,
			},
			subtotal: "100",
			wantErr:  "unsupported discount type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Apply(&tt.rule, dec(tt.subtotal))

			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.True(t, dec(tt.wantAmount).Equal(got.Amount),
				"expected amount %s, got %s", tt.wantAmount, got.Amount)
		})
	}
}

func TestApply_MinPurchaseErrorType(t *testing.T) {
	rule := Rule{
		Code:         "FLAT500",
		DiscountType: DiscountFixed,
		Value:        dec("500"),
		MinPurchase:  decPtr("2000"),
		Active:       true,
	}

	_, err := Apply(&rule, dec("1500"))

	var mpErr *MinPurchaseError
	require.ErrorAs(t, err, &mpErr)
	assert.True(t, dec("2000").Equal(mpErr.Required))
}

// Whatever the rule, the discount never exceeds the subtotal and the
// resulting total never goes negative.
func TestApply_NeverExceedsSubtotal(t *testing.T) {
	rules := []Rule{
		{Code: "P100", DiscountType: DiscountPercentage, Value: dec("100"), Active: true},
		{Code: "P100CAP", DiscountType: DiscountPercentage, Value: dec("100"), MaxDiscount: decPtr("50"), Active: true},
		{Code: "F999", DiscountType: DiscountFixed, Value: dec("999"), Active: true},
	}
	subtotals := []string{"0", "1", "49", "50", "999", "1000"}

	for _, rule := range rules {
		for _, s := range subtotals {
			subtotal := dec(s)
			got, err := Apply(&rule, subtotal)
			require.NoError(t, err, "rule %s subtotal %s", rule.Code, s)
			assert.True(t, got.Amount.LessThanOrEqual(subtotal),
				"rule %s subtotal %s: discount %s exceeds subtotal", rule.Code, s, got.Amount)
			assert.False(t, got.Amount.IsNegative())
			if rule.MaxDiscount != nil {
				assert.True(t, got.Amount.LessThanOrEqual(*rule.MaxDiscount))
			}
		}
	}
}
