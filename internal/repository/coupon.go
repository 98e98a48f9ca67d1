package repository

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shopveda/storefront/internal/domain/coupon"
)

const getCouponByCodeSQL = `SELECT code, discount_type, value, min_purchase, max_discount, active, description
	FROM coupons WHERE UPPER(code) = UPPER($1) AND active = TRUE`

var _ coupon.Provider = (*CouponProvider)(nil)

// CouponProvider implements coupon.Provider backed by PostgreSQL.
type CouponProvider struct {
	pool *pgxpool.Pool
}

// NewCouponProvider returns a CouponProvider that uses the given pool.
func NewCouponProvider(pool *pgxpool.Pool) *CouponProvider {
	return &CouponProvider{pool: pool}
}

// FindByCode looks up an active coupon by its code (case-insensitive).
// Returns coupon.ErrInvalidCoupon when no matching active coupon exists.
func (r *CouponProvider) FindByCode(ctx context.Context, code string) (*coupon.Rule, error) {
	rows, err := r.pool.Query(ctx, getCouponByCodeSQL, code)
	if err != nil {
		return nil, fmt.Errorf("finding coupon by code %q: %w", code, err)
	}

	rule, err := pgx.CollectExactlyOneRow(rows, scanCouponRule)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, coupon.ErrInvalidCoupon
		}
		return nil, fmt.Errorf("finding coupon by code %q: %w", code, err)
	}
	return &rule, nil
}

func scanCouponRule(row pgx.CollectableRow) (coupon.Rule, error) {
	var (
		rule         coupon.Rule
		discountType string
	)
	err := row.Scan(
		&rule.Code, &discountType, &rule.Value, &rule.MinPurchase,
		&rule.MaxDiscount, &rule.Active, &rule.Description,
	)
	rule.DiscountType = coupon.DiscountType(discountType)
	return rule, err
}
