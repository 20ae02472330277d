package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/pecamax/backend-pecas/internal/coupon"
)

// Coupons persists coupon rules. Codes are stored in their canonical
// upper-case form; callers normalize before hitting the store.
type Coupons struct {
	DB DBTX
}

func NewCoupons(db DBTX) Coupons { return Coupons{DB: db} }

// WithTx returns a Coupons bound to the given transaction so the redeem
// increment can ride the checkout transaction.
func (r Coupons) WithTx(tx pgx.Tx) Coupons { return Coupons{DB: tx} }

func (r Coupons) GetCoupon(ctx context.Context, code string) (coupon.Rule, error) {
	const q = `
SELECT code, kind, value, percent_bps, min_value, max_discount,
       expires_at, usage_limit, usage_count, is_active
FROM coupons
WHERE code = $1`

	var rule coupon.Rule
	err := r.DB.QueryRow(ctx, q, code).Scan(
		&rule.Code,
		&rule.Kind,
		&rule.Value,
		&rule.PercentBps,
		&rule.MinValue,
		&rule.MaxDiscount,
		&rule.ExpiresAt,
		&rule.UsageLimit,
		&rule.UsageCount,
		&rule.Active,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return coupon.Rule{}, coupon.ErrNotFound
	}
	if err != nil {
		return coupon.Rule{}, fmt.Errorf("get coupon: %w", err)
	}
	return rule, nil
}

// RedeemCoupon increments the usage counter only while the quota holds, so two
// checkouts racing over the last redemption cannot both win.
func (r Coupons) RedeemCoupon(ctx context.Context, code string) error {
	const q = `
UPDATE coupons
SET usage_count = usage_count + 1
WHERE code = $1
  AND is_active
  AND (usage_limit IS NULL OR usage_count < usage_limit)`

	tag, err := r.DB.Exec(ctx, q, code)
	if err != nil {
		return fmt.Errorf("redeem coupon: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	var exists bool
	if err := r.DB.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM coupons WHERE code = $1)`, code).Scan(&exists); err != nil {
		return fmt.Errorf("redeem coupon: %w", err)
	}
	if !exists {
		return coupon.ErrNotFound
	}
	return coupon.ErrLimitReached
}
