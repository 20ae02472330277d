package coupon

import (
	"context"
	"errors"
	"time"

	"github.com/pecamax/backend-pecas/internal/obs"
)

// Store captures the persistence operations required by the coupon service.
// Redeem must perform an atomic check-and-increment: the usage limit is
// re-verified at commit time so two customers cannot both consume the last
// remaining use.
type Store interface {
	GetCoupon(ctx context.Context, code string) (Rule, error)
	RedeemCoupon(ctx context.Context, code string) error
}

// Result is the outcome of a validation request, consumed by the checkout form.
type Result struct {
	Valid           bool   `json:"valid"`
	Reason          Reason `json:"reason,omitempty"`
	DiscountPreview int64  `json:"discountPreview,omitempty"`
}

// Service encapsulates coupon validation and settlement behaviour.
type Service struct {
	Store Store
	Now   func() time.Time
}

func (s *Service) now() time.Time {
	if s != nil && s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Validate performs the on-demand checkout validation. Store lookup misses
// and rule rejections are reported through the Result, not as errors; only
// infrastructure failures surface as an error.
func (s *Service) Validate(ctx context.Context, code string, orderSubtotal int64) (Result, error) {
	if s == nil || s.Store == nil {
		return Result{}, errors.New("coupon service not configured")
	}
	normalized := Normalize(code)
	if normalized == "" {
		return s.rejected(ReasonNotFound), nil
	}
	rule, err := s.Store.GetCoupon(ctx, normalized)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return s.rejected(ReasonNotFound), nil
		}
		return Result{}, err
	}
	if err := rule.Validate(s.now(), orderSubtotal); err != nil {
		return s.rejected(ReasonFor(err)), nil
	}
	countValidation("valid")
	return Result{Valid: true, DiscountPreview: rule.Discount(orderSubtotal)}, nil
}

// Commit consumes one usage unit at successful order placement. The store
// re-checks the limit atomically; ErrLimitReached here means another order
// won the race and the caller must re-price without the coupon.
func (s *Service) Commit(ctx context.Context, code string) error {
	if s == nil || s.Store == nil {
		return errors.New("coupon service not configured")
	}
	err := s.Store.RedeemCoupon(ctx, Normalize(code))
	if obs.CouponRedeemTotal != nil {
		outcome := "ok"
		if err != nil {
			outcome = "rejected"
		}
		obs.CouponRedeemTotal.WithLabelValues(outcome).Inc()
	}
	return err
}

func (s *Service) rejected(reason Reason) Result {
	countValidation(string(reason))
	return Result{Valid: false, Reason: reason}
}

func countValidation(result string) {
	if obs.CouponValidationsTotal != nil && result != "" {
		obs.CouponValidationsTotal.WithLabelValues(result).Inc()
	}
}
