package coupon

import (
	"errors"
	"strings"
	"time"
)

var (
	// ErrNotFound is returned when no coupon exists for the given code.
	ErrNotFound = errors.New("coupon not found")
	// ErrInactive is returned for coupons disabled by the admin panel.
	ErrInactive = errors.New("coupon not active")
	// ErrExpired is returned once the expiry instant has passed.
	ErrExpired = errors.New("coupon expired")
	// ErrLimitReached indicates the coupon has exhausted its usage quota.
	ErrLimitReached = errors.New("coupon usage limit reached")
	// ErrMinValueNotMet indicates the order subtotal is below the coupon threshold.
	ErrMinValueNotMet = errors.New("coupon minimum order value not met")
)

// Reason is the public rejection code surfaced verbatim to the shopper.
type Reason string

const (
	ReasonNotFound     Reason = "NOT_FOUND"
	ReasonInactive     Reason = "INACTIVE"
	ReasonExpired      Reason = "EXPIRED"
	ReasonLimitReached Reason = "LIMIT_REACHED"
	ReasonMinValue     Reason = "MIN_VALUE_NOT_MET"
)

// Discount kinds.
const (
	KindPercentage = "PERCENTAGE"
	KindFixed      = "FIXED"
)

// Rule captures one coupon as held by the store. Codes are unique
// case-insensitively; Normalize produces the canonical form.
type Rule struct {
	Code        string
	Kind        string
	Value       int64
	PercentBps  int64
	MinValue    int64
	MaxDiscount *int64
	ExpiresAt   *time.Time
	UsageLimit  *int32
	UsageCount  int32
	Active      bool
}

// Normalize returns the canonical form of a coupon code.
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Validate applies the checkout checks in order, short-circuiting on the
// first failure. It never mutates usage state; the usage counter only moves
// at order placement through the atomic store increment.
func (r Rule) Validate(now time.Time, orderSubtotal int64) error {
	if !r.Active {
		return ErrInactive
	}
	if r.ExpiresAt != nil && now.After(*r.ExpiresAt) {
		return ErrExpired
	}
	if r.UsageLimit != nil && r.UsageCount >= *r.UsageLimit {
		return ErrLimitReached
	}
	if orderSubtotal < r.MinValue {
		return ErrMinValueNotMet
	}
	return nil
}

// Discount computes the preview amount against the order subtotal using the
// same clamp rules as the automatic promotion calculator.
func (r Rule) Discount(orderSubtotal int64) int64 {
	if orderSubtotal <= 0 {
		return 0
	}
	var discount int64
	switch r.Kind {
	case KindPercentage:
		discount = orderSubtotal * r.PercentBps / 10000
		if r.MaxDiscount != nil && discount > *r.MaxDiscount {
			discount = *r.MaxDiscount
		}
	case KindFixed:
		discount = r.Value
	default:
		return 0
	}
	if discount < 0 {
		return 0
	}
	if discount > orderSubtotal {
		return orderSubtotal
	}
	return discount
}

// ReasonFor maps a validation error to its public reason code.
func ReasonFor(err error) Reason {
	switch {
	case errors.Is(err, ErrNotFound):
		return ReasonNotFound
	case errors.Is(err, ErrInactive):
		return ReasonInactive
	case errors.Is(err, ErrExpired):
		return ReasonExpired
	case errors.Is(err, ErrLimitReached):
		return ReasonLimitReached
	case errors.Is(err, ErrMinValueNotMet):
		return ReasonMinValue
	default:
		return ""
	}
}
