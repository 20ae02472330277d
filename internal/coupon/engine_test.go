package coupon

import (
	"errors"
	"testing"
	"time"
)

var checkoutAt = time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC)

func TestValidateOrderOfChecks(t *testing.T) {
	expired := checkoutAt.Add(-time.Hour)
	limit := int32(1)

	cases := []struct {
		name string
		rule Rule
		want error
	}{
		{"inactive", Rule{Active: false}, ErrInactive},
		{"expired", Rule{Active: true, ExpiresAt: &expired}, ErrExpired},
		{"limit", Rule{Active: true, UsageLimit: &limit, UsageCount: 1}, ErrLimitReached},
		{"min value", Rule{Active: true, MinValue: 10_000}, ErrMinValueNotMet},
		{"ok", Rule{Active: true}, nil},
	}
	for _, tc := range cases {
		if err := tc.rule.Validate(checkoutAt, 8_000); !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
}

func TestValidateExpiryInclusive(t *testing.T) {
	rule := Rule{Active: true, ExpiresAt: &checkoutAt}
	if err := rule.Validate(checkoutAt, 1_000); err != nil {
		t.Fatalf("a coupon expiring exactly now is still valid: %v", err)
	}
}

func TestValidateUnlimitedUsage(t *testing.T) {
	rule := Rule{Active: true, UsageCount: 1_000_000}
	if err := rule.Validate(checkoutAt, 1_000); err != nil {
		t.Fatalf("nil usageLimit means unlimited: %v", err)
	}
}

// BLACKFRIDAY scenario: 25% with a R$200.00 cap against a R$1000.00 order.
func TestDiscountPercentageCapped(t *testing.T) {
	limit := int64(20_000)
	rule := Rule{Active: true, Kind: KindPercentage, PercentBps: 2500, MaxDiscount: &limit}
	if got := rule.Discount(100_000); got != 20_000 {
		t.Fatalf("expected raw 25000 clamped to 20000, got %d", got)
	}
}

func TestDiscountFixedClampsToSubtotal(t *testing.T) {
	rule := Rule{Active: true, Kind: KindFixed, Value: 5_000}
	if got := rule.Discount(3_000); got != 3_000 {
		t.Fatalf("expected clamp to subtotal, got %d", got)
	}
	if got := rule.Discount(10_000); got != 5_000 {
		t.Fatalf("expected 5000, got %d", got)
	}
}

func TestNormalizeCaseInsensitive(t *testing.T) {
	if Normalize("  bemvindo10 ") != "BEMVINDO10" {
		t.Fatal("codes are matched case-insensitively after trimming")
	}
}

func TestReasonFor(t *testing.T) {
	pairs := map[error]Reason{
		ErrNotFound:       ReasonNotFound,
		ErrInactive:       ReasonInactive,
		ErrExpired:        ReasonExpired,
		ErrLimitReached:   ReasonLimitReached,
		ErrMinValueNotMet: ReasonMinValue,
	}
	for err, want := range pairs {
		if got := ReasonFor(err); got != want {
			t.Fatalf("expected %s for %v, got %s", want, err, got)
		}
	}
	if ReasonFor(errors.New("boom")) != "" {
		t.Fatal("unknown errors carry no public reason")
	}
}
