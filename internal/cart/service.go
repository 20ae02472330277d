package cart

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pecamax/backend-pecas/internal/coupon"
	"github.com/pecamax/backend-pecas/internal/promo"
)

// ErrInvalidInput is returned when the provided payload is invalid.
var ErrInvalidInput = errors.New("invalid input")

// Service encapsulates cart domain operations. Every mutation returns the
// freshly priced view so the storefront never renders stale totals.
type Service struct {
	Store   Store
	Promos  *promo.Service
	Coupons *coupon.Service
	Now     func() time.Time
}

func (s *Service) now() time.Time {
	if s != nil && s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// View is the priced cart as rendered to the shopper. Total folds the coupon
// discount on top of the automatic promotion result.
type View struct {
	Cart           Cart                    `json:"cart"`
	Pricing        promo.CartPricingResult `json:"pricing"`
	CouponDiscount int64                   `json:"couponDiscount,omitempty"`
	CouponReason   coupon.Reason           `json:"couponReason,omitempty"`
	Total          int64                   `json:"total"`
}

// EnsureCart loads the cart or creates a fresh one when the id is empty or
// already expired.
func (s *Service) EnsureCart(ctx context.Context, id, customerID, customerLevel string) (Cart, error) {
	if s == nil || s.Store.R == nil {
		return Cart{}, errors.New("cart service not configured")
	}
	if id != "" {
		c, err := s.Store.Get(ctx, id)
		if err == nil {
			if customerID != "" && c.CustomerID == "" {
				c.CustomerID = customerID
				c.CustomerLevel = customerLevel
				c.UpdatedAt = s.now()
				if err := s.Store.Save(ctx, c); err != nil {
					return Cart{}, err
				}
			}
			return c, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return Cart{}, err
		}
	}
	c := Cart{
		ID:            uuid.NewString(),
		CustomerID:    customerID,
		CustomerLevel: customerLevel,
		Lines:         []Line{},
		UpdatedAt:     s.now(),
	}
	if err := s.Store.Save(ctx, c); err != nil {
		return Cart{}, err
	}
	return c, nil
}

// Get returns the priced view of an existing cart.
func (s *Service) Get(ctx context.Context, cartID string) (View, error) {
	c, err := s.Store.Get(ctx, cartID)
	if err != nil {
		return View{}, err
	}
	return s.view(ctx, c)
}

// AddLine inserts a line, or increments the quantity when the same product or
// service is already in the cart.
func (s *Service) AddLine(ctx context.Context, cartID string, line Line) (View, error) {
	if line.Qty <= 0 {
		return View{}, fmt.Errorf("qty must be positive: %w", ErrInvalidInput)
	}
	if line.UnitPrice < 0 {
		return View{}, fmt.Errorf("unit price must not be negative: %w", ErrInvalidInput)
	}
	switch line.ItemType {
	case promo.ItemTypeProduct, promo.ItemTypeService:
	default:
		return View{}, fmt.Errorf("unknown item type %q: %w", line.ItemType, ErrInvalidInput)
	}
	if line.Category == "" {
		return View{}, fmt.Errorf("category required: %w", ErrInvalidInput)
	}

	c, err := s.Store.Get(ctx, cartID)
	if err != nil {
		return View{}, err
	}
	merged := false
	for i, existing := range c.Lines {
		if sameOffer(existing, line) {
			c.Lines[i].Qty += line.Qty
			merged = true
			break
		}
	}
	if !merged {
		line.ID = uuid.NewString()
		c.Lines = append(c.Lines, line)
	}
	return s.save(ctx, c)
}

// UpdateQty replaces the quantity of one line.
func (s *Service) UpdateQty(ctx context.Context, cartID, lineID string, qty int) (View, error) {
	if qty <= 0 {
		return View{}, fmt.Errorf("qty must be positive: %w", ErrInvalidInput)
	}
	c, err := s.Store.Get(ctx, cartID)
	if err != nil {
		return View{}, err
	}
	found := false
	for i := range c.Lines {
		if c.Lines[i].ID == lineID {
			c.Lines[i].Qty = qty
			found = true
			break
		}
	}
	if !found {
		return View{}, ErrNotFound
	}
	return s.save(ctx, c)
}

// RemoveLine deletes one line from the cart.
func (s *Service) RemoveLine(ctx context.Context, cartID, lineID string) (View, error) {
	c, err := s.Store.Get(ctx, cartID)
	if err != nil {
		return View{}, err
	}
	kept := c.Lines[:0]
	found := false
	for _, l := range c.Lines {
		if l.ID == lineID {
			found = true
			continue
		}
		kept = append(kept, l)
	}
	if !found {
		return View{}, ErrNotFound
	}
	c.Lines = kept
	return s.save(ctx, c)
}

// ApplyCoupon validates the code against the current post-promotion total and
// attaches it only when valid. Rejections come back in the view, not as errors.
func (s *Service) ApplyCoupon(ctx context.Context, cartID, code string) (View, error) {
	if strings.TrimSpace(code) == "" {
		return View{}, fmt.Errorf("coupon code required: %w", ErrInvalidInput)
	}
	c, err := s.Store.Get(ctx, cartID)
	if err != nil {
		return View{}, err
	}
	pricing := s.Promos.Evaluate(ctx, c.PromoLines(), c.Customer())
	res, err := s.Coupons.Validate(ctx, code, int64(pricing.Total))
	if err != nil {
		return View{}, err
	}
	if !res.Valid {
		v, err := s.view(ctx, c)
		if err != nil {
			return View{}, err
		}
		v.CouponReason = res.Reason
		return v, nil
	}
	c.CouponCode = coupon.Normalize(code)
	return s.save(ctx, c)
}

// RemoveCoupon clears an applied coupon.
func (s *Service) RemoveCoupon(ctx context.Context, cartID string) (View, error) {
	c, err := s.Store.Get(ctx, cartID)
	if err != nil {
		return View{}, err
	}
	c.CouponCode = ""
	return s.save(ctx, c)
}

func (s *Service) save(ctx context.Context, c Cart) (View, error) {
	c.UpdatedAt = s.now()
	if err := s.Store.Save(ctx, c); err != nil {
		return View{}, err
	}
	return s.view(ctx, c)
}

// view prices the cart and re-validates any stored coupon, so a coupon that
// expired after being applied surfaces its reason instead of a stale discount.
func (s *Service) view(ctx context.Context, c Cart) (View, error) {
	pricing := s.Promos.Evaluate(ctx, c.PromoLines(), c.Customer())
	v := View{Cart: c, Pricing: pricing, Total: int64(pricing.Total)}
	if c.CouponCode == "" {
		return v, nil
	}
	res, err := s.Coupons.Validate(ctx, c.CouponCode, int64(pricing.Total))
	if err != nil {
		return View{}, err
	}
	if !res.Valid {
		v.CouponReason = res.Reason
		return v, nil
	}
	v.CouponDiscount = res.DiscountPreview
	v.Total = int64(pricing.Total) - res.DiscountPreview
	if v.Total < 0 {
		v.Total = 0
	}
	return v, nil
}

func sameOffer(a, b Line) bool {
	if a.ItemType != b.ItemType {
		return false
	}
	if a.ItemType == promo.ItemTypeService {
		return a.ServiceID != "" && a.ServiceID == b.ServiceID
	}
	return a.ProductID != "" && a.ProductID == b.ProductID
}
