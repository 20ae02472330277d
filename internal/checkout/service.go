package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/pecamax/backend-pecas/internal/cart"
	"github.com/pecamax/backend-pecas/internal/coupon"
	"github.com/pecamax/backend-pecas/internal/events"
	"github.com/pecamax/backend-pecas/internal/lock"
	"github.com/pecamax/backend-pecas/internal/promo"
	"github.com/pecamax/backend-pecas/internal/repo"
)

// ErrEmptyCart is returned when checkout is attempted on a cart without lines.
var ErrEmptyCart = errors.New("cart is empty")

// Output is the placed order as returned to the storefront. CouponReason is
// set when a stored coupon was dropped during placement, e.g. another shopper
// took the last redemption first.
type Output struct {
	OrderID        string                  `json:"orderId"`
	Currency       string                  `json:"currency"`
	Subtotal       int64                   `json:"subtotal"`
	PromoDiscount  int64                   `json:"promoDiscount"`
	CouponCode     string                  `json:"couponCode,omitempty"`
	CouponDiscount int64                   `json:"couponDiscount,omitempty"`
	CouponReason   coupon.Reason           `json:"couponReason,omitempty"`
	Total          int64                   `json:"total"`
	FreeShipping   bool                    `json:"freeShipping"`
	Pricing        promo.CartPricingResult `json:"pricing"`
}

// Service turns a priced cart into a persisted order. Placement runs under a
// per-cart lock so double-submits cannot race each other, and the coupon
// usage increment rides the order transaction.
type Service struct {
	Pool     *pgxpool.Pool
	Carts    *cart.Service
	Promos   *promo.Service
	Coupons  *coupon.Service
	Locker   lock.Locker
	Events   *events.Bus
	Currency string
	Log      zerolog.Logger
	Now      func() time.Time
}

func (s *Service) now() time.Time {
	if s != nil && s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Place prices the cart one final time, redeems any stored coupon and
// persists the order with those frozen amounts.
func (s *Service) Place(ctx context.Context, cartID string) (Output, error) {
	if s == nil || s.Pool == nil || s.Carts == nil || s.Promos == nil {
		return Output{}, errors.New("checkout service not configured")
	}
	if cartID == "" {
		return Output{}, fmt.Errorf("cartId is required: %w", cart.ErrInvalidInput)
	}

	var out Output
	err := s.Locker.WithLock(ctx, "checkout:"+cartID, 30*time.Second, func(ctx context.Context) error {
		var err error
		out, err = s.place(ctx, cartID)
		return err
	})
	return out, err
}

func (s *Service) place(ctx context.Context, cartID string) (Output, error) {
	c, err := s.Carts.Store.Get(ctx, cartID)
	if err != nil {
		return Output{}, err
	}
	if len(c.Lines) == 0 {
		return Output{}, ErrEmptyCart
	}

	pricing := s.Promos.Evaluate(ctx, c.PromoLines(), c.Customer())
	out := Output{
		Currency:      s.Currency,
		Subtotal:      int64(pricing.Subtotal),
		PromoDiscount: int64(pricing.TotalSavings),
		Total:         int64(pricing.Total),
		FreeShipping:  pricing.FreeShipping,
		Pricing:       pricing,
	}

	redeemCoupon := false
	if c.CouponCode != "" && s.Coupons != nil {
		res, err := s.Coupons.Validate(ctx, c.CouponCode, int64(pricing.Total))
		if err != nil {
			return Output{}, err
		}
		if res.Valid {
			redeemCoupon = true
			out.CouponCode = c.CouponCode
			out.CouponDiscount = res.DiscountPreview
		} else {
			out.CouponReason = res.Reason
		}
	}

	tx, err := s.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Output{}, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if redeemCoupon {
		// Tx-bound commit: the usage increment rolls back with the order.
		txCoupons := &coupon.Service{Store: repo.NewCoupons(s.Pool).WithTx(tx), Now: s.Now}
		if err := txCoupons.Commit(ctx, c.CouponCode); err != nil {
			if errors.Is(err, coupon.ErrLimitReached) || errors.Is(err, coupon.ErrNotFound) {
				// Lost the race for the last redemption; place without the coupon.
				out.CouponCode = ""
				out.CouponDiscount = 0
				out.CouponReason = coupon.ReasonFor(err)
			} else {
				return Output{}, err
			}
		}
	}

	out.Total = int64(pricing.Total) - out.CouponDiscount
	if out.Total < 0 {
		out.Total = 0
	}

	orders := repo.NewOrders(tx)
	params := repo.CreateOrderParams{
		CartID:         c.ID,
		Currency:       s.Currency,
		Subtotal:       out.Subtotal,
		PromoDiscount:  out.PromoDiscount,
		CouponDiscount: out.CouponDiscount,
		Total:          out.Total,
		FreeShipping:   out.FreeShipping,
	}
	if c.CustomerID != "" {
		params.CustomerID = &c.CustomerID
	}
	if out.CouponCode != "" {
		params.CouponCode = &out.CouponCode
	}
	orderID, err := orders.CreateOrder(ctx, params)
	if err != nil {
		return Output{}, err
	}

	linesByID := make(map[string]cart.Line, len(c.Lines))
	for _, l := range c.Lines {
		linesByID[l.ID] = l
	}
	for _, lp := range pricing.Lines {
		src := linesByID[lp.ID]
		item := repo.CreateOrderItemParams{
			OrderID:            orderID,
			Category:           src.Category,
			ItemType:           src.ItemType,
			UnitPrice:          src.UnitPrice,
			Qty:                int32(src.Qty),
			OriginalSubtotal:   int64(lp.OriginalSubtotal),
			DiscountedSubtotal: int64(lp.DiscountedSubtotal),
		}
		if src.ProductID != "" {
			item.ProductID = &src.ProductID
		}
		if src.ServiceID != "" {
			item.ServiceID = &src.ServiceID
		}
		if lp.AppliedPromotionID != "" {
			item.AppliedPromotionID = &lp.AppliedPromotionID
		}
		if err := orders.CreateOrderItem(ctx, item); err != nil {
			return Output{}, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return Output{}, err
	}

	out.OrderID = orderID.String()
	s.emit(ctx, orderID, out)
	if err := s.Carts.Store.Delete(ctx, c.ID); err != nil {
		s.Log.Warn().Err(err).Str("cart_id", c.ID).Msg("delete cart after checkout")
	}
	return out, nil
}

func (s *Service) emit(ctx context.Context, orderID uuid.UUID, out Output) {
	if s.Events == nil {
		return
	}
	payload := map[string]any{
		"orderId":  out.OrderID,
		"total":    out.Total,
		"currency": out.Currency,
		"placedAt": s.now().UTC(),
	}
	if _, err := s.Events.Emit(ctx, events.TopicOrderPlaced, orderID, payload); err != nil {
		s.Log.Warn().Err(err).Msg("emit order placed")
	}
	if out.CouponCode != "" {
		couponPayload := map[string]any{
			"orderId":  out.OrderID,
			"code":     out.CouponCode,
			"discount": out.CouponDiscount,
		}
		if _, err := s.Events.Emit(ctx, events.TopicCouponRedeemed, orderID, couponPayload); err != nil {
			s.Log.Warn().Err(err).Msg("emit coupon redeemed")
		}
	}
}
