package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Orders persists placed orders with the prices frozen at checkout time.
type Orders struct {
	DB DBTX
}

func NewOrders(db DBTX) Orders { return Orders{DB: db} }

type CreateOrderParams struct {
	CartID         string
	CustomerID     *string
	Currency       string
	Subtotal       int64
	PromoDiscount  int64
	CouponCode     *string
	CouponDiscount int64
	Total          int64
	FreeShipping   bool
}

type CreateOrderItemParams struct {
	OrderID            uuid.UUID
	ProductID          *string
	ServiceID          *string
	Category           string
	ItemType           string
	UnitPrice          int64
	Qty                int32
	OriginalSubtotal   int64
	DiscountedSubtotal int64
	AppliedPromotionID *string
}

func (r Orders) CreateOrder(ctx context.Context, p CreateOrderParams) (uuid.UUID, error) {
	const q = `
INSERT INTO orders (
	cart_id, customer_id, currency,
	subtotal, promo_discount, coupon_code, coupon_discount,
	total, free_shipping
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING id`

	var id uuid.UUID
	err := r.DB.QueryRow(ctx, q,
		p.CartID, p.CustomerID, p.Currency,
		p.Subtotal, p.PromoDiscount, p.CouponCode, p.CouponDiscount,
		p.Total, p.FreeShipping,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("create order: %w", err)
	}
	return id, nil
}

func (r Orders) CreateOrderItem(ctx context.Context, p CreateOrderItemParams) error {
	const q = `
INSERT INTO order_items (
	order_id, product_id, service_id, category, item_type,
	unit_price, qty, original_subtotal, discounted_subtotal, applied_promotion_id
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.DB.Exec(ctx, q,
		p.OrderID, p.ProductID, p.ServiceID, p.Category, p.ItemType,
		p.UnitPrice, p.Qty, p.OriginalSubtotal, p.DiscountedSubtotal, p.AppliedPromotionID,
	)
	if err != nil {
		return fmt.Errorf("create order item: %w", err)
	}
	return nil
}
