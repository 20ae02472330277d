package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pecamax/backend-pecas/internal/promo"
)

// ErrNotFound indicates the requested cart could not be located.
var ErrNotFound = errors.New("cart not found")

const keyPrefix = "cart:"

// Cart is the shopper's working cart, stored as a JSON document in Redis and
// expired by TTL. Prices are frozen in minor units at add time.
type Cart struct {
	ID            string    `json:"id"`
	CustomerID    string    `json:"customerId,omitempty"`
	CustomerLevel string    `json:"customerLevel,omitempty"`
	Lines         []Line    `json:"lines"`
	CouponCode    string    `json:"couponCode,omitempty"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Line is one product or service entry.
type Line struct {
	ID        string `json:"id"`
	ProductID string `json:"productId,omitempty"`
	ServiceID string `json:"serviceId,omitempty"`
	Category  string `json:"category"`
	ItemType  string `json:"itemType"`
	UnitPrice int64  `json:"unitPrice"`
	Qty       int    `json:"qty"`
}

// PromoLines converts the stored lines into the pricing engine's shape.
func (c Cart) PromoLines() []promo.CartLine {
	lines := make([]promo.CartLine, 0, len(c.Lines))
	for _, l := range c.Lines {
		lines = append(lines, promo.CartLine{
			ID:        l.ID,
			ProductID: l.ProductID,
			ServiceID: l.ServiceID,
			Category:  l.Category,
			ItemType:  l.ItemType,
			UnitPrice: promo.Money(l.UnitPrice),
			Qty:       l.Qty,
		})
	}
	return lines
}

// Customer returns the identity attributes used for segment matching.
func (c Cart) Customer() promo.Customer {
	return promo.Customer{ID: c.CustomerID, Level: c.CustomerLevel}
}

// Store persists carts in Redis.
type Store struct {
	R   *redis.Client
	TTL time.Duration
}

func NewStore(client *redis.Client, ttl time.Duration) Store {
	return Store{R: client, TTL: ttl}
}

func (s Store) ttl() time.Duration {
	if s.TTL <= 0 {
		return 7 * 24 * time.Hour
	}
	return s.TTL
}

func (s Store) Get(ctx context.Context, id string) (Cart, error) {
	raw, err := s.R.Get(ctx, keyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return Cart{}, ErrNotFound
	}
	if err != nil {
		return Cart{}, fmt.Errorf("get cart: %w", err)
	}
	var c Cart
	if err := json.Unmarshal(raw, &c); err != nil {
		return Cart{}, fmt.Errorf("decode cart: %w", err)
	}
	return c, nil
}

// Save writes the document and refreshes the TTL, so active carts never expire
// under the shopper.
func (s Store) Save(ctx context.Context, c Cart) error {
	raw, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := s.R.Set(ctx, keyPrefix+c.ID, raw, s.ttl()).Err(); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}

func (s Store) Delete(ctx context.Context, id string) error {
	if err := s.R.Del(ctx, keyPrefix+id).Err(); err != nil {
		return fmt.Errorf("delete cart: %w", err)
	}
	return nil
}
