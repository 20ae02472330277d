package promo

import "time"

// Money represents a monetary value stored in minor units (centavos).
type Money = int64

// Type identifies the discount mechanics of a promotion.
type Type string

const (
	TypePercentage   Type = "PERCENTAGE"
	TypeFixed        Type = "FIXED"
	TypeCombo        Type = "COMBO"
	TypeTiered       Type = "TIERED"
	TypeFreeShipping Type = "FREE_SHIPPING"
)

// Target identifies the scope a promotion is allowed to discount.
type Target string

const (
	TargetAllProducts      Target = "ALL_PRODUCTS"
	TargetSpecificCategory Target = "SPECIFIC_CATEGORY"
	TargetSpecificProducts Target = "SPECIFIC_PRODUCTS"
	TargetComboProducts    Target = "COMBO_PRODUCTS"
)

// Trigger identifies the condition class gating whether a promotion is considered.
type Trigger string

const (
	TriggerAutoApply     Trigger = "AUTO_APPLY"
	TriggerCartItems     Trigger = "CART_ITEMS"
	TriggerCartValue     Trigger = "CART_VALUE"
	TriggerCustomerLevel Trigger = "CUSTOMER_LEVEL"
)

// SegmentAll marks a promotion open to every customer level.
const SegmentAll = "ALL"

// Item type values carried on cart lines.
const (
	ItemTypeProduct = "product"
	ItemTypeService = "service"
)

// Tier unlocks a larger discount percentage once the cart subtotal reaches MinValue.
type Tier struct {
	MinValue   Money
	PercentBps int32
}

// ComboItem names one item kind that must be present in the cart for a combo
// to fire, e.g. an oil filter product plus an oil change service.
type ComboItem struct {
	Category string
	ItemType string
}

// Schedule restricts a promotion to a day-of-week set and an [Start,End) hour
// window. An empty day set means every day; Start == End means all day.
type Schedule struct {
	Days      []time.Weekday
	StartHour int
	EndHour   int
}

// Promotion is one fully validated catalog entry. Instances are produced by
// ParseRecord once at catalog load and are never mutated by evaluation.
type Promotion struct {
	ID       string
	Name     string
	Type     Type
	Target   Target
	Trigger  Trigger
	Segments []string

	// Reward parameters. Exactly one family is populated depending on Type:
	// PercentBps for percentage rewards, FixedValue for fixed ones, Tiers for
	// TIERED and ComboItems (plus PercentBps or FixedValue) for COMBO.
	PercentBps Money
	FixedValue Money
	Tiers      []Tier
	ComboItems []ComboItem

	// Target parameters for SPECIFIC_CATEGORY / SPECIFIC_PRODUCTS.
	Categories []string
	ProductIDs []string

	// CART_VALUE threshold. Zero falls back to the lowest tier when present.
	MinCartValue Money

	MaxDiscount *Money
	Schedule    *Schedule
	StartsAt    *time.Time
	EndsAt      *time.Time

	Priority  int
	AutoApply bool
	Active    bool
	Draft     bool
}

// Customer carries the identity attributes relevant to segment matching.
type Customer struct {
	ID    string
	Level string
}

// CartLine is one product or service entry in the cart.
type CartLine struct {
	ID        string
	ProductID string
	ServiceID string
	Category  string
	ItemType  string
	UnitPrice Money
	Qty       int
}

// Subtotal returns the pre-discount line total.
func (l CartLine) Subtotal() Money {
	if l.Qty <= 0 || l.UnitPrice <= 0 {
		return 0
	}
	return Money(l.Qty) * l.UnitPrice
}

// Catalog is an immutable snapshot of validated promotions used for one
// evaluation pass.
type Catalog struct {
	Promotions []Promotion
}

// LinePrice is the priced outcome for a single cart line.
type LinePrice struct {
	ID                 string `json:"id"`
	OriginalSubtotal   Money  `json:"originalSubtotal"`
	DiscountedSubtotal Money  `json:"discountedSubtotal"`
	AppliedPromotionID string `json:"appliedPromotionId,omitempty"`
}

// AppliedPromotion is the user facing record of a promotion that contributed
// a discount anywhere in the result.
type AppliedPromotion struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Amount Money  `json:"amount"`
}

// CartPricingResult is the output of one evaluation pass. It is never persisted.
type CartPricingResult struct {
	Lines             []LinePrice        `json:"lines"`
	Subtotal          Money              `json:"subtotal"`
	TotalSavings      Money              `json:"totalSavings"`
	Total             Money              `json:"total"`
	AppliedPromotions []AppliedPromotion `json:"appliedPromotions"`
	FreeShipping      bool               `json:"freeShipping"`
}
