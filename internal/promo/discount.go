package promo

// percentOf applies a basis-point percentage to an amount using integer math.
func percentOf(amount Money, bps Money) Money {
	if amount <= 0 || bps <= 0 {
		return 0
	}
	return amount * bps / 10000
}

// clampToScope guards the final amount against misconfigured rules: a
// discount is never negative and never exceeds the amount it applies to.
func clampToScope(discount, scope Money) Money {
	if discount < 0 {
		return 0
	}
	if discount > scope {
		return scope
	}
	return discount
}

func (p Promotion) capped(discount Money) Money {
	if p.MaxDiscount != nil && discount > *p.MaxDiscount {
		return *p.MaxDiscount
	}
	return discount
}

// LineDiscount computes the discount a line-level promotion yields against
// one line subtotal. Order-level types contribute nothing here.
func (p Promotion) LineDiscount(lineSubtotal Money) Money {
	if lineSubtotal <= 0 {
		return 0
	}
	switch p.Type {
	case TypePercentage:
		return clampToScope(p.capped(percentOf(lineSubtotal, p.PercentBps)), lineSubtotal)
	case TypeFixed:
		return clampToScope(p.FixedValue, lineSubtotal)
	default:
		return 0
	}
}

// OrderDiscount computes the discount an order-level promotion (TIERED or
// COMBO) yields against the whole cart. TIERED selects the highest tier whose
// MinValue does not exceed the subtotal (inclusive boundary) and applies its
// percentage to the full subtotal once. COMBO applies its reward to the sum
// of the qualifying lines.
func (p Promotion) OrderDiscount(cart []CartLine, subtotal Money) Money {
	switch p.Type {
	case TypeTiered:
		tier, ok := p.selectTier(subtotal)
		if !ok {
			return 0
		}
		return clampToScope(p.capped(percentOf(subtotal, Money(tier.PercentBps))), subtotal)
	case TypeCombo:
		var scope Money
		for _, line := range p.ComboLines(cart) {
			scope += line.Subtotal()
		}
		if scope <= 0 {
			return 0
		}
		if p.PercentBps > 0 {
			return clampToScope(p.capped(percentOf(scope, p.PercentBps)), scope)
		}
		return clampToScope(p.FixedValue, scope)
	default:
		return 0
	}
}

// selectTier returns the highest tier unlocked by the subtotal. Tiers are
// kept ascending by MinValue since catalog parse time.
func (p Promotion) selectTier(subtotal Money) (Tier, bool) {
	var (
		best  Tier
		found bool
	)
	for _, t := range p.Tiers {
		if subtotal >= t.MinValue {
			best = t
			found = true
		}
	}
	return best, found
}
