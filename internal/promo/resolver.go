package promo

import "time"

// candidate pairs a promotion with the discount it would yield for one scope.
type candidate struct {
	promo  Promotion
	amount Money
}

// beats implements the winner ordering: largest amount first, then lower
// priority value, then earlier start date, then lower id. The final id
// comparison makes the ordering total so results are reproducible.
func (c candidate) beats(other candidate) bool {
	if c.amount != other.amount {
		return c.amount > other.amount
	}
	if c.promo.Priority != other.promo.Priority {
		return c.promo.Priority < other.promo.Priority
	}
	cs, os := startOrZero(c.promo), startOrZero(other.promo)
	if !cs.Equal(os) {
		return cs.Before(os)
	}
	return c.promo.ID < other.promo.ID
}

func startOrZero(p Promotion) time.Time {
	if p.StartsAt == nil {
		return time.Time{}
	}
	return *p.StartsAt
}

// lineWinners resolves at most one winning line-level promotion per cart
// line. Only PERCENTAGE and FIXED promotions compete at line scope; they
// never stack on the same line.
func lineWinners(cart []CartLine, catalog Catalog, customer Customer, subtotal Money, now time.Time) map[int]candidate {
	winners := make(map[int]candidate)
	for i, line := range cart {
		for _, p := range catalog.Promotions {
			if p.Type != TypePercentage && p.Type != TypeFixed {
				continue
			}
			if !p.ActiveAt(now) || !p.MatchesLine(line) || !p.TriggerAllows(cart, customer, subtotal) {
				continue
			}
			amount := p.LineDiscount(line.Subtotal())
			if amount <= 0 {
				continue
			}
			cand := candidate{promo: p, amount: amount}
			if current, ok := winners[i]; !ok || cand.beats(current) {
				winners[i] = cand
			}
		}
	}
	return winners
}

// orderWinner resolves at most one winner among the order-level families
// (TIERED and COMBO) against the whole cart, using the same ordering as the
// line resolution.
func orderWinner(cart []CartLine, catalog Catalog, customer Customer, subtotal Money, now time.Time) (candidate, bool) {
	var (
		best  candidate
		found bool
	)
	for _, p := range catalog.Promotions {
		if p.Type != TypeTiered && p.Type != TypeCombo {
			continue
		}
		if !p.ActiveAt(now) || !p.TriggerAllows(cart, customer, subtotal) {
			continue
		}
		if p.Type == TypeCombo && !p.ComboSatisfied(cart) {
			continue
		}
		amount := p.OrderDiscount(cart, subtotal)
		if amount <= 0 {
			continue
		}
		cand := candidate{promo: p, amount: amount}
		if !found || cand.beats(best) {
			best = cand
			found = true
		}
	}
	return best, found
}

// freeShippingGranted reports whether any eligible FREE_SHIPPING promotion
// matches the cart. The flag is independent of the price-discount family
// choice and contributes nothing to totals.
func freeShippingGranted(cart []CartLine, catalog Catalog, customer Customer, subtotal Money, now time.Time) bool {
	for _, p := range catalog.Promotions {
		if p.Type != TypeFreeShipping {
			continue
		}
		if !p.ActiveAt(now) || !p.TriggerAllows(cart, customer, subtotal) {
			continue
		}
		if freeShippingTargetMatches(p, cart) {
			return true
		}
	}
	return false
}

func freeShippingTargetMatches(p Promotion, cart []CartLine) bool {
	switch p.Target {
	case TargetAllProducts:
		return len(cart) > 0
	case TargetComboProducts:
		return p.ComboSatisfied(cart)
	default:
		for _, line := range cart {
			if p.MatchesLine(line) {
				return true
			}
		}
		return false
	}
}
