package promo

import "strings"

// MatchesLine reports whether the promotion's target covers the cart line.
// COMBO_PRODUCTS never matches a single line; combos are cart-wide.
func (p Promotion) MatchesLine(line CartLine) bool {
	switch p.Target {
	case TargetAllProducts:
		return true
	case TargetSpecificCategory:
		return containsFold(p.Categories, line.Category)
	case TargetSpecificProducts:
		if line.ProductID == "" {
			return false
		}
		for _, id := range p.ProductIDs {
			if id == line.ProductID {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// ComboSatisfied reports whether every required combo item kind is present in
// the cart at least once.
func (p Promotion) ComboSatisfied(cart []CartLine) bool {
	if len(p.ComboItems) == 0 {
		return false
	}
	for _, item := range p.ComboItems {
		found := false
		for _, line := range cart {
			if comboItemMatches(item, line) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// ComboLines returns the cart lines that count toward the combo sum.
func (p Promotion) ComboLines(cart []CartLine) []CartLine {
	var out []CartLine
	for _, line := range cart {
		for _, item := range p.ComboItems {
			if comboItemMatches(item, line) {
				out = append(out, line)
				break
			}
		}
	}
	return out
}

// TriggerAllows reports whether the trigger gate passes for the given cart,
// customer and pre-discount subtotal. Segment matching applies to every
// trigger class; the remaining checks depend on the trigger.
func (p Promotion) TriggerAllows(cart []CartLine, customer Customer, subtotal Money) bool {
	if !p.SegmentAllows(customer) {
		return false
	}
	switch p.Trigger {
	case TriggerCartValue:
		return subtotal >= p.cartValueThreshold()
	case TriggerCartItems:
		return p.ComboSatisfied(cart)
	default:
		// AUTO_APPLY and CUSTOMER_LEVEL carry no additional gate beyond
		// target, schedule and segment.
		return true
	}
}

// SegmentAllows reports whether the customer level is covered by the
// promotion's segments. An empty segment set or the ALL tag admits everyone.
func (p Promotion) SegmentAllows(customer Customer) bool {
	if len(p.Segments) == 0 {
		return true
	}
	for _, seg := range p.Segments {
		if strings.EqualFold(seg, SegmentAll) || strings.EqualFold(seg, customer.Level) {
			return true
		}
	}
	return false
}

func (p Promotion) cartValueThreshold() Money {
	if p.MinCartValue > 0 {
		return p.MinCartValue
	}
	if len(p.Tiers) > 0 {
		return p.Tiers[0].MinValue
	}
	return 0
}

func comboItemMatches(item ComboItem, line CartLine) bool {
	if !strings.EqualFold(item.Category, line.Category) {
		return false
	}
	if item.ItemType == "" {
		return true
	}
	return strings.EqualFold(item.ItemType, line.ItemType)
}

func containsFold(values []string, target string) bool {
	for _, v := range values {
		if strings.EqualFold(v, target) {
			return true
		}
	}
	return false
}
