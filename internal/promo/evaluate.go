package promo

import "time"

// Evaluate prices the cart against the catalog snapshot. It is a pure
// function of its inputs: identical arguments always produce an identical
// result, and each call recomputes every line from scratch.
//
// Line-level winners (PERCENTAGE/FIXED) and the order-level winner
// (TIERED/COMBO) are resolved independently, then exactly one family is
// kept: whichever yields the larger total saving. A tie keeps the
// line-level family. Free shipping is flagged independently of that choice.
func Evaluate(cart []CartLine, catalog Catalog, customer Customer, now time.Time) CartPricingResult {
	var subtotal Money
	for _, line := range cart {
		subtotal += line.Subtotal()
	}

	perLine := lineWinners(cart, catalog, customer, subtotal, now)
	var lineTotal Money
	for _, cand := range perLine {
		lineTotal += cand.amount
	}

	orderCand, orderFound := orderWinner(cart, catalog, customer, subtotal, now)

	useOrderFamily := orderFound && orderCand.amount > lineTotal

	result := CartPricingResult{
		Subtotal:     subtotal,
		FreeShipping: freeShippingGranted(cart, catalog, customer, subtotal, now),
	}

	lines := make([]LinePrice, 0, len(cart))
	var applied []AppliedPromotion

	if useOrderFamily {
		// Order-level reduction: line prices stand, the saving is carried
		// once at order level.
		for _, line := range cart {
			orig := line.Subtotal()
			lines = append(lines, LinePrice{
				ID:                 line.ID,
				OriginalSubtotal:   orig,
				DiscountedSubtotal: orig,
			})
		}
		applied = append(applied, AppliedPromotion{
			ID:     orderCand.promo.ID,
			Name:   orderCand.promo.Name,
			Amount: orderCand.amount,
		})
		result.Total = subtotal - orderCand.amount
	} else {
		byPromo := make(map[string]int)
		var total Money
		for i, line := range cart {
			orig := line.Subtotal()
			lp := LinePrice{ID: line.ID, OriginalSubtotal: orig, DiscountedSubtotal: orig}
			if cand, ok := perLine[i]; ok {
				lp.DiscountedSubtotal = orig - cand.amount
				lp.AppliedPromotionID = cand.promo.ID
				if idx, seen := byPromo[cand.promo.ID]; seen {
					applied[idx].Amount += cand.amount
				} else {
					byPromo[cand.promo.ID] = len(applied)
					applied = append(applied, AppliedPromotion{
						ID:     cand.promo.ID,
						Name:   cand.promo.Name,
						Amount: cand.amount,
					})
				}
			}
			total += lp.DiscountedSubtotal
			lines = append(lines, lp)
		}
		result.Total = total
	}

	if result.Total < 0 {
		result.Total = 0
	}
	result.Lines = lines
	result.TotalSavings = result.Subtotal - result.Total
	if applied == nil {
		applied = []AppliedPromotion{}
	}
	result.AppliedPromotions = applied
	return result
}
