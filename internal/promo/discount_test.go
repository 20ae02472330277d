package promo

import "testing"

func TestLineDiscountPercentage(t *testing.T) {
	p := Promotion{Type: TypePercentage, PercentBps: 1500}
	if got := p.LineDiscount(10_000); got != 1_500 {
		t.Fatalf("expected 1500, got %d", got)
	}
}

func TestLineDiscountPercentageCap(t *testing.T) {
	limit := Money(200)
	p := Promotion{Type: TypePercentage, PercentBps: 2500, MaxDiscount: &limit}
	if got := p.LineDiscount(10_000); got != 200 {
		t.Fatalf("expected cap of 200, got %d", got)
	}
}

func TestLineDiscountPercentageOver100Clamped(t *testing.T) {
	p := Promotion{Type: TypePercentage, PercentBps: 15_000}
	if got := p.LineDiscount(10_000); got != 10_000 {
		t.Fatalf("discount must never exceed scope, got %d", got)
	}
}

func TestLineDiscountFixed(t *testing.T) {
	p := Promotion{Type: TypeFixed, FixedValue: 2_000}
	if got := p.LineDiscount(10_000); got != 2_000 {
		t.Fatalf("expected 2000, got %d", got)
	}
	if got := p.LineDiscount(1_500); got != 1_500 {
		t.Fatalf("fixed discount must clamp to line subtotal, got %d", got)
	}
	neg := Promotion{Type: TypeFixed, FixedValue: -500}
	if got := neg.LineDiscount(1_000); got != 0 {
		t.Fatalf("negative value must floor at zero, got %d", got)
	}
}

func TestTieredInclusiveBoundary(t *testing.T) {
	p := Promotion{Type: TypeTiered, Tiers: []Tier{
		{MinValue: 10_000, PercentBps: 500},
		{MinValue: 50_000, PercentBps: 1000},
	}}
	// Subtotal exactly at the higher tier boundary selects that tier.
	if got := p.OrderDiscount(nil, 50_000); got != 5_000 {
		t.Fatalf("expected 10%% of 50000 = 5000, got %d", got)
	}
	if got := p.OrderDiscount(nil, 49_999); got != 2_499 {
		t.Fatalf("expected 5%% tier below boundary, got %d", got)
	}
	if got := p.OrderDiscount(nil, 9_999); got != 0 {
		t.Fatalf("expected no tier unlocked, got %d", got)
	}
}

func TestComboDiscountSumsQualifyingLines(t *testing.T) {
	p := Promotion{
		Type:       TypeCombo,
		PercentBps: 1500,
		ComboItems: []ComboItem{
			{Category: "filtros", ItemType: ItemTypeProduct},
			{Category: "troca-de-oleo", ItemType: ItemTypeService},
		},
	}
	cart := []CartLine{
		{ID: "l1", Category: "filtros", ItemType: ItemTypeProduct, UnitPrice: 3_490, Qty: 1},
		{ID: "l2", Category: "troca-de-oleo", ItemType: ItemTypeService, UnitPrice: 8_990, Qty: 1},
		{ID: "l3", Category: "pneus", ItemType: ItemTypeProduct, UnitPrice: 40_000, Qty: 1},
	}
	// 15% of (3490 + 8990), the tyre line does not qualify.
	if got := p.OrderDiscount(cart, 52_480); got != 1_872 {
		t.Fatalf("expected 1872, got %d", got)
	}
}

func TestComboDiscountFixed(t *testing.T) {
	p := Promotion{
		Type:       TypeCombo,
		FixedValue: 20_000,
		ComboItems: []ComboItem{{Category: "filtros"}},
	}
	cart := []CartLine{{Category: "filtros", UnitPrice: 3_490, Qty: 1}}
	if got := p.OrderDiscount(cart, 3_490); got != 3_490 {
		t.Fatalf("fixed combo reward must clamp to qualifying sum, got %d", got)
	}
}

func TestFreeShippingContributesNoAmount(t *testing.T) {
	p := Promotion{Type: TypeFreeShipping}
	if got := p.LineDiscount(10_000); got != 0 {
		t.Fatalf("free shipping must not discount lines, got %d", got)
	}
	if got := p.OrderDiscount(nil, 10_000); got != 0 {
		t.Fatalf("free shipping must not discount orders, got %d", got)
	}
}
