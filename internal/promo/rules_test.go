package promo

import "testing"

func TestMatchesLineTargets(t *testing.T) {
	line := CartLine{ID: "l1", ProductID: "p1", Category: "Filtros", ItemType: ItemTypeProduct}

	if !(Promotion{Target: TargetAllProducts}).MatchesLine(line) {
		t.Fatal("ALL_PRODUCTS should match any line")
	}
	if !(Promotion{Target: TargetSpecificCategory, Categories: []string{"filtros"}}).MatchesLine(line) {
		t.Fatal("category match should be case-insensitive")
	}
	if (Promotion{Target: TargetSpecificCategory, Categories: []string{"oleos"}}).MatchesLine(line) {
		t.Fatal("category mismatch must not match")
	}
	if !(Promotion{Target: TargetSpecificProducts, ProductIDs: []string{"p1", "p2"}}).MatchesLine(line) {
		t.Fatal("product id in set should match")
	}
	if (Promotion{Target: TargetSpecificProducts, ProductIDs: []string{"p9"}}).MatchesLine(line) {
		t.Fatal("product id outside set must not match")
	}
	if (Promotion{Target: TargetComboProducts}).MatchesLine(line) {
		t.Fatal("combo targets never match a single line")
	}
}

func TestComboSatisfied(t *testing.T) {
	p := Promotion{ComboItems: []ComboItem{
		{Category: "oleos", ItemType: ItemTypeProduct},
		{Category: "filtros", ItemType: ItemTypeProduct},
		{Category: "troca-de-oleo", ItemType: ItemTypeService},
	}}
	cart := []CartLine{
		{ID: "l1", Category: "oleos", ItemType: ItemTypeProduct},
		{ID: "l2", Category: "filtros", ItemType: ItemTypeProduct},
		{ID: "l3", Category: "troca-de-oleo", ItemType: ItemTypeService},
	}
	if !p.ComboSatisfied(cart) {
		t.Fatal("expected combo satisfied when every kind is present")
	}
	if p.ComboSatisfied(cart[:2]) {
		t.Fatal("missing service kind must fail the combo")
	}
	if (Promotion{}).ComboSatisfied(cart) {
		t.Fatal("a combo without items never fires")
	}
}

func TestSegmentAllows(t *testing.T) {
	gold := Customer{ID: "c1", Level: "GOLD"}
	if !(Promotion{}).SegmentAllows(gold) {
		t.Fatal("empty segments admit everyone")
	}
	if !(Promotion{Segments: []string{SegmentAll}}).SegmentAllows(gold) {
		t.Fatal("ALL segment admits everyone")
	}
	if !(Promotion{Segments: []string{"gold"}}).SegmentAllows(gold) {
		t.Fatal("segment match should be case-insensitive")
	}
	if (Promotion{Segments: []string{"PLATINUM"}}).SegmentAllows(gold) {
		t.Fatal("unmatched segment must reject")
	}
}

func TestTriggerCartValue(t *testing.T) {
	p := Promotion{Trigger: TriggerCartValue, MinCartValue: 10_000}
	if p.TriggerAllows(nil, Customer{}, 9_999) {
		t.Fatal("subtotal below threshold must not trigger")
	}
	if !p.TriggerAllows(nil, Customer{}, 10_000) {
		t.Fatal("subtotal at threshold must trigger")
	}

	tiered := Promotion{Trigger: TriggerCartValue, Tiers: []Tier{{MinValue: 5_000, PercentBps: 500}}}
	if !tiered.TriggerAllows(nil, Customer{}, 5_000) {
		t.Fatal("lowest tier minValue acts as the threshold when none is set")
	}
}

func TestTriggerCartItemsRequiresCombo(t *testing.T) {
	p := Promotion{
		Trigger:    TriggerCartItems,
		ComboItems: []ComboItem{{Category: "filtros"}},
	}
	if p.TriggerAllows(nil, Customer{}, 100_000) {
		t.Fatal("CART_ITEMS without matching lines must not trigger")
	}
	cart := []CartLine{{Category: "filtros", ItemType: ItemTypeProduct}}
	if !p.TriggerAllows(cart, Customer{}, 100_000) {
		t.Fatal("CART_ITEMS with matching lines should trigger")
	}
}
