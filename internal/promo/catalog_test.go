package promo

import (
	"errors"
	"testing"
	"time"
)

func validRecord() Record {
	return Record{
		ID:         "p1",
		Name:       "10% em filtros",
		Type:       string(TypePercentage),
		Target:     string(TargetSpecificCategory),
		Trigger:    string(TriggerAutoApply),
		Rules:      []RuleRecord{{Kind: RuleKindCategory, Categories: []string{"filtros"}}},
		IsActive:   true,
		PercentBps: 1000,
	}
}

func TestParseRecordPercentage(t *testing.T) {
	p, err := ParseRecord(validRecord())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Type != TypePercentage || p.PercentBps != 1000 {
		t.Fatalf("unexpected promotion: %+v", p)
	}
	if len(p.Categories) != 1 || p.Categories[0] != "filtros" {
		t.Fatalf("category rule not parsed: %+v", p.Categories)
	}
}

func TestParseRecordRejectsUnknownType(t *testing.T) {
	rec := validRecord()
	rec.Type = "BOGOF"
	if _, err := ParseRecord(rec); !errors.Is(err, ErrInvalidDefinition) {
		t.Fatalf("expected ErrInvalidDefinition, got %v", err)
	}
}

func TestParseRecordRejectsPercentageWithoutValue(t *testing.T) {
	rec := validRecord()
	rec.PercentBps = 0
	if _, err := ParseRecord(rec); !errors.Is(err, ErrInvalidDefinition) {
		t.Fatalf("expected ErrInvalidDefinition, got %v", err)
	}
}

func TestParseRecordRejectsCapOnFixed(t *testing.T) {
	limit := int64(500)
	rec := validRecord()
	rec.Type = string(TypeFixed)
	rec.Value = 1_000
	rec.PercentBps = 0
	rec.MaxDiscount = &limit
	if _, err := ParseRecord(rec); !errors.Is(err, ErrInvalidDefinition) {
		t.Fatalf("maxDiscount is a percentage-only field, got %v", err)
	}
}

func TestParseRecordSortsTiers(t *testing.T) {
	rec := validRecord()
	rec.Type = string(TypeTiered)
	rec.PercentBps = 0
	rec.Tiers = []TierRecord{
		{MinValue: 50_000, PercentBps: 1000},
		{MinValue: 10_000, PercentBps: 500},
	}
	p, err := ParseRecord(rec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Tiers[0].MinValue != 10_000 || p.Tiers[1].MinValue != 50_000 {
		t.Fatalf("tiers must be ascending by minValue: %+v", p.Tiers)
	}
}

func TestParseRecordRejectsInvertedDates(t *testing.T) {
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, -1, 0)
	rec := validRecord()
	rec.StartDate = &start
	rec.EndDate = &end
	if _, err := ParseRecord(rec); !errors.Is(err, ErrInvalidDefinition) {
		t.Fatalf("expected ErrInvalidDefinition, got %v", err)
	}
}

func TestParseRecordScheduleBounds(t *testing.T) {
	rec := validRecord()
	rec.Schedule = &ScheduleRecord{DaysOfWeek: []int{7}}
	if _, err := ParseRecord(rec); !errors.Is(err, ErrInvalidDefinition) {
		t.Fatalf("expected day-of-week range error, got %v", err)
	}
}

func TestParseCatalogSkipsMalformed(t *testing.T) {
	bad := validRecord()
	bad.ID = "p2"
	bad.Trigger = "ON_FULL_MOON"
	catalog, skipped := ParseCatalog([]Record{validRecord(), bad})
	if len(catalog.Promotions) != 1 || catalog.Promotions[0].ID != "p1" {
		t.Fatalf("the valid record must survive: %+v", catalog.Promotions)
	}
	if len(skipped) != 1 || !errors.Is(skipped[0], ErrInvalidDefinition) {
		t.Fatalf("the malformed record must be reported: %v", skipped)
	}
}
