package promo

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

// ErrInvalidDefinition wraps every catalog validation failure so callers can
// recognise skipped records with errors.Is.
var ErrInvalidDefinition = errors.New("invalid promotion definition")

// Record is the admin-authored promotion document as stored in the catalog.
// Rules carry the typed condition objects; they are interpreted exactly once
// by ParseRecord and never re-parsed during evaluation.
type Record struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	Type             string          `json:"type"`
	Target           string          `json:"target"`
	Trigger          string          `json:"trigger"`
	CustomerSegments []string        `json:"customerSegments"`
	Rules            []RuleRecord    `json:"rules"`
	Tiers            []TierRecord    `json:"tiers"`
	Schedule         *ScheduleRecord `json:"schedule"`
	StartDate        *time.Time      `json:"startDate"`
	EndDate          *time.Time      `json:"endDate"`
	PercentBps       int64           `json:"percentBps"`
	Value            int64           `json:"value"`
	MaxDiscount      *int64          `json:"maxDiscount"`
	Priority         int             `json:"priority"`
	AutoApply        bool            `json:"autoApply"`
	IsActive         bool            `json:"isActive"`
	IsDraft          bool            `json:"isDraft"`
}

// RuleRecord is one typed condition object inside a promotion definition.
type RuleRecord struct {
	Kind       string            `json:"kind"`
	Categories []string          `json:"categories,omitempty"`
	ProductIDs []string          `json:"productIds,omitempty"`
	Items      []ComboItemRecord `json:"items,omitempty"`
	MinValue   *int64            `json:"minValue,omitempty"`
}

// ComboItemRecord names one required item kind of a combo rule.
type ComboItemRecord struct {
	Category string `json:"category"`
	ItemType string `json:"itemType,omitempty"`
}

// TierRecord is one subtotal threshold of a tiered promotion.
type TierRecord struct {
	MinValue   int64 `json:"minValue"`
	PercentBps int32 `json:"discountBps"`
}

// ScheduleRecord is the serialised day/hour window.
type ScheduleRecord struct {
	DaysOfWeek []int `json:"daysOfWeek"`
	StartHour  int   `json:"startHour"`
	EndHour    int   `json:"endHour"`
}

// Rule kinds accepted inside Record.Rules.
const (
	RuleKindCategory  = "category"
	RuleKindProducts  = "products"
	RuleKindCombo     = "combo"
	RuleKindThreshold = "threshold"
)

// ParseRecord validates one admin-authored record and converts it into the
// closed Promotion variant evaluated by the engine.
func ParseRecord(rec Record) (Promotion, error) {
	if strings.TrimSpace(rec.ID) == "" {
		return Promotion{}, definitionErr(rec.ID, "id is required")
	}

	p := Promotion{
		ID:         rec.ID,
		Name:       rec.Name,
		Type:       Type(rec.Type),
		Target:     Target(rec.Target),
		Trigger:    Trigger(rec.Trigger),
		Segments:   rec.CustomerSegments,
		PercentBps: rec.PercentBps,
		FixedValue: rec.Value,
		Priority:   rec.Priority,
		AutoApply:  rec.AutoApply,
		Active:     rec.IsActive,
		Draft:      rec.IsDraft,
		StartsAt:   rec.StartDate,
		EndsAt:     rec.EndDate,
	}

	switch p.Type {
	case TypePercentage, TypeFixed, TypeCombo, TypeTiered, TypeFreeShipping:
	default:
		return Promotion{}, definitionErr(rec.ID, "unknown type %q", rec.Type)
	}
	switch p.Target {
	case TargetAllProducts, TargetSpecificCategory, TargetSpecificProducts, TargetComboProducts:
	default:
		return Promotion{}, definitionErr(rec.ID, "unknown target %q", rec.Target)
	}
	switch p.Trigger {
	case TriggerAutoApply, TriggerCartItems, TriggerCartValue, TriggerCustomerLevel:
	default:
		return Promotion{}, definitionErr(rec.ID, "unknown trigger %q", rec.Trigger)
	}

	for _, rule := range rec.Rules {
		switch rule.Kind {
		case RuleKindCategory:
			if len(rule.Categories) == 0 {
				return Promotion{}, definitionErr(rec.ID, "category rule without categories")
			}
			p.Categories = append(p.Categories, rule.Categories...)
		case RuleKindProducts:
			if len(rule.ProductIDs) == 0 {
				return Promotion{}, definitionErr(rec.ID, "products rule without product ids")
			}
			p.ProductIDs = append(p.ProductIDs, rule.ProductIDs...)
		case RuleKindCombo:
			if len(rule.Items) == 0 {
				return Promotion{}, definitionErr(rec.ID, "combo rule without items")
			}
			for _, item := range rule.Items {
				if strings.TrimSpace(item.Category) == "" {
					return Promotion{}, definitionErr(rec.ID, "combo item without category")
				}
				p.ComboItems = append(p.ComboItems, ComboItem{Category: item.Category, ItemType: item.ItemType})
			}
		case RuleKindThreshold:
			if rule.MinValue == nil || *rule.MinValue < 0 {
				return Promotion{}, definitionErr(rec.ID, "threshold rule without a valid minValue")
			}
			p.MinCartValue = *rule.MinValue
		default:
			return Promotion{}, definitionErr(rec.ID, "unknown rule kind %q", rule.Kind)
		}
	}

	switch p.Type {
	case TypePercentage:
		if p.PercentBps <= 0 {
			return Promotion{}, definitionErr(rec.ID, "percentage promotion requires percentBps > 0")
		}
	case TypeFixed:
		if p.FixedValue <= 0 {
			return Promotion{}, definitionErr(rec.ID, "fixed promotion requires value > 0")
		}
		if rec.MaxDiscount != nil {
			return Promotion{}, definitionErr(rec.ID, "maxDiscount applies to percentage types only")
		}
	case TypeCombo:
		if len(p.ComboItems) == 0 {
			return Promotion{}, definitionErr(rec.ID, "combo promotion requires a combo rule")
		}
		if p.PercentBps <= 0 && p.FixedValue <= 0 {
			return Promotion{}, definitionErr(rec.ID, "combo promotion requires percentBps or value")
		}
	case TypeTiered:
		if len(rec.Tiers) == 0 {
			return Promotion{}, definitionErr(rec.ID, "tiered promotion requires tiers")
		}
		tiers := make([]Tier, 0, len(rec.Tiers))
		for _, t := range rec.Tiers {
			if t.MinValue < 0 || t.PercentBps <= 0 {
				return Promotion{}, definitionErr(rec.ID, "tier requires minValue >= 0 and discountBps > 0")
			}
			tiers = append(tiers, Tier{MinValue: t.MinValue, PercentBps: t.PercentBps})
		}
		sort.Slice(tiers, func(i, j int) bool { return tiers[i].MinValue < tiers[j].MinValue })
		p.Tiers = tiers
	}

	if rec.MaxDiscount != nil {
		if *rec.MaxDiscount <= 0 {
			return Promotion{}, definitionErr(rec.ID, "maxDiscount must be positive")
		}
		limit := Money(*rec.MaxDiscount)
		p.MaxDiscount = &limit
	}

	if rec.Schedule != nil {
		sched, err := parseSchedule(rec.ID, *rec.Schedule)
		if err != nil {
			return Promotion{}, err
		}
		p.Schedule = &sched
	}
	if p.StartsAt != nil && p.EndsAt != nil && p.EndsAt.Before(*p.StartsAt) {
		return Promotion{}, definitionErr(rec.ID, "endDate precedes startDate")
	}

	return p, nil
}

// ParseCatalog converts a batch of records into a catalog snapshot. Malformed
// records are skipped and reported; all others continue to evaluate.
func ParseCatalog(records []Record) (Catalog, []error) {
	var (
		promotions []Promotion
		skipped    []error
	)
	for _, rec := range records {
		p, err := ParseRecord(rec)
		if err != nil {
			skipped = append(skipped, err)
			continue
		}
		promotions = append(promotions, p)
	}
	return Catalog{Promotions: promotions}, skipped
}

func parseSchedule(id string, rec ScheduleRecord) (Schedule, error) {
	sched := Schedule{StartHour: rec.StartHour, EndHour: rec.EndHour}
	if rec.StartHour < 0 || rec.StartHour > 23 || rec.EndHour < 0 || rec.EndHour > 24 {
		return Schedule{}, definitionErr(id, "schedule hours out of range")
	}
	for _, d := range rec.DaysOfWeek {
		if d < 0 || d > 6 {
			return Schedule{}, definitionErr(id, "schedule day %d out of range", d)
		}
		sched.Days = append(sched.Days, time.Weekday(d))
	}
	return sched, nil
}

func definitionErr(id, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	if id != "" {
		return fmt.Errorf("%w: promotion %s: %s", ErrInvalidDefinition, id, msg)
	}
	return fmt.Errorf("%w: %s", ErrInvalidDefinition, msg)
}
