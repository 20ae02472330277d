package promo

import "time"

// ActiveAt reports whether the promotion may contribute at the given instant.
// Draft or disabled promotions never contribute regardless of other fields.
// Date bounds are inclusive on both ends.
func (p Promotion) ActiveAt(now time.Time) bool {
	if p.Draft || !p.Active {
		return false
	}
	if p.StartsAt != nil && now.Before(*p.StartsAt) {
		return false
	}
	if p.EndsAt != nil && now.After(*p.EndsAt) {
		return false
	}
	return p.Schedule.Contains(now)
}

// Contains reports whether the instant falls inside the schedule window.
// A nil schedule imposes no restriction.
func (s *Schedule) Contains(now time.Time) bool {
	if s == nil {
		return true
	}
	if len(s.Days) > 0 {
		found := false
		for _, d := range s.Days {
			if d == now.Weekday() {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	start, end := s.StartHour, s.EndHour
	if start == end {
		return true
	}
	h := now.Hour()
	if start < end {
		return h >= start && h < end
	}
	// Window crosses midnight, e.g. 22..6.
	return h >= start || h < end
}
