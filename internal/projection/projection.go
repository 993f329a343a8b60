// Package projection computes future occurrences of couple dates: recurring anniversaries,
// 100-day milestones and yearly relationship anniversaries.
//
// Every function is pure. Callers pass the reference date explicitly and all day arithmetic
// runs on dates truncated to midnight in the reference date's location.
package projection

import (
	"fmt"
	"math"
	"slices"
	"time"

	"ourdays/internal/domain"
)

const day = 24 * time.Hour

const (
	milestoneStep  = 100
	milestoneCount = 5
	yearlyCount    = 5
)

// NormalizeDate truncates t to midnight in t's location.
func NormalizeDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// dateIn keeps the calendar date of t and places it at midnight in loc.
// Stored dates are calendar dates, so converting the instant could shift the day.
func dateIn(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// DaysBetween returns the number of days from start to end after normalizing both.
// Non-negative deltas round up and negative deltas round down.
func DaysBetween(start, end time.Time) int {
	return roundDays(NormalizeDate(end).Sub(NormalizeDate(start)))
}

func roundDays(diff time.Duration) int {
	days := float64(diff) / float64(day)
	if diff >= 0 {
		return int(math.Ceil(days))
	}
	return int(math.Floor(days))
}

// RelationshipDayCount returns the day number of ref in a relationship that started on start.
// The start date itself is day 1; the result is never below 1.
func RelationshipDayCount(start, ref time.Time) int {
	reference := NormalizeDate(ref)
	s := dateIn(start, reference.Location())
	zeroBased := int(math.Floor(float64(reference.Sub(s)) / float64(day)))
	return max(zeroBased+1, 1)
}

// NextOccurrence returns the next date on or after ref on which a falls.
// A one-off anniversary before ref has no next occurrence. A recurring anniversary falling on
// ref itself occurs today.
func NextOccurrence(a *domain.Anniversary, ref time.Time) (time.Time, bool) {
	reference := NormalizeDate(ref)
	date := dateIn(a.Date, reference.Location())

	if !a.IsRecurring {
		if date.Before(reference) {
			return time.Time{}, false
		}
		return date, true
	}

	sameYear := time.Date(reference.Year(), date.Month(), date.Day(), 0, 0, 0, 0, reference.Location())
	if !sameYear.Before(reference) {
		return sameYear, true
	}
	return time.Date(reference.Year()+1, date.Month(), date.Day(), 0, 0, 0, 0, reference.Location()), true
}

// BuildUpcoming projects each anniversary to its next occurrence, drops the ones without one
// and orders the rest by occurrence. Equal dates keep their input order.
func BuildUpcoming(anniversaries []*domain.Anniversary, ref time.Time) []domain.UpcomingAnniversary {
	reference := NormalizeDate(ref)
	out := make([]domain.UpcomingAnniversary, 0, len(anniversaries))
	for _, a := range anniversaries {
		next, ok := NextOccurrence(a, reference)
		if !ok {
			continue
		}
		out = append(out, domain.UpcomingAnniversary{
			ID:             a.ID,
			Title:          a.Title,
			Date:           a.Date,
			IsRecurring:    a.IsRecurring,
			Type:           a.Type,
			NextOccurrence: next,
			DaysUntil:      DaysBetween(reference, next),
		})
	}
	slices.SortStableFunc(out, func(x, y domain.UpcomingAnniversary) int {
		return x.NextOccurrence.Compare(y.NextOccurrence)
	})
	return out
}

// SpecialEvents converts upcoming anniversaries to special events.
func SpecialEvents(upcoming []domain.UpcomingAnniversary) []domain.SpecialEvent {
	out := make([]domain.SpecialEvent, 0, len(upcoming))
	for _, u := range upcoming {
		out = append(out, domain.SpecialEvent{
			ID:             u.ID,
			Title:          u.Title,
			Type:           u.Type,
			NextOccurrence: u.NextOccurrence,
			DaysUntil:      u.DaysUntil,
		})
	}
	return out
}

// BuildMilestones returns the next five 100-day milestones of a relationship that started on start.
// The Nth milestone falls N-1 days after start because the start date is day 1.
func BuildMilestones(start, ref time.Time) []domain.SpecialEvent {
	reference := NormalizeDate(ref)
	s := dateIn(start, reference.Location())

	dayCount := RelationshipDayCount(s, reference)
	next := max((dayCount+milestoneStep-1)/milestoneStep, 1)

	events := make([]domain.SpecialEvent, 0, milestoneCount)
	for i := 0; i < milestoneCount; i++ {
		days := (next + i) * milestoneStep
		target := s.AddDate(0, 0, days-1)
		daysUntil := DaysBetween(reference, target)
		if daysUntil < 0 {
			continue
		}
		events = append(events, domain.SpecialEvent{
			ID:             fmt.Sprintf("milestone-%d", days),
			Title:          fmt.Sprintf("%d일", days),
			Type:           domain.AnniversaryTypeMilestone,
			NextOccurrence: target,
			DaysUntil:      daysUntil,
			Description:    fmt.Sprintf("%d일 기념일", days),
		})
	}
	return events
}

// BuildYearlyAnniversaries returns the next five yearly anniversaries of a relationship.
// Years are added on the calendar, so a Feb 29 start lands on Mar 1 in common years.
func BuildYearlyAnniversaries(start, ref time.Time) []domain.SpecialEvent {
	reference := NormalizeDate(ref)
	s := dateIn(start, reference.Location())

	maxCheck := max(reference.Year()-s.Year()+yearlyCount, yearlyCount)
	events := make([]domain.SpecialEvent, 0, yearlyCount)
	for year := 1; year <= maxCheck; year++ {
		target := s.AddDate(year, 0, 0)
		daysUntil := DaysBetween(reference, target)
		if daysUntil < 0 {
			continue
		}
		events = append(events, domain.SpecialEvent{
			ID:             fmt.Sprintf("relationship-%d-year", year),
			Title:          fmt.Sprintf("%d주년", year),
			Type:           domain.AnniversaryTypeRelationship,
			NextOccurrence: target,
			DaysUntil:      daysUntil,
			Description:    fmt.Sprintf("%d주년 기념일", year),
		})
		if len(events) >= yearlyCount {
			break
		}
	}
	return events
}

// MergeNextSpecial returns the earliest event across groups, or nil when all are empty.
// Events on the same date resolve by group order, then by position within the group.
func MergeNextSpecial(groups ...[]domain.SpecialEvent) *domain.SpecialEvent {
	var all []domain.SpecialEvent
	for _, g := range groups {
		all = append(all, g...)
	}
	if len(all) == 0 {
		return nil
	}
	slices.SortStableFunc(all, func(x, y domain.SpecialEvent) int {
		return x.NextOccurrence.Compare(y.NextOccurrence)
	})
	next := all[0]
	return &next
}
