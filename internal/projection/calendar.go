package projection

import (
	"regexp"
	"strings"
	"time"

	"ourdays/internal/domain"
)

var datePrefix = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`)

// NoonUTC pins t to 12:00 UTC on its UTC calendar date. All-day entries are stored this way
// so that no client time zone moves them to a neighbouring day.
func NoonUTC(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

// ParseAllDayDate parses a yyyy-mm-dd date (anything after the date is ignored) or an RFC 3339
// timestamp and pins the result to noon UTC.
func ParseAllDayDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if prefix := datePrefix.FindString(raw); prefix != "" {
		d, err := time.Parse(time.DateOnly, prefix)
		if err != nil {
			return time.Time{}, domain.InvalidInputf("invalid date %q", raw)
		}
		return NoonUTC(d), nil
	}
	ts, err := ParseTimestamp(raw)
	if err != nil {
		return time.Time{}, err
	}
	return NoonUTC(ts), nil
}

// ParseTimestamp parses an RFC 3339 timestamp.
func ParseTimestamp(raw string) (time.Time, error) {
	ts, err := time.Parse(time.RFC3339, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, domain.InvalidInputf("invalid date %q", raw)
	}
	return ts, nil
}

// ParseCalendarDate parses a yyyy-mm-dd date or an RFC 3339 timestamp into a calendar date at
// midnight UTC. A timestamp keeps the date written in its own offset.
func ParseCalendarDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if d, err := time.Parse(time.DateOnly, raw); err == nil {
		return d, nil
	}
	ts, err := ParseTimestamp(raw)
	if err != nil {
		return time.Time{}, err
	}
	y, m, d := ts.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
}

// Occurrence is one appearance of an anniversary on the calendar.
type Occurrence struct {
	Anniversary *domain.Anniversary
	Date        time.Time
}

// ExpandForRange lists the occurrences of anniversaries within [from, to], each pinned to noon
// UTC. One-off anniversaries appear at most once; recurring ones appear once for every calendar
// year between from and to whose occurrence lies in the range. Output follows input order.
func ExpandForRange(anniversaries []*domain.Anniversary, from, to time.Time) []Occurrence {
	inRange := func(t time.Time) bool {
		return !t.Before(from) && !t.After(to)
	}

	var out []Occurrence
	fromYear, toYear := from.UTC().Year(), to.UTC().Year()
	for _, a := range anniversaries {
		if !a.IsRecurring {
			if d := NoonUTC(a.Date); inRange(d) {
				out = append(out, Occurrence{Anniversary: a, Date: d})
			}
			continue
		}
		base := a.Date.UTC()
		for y := fromYear; y <= toYear; y++ {
			occ := time.Date(y, base.Month(), base.Day(), 12, 0, 0, 0, time.UTC)
			if inRange(occ) {
				out = append(out, Occurrence{Anniversary: a, Date: occ})
			}
		}
	}
	return out
}
