package projection

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ourdays/internal/domain"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNormalizeDate(t *testing.T) {
	seoul, err := time.LoadLocation("Asia/Seoul")
	require.NoError(t, err)

	got := NormalizeDate(time.Date(2024, 3, 5, 23, 59, 59, 999, seoul))
	assert.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, seoul), got)
	assert.Equal(t, seoul, got.Location())
}

func TestDaysBetween(t *testing.T) {
	day0 := date(2024, 1, 1)

	tests := []struct {
		name       string
		start, end time.Time
		want       int
	}{
		{name: "same day", start: day0, end: day0, want: 0},
		{name: "time of day is dropped forward", start: day0, end: day0.Add(12 * time.Hour), want: 0},
		{name: "time of day is dropped backward", start: day0.Add(12 * time.Hour), end: day0, want: 0},
		{name: "one day later", start: day0.Add(23 * time.Hour), end: date(2024, 1, 2), want: 1},
		{name: "leap year span", start: day0, end: date(2025, 1, 1), want: 366},
		{name: "past date", start: date(2024, 1, 10), end: day0, want: -9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DaysBetween(tt.start, tt.end))
		})
	}
}

func TestRoundDays_RoundsAwayFromZero(t *testing.T) {
	assert.Equal(t, 1, roundDays(12*time.Hour), "partial positive day rounds up")
	assert.Equal(t, -1, roundDays(-12*time.Hour), "partial negative day rounds down")
	assert.Equal(t, 0, roundDays(0))
	assert.Equal(t, 2, roundDays(25*time.Hour))
	assert.Equal(t, -2, roundDays(-25*time.Hour))
}

func TestDaysBetween_DSTShortDay(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	// 2024-03-10 is 23 hours long in New York.
	start := time.Date(2024, 3, 10, 0, 0, 0, 0, ny)
	end := time.Date(2024, 3, 11, 0, 0, 0, 0, ny)
	assert.Equal(t, 1, DaysBetween(start, end))
	assert.Equal(t, -1, DaysBetween(end, start))
}

func TestRelationshipDayCount(t *testing.T) {
	start := date(2024, 1, 1)
	assert.Equal(t, 1, RelationshipDayCount(start, start))
	assert.Equal(t, 2, RelationshipDayCount(start, date(2024, 1, 2)))
	assert.Equal(t, 100, RelationshipDayCount(start, date(2024, 4, 9)))
	assert.Equal(t, 1, RelationshipDayCount(start, date(2023, 12, 1)), "future start floors at day 1")
}

func TestNextOccurrence(t *testing.T) {
	ref := date(2024, 6, 15)

	tests := []struct {
		name   string
		a      *domain.Anniversary
		want   time.Time
		wantOK bool
	}{
		{
			name:   "one-off today is included",
			a:      &domain.Anniversary{Date: date(2024, 6, 15)},
			want:   date(2024, 6, 15),
			wantOK: true,
		},
		{
			name:   "one-off in the future",
			a:      &domain.Anniversary{Date: date(2025, 1, 1)},
			want:   date(2025, 1, 1),
			wantOK: true,
		},
		{
			name:   "one-off in the past never resurfaces",
			a:      &domain.Anniversary{Date: date(2024, 6, 14)},
			wantOK: false,
		},
		{
			name:   "recurring on the reference day occurs today",
			a:      &domain.Anniversary{Date: date(1995, 6, 15), IsRecurring: true},
			want:   date(2024, 6, 15),
			wantOK: true,
		},
		{
			name:   "recurring later this year",
			a:      &domain.Anniversary{Date: date(1995, 12, 24), IsRecurring: true},
			want:   date(2024, 12, 24),
			wantOK: true,
		},
		{
			name:   "recurring already passed rolls to next year",
			a:      &domain.Anniversary{Date: date(1995, 6, 14), IsRecurring: true},
			want:   date(2025, 6, 14),
			wantOK: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NextOccurrence(tt.a, ref.Add(15*time.Hour))
			require.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.True(t, tt.want.Equal(got), "want %s got %s", tt.want, got)
			}
		})
	}
}

func TestNextOccurrence_PastOneOffIsAlwaysAbsent(t *testing.T) {
	ref := date(2024, 3, 1)
	for d := 1; d <= 400; d++ {
		a := &domain.Anniversary{Date: ref.AddDate(0, 0, -d)}
		_, ok := NextOccurrence(a, ref)
		require.False(t, ok, "date %s", a.Date)
	}
}

func TestNextOccurrence_RecurringWithinAYear(t *testing.T) {
	anniversary := &domain.Anniversary{Date: date(2000, 2, 29), IsRecurring: true}
	others := []*domain.Anniversary{
		anniversary,
		{Date: date(1990, 1, 1), IsRecurring: true},
		{Date: date(1990, 12, 31), IsRecurring: true},
		{Date: date(2010, 7, 4), IsRecurring: true},
	}
	ref := date(2023, 1, 1)
	for i := 0; i < 3*366; i++ {
		r := ref.AddDate(0, 0, i)
		for _, a := range others {
			next, ok := NextOccurrence(a, r)
			require.True(t, ok)
			days := DaysBetween(r, next)
			require.GreaterOrEqual(t, days, 0)
			require.Less(t, days, 366, "ref %s date %s", r, a.Date)
		}
	}
}

func TestBuildUpcoming(t *testing.T) {
	ref := date(2024, 6, 15)
	anniversaries := []*domain.Anniversary{
		{ID: "b-late", Title: "late", Date: date(1990, 12, 1), IsRecurring: true, Type: domain.AnniversaryTypeBirthday},
		{ID: "gone", Title: "gone", Date: date(2024, 1, 1), Type: domain.AnniversaryTypeBirthday},
		{ID: "b-soon", Title: "soon", Date: date(1992, 6, 20), IsRecurring: true, Type: domain.AnniversaryTypeBirthday},
		{ID: "b-soon-2", Title: "soon too", Date: date(1993, 6, 20), IsRecurring: true, Type: domain.AnniversaryTypeBirthday},
	}

	got := BuildUpcoming(anniversaries, ref)
	require.Len(t, got, 3)
	assert.Equal(t, "b-soon", got[0].ID)
	assert.Equal(t, "b-soon-2", got[1].ID, "equal dates keep input order")
	assert.Equal(t, "b-late", got[2].ID)
	assert.Equal(t, 5, got[0].DaysUntil)
	assert.True(t, date(2024, 12, 1).Equal(got[2].NextOccurrence))
}

func TestBuildMilestones(t *testing.T) {
	t.Run("first day of the relationship", func(t *testing.T) {
		start := date(2024, 1, 1)
		got := BuildMilestones(start, start)
		require.Len(t, got, 5)
		assert.Equal(t, "milestone-100", got[0].ID)
		assert.Equal(t, "100일", got[0].Title)
		assert.Equal(t, "100일 기념일", got[0].Description)
		assert.Equal(t, domain.AnniversaryTypeMilestone, got[0].Type)
		assert.True(t, date(2024, 4, 9).Equal(got[0].NextOccurrence), "got %s", got[0].NextOccurrence)
		assert.Equal(t, 99, got[0].DaysUntil)
		assert.Equal(t, "500일", got[4].Title)
	})

	t.Run("on the 100th day the milestone is today", func(t *testing.T) {
		got := BuildMilestones(date(2024, 1, 1), date(2024, 4, 9))
		require.NotEmpty(t, got)
		assert.Equal(t, "100일", got[0].Title)
		assert.Equal(t, 0, got[0].DaysUntil)
	})

	t.Run("the day after a milestone moves on", func(t *testing.T) {
		got := BuildMilestones(date(2024, 1, 1), date(2024, 4, 10))
		require.Len(t, got, 5)
		assert.Equal(t, "200일", got[0].Title)
		assert.Equal(t, 99, got[0].DaysUntil)
	})

	t.Run("future start date", func(t *testing.T) {
		got := BuildMilestones(date(2024, 2, 1), date(2024, 1, 1))
		require.Len(t, got, 5)
		assert.Equal(t, "100일", got[0].Title)
		assert.Equal(t, 31+99, got[0].DaysUntil)
	})
}

func TestBuildYearlyAnniversaries(t *testing.T) {
	t.Run("first anniversary ahead", func(t *testing.T) {
		ref := date(2024, 1, 1)
		got := BuildYearlyAnniversaries(date(2023, 6, 15), ref)
		require.Len(t, got, 5)
		assert.Equal(t, "1주년", got[0].Title)
		assert.Equal(t, "relationship-1-year", got[0].ID)
		assert.Equal(t, domain.AnniversaryTypeRelationship, got[0].Type)
		assert.True(t, date(2024, 6, 15).Equal(got[0].NextOccurrence))
		assert.Equal(t, DaysBetween(ref, date(2024, 6, 15)), got[0].DaysUntil)
		assert.Equal(t, 166, got[0].DaysUntil)
		assert.Equal(t, "5주년", got[4].Title)
	})

	t.Run("long relationship skips past years", func(t *testing.T) {
		got := BuildYearlyAnniversaries(date(2010, 3, 1), date(2024, 3, 2))
		require.Len(t, got, 5)
		assert.Equal(t, "15주년", got[0].Title)
		assert.Equal(t, "19주년", got[4].Title)
	})

	t.Run("anniversary today counts", func(t *testing.T) {
		got := BuildYearlyAnniversaries(date(2020, 5, 5), date(2024, 5, 5))
		require.NotEmpty(t, got)
		assert.Equal(t, "4주년", got[0].Title)
		assert.Equal(t, 0, got[0].DaysUntil)
	})

	t.Run("leap day start rolls to March in common years", func(t *testing.T) {
		got := BuildYearlyAnniversaries(date(2024, 2, 29), date(2024, 3, 1))
		require.NotEmpty(t, got)
		assert.True(t, date(2025, 3, 1).Equal(got[0].NextOccurrence))
		assert.True(t, date(2028, 2, 29).Equal(got[3].NextOccurrence))
	})
}

func TestMergeNextSpecial(t *testing.T) {
	at := func(id string, d time.Time) domain.SpecialEvent {
		return domain.SpecialEvent{ID: id, NextOccurrence: d}
	}

	t.Run("empty", func(t *testing.T) {
		assert.Nil(t, MergeNextSpecial(nil, nil, nil))
	})

	t.Run("earliest wins", func(t *testing.T) {
		got := MergeNextSpecial(
			[]domain.SpecialEvent{at("birthday", date(2024, 8, 1))},
			[]domain.SpecialEvent{at("milestone", date(2024, 7, 1))},
			[]domain.SpecialEvent{at("yearly", date(2025, 1, 1))},
		)
		require.NotNil(t, got)
		assert.Equal(t, "milestone", got.ID)
	})

	t.Run("ties keep group order", func(t *testing.T) {
		same := date(2024, 9, 9)
		got := MergeNextSpecial(
			[]domain.SpecialEvent{at("birthday", same)},
			[]domain.SpecialEvent{at("milestone", same)},
			[]domain.SpecialEvent{at("yearly", same)},
		)
		require.NotNil(t, got)
		assert.Equal(t, "birthday", got.ID)

		got = MergeNextSpecial(
			nil,
			[]domain.SpecialEvent{at("milestone", same)},
			[]domain.SpecialEvent{at("yearly", same)},
		)
		assert.Equal(t, "milestone", got.ID)
	})
}
