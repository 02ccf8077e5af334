package model

import (
	"testing"
	"time"

	"github.com/carelinkhq/telecare/internal/calendar"
	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func sched(start time.Time, end *time.Time, from, to calendar.TimeOfDay, days calendar.DayOfWeek) *AvailabilitySchedule {
	return &AvailabilitySchedule{
		StartDate:  start,
		EndDate:    end,
		StartTime:  from,
		EndTime:    to,
		DaysOfWeek: days,
	}
}

func TestSchedulesOverlap(t *testing.T) {
	nine := calendar.NewTimeOfDay(9, 0, 0)
	ten := calendar.NewTimeOfDay(10, 0, 0)
	eleven := calendar.NewTimeOfDay(11, 0, 0)

	t.Run("same day and time overlap", func(t *testing.T) {
		a := sched(date(2026, 1, 1), nil, nine, eleven, calendar.Monday)
		b := sched(date(2026, 2, 1), nil, ten, eleven, calendar.Monday)
		assert.True(t, SchedulesOverlap(a, b))
		assert.True(t, SchedulesOverlap(b, a))
	})

	t.Run("disjoint weekdays", func(t *testing.T) {
		a := sched(date(2026, 1, 1), nil, nine, eleven, calendar.Monday)
		b := sched(date(2026, 1, 1), nil, nine, eleven, calendar.Tuesday|calendar.Friday)
		assert.False(t, SchedulesOverlap(a, b))
	})

	t.Run("touching time windows do not overlap", func(t *testing.T) {
		a := sched(date(2026, 1, 1), nil, nine, ten, calendar.Monday)
		b := sched(date(2026, 1, 1), nil, ten, eleven, calendar.Monday)
		assert.False(t, SchedulesOverlap(a, b))
	})

	t.Run("disjoint date ranges", func(t *testing.T) {
		febFirst := date(2026, 2, 1)
		a := sched(date(2026, 1, 1), &febFirst, nine, eleven, calendar.Monday)
		b := sched(date(2026, 2, 1), nil, nine, eleven, calendar.Monday)
		assert.False(t, SchedulesOverlap(a, b))
		assert.False(t, SchedulesOverlap(b, a))
	})

	t.Run("open ended date range overlaps everything after it", func(t *testing.T) {
		a := sched(date(2026, 1, 1), nil, nine, eleven, calendar.Monday)
		b := sched(date(2030, 6, 1), nil, nine, eleven, calendar.Monday)
		assert.True(t, SchedulesOverlap(a, b))
	})

	t.Run("wrapping windows compare as plain intervals", func(t *testing.T) {
		// A window 23:00-01:00 has end < start; the overlap check compares
		// it verbatim and therefore never sees it intersect a morning
		// window. Pinned on purpose.
		late := sched(date(2026, 1, 1), nil, calendar.NewTimeOfDay(23, 0, 0), calendar.NewTimeOfDay(1, 0, 0), calendar.Saturday)
		morning := sched(date(2026, 1, 1), nil, calendar.NewTimeOfDay(0, 0, 0), calendar.NewTimeOfDay(1, 0, 0), calendar.Saturday)
		assert.False(t, SchedulesOverlap(late, morning))
	})
}

func TestSortSchedules(t *testing.T) {
	nine := calendar.NewTimeOfDay(9, 0, 0)
	noon := calendar.NewTimeOfDay(12, 0, 0)

	sun := sched(date(2026, 1, 1), nil, nine, noon, calendar.Sunday)
	mon := sched(date(2026, 1, 1), nil, noon, calendar.NewTimeOfDay(14, 0, 0), calendar.Monday)
	monEarly := sched(date(2026, 1, 1), nil, nine, noon, calendar.Monday)
	fri := sched(date(2026, 1, 1), nil, nine, noon, calendar.Friday)

	schedules := []*AvailabilitySchedule{sun, mon, fri, monEarly}
	SortSchedules(schedules)

	// Business-week ordering: Monday first, Sunday last; ties by start time.
	assert.Equal(t, []*AvailabilitySchedule{monEarly, mon, fri, sun}, schedules)
}

func TestWeekdayRanking(t *testing.T) {
	assert.Equal(t, 0, WeekdayRanking(calendar.Monday))
	assert.Equal(t, 6, WeekdayRanking(calendar.Sunday))
	// A mask spanning several days ranks by its earliest business-week day.
	assert.Equal(t, 1, WeekdayRanking(calendar.Tuesday|calendar.Sunday))
	assert.Equal(t, 0, WeekdayRanking(calendar.All))
}

func TestWraps(t *testing.T) {
	s := sched(date(2026, 1, 1), nil, calendar.NewTimeOfDay(23, 0, 0), calendar.NewTimeOfDay(1, 0, 0), calendar.Friday)
	assert.True(t, s.Wraps())

	s = sched(date(2026, 1, 1), nil, calendar.NewTimeOfDay(9, 0, 0), calendar.NewTimeOfDay(10, 0, 0), calendar.Friday)
	assert.False(t, s.Wraps())
}
