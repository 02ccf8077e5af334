package calendar

import (
	"testing"
	"time"

	"github.com/carelinkhq/telecare/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeekdayMask(t *testing.T) {
	cases := []struct {
		iso  int
		want DayOfWeek
	}{
		{1, Monday},
		{2, Tuesday},
		{3, Wednesday},
		{4, Thursday},
		{5, Friday},
		{6, Saturday},
		{7, Sunday},
	}

	for _, c := range cases {
		got, err := WeekdayMask(c.iso)
		require.NoError(t, err)
		assert.Equal(t, c.want, got)
	}

	for _, iso := range []int{0, 8, -1} {
		_, err := WeekdayMask(iso)
		assert.ErrorIs(t, err, apperr.ErrValidation, "iso weekday %d", iso)
	}
}

func TestMaskFor(t *testing.T) {
	// 2026-01-05 is a Monday.
	monday := time.Date(2026, 1, 5, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, Monday, MaskFor(monday))
	assert.Equal(t, Sunday, MaskFor(monday.AddDate(0, 0, 6)))

	assert.True(t, (Monday | Friday).Contains(monday))
	assert.False(t, (Tuesday | Friday).Contains(monday))
	assert.True(t, All.Contains(monday))
}

func TestDayOfWeekIsValid(t *testing.T) {
	assert.True(t, Monday.IsValid())
	assert.True(t, All.IsValid())
	assert.False(t, DayOfWeek(0).IsValid())
	assert.False(t, DayOfWeek(1<<7).IsValid())
	assert.False(t, DayOfWeek(-1).IsValid())
}

func TestRoundUpHalfHour(t *testing.T) {
	t.Run("already on grid", func(t *testing.T) {
		assert.Equal(t, NewTimeOfDay(9, 0, 0), NewTimeOfDay(9, 0, 0).RoundUpHalfHour())
		assert.Equal(t, NewTimeOfDay(9, 30, 0), NewTimeOfDay(9, 30, 0).RoundUpHalfHour())
	})

	t.Run("rounds forward", func(t *testing.T) {
		assert.Equal(t, NewTimeOfDay(9, 30, 0), NewTimeOfDay(9, 1, 0).RoundUpHalfHour())
		assert.Equal(t, NewTimeOfDay(9, 30, 0), NewTimeOfDay(9, 29, 59).RoundUpHalfHour())
		assert.Equal(t, NewTimeOfDay(10, 0, 0), NewTimeOfDay(9, 31, 0).RoundUpHalfHour())
		// On the half hour but with stray seconds: still rounds forward.
		assert.Equal(t, NewTimeOfDay(10, 0, 0), NewTimeOfDay(9, 30, 1).RoundUpHalfHour())
	})

	t.Run("wraps past midnight without carrying the day", func(t *testing.T) {
		// 23:45 rounds to 00:00, not 24:00 of the next day. Callers that
		// attach a date keep the original date.
		assert.Equal(t, NewTimeOfDay(0, 0, 0), NewTimeOfDay(23, 45, 0).RoundUpHalfHour())
	})
}

func TestParseTimeOfDay(t *testing.T) {
	got, err := ParseTimeOfDay("09:30")
	require.NoError(t, err)
	assert.Equal(t, NewTimeOfDay(9, 30, 0), got)

	got, err = ParseTimeOfDay("23:00:15")
	require.NoError(t, err)
	assert.Equal(t, NewTimeOfDay(23, 0, 15), got)

	_, err = ParseTimeOfDay("25:00")
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestOnGrid(t *testing.T) {
	assert.True(t, NewTimeOfDay(14, 0, 0).OnGrid())
	assert.True(t, NewTimeOfDay(14, 30, 0).OnGrid())
	assert.False(t, NewTimeOfDay(14, 15, 0).OnGrid())
	assert.False(t, NewTimeOfDay(14, 30, 1).OnGrid())
}

func TestRangesOverlap(t *testing.T) {
	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	at := func(m int) time.Time { return base.Add(time.Duration(m) * time.Minute) }

	assert.True(t, RangesOverlap(at(0), at(30), at(15), at(45)))
	assert.True(t, RangesOverlap(at(0), at(30), at(0), at(30)))
	assert.True(t, RangesOverlap(at(0), at(60), at(15), at(30)))

	// Touching endpoints do not overlap.
	assert.False(t, RangesOverlap(at(0), at(30), at(30), at(60)))
	assert.False(t, RangesOverlap(at(30), at(60), at(0), at(30)))
	assert.False(t, RangesOverlap(at(0), at(30), at(60), at(90)))
}
