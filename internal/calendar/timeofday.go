package calendar

import (
	"fmt"
	"time"

	"github.com/carelinkhq/telecare/internal/apperr"
)

// TimeOfDay is a clock time stored as seconds since midnight, independent of
// any date. Comparisons are plain integer comparisons; windows that wrap past
// midnight are the caller's concern.
type TimeOfDay int

const secondsPerDay = 24 * 60 * 60

func NewTimeOfDay(hour, minute, second int) TimeOfDay {
	return TimeOfDay(hour*3600 + minute*60 + second)
}

// ParseTimeOfDay accepts "15:04" or "15:04:05".
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse("15:04:05", s)
	if err != nil {
		t, err = time.Parse("15:04", s)
	}
	if err != nil {
		return 0, apperr.Wrap(apperr.KindValidation, fmt.Sprintf("invalid time of day %q", s), err)
	}
	return NewTimeOfDay(t.Hour(), t.Minute(), t.Second()), nil
}

// TimeOfDayFrom extracts the clock time of an instant.
func TimeOfDayFrom(t time.Time) TimeOfDay {
	return NewTimeOfDay(t.Hour(), t.Minute(), t.Second())
}

func (t TimeOfDay) Hour() int   { return int(t) / 3600 }
func (t TimeOfDay) Minute() int { return int(t) % 3600 / 60 }
func (t TimeOfDay) Second() int { return int(t) % 60 }

func (t TimeOfDay) Before(other TimeOfDay) bool { return t < other }

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

// At combines the clock time with a calendar date in loc.
func (t TimeOfDay) At(year int, month time.Month, day int, loc *time.Location) time.Time {
	return time.Date(year, month, day, t.Hour(), t.Minute(), t.Second(), 0, loc)
}

// OnGrid reports whether the time sits exactly on a half-hour boundary.
func (t TimeOfDay) OnGrid() bool {
	m := t.Minute()
	return (m == 0 || m == 30) && t.Second() == 0
}

// RoundUpHalfHour returns t unchanged when it is already on the half-hour
// grid, otherwise the next :00 or :30. Rounding forward from the last half
// hour of the day wraps the hour to 0 without carrying a day; callers that
// combine the result with a date inherit that behavior.
func (t TimeOfDay) RoundUpHalfHour() TimeOfDay {
	if t.OnGrid() {
		return t
	}

	hour, minute := t.Hour(), t.Minute()
	if minute < 30 {
		minute = 30
	} else {
		minute = 0
		hour++
		if hour > 23 {
			hour = 0
		}
	}
	return NewTimeOfDay(hour, minute, 0)
}
