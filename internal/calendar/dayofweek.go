package calendar

import (
	"time"

	"github.com/carelinkhq/telecare/internal/apperr"
)

// DayOfWeek is a 7-bit set of weekdays. A schedule applies on a date when
// the schedule's mask shares a bit with the mask for that date's weekday.
type DayOfWeek int

const (
	Sunday    DayOfWeek = 1
	Monday    DayOfWeek = 1 << 1
	Tuesday   DayOfWeek = 1 << 2
	Wednesday DayOfWeek = 1 << 3
	Thursday  DayOfWeek = 1 << 4
	Friday    DayOfWeek = 1 << 5
	Saturday  DayOfWeek = 1 << 6

	All = Sunday | Monday | Tuesday | Wednesday | Thursday | Friday | Saturday
)

// WeekdayMask maps an ISO weekday number (1=Monday .. 7=Sunday) to its bit.
func WeekdayMask(isoWeekday int) (DayOfWeek, error) {
	switch isoWeekday {
	case 1:
		return Monday, nil
	case 2:
		return Tuesday, nil
	case 3:
		return Wednesday, nil
	case 4:
		return Thursday, nil
	case 5:
		return Friday, nil
	case 6:
		return Saturday, nil
	case 7:
		return Sunday, nil
	default:
		return 0, apperr.Validation("weekday number must be between 1 and 7")
	}
}

// MaskFor returns the single-bit mask for t's weekday.
func MaskFor(t time.Time) DayOfWeek {
	// time.Weekday has Sunday == 0, which lines up with the sunday bit.
	return 1 << uint(t.Weekday())
}

// Contains reports whether the mask has the bit for t's weekday set.
func (d DayOfWeek) Contains(t time.Time) bool {
	return d&MaskFor(t) != 0
}

// Intersects reports whether two masks share at least one day.
func (d DayOfWeek) Intersects(other DayOfWeek) bool {
	return d&other != 0
}

// IsValid reports whether the mask is non-empty and uses only the 7 weekday bits.
func (d DayOfWeek) IsValid() bool {
	return d > 0 && d&^All == 0
}
