package model

import (
	"sort"
	"time"

	"github.com/carelinkhq/telecare/internal/calendar"
	"github.com/google/uuid"
)

// AvailabilitySchedule is a provider's recurring weekly availability window.
// Schedules are never mutated in place; changes are delete and recreate.
type AvailabilitySchedule struct {
	ID         int64              `json:"-"`
	UUID       uuid.UUID          `json:"uuid"`
	ProviderID int64              `json:"-"`
	StartDate  time.Time          `json:"start_date"` // inclusive, midnight UTC
	EndDate    *time.Time         `json:"end_date"`   // exclusive, nil = open-ended
	StartTime  calendar.TimeOfDay `json:"start_time"`
	EndTime    calendar.TimeOfDay `json:"end_time"` // may be before StartTime when the window wraps past midnight
	DaysOfWeek calendar.DayOfWeek `json:"days_of_week"`
	CreatedAt  time.Time          `json:"created_at"`
}

// Wraps reports whether the time window spans past midnight.
func (s *AvailabilitySchedule) Wraps() bool {
	return s.EndTime < s.StartTime
}

// SchedulesOverlap reports whether two schedules of the same provider
// conflict: their date ranges intersect, their weekday masks share a day and
// their time windows intersect as half-open intervals. The time comparison
// does not account for windows that wrap past midnight; only plain
// start<end windows are compared. That matches how schedule creation has
// always behaved and is left as is.
func SchedulesOverlap(a, b *AvailabilitySchedule) bool {
	if b.EndDate != nil && !a.StartDate.Before(*b.EndDate) {
		return false
	}
	if a.EndDate != nil && !b.StartDate.Before(*a.EndDate) {
		return false
	}
	if !a.DaysOfWeek.Intersects(b.DaysOfWeek) {
		return false
	}
	return calendar.TimesOverlap(a.StartTime, a.EndTime, b.StartTime, b.EndTime)
}

// scheduleSortOrder ranks weekdays in business-week order, Monday first.
var scheduleSortOrder = []calendar.DayOfWeek{
	calendar.Monday,
	calendar.Tuesday,
	calendar.Wednesday,
	calendar.Thursday,
	calendar.Friday,
	calendar.Saturday,
	calendar.Sunday,
}

// WeekdayRanking returns the position of the first business-week day the
// mask contains, for presenting a provider's schedules Monday through Sunday.
func WeekdayRanking(mask calendar.DayOfWeek) int {
	for i, day := range scheduleSortOrder {
		if mask.Intersects(day) {
			return i
		}
	}
	return len(scheduleSortOrder)
}

// SortSchedules orders schedules by business-week ranking, ties broken by
// start time.
func SortSchedules(schedules []*AvailabilitySchedule) {
	sort.SliceStable(schedules, func(i, j int) bool {
		ri, rj := WeekdayRanking(schedules[i].DaysOfWeek), WeekdayRanking(schedules[j].DaysOfWeek)
		if ri != rj {
			return ri < rj
		}
		return schedules[i].StartTime < schedules[j].StartTime
	})
}
