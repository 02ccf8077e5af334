package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/carelinkhq/telecare/internal/apperr"
	"github.com/carelinkhq/telecare/internal/calendar"
	"github.com/carelinkhq/telecare/internal/model"
	"go.uber.org/zap"
)

// SlotService resolves a provider's recurring availability windows and
// existing commitments into concrete bookable blocks, and validates proposed
// booking times against the same rules.
type SlotService struct {
	schedules     ScheduleStore
	appointments  AppointmentStore
	clock         Clock
	blockDuration time.Duration
	maxSearchDays int
	logger        *zap.Logger
}

func NewSlotService(
	schedules ScheduleStore,
	appointments AppointmentStore,
	clock Clock,
	blockDuration time.Duration,
	maxSearchDays int,
	logger *zap.Logger,
) *SlotService {
	return &SlotService{
		schedules:     schedules,
		appointments:  appointments,
		clock:         clock,
		blockDuration: blockDuration,
		maxSearchDays: maxSearchDays,
		logger:        logger,
	}
}

// AvailableBlocks enumerates every bookable block of the user's selected
// provider between startDate and endDate (both inclusive, midnight UTC).
//
// For each schedule the walk starts at max(startDate, yesterday), visits
// only dates whose weekday the schedule covers, and steps through the day in
// fixed-duration increments from the schedule's rounded start time. A block
// survives when its start is strictly in the future and it does not overlap
// any non-canceled appointment involving the user or the provider. Windows
// whose end time is before their start time span past midnight; their
// blocks continue into the early hours of the next calendar date.
func (s *SlotService) AvailableBlocks(ctx context.Context, user *model.User, startDate, endDate time.Time) ([]model.Block, error) {
	if user.ProviderID == nil {
		return nil, apperr.New(apperr.KindNoProvider, "you must select a provider first")
	}

	startDate = dateOnly(startDate)
	endDate = dateOnly(endDate)

	days := int(endDate.Sub(startDate).Hours() / 24)
	if days <= 0 {
		return nil, apperr.Validation("search start date must come before the end date")
	}
	if days > s.maxSearchDays {
		return nil, apperr.Validation(fmt.Sprintf("you can only search up to %d days at once", s.maxSearchDays))
	}

	providerID := *user.ProviderID

	appointments, err := s.appointments.ListActiveInvolving(ctx, user.ID, providerID)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}

	schedules, err := s.schedules.GetByProviderID(ctx, providerID)
	if err != nil {
		return nil, fmt.Errorf("get schedules: %w", err)
	}

	now := s.clock.Now().UTC()

	// Starting a day early lets a window that wrapped past midnight
	// yesterday contribute its early-morning blocks today.
	initialSearchDate := dateOnly(now).AddDate(0, 0, -1)

	var blocks []model.Block

	for _, schedule := range schedules {
		current := startDate
		if current.Before(initialSearchDate) {
			current = initialSearchDate
		}

		for !current.After(endDate) && (schedule.EndDate == nil || current.Before(*schedule.EndDate)) {
			if schedule.DaysOfWeek.Contains(current) {
				startClock := schedule.StartTime.RoundUpHalfHour()
				block := startClock.At(current.Year(), current.Month(), current.Day(), time.UTC)

				for s.withinWindow(schedule, block) {
					if block.After(now) {
						end := block.Add(s.blockDuration)
						if !s.overlapsAny(appointments, block, end) {
							blocks = append(blocks, model.Block{StartTime: block, EndTime: end})
						}
					}
					block = block.Add(s.blockDuration)
				}
			}

			// Jump straight to the next date the schedule covers.
			for {
				current = current.AddDate(0, 0, 1)
				if schedule.DaysOfWeek.Contains(current) {
					break
				}
			}
		}
	}

	sort.Slice(blocks, func(i, j int) bool {
		return blocks[i].StartTime.Before(blocks[j].StartTime)
	})

	return blocks, nil
}

// withinWindow reports whether the block's clock time still falls inside the
// schedule's window, including the wrapped portion after midnight.
func (s *SlotService) withinWindow(schedule *model.AvailabilitySchedule, block time.Time) bool {
	tod := calendar.TimeOfDayFrom(block)
	if tod < schedule.EndTime {
		return true
	}
	return schedule.Wraps() && schedule.StartTime <= tod
}

func (s *SlotService) overlapsAny(appointments []*model.Appointment, start, end time.Time) bool {
	for _, appointment := range appointments {
		if calendar.RangesOverlap(appointment.StartTime, appointment.EndTime, start, end) {
			return true
		}
	}
	return false
}

// ValidateAppointmentTime checks that the instant is a legal appointment
// start for the given schedules: the right weekday (or the previous day's
// weekday when the window wraps past midnight), exactly on the half-hour
// grid, and inside some schedule's window. Overlap with existing
// appointments is a separate commit-time check.
func (s *SlotService) ValidateAppointmentTime(schedules []*model.AvailabilitySchedule, t time.Time) error {
	t = t.UTC()
	tod := calendar.TimeOfDayFrom(t)

	for _, schedule := range schedules {
		sameDay := schedule.DaysOfWeek.Contains(t)

		// The instant can belong to yesterday's window when that window
		// wrapped past midnight and the time lies in the wrapped portion.
		previousDayWrap := tod < schedule.EndTime &&
			schedule.Wraps() &&
			schedule.DaysOfWeek.Contains(t.AddDate(0, 0, -1))

		if !sameDay && !previousDayWrap {
			continue
		}

		if !tod.OnGrid() {
			continue
		}

		inPlainWindow := schedule.StartTime <= tod && tod < schedule.EndTime
		inWrappedEvening := schedule.Wraps() && schedule.StartTime <= tod
		inWrappedMorning := schedule.Wraps() && tod < schedule.EndTime

		if inPlainWindow || inWrappedEvening || inWrappedMorning {
			return nil
		}
	}

	return apperr.New(apperr.KindInvalidAppointmentTime, "that is not a valid appointment time")
}

// CheckOverlap returns an overlap error when [start, start+block) intersects
// any non-canceled appointment of the user or the provider. Always run at
// commit time; other bookings may have landed since the slot was listed.
func (s *SlotService) CheckOverlap(ctx context.Context, userID, providerID int64, start time.Time) error {
	end := start.Add(s.blockDuration)

	conflicting, err := s.appointments.ListActiveOverlapping(ctx, userID, providerID, start, end)
	if err != nil {
		return fmt.Errorf("list overlapping appointments: %w", err)
	}

	if len(conflicting) > 0 {
		return apperr.Overlap("the appointment would overlap with another one")
	}

	return nil
}

// BlockDuration exposes the fixed block length for callers computing end times.
func (s *SlotService) BlockDuration() time.Duration {
	return s.blockDuration
}
