package service

import (
	"context"
	"fmt"
	"time"

	"github.com/carelinkhq/telecare/internal/apperr"
	"github.com/carelinkhq/telecare/internal/calendar"
	"github.com/carelinkhq/telecare/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AvailabilityService manages a provider's recurring weekly availability
// windows. Schedules are immutable; a change is a delete plus a recreate.
type AvailabilityService struct {
	users     UserStore
	schedules ScheduleStore
	clock     Clock
	logger    *zap.Logger
}

func NewAvailabilityService(users UserStore, schedules ScheduleStore, clock Clock, logger *zap.Logger) *AvailabilityService {
	return &AvailabilityService{
		users:     users,
		schedules: schedules,
		clock:     clock,
		logger:    logger,
	}
}

// CreateScheduleInput carries a validated schedule window. StartDate zero
// means "from today".
type CreateScheduleInput struct {
	StartDate  time.Time
	EndDate    *time.Time
	StartTime  calendar.TimeOfDay
	EndTime    calendar.TimeOfDay
	DaysOfWeek calendar.DayOfWeek
}

// CreateSchedule persists a new availability window unless it overlaps an
// existing schedule of the same provider.
func (s *AvailabilityService) CreateSchedule(ctx context.Context, provider *model.User, input CreateScheduleInput) (*model.AvailabilitySchedule, error) {
	if !provider.IsProvider() {
		return nil, apperr.New(apperr.KindAuthorization, "you must be a provider to do this")
	}

	if !input.DaysOfWeek.IsValid() {
		return nil, apperr.Validation("days_of_week must be a non-empty weekday mask")
	}

	startDate := input.StartDate
	if startDate.IsZero() {
		startDate = dateOnly(s.clock.Now())
	}

	schedule := &model.AvailabilitySchedule{
		ProviderID: provider.ID,
		StartDate:  dateOnly(startDate),
		EndDate:    input.EndDate,
		StartTime:  input.StartTime,
		EndTime:    input.EndTime,
		DaysOfWeek: input.DaysOfWeek,
	}

	existing, err := s.schedules.GetByProviderID(ctx, provider.ID)
	if err != nil {
		return nil, fmt.Errorf("get schedules: %w", err)
	}

	for _, previous := range existing {
		if model.SchedulesOverlap(previous, schedule) {
			return nil, apperr.Overlap("the schedule you are trying to create would overlap with a previously existing schedule")
		}
	}

	if err := s.schedules.Create(ctx, schedule); err != nil {
		return nil, fmt.Errorf("create schedule: %w", err)
	}

	s.logger.Info("Availability schedule created",
		zap.Int64("provider_id", provider.ID),
		zap.String("schedule_uuid", schedule.UUID.String()),
		zap.Int("days_of_week", int(schedule.DaysOfWeek)),
		zap.String("start_time", schedule.StartTime.String()),
		zap.String("end_time", schedule.EndTime.String()),
	)

	return schedule, nil
}

// DeleteSchedule removes a schedule owned by the provider. Appointments
// already booked against the schedule stay valid.
func (s *AvailabilityService) DeleteSchedule(ctx context.Context, provider *model.User, id uuid.UUID) error {
	deleted, err := s.schedules.Delete(ctx, provider.ID, id)
	if err != nil {
		return fmt.Errorf("delete schedule: %w", err)
	}

	if !deleted {
		return apperr.NotFound("that schedule does not exist")
	}

	s.logger.Info("Availability schedule deleted",
		zap.Int64("provider_id", provider.ID),
		zap.String("schedule_uuid", id.String()),
	)

	return nil
}

// ListSchedules returns the user's own schedules in business-week order.
func (s *AvailabilityService) ListSchedules(ctx context.Context, provider *model.User) ([]*model.AvailabilitySchedule, error) {
	if !provider.IsProvider() {
		return nil, apperr.New(apperr.KindAuthorization, "you must be a provider to do this")
	}
	return s.listSorted(ctx, provider.ID)
}

// ListSchedulesOf returns another provider's schedules in business-week
// order, for patients browsing availability.
func (s *AvailabilityService) ListSchedulesOf(ctx context.Context, providerUUID uuid.UUID) ([]*model.AvailabilitySchedule, error) {
	provider, err := s.users.GetByUUID(ctx, providerUUID)
	if err != nil {
		return nil, fmt.Errorf("get provider: %w", err)
	}

	if provider == nil || !provider.IsProvider() {
		return nil, apperr.NotFound("that provider does not exist")
	}

	return s.listSorted(ctx, provider.ID)
}

func (s *AvailabilityService) listSorted(ctx context.Context, providerID int64) ([]*model.AvailabilitySchedule, error) {
	schedules, err := s.schedules.GetByProviderID(ctx, providerID)
	if err != nil {
		return nil, fmt.Errorf("get schedules: %w", err)
	}

	model.SortSchedules(schedules)
	return schedules, nil
}

// dateOnly truncates an instant to midnight UTC.
func dateOnly(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
