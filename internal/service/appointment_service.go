package service

import (
	"context"
	"fmt"
	"time"

	"github.com/carelinkhq/telecare/internal/apperr"
	"github.com/carelinkhq/telecare/internal/locker"
	"github.com/carelinkhq/telecare/internal/model"
	"github.com/carelinkhq/telecare/internal/notify"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// endGracePeriod is how long after its end time an appointment may still be
// explicitly ended.
const endGracePeriod = 10 * time.Minute

// slotLeaseTTL bounds how long a booking may hold the slot lease.
const slotLeaseTTL = 10 * time.Second

// AppointmentService owns the appointment lifecycle: direct booking,
// cancellation and explicit ending.
type AppointmentService struct {
	users        UserStore
	schedules    ScheduleStore
	appointments AppointmentStore
	slots        *SlotService
	locks        locker.Locker
	notifier     notify.Notifier
	clock        Clock
	logger       *zap.Logger
}

func NewAppointmentService(
	users UserStore,
	schedules ScheduleStore,
	appointments AppointmentStore,
	slots *SlotService,
	locks locker.Locker,
	notifier notify.Notifier,
	clock Clock,
	logger *zap.Logger,
) *AppointmentService {
	return &AppointmentService{
		users:        users,
		schedules:    schedules,
		appointments: appointments,
		slots:        slots,
		locks:        locks,
		notifier:     notifier,
		clock:        clock,
		logger:       logger,
	}
}

// Book validates the proposed start against the provider's schedules and
// existing commitments, then inserts the appointment. The check and the
// insert run under a short lease on the provider slot; the partial unique
// index settles anything that still races past it.
func (s *AppointmentService) Book(ctx context.Context, user *model.User, start time.Time) (*model.Appointment, error) {
	if user.ProviderID == nil {
		return nil, apperr.New(apperr.KindNoProvider, "you must select a provider first")
	}

	providerID := *user.ProviderID
	start = start.UTC()

	schedules, err := s.schedules.GetByProviderID(ctx, providerID)
	if err != nil {
		return nil, fmt.Errorf("get schedules: %w", err)
	}

	if err := s.slots.ValidateAppointmentTime(schedules, start); err != nil {
		return nil, err
	}

	acquired, lease, err := s.locks.TryLock(ctx, locker.SlotKey(providerID, start), slotLeaseTTL)
	if err != nil {
		return nil, fmt.Errorf("acquire slot lease: %w", err)
	}
	if !acquired {
		return nil, apperr.Overlap("that time is being booked by someone else")
	}
	defer func() {
		if err := s.locks.Unlock(ctx, locker.SlotKey(providerID, start), lease); err != nil {
			s.logger.Warn("Failed to release slot lease", zap.Error(err))
		}
	}()

	if err := s.slots.CheckOverlap(ctx, user.ID, providerID, start); err != nil {
		return nil, err
	}

	appointment := &model.Appointment{
		PatientID:  user.ID,
		ProviderID: providerID,
		StartTime:  start,
		EndTime:    start.Add(s.slots.BlockDuration()),
	}

	if err := s.appointments.Create(ctx, appointment); err != nil {
		return nil, err
	}

	s.logger.Info("Appointment booked",
		zap.String("appointment_uuid", appointment.UUID.String()),
		zap.Int64("patient_id", user.ID),
		zap.Int64("provider_id", providerID),
		zap.Time("start_time", appointment.StartTime),
	)

	s.notifyParticipants(ctx, appointment,
		"Confirmed Appointment",
		"A new appointment has been scheduled. Please open the app to view it.")

	return appointment, nil
}

// Cancel marks a future appointment canceled. Either party may cancel; an
// appointment that has already started cannot be.
func (s *AppointmentService) Cancel(ctx context.Context, user *model.User, id uuid.UUID) error {
	appointment, err := s.appointments.GetByUUIDForUser(ctx, id, user.ID)
	if err != nil {
		return fmt.Errorf("get appointment: %w", err)
	}

	if appointment == nil {
		return apperr.NotFound("appointment does not exist")
	}

	if !appointment.StartTime.After(s.clock.Now().UTC()) {
		return apperr.New(apperr.KindAlreadyStarted, "you cannot cancel an appointment that has already started")
	}

	if err := s.appointments.MarkCanceled(ctx, appointment.ID); err != nil {
		return fmt.Errorf("mark canceled: %w", err)
	}

	s.logger.Info("Appointment canceled",
		zap.String("appointment_uuid", id.String()),
		zap.Int64("user_id", user.ID),
	)

	s.notifyParticipants(ctx, appointment,
		"Appointment Canceled",
		"One of your appointments has been canceled. Please open the app for details.")

	return nil
}

// End marks the appointment explicitly ended. Allowed for either party
// until ten minutes past the scheduled end.
func (s *AppointmentService) End(ctx context.Context, user *model.User, id uuid.UUID) error {
	appointment, err := s.appointments.GetByUUIDForUser(ctx, id, user.ID)
	if err != nil {
		return fmt.Errorf("get appointment: %w", err)
	}

	if appointment == nil {
		return apperr.NotFound("appointment does not exist")
	}

	latest := appointment.EndTime.Add(endGracePeriod)
	if !s.clock.Now().UTC().Before(latest) {
		return apperr.New(apperr.KindAlreadyStarted, "that appointment has already ended")
	}

	if err := s.appointments.MarkEnded(ctx, appointment.ID); err != nil {
		return fmt.Errorf("mark ended: %w", err)
	}

	s.logger.Info("Appointment ended",
		zap.String("appointment_uuid", id.String()),
		zap.Int64("user_id", user.ID),
	)

	return nil
}

// MyAppointments returns the user's live appointments, newest last. An
// appointment stays listed until one block length past its end time.
func (s *AppointmentService) MyAppointments(ctx context.Context, user *model.User) ([]*model.Appointment, error) {
	cutoff := s.clock.Now().UTC().Add(-s.slots.BlockDuration())
	return s.appointments.ListUpcomingForUser(ctx, user.ID, cutoff)
}

func (s *AppointmentService) notifyParticipants(ctx context.Context, appointment *model.Appointment, title, message string) {
	var users []*model.User
	for _, id := range []int64{appointment.PatientID, appointment.ProviderID} {
		user, err := s.users.GetByID(ctx, id)
		if err != nil || user == nil {
			s.logger.Warn("Failed to load notification recipient",
				zap.Int64("user_id", id),
				zap.Error(err))
			continue
		}
		users = append(users, user)
	}

	s.notifier.NotifyAll(ctx, users, title, message)
}
