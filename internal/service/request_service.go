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

// RequestService owns the appointment-request lifecycle: a patient proposes
// a time, the provider accepts or either side declines. Accepting converts
// the request into an appointment atomically.
type RequestService struct {
	users     UserStore
	schedules ScheduleStore
	requests  RequestStore
	slots     *SlotService
	locks     locker.Locker
	notifier  notify.Notifier
	clock     Clock
	logger    *zap.Logger
}

func NewRequestService(
	users UserStore,
	schedules ScheduleStore,
	requests RequestStore,
	slots *SlotService,
	locks locker.Locker,
	notifier notify.Notifier,
	clock Clock,
	logger *zap.Logger,
) *RequestService {
	return &RequestService{
		users:     users,
		schedules: schedules,
		requests:  requests,
		slots:     slots,
		locks:     locks,
		notifier:  notifier,
		clock:     clock,
		logger:    logger,
	}
}

// CreateRequest proposes an appointment time to the user's provider. The
// time must be legal under the provider's schedules; overlap is only
// checked when the provider accepts.
func (s *RequestService) CreateRequest(ctx context.Context, user *model.User, start time.Time) (*model.AppointmentRequest, error) {
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

	request := &model.AppointmentRequest{
		PatientID:  user.ID,
		ProviderID: providerID,
		StartTime:  start,
		EndTime:    start.Add(s.slots.BlockDuration()),
	}

	if err := s.requests.Create(ctx, request); err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	s.logger.Info("Appointment request created",
		zap.String("request_uuid", request.UUID.String()),
		zap.Int64("patient_id", user.ID),
		zap.Int64("provider_id", providerID),
		zap.Time("start_time", request.StartTime),
	)

	s.notifyUser(ctx, providerID,
		"New Appointment Request",
		"One of your clients has requested an appointment. Please open the app to confirm it.")

	return request, nil
}

// AcceptRequest converts a pending request into an appointment. Only the
// provider side may accept. Overlap is re-checked at acceptance time since
// other bookings may have landed since the request was created; on conflict
// the request stays pending.
func (s *RequestService) AcceptRequest(ctx context.Context, user *model.User, id uuid.UUID) (*model.Appointment, error) {
	request, err := s.requests.GetByUUIDForUser(ctx, id, user.ID)
	if err != nil {
		return nil, fmt.Errorf("get request: %w", err)
	}

	if request == nil {
		return nil, apperr.NotFound("that appointment request does not exist")
	}

	if request.ProviderID != user.ID {
		return nil, apperr.New(apperr.KindAuthorization, "you are not authorized to accept that request")
	}

	acquired, lease, err := s.locks.TryLock(ctx, locker.SlotKey(request.ProviderID, request.StartTime), slotLeaseTTL)
	if err != nil {
		return nil, fmt.Errorf("acquire slot lease: %w", err)
	}
	if !acquired {
		return nil, apperr.Overlap("that time is being booked by someone else")
	}
	defer func() {
		if err := s.locks.Unlock(ctx, locker.SlotKey(request.ProviderID, request.StartTime), lease); err != nil {
			s.logger.Warn("Failed to release slot lease", zap.Error(err))
		}
	}()

	if err := s.slots.CheckOverlap(ctx, user.ID, request.ProviderID, request.StartTime); err != nil {
		return nil, err
	}

	appointment, err := s.requests.ConvertToAppointment(ctx, request)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Appointment request accepted",
		zap.String("request_uuid", id.String()),
		zap.String("appointment_uuid", appointment.UUID.String()),
		zap.Int64("provider_id", request.ProviderID),
	)

	s.notifyUser(ctx, request.ProviderID,
		"Confirmed Appointment",
		"You have accepted a new appointment! Please open the app to view it.")
	s.notifyUser(ctx, request.PatientID,
		"Confirmed Appointment",
		"Your provider has accepted one of your appointment requests. Please open the app to see your scheduled appointment.")

	return appointment, nil
}

// DeclineRequest deletes a pending request. Either side may decline; the
// patient is notified unless they declined their own request.
func (s *RequestService) DeclineRequest(ctx context.Context, user *model.User, id uuid.UUID) error {
	request, err := s.requests.GetByUUIDForUser(ctx, id, user.ID)
	if err != nil {
		return fmt.Errorf("get request: %w", err)
	}

	if request == nil {
		return apperr.NotFound("that appointment request does not exist")
	}

	if err := s.requests.Delete(ctx, request.ID); err != nil {
		return fmt.Errorf("delete request: %w", err)
	}

	s.logger.Info("Appointment request declined",
		zap.String("request_uuid", id.String()),
		zap.Int64("user_id", user.ID),
	)

	if request.PatientID != user.ID {
		s.notifyUser(ctx, request.PatientID,
			"Appointment Request Declined",
			"Your provider has declined your appointment request. Please open the app to request a different time.")
	}

	return nil
}

// MyRequests returns requests where the user is on either side, by start time.
func (s *RequestService) MyRequests(ctx context.Context, user *model.User) ([]*model.AppointmentRequest, error) {
	return s.requests.ListForUser(ctx, user.ID)
}

// PendingRequestCount counts requests where the user is on either side.
func (s *RequestService) PendingRequestCount(ctx context.Context, user *model.User) (int, error) {
	return s.requests.CountForUser(ctx, user.ID)
}

func (s *RequestService) notifyUser(ctx context.Context, userID int64, title, message string) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil || user == nil {
		s.logger.Warn("Failed to load notification recipient",
			zap.Int64("user_id", userID),
			zap.Error(err))
		return
	}

	s.notifier.NotifyAll(ctx, []*model.User{user}, title, message)
}
