package service

import (
	"context"
	"time"

	"github.com/carelinkhq/telecare/internal/apperr"
	"github.com/carelinkhq/telecare/internal/calendar"
	"github.com/carelinkhq/telecare/internal/locker"
	"github.com/carelinkhq/telecare/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// In-memory stand-ins for the pgx repositories, mirroring their observable
// behavior including the partial unique index on live provider slots.

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

type fakeUserStore struct {
	users map[int64]*model.User
}

func (f *fakeUserStore) GetByID(_ context.Context, id int64) (*model.User, error) {
	return f.users[id], nil
}

func (f *fakeUserStore) GetByUUID(_ context.Context, id uuid.UUID) (*model.User, error) {
	for _, user := range f.users {
		if user.UUID == id {
			return user, nil
		}
	}
	return nil, nil
}

func (f *fakeUserStore) ListProviders(_ context.Context) ([]*model.User, error) {
	var providers []*model.User
	for _, user := range f.users {
		if user.IsProvider() {
			providers = append(providers, user)
		}
	}
	return providers, nil
}

func (f *fakeUserStore) SetProvider(_ context.Context, userID, providerID int64) error {
	user, ok := f.users[userID]
	if !ok {
		return apperr.NotFound("user not found")
	}
	user.ProviderID = &providerID
	return nil
}

type fakeScheduleStore struct {
	schedules []*model.AvailabilitySchedule
	nextID    int64
}

func (f *fakeScheduleStore) Create(_ context.Context, schedule *model.AvailabilitySchedule) error {
	f.nextID++
	schedule.ID = f.nextID
	if schedule.UUID == uuid.Nil {
		schedule.UUID = uuid.New()
	}
	f.schedules = append(f.schedules, schedule)
	return nil
}

func (f *fakeScheduleStore) GetByProviderID(_ context.Context, providerID int64) ([]*model.AvailabilitySchedule, error) {
	var out []*model.AvailabilitySchedule
	for _, schedule := range f.schedules {
		if schedule.ProviderID == providerID {
			out = append(out, schedule)
		}
	}
	return out, nil
}

func (f *fakeScheduleStore) Delete(_ context.Context, providerID int64, id uuid.UUID) (bool, error) {
	for i, schedule := range f.schedules {
		if schedule.UUID == id && schedule.ProviderID == providerID {
			f.schedules = append(f.schedules[:i], f.schedules[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

type fakeAppointmentStore struct {
	appointments []*model.Appointment
	nextID       int64
}

func (f *fakeAppointmentStore) Create(_ context.Context, appointment *model.Appointment) error {
	// Mirrors the uniq_provider_active_slot index.
	for _, existing := range f.appointments {
		if !existing.Canceled && existing.ProviderID == appointment.ProviderID && existing.StartTime.Equal(appointment.StartTime) {
			return apperr.Overlap("the appointment would overlap with another one")
		}
	}

	f.nextID++
	appointment.ID = f.nextID
	if appointment.UUID == uuid.Nil {
		appointment.UUID = uuid.New()
	}
	f.appointments = append(f.appointments, appointment)
	return nil
}

func (f *fakeAppointmentStore) GetByUUIDForUser(_ context.Context, id uuid.UUID, userID int64) (*model.Appointment, error) {
	for _, appointment := range f.appointments {
		if appointment.UUID == id && appointment.HasParticipant(userID) {
			return appointment, nil
		}
	}
	return nil, nil
}

func (f *fakeAppointmentStore) ListActiveInvolving(_ context.Context, userID, providerID int64) ([]*model.Appointment, error) {
	var out []*model.Appointment
	for _, appointment := range f.appointments {
		if appointment.Canceled {
			continue
		}
		if appointment.PatientID == userID || appointment.ProviderID == userID || appointment.ProviderID == providerID {
			out = append(out, appointment)
		}
	}
	return out, nil
}

func (f *fakeAppointmentStore) ListActiveOverlapping(_ context.Context, userID, providerID int64, start, end time.Time) ([]*model.Appointment, error) {
	var out []*model.Appointment
	for _, appointment := range f.appointments {
		if appointment.Canceled {
			continue
		}
		if appointment.PatientID != userID && appointment.ProviderID != userID && appointment.ProviderID != providerID {
			continue
		}
		if calendar.RangesOverlap(appointment.StartTime, appointment.EndTime, start, end) {
			out = append(out, appointment)
		}
	}
	return out, nil
}

func (f *fakeAppointmentStore) ListUpcomingForUser(_ context.Context, userID int64, endedAfter time.Time) ([]*model.Appointment, error) {
	var out []*model.Appointment
	for _, appointment := range f.appointments {
		if appointment.Canceled || appointment.ExplicitlyEnded {
			continue
		}
		if !appointment.HasParticipant(userID) {
			continue
		}
		if appointment.EndTime.After(endedAfter) {
			out = append(out, appointment)
		}
	}
	return out, nil
}

func (f *fakeAppointmentStore) MarkCanceled(_ context.Context, id int64) error {
	for _, appointment := range f.appointments {
		if appointment.ID == id {
			appointment.Canceled = true
			return nil
		}
	}
	return apperr.NotFound("appointment not found")
}

func (f *fakeAppointmentStore) MarkEnded(_ context.Context, id int64) error {
	for _, appointment := range f.appointments {
		if appointment.ID == id {
			appointment.ExplicitlyEnded = true
			return nil
		}
	}
	return apperr.NotFound("appointment not found")
}

func (f *fakeAppointmentStore) SetVideoSession(_ context.Context, id int64, sessionID string) (string, error) {
	for _, appointment := range f.appointments {
		if appointment.ID == id {
			if appointment.VideoSessionID == nil {
				appointment.VideoSessionID = &sessionID
			}
			return *appointment.VideoSessionID, nil
		}
	}
	return "", apperr.NotFound("appointment not found")
}

type fakeRequestStore struct {
	requests     []*model.AppointmentRequest
	appointments *fakeAppointmentStore
	nextID       int64
}

func (f *fakeRequestStore) Create(_ context.Context, request *model.AppointmentRequest) error {
	f.nextID++
	request.ID = f.nextID
	if request.UUID == uuid.Nil {
		request.UUID = uuid.New()
	}
	f.requests = append(f.requests, request)
	return nil
}

func (f *fakeRequestStore) GetByUUIDForUser(_ context.Context, id uuid.UUID, userID int64) (*model.AppointmentRequest, error) {
	for _, request := range f.requests {
		if request.UUID == id && request.HasParticipant(userID) {
			return request, nil
		}
	}
	return nil, nil
}

func (f *fakeRequestStore) ListForUser(_ context.Context, userID int64) ([]*model.AppointmentRequest, error) {
	var out []*model.AppointmentRequest
	for _, request := range f.requests {
		if request.HasParticipant(userID) {
			out = append(out, request)
		}
	}
	return out, nil
}

func (f *fakeRequestStore) CountForUser(_ context.Context, userID int64) (int, error) {
	count := 0
	for _, request := range f.requests {
		if request.HasParticipant(userID) {
			count++
		}
	}
	return count, nil
}

func (f *fakeRequestStore) Delete(_ context.Context, id int64) error {
	for i, request := range f.requests {
		if request.ID == id {
			f.requests = append(f.requests[:i], f.requests[i+1:]...)
			return nil
		}
	}
	return apperr.NotFound("request not found")
}

// ConvertToAppointment mimics the transactional delete+insert: when the
// insert fails, the request stays.
func (f *fakeRequestStore) ConvertToAppointment(ctx context.Context, request *model.AppointmentRequest) (*model.Appointment, error) {
	found := false
	for _, existing := range f.requests {
		if existing.ID == request.ID {
			found = true
			break
		}
	}
	if !found {
		return nil, apperr.NotFound("that appointment request does not exist")
	}

	appointment := &model.Appointment{
		PatientID:  request.PatientID,
		ProviderID: request.ProviderID,
		StartTime:  request.StartTime,
		EndTime:    request.EndTime,
	}

	if err := f.appointments.Create(ctx, appointment); err != nil {
		return nil, err
	}

	_ = f.Delete(ctx, request.ID)
	return appointment, nil
}

type sentNotification struct {
	userIDs []int64
	title   string
	message string
}

type fakeNotifier struct {
	sent []sentNotification
}

func (f *fakeNotifier) NotifyAll(_ context.Context, users []*model.User, title, message string) {
	note := sentNotification{title: title, message: message}
	for _, user := range users {
		note.userIDs = append(note.userIDs, user.ID)
	}
	f.sent = append(f.sent, note)
}

// env bundles the fakes and services for a test case.
type env struct {
	clock        *fakeClock
	users        *fakeUserStore
	schedules    *fakeScheduleStore
	appointments *fakeAppointmentStore
	requests     *fakeRequestStore
	notifier     *fakeNotifier

	availability *AvailabilityService
	slots        *SlotService
	bookings     *AppointmentService
	reqs         *RequestService
	video        *VideoService
}

const testBlock = 30 * time.Minute

func newEnv(now time.Time) *env {
	logger := zap.NewNop()
	clock := &fakeClock{now: now}

	users := &fakeUserStore{users: make(map[int64]*model.User)}
	schedules := &fakeScheduleStore{}
	appointments := &fakeAppointmentStore{}
	requests := &fakeRequestStore{appointments: appointments}
	notifier := &fakeNotifier{}

	slots := NewSlotService(schedules, appointments, clock, testBlock, 7, logger)

	return &env{
		clock:        clock,
		users:        users,
		schedules:    schedules,
		appointments: appointments,
		requests:     requests,
		notifier:     notifier,
		availability: NewAvailabilityService(users, schedules, clock, logger),
		slots:        slots,
		bookings:     NewAppointmentService(users, schedules, appointments, slots, locker.Noop{}, notifier, clock, logger),
		reqs:         NewRequestService(users, schedules, requests, slots, locker.Noop{}, notifier, clock, logger),
		video:        NewVideoService(appointments, clock, "test-secret", logger),
	}
}

func (e *env) addUser(id int64, accountType string, providerID *int64) *model.User {
	user := &model.User{
		ID:          id,
		UUID:        uuid.New(),
		Email:       uuid.NewString() + "@example.org",
		AccountType: accountType,
		ProviderID:  providerID,
	}
	e.users.users[id] = user
	return user
}
