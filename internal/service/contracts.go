package service

import (
	"context"
	"time"

	"github.com/carelinkhq/telecare/internal/model"
	"github.com/google/uuid"
)

// Storage interfaces implemented by the pgx repositories. Services depend on
// these so the core logic can be exercised against in-memory fakes.

type UserStore interface {
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByUUID(ctx context.Context, id uuid.UUID) (*model.User, error)
	ListProviders(ctx context.Context) ([]*model.User, error)
	SetProvider(ctx context.Context, userID, providerID int64) error
}

type ScheduleStore interface {
	Create(ctx context.Context, schedule *model.AvailabilitySchedule) error
	GetByProviderID(ctx context.Context, providerID int64) ([]*model.AvailabilitySchedule, error)
	Delete(ctx context.Context, providerID int64, id uuid.UUID) (bool, error)
}

type AppointmentStore interface {
	Create(ctx context.Context, appointment *model.Appointment) error
	GetByUUIDForUser(ctx context.Context, id uuid.UUID, userID int64) (*model.Appointment, error)
	ListActiveInvolving(ctx context.Context, userID, providerID int64) ([]*model.Appointment, error)
	ListActiveOverlapping(ctx context.Context, userID, providerID int64, start, end time.Time) ([]*model.Appointment, error)
	ListUpcomingForUser(ctx context.Context, userID int64, endedAfter time.Time) ([]*model.Appointment, error)
	MarkCanceled(ctx context.Context, id int64) error
	MarkEnded(ctx context.Context, id int64) error
	SetVideoSession(ctx context.Context, id int64, sessionID string) (string, error)
}

type RequestStore interface {
	Create(ctx context.Context, request *model.AppointmentRequest) error
	GetByUUIDForUser(ctx context.Context, id uuid.UUID, userID int64) (*model.AppointmentRequest, error)
	ListForUser(ctx context.Context, userID int64) ([]*model.AppointmentRequest, error)
	CountForUser(ctx context.Context, userID int64) (int, error)
	Delete(ctx context.Context, id int64) error
	ConvertToAppointment(ctx context.Context, request *model.AppointmentRequest) (*model.Appointment, error)
}

// Clock supplies the current instant. Injected so the future-only filters
// and cancellation windows are deterministic under test.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

func SystemClock() Clock { return systemClock{} }
