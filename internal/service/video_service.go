package service

import (
	"context"
	"fmt"
	"time"

	"github.com/carelinkhq/telecare/internal/apperr"
	"github.com/carelinkhq/telecare/internal/model"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// joinGracePeriod is how long after the scheduled end a participant may
// still obtain a join token.
const joinGracePeriod = 5 * time.Minute

// VideoService issues per-appointment video session identifiers and signed
// join tokens. The session id is assigned lazily on first join and persisted
// so both parties land in the same session.
type VideoService struct {
	appointments AppointmentStore
	clock        Clock
	secret       []byte
	logger       *zap.Logger
}

func NewVideoService(appointments AppointmentStore, clock Clock, secret string, logger *zap.Logger) *VideoService {
	return &VideoService{
		appointments: appointments,
		clock:        clock,
		secret:       []byte(secret),
		logger:       logger,
	}
}

// JoinToken returns the appointment's session id and a signed token letting
// the participant join it. Tokens expire five minutes past the scheduled
// end, after which the session can no longer be joined at all.
func (s *VideoService) JoinToken(ctx context.Context, user *model.User, id uuid.UUID) (sessionID, token string, err error) {
	appointment, err := s.appointments.GetByUUIDForUser(ctx, id, user.ID)
	if err != nil {
		return "", "", fmt.Errorf("get appointment: %w", err)
	}

	if appointment == nil {
		return "", "", apperr.NotFound("that appointment does not exist")
	}

	latest := appointment.EndTime.Add(joinGracePeriod)
	if !s.clock.Now().UTC().Before(latest) {
		return "", "", apperr.New(apperr.KindAlreadyStarted, "that appointment has already ended")
	}

	if appointment.VideoSessionID != nil {
		sessionID = *appointment.VideoSessionID
	} else {
		// COALESCE in the store keeps the first writer's id if two
		// participants join at once.
		sessionID, err = s.appointments.SetVideoSession(ctx, appointment.ID, uuid.NewString())
		if err != nil {
			return "", "", fmt.Errorf("assign video session: %w", err)
		}

		s.logger.Info("Video session assigned",
			zap.String("appointment_uuid", id.String()),
			zap.String("session_id", sessionID),
		)
	}

	claims := jwt.MapClaims{
		"sub":     user.UUID.String(),
		"session": sessionID,
		"exp":     latest.Unix(),
	}

	token, err = jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", "", fmt.Errorf("sign session token: %w", err)
	}

	return sessionID, token, nil
}
