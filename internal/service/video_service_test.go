package service

import (
	"context"
	"testing"
	"time"

	"github.com/carelinkhq/telecare/internal/apperr"
	"github.com/carelinkhq/telecare/internal/calendar"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJoinToken(t *testing.T) {
	e := newEnv(instant(2026, time.January, 4, 12, 0))
	provider := e.addUser(1, "p", nil)
	patient := e.addUser(2, "u", &provider.ID)

	addSchedule(e, provider.ID, calendar.NewTimeOfDay(9, 0, 0), calendar.NewTimeOfDay(11, 0, 0), calendar.Monday)

	appointment, err := e.bookings.Book(context.Background(), patient, instant(2026, time.January, 5, 9, 30))
	require.NoError(t, err)

	e.clock.now = instant(2026, time.January, 5, 9, 30)

	sessionID, token, err := e.video.JoinToken(context.Background(), patient, appointment.UUID)
	require.NoError(t, err)
	assert.NotEmpty(t, sessionID)

	parsed, err := jwt.Parse(token, func(*jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	claims := parsed.Claims.(jwt.MapClaims)
	assert.Equal(t, patient.UUID.String(), claims["sub"])
	assert.Equal(t, sessionID, claims["session"])
}

// Both participants must land in the same session regardless of join order.
func TestJoinTokenSharedSession(t *testing.T) {
	e := newEnv(instant(2026, time.January, 4, 12, 0))
	provider := e.addUser(1, "p", nil)
	patient := e.addUser(2, "u", &provider.ID)

	addSchedule(e, provider.ID, calendar.NewTimeOfDay(9, 0, 0), calendar.NewTimeOfDay(11, 0, 0), calendar.Monday)

	appointment, err := e.bookings.Book(context.Background(), patient, instant(2026, time.January, 5, 9, 30))
	require.NoError(t, err)

	e.clock.now = instant(2026, time.January, 5, 9, 30)

	first, _, err := e.video.JoinToken(context.Background(), patient, appointment.UUID)
	require.NoError(t, err)
	second, _, err := e.video.JoinToken(context.Background(), provider, appointment.UUID)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestJoinTokenAfterSessionEnded(t *testing.T) {
	e := newEnv(instant(2026, time.January, 4, 12, 0))
	provider := e.addUser(1, "p", nil)
	patient := e.addUser(2, "u", &provider.ID)

	addSchedule(e, provider.ID, calendar.NewTimeOfDay(9, 0, 0), calendar.NewTimeOfDay(11, 0, 0), calendar.Monday)

	appointment, err := e.bookings.Book(context.Background(), patient, instant(2026, time.January, 5, 9, 30))
	require.NoError(t, err)

	// Ends at 10:00; joining stays possible for another five minutes.
	e.clock.now = instant(2026, time.January, 5, 10, 4)
	_, _, err = e.video.JoinToken(context.Background(), patient, appointment.UUID)
	assert.NoError(t, err)

	e.clock.now = instant(2026, time.January, 5, 10, 5)
	_, _, err = e.video.JoinToken(context.Background(), patient, appointment.UUID)
	assert.ErrorIs(t, err, apperr.ErrAlreadyStarted)
}

func TestJoinTokenNonParticipant(t *testing.T) {
	e := newEnv(instant(2026, time.January, 4, 12, 0))
	provider := e.addUser(1, "p", nil)
	patient := e.addUser(2, "u", &provider.ID)
	stranger := e.addUser(3, "u", &provider.ID)

	addSchedule(e, provider.ID, calendar.NewTimeOfDay(9, 0, 0), calendar.NewTimeOfDay(11, 0, 0), calendar.Monday)

	appointment, err := e.bookings.Book(context.Background(), patient, instant(2026, time.January, 5, 9, 30))
	require.NoError(t, err)

	_, _, err = e.video.JoinToken(context.Background(), stranger, appointment.UUID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, _, err = e.video.JoinToken(context.Background(), patient, uuid.New())
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
