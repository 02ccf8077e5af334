package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/carelinkhq/telecare/internal/apperr"
	"github.com/carelinkhq/telecare/internal/model"
	"github.com/carelinkhq/telecare/internal/repository/base"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AppointmentRepository struct {
	pool *pgxpool.Pool
}

func NewAppointmentRepository(pool *pgxpool.Pool) *AppointmentRepository {
	return &AppointmentRepository{pool: pool}
}

const appointmentColumns = `id, uuid, patient_id, provider_id, start_time, end_time, video_session_id, canceled, explicitly_ended, created_at`

func scanAppointment(row interface{ Scan(...any) error }) (*model.Appointment, error) {
	var appointment model.Appointment
	err := row.Scan(
		&appointment.ID,
		&appointment.UUID,
		&appointment.PatientID,
		&appointment.ProviderID,
		&appointment.StartTime,
		&appointment.EndTime,
		&appointment.VideoSessionID,
		&appointment.Canceled,
		&appointment.ExplicitlyEnded,
		&appointment.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &appointment, nil
}

// Create inserts a confirmed appointment. A concurrent booking for the same
// provider and start time trips the partial unique index and surfaces as an
// overlap error.
func (r *AppointmentRepository) Create(ctx context.Context, appointment *model.Appointment) error {
	query := `
		INSERT INTO appointments (uuid, patient_id, provider_id, start_time, end_time)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	if appointment.UUID == uuid.Nil {
		appointment.UUID = uuid.New()
	}

	err := r.pool.QueryRow(
		ctx, query,
		appointment.UUID,
		appointment.PatientID,
		appointment.ProviderID,
		appointment.StartTime,
		appointment.EndTime,
	).Scan(&appointment.ID, &appointment.CreatedAt)

	if err != nil {
		if base.IsUniqueViolation(err, "uniq_provider_active_slot") {
			return apperr.Wrap(apperr.KindOverlap, "the appointment would overlap with another one", err)
		}
		return fmt.Errorf("create appointment: %w", err)
	}

	return nil
}

// GetByUUIDForUser returns the appointment when the user participates in
// it, or nil.
func (r *AppointmentRepository) GetByUUIDForUser(ctx context.Context, id uuid.UUID, userID int64) (*model.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE uuid = $1 AND (patient_id = $2 OR provider_id = $2)
	`

	appointment, err := scanAppointment(r.pool.QueryRow(ctx, query, id, userID))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get appointment by uuid: %w", err)
	}

	return appointment, nil
}

// ListActiveInvolving returns all non-canceled appointments where the user
// or the provider participates on either side, ordered by start time. This
// is the commitment set the slot engine filters candidate blocks against.
func (r *AppointmentRepository) ListActiveInvolving(ctx context.Context, userID, providerID int64) ([]*model.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE (patient_id = $1 OR provider_id = $1 OR provider_id = $2)
		  AND NOT canceled
		ORDER BY start_time
	`

	rows, err := r.pool.Query(ctx, query, userID, providerID)
	if err != nil {
		return nil, fmt.Errorf("list active appointments: %w", err)
	}
	defer rows.Close()

	var appointments []*model.Appointment
	for rows.Next() {
		appointment, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan appointment: %w", err)
		}
		appointments = append(appointments, appointment)
	}

	return appointments, rows.Err()
}

// ListActiveOverlapping returns non-canceled appointments of the user or the
// provider intersecting [start, end).
func (r *AppointmentRepository) ListActiveOverlapping(ctx context.Context, userID, providerID int64, start, end time.Time) ([]*model.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE (patient_id = $1 OR provider_id = $1 OR provider_id = $2)
		  AND NOT canceled
		  AND start_time < $4
		  AND end_time > $3
		ORDER BY start_time
	`

	rows, err := r.pool.Query(ctx, query, userID, providerID, start, end)
	if err != nil {
		return nil, fmt.Errorf("list overlapping appointments: %w", err)
	}
	defer rows.Close()

	var appointments []*model.Appointment
	for rows.Next() {
		appointment, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan appointment: %w", err)
		}
		appointments = append(appointments, appointment)
	}

	return appointments, rows.Err()
}

// ListUpcomingForUser returns the user's live appointments with both
// parties' names filled, ordered by start time. Appointments drop off the
// list once end_time passes the cutoff.
func (r *AppointmentRepository) ListUpcomingForUser(ctx context.Context, userID int64, endedAfter time.Time) ([]*model.Appointment, error) {
	query := `
		SELECT a.id, a.uuid, a.patient_id, a.provider_id, a.start_time, a.end_time,
		       a.video_session_id, a.canceled, a.explicitly_ended, a.created_at,
		       p.uuid, p.first_name, p.last_name,
		       pr.uuid, pr.first_name, pr.last_name
		FROM appointments a
		JOIN users p ON p.id = a.patient_id
		JOIN users pr ON pr.id = a.provider_id
		WHERE (a.patient_id = $1 OR a.provider_id = $1)
		  AND a.end_time > $2
		  AND NOT a.canceled
		  AND NOT a.explicitly_ended
		ORDER BY a.start_time
	`

	rows, err := r.pool.Query(ctx, query, userID, endedAfter)
	if err != nil {
		return nil, fmt.Errorf("list upcoming appointments: %w", err)
	}
	defer rows.Close()

	var appointments []*model.Appointment
	for rows.Next() {
		var (
			appointment model.Appointment
			patient     model.User
			provider    model.User
		)
		err := rows.Scan(
			&appointment.ID,
			&appointment.UUID,
			&appointment.PatientID,
			&appointment.ProviderID,
			&appointment.StartTime,
			&appointment.EndTime,
			&appointment.VideoSessionID,
			&appointment.Canceled,
			&appointment.ExplicitlyEnded,
			&appointment.CreatedAt,
			&patient.UUID,
			&patient.FirstName,
			&patient.LastName,
			&provider.UUID,
			&provider.FirstName,
			&provider.LastName,
		)
		if err != nil {
			return nil, fmt.Errorf("scan appointment: %w", err)
		}

		patient.ID = appointment.PatientID
		provider.ID = appointment.ProviderID
		appointment.Patient = &patient
		appointment.Provider = &provider

		appointments = append(appointments, &appointment)
	}

	return appointments, rows.Err()
}

// MarkCanceled flips the one-way canceled flag.
func (r *AppointmentRepository) MarkCanceled(ctx context.Context, id int64) error {
	query := `UPDATE appointments SET canceled = TRUE WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("mark appointment canceled: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("appointment not found")
	}

	return nil
}

// MarkEnded flips the one-way explicitly_ended flag.
func (r *AppointmentRepository) MarkEnded(ctx context.Context, id int64) error {
	query := `UPDATE appointments SET explicitly_ended = TRUE WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("mark appointment ended: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("appointment not found")
	}

	return nil
}

// SetVideoSession stores the video session id unless one is already set and
// returns the id that won.
func (r *AppointmentRepository) SetVideoSession(ctx context.Context, id int64, sessionID string) (string, error) {
	query := `
		UPDATE appointments
		SET video_session_id = COALESCE(video_session_id, $1)
		WHERE id = $2
		RETURNING video_session_id
	`

	var stored string
	if err := r.pool.QueryRow(ctx, query, sessionID, id).Scan(&stored); err != nil {
		return "", fmt.Errorf("set video session: %w", err)
	}

	return stored, nil
}
