package repository

import (
	"context"
	"fmt"

	"github.com/carelinkhq/telecare/internal/apperr"
	"github.com/carelinkhq/telecare/internal/model"
	"github.com/carelinkhq/telecare/internal/repository/base"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type RequestRepository struct {
	pool *pgxpool.Pool
}

func NewRequestRepository(pool *pgxpool.Pool) *RequestRepository {
	return &RequestRepository{pool: pool}
}

// Create persists a new appointment request.
func (r *RequestRepository) Create(ctx context.Context, request *model.AppointmentRequest) error {
	query := `
		INSERT INTO appointment_requests (uuid, patient_id, provider_id, start_time, end_time)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	if request.UUID == uuid.Nil {
		request.UUID = uuid.New()
	}

	err := r.pool.QueryRow(
		ctx, query,
		request.UUID,
		request.PatientID,
		request.ProviderID,
		request.StartTime,
		request.EndTime,
	).Scan(&request.ID, &request.CreatedAt)

	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	return nil
}

// GetByUUIDForUser returns the request when the user participates in it, or nil.
func (r *RequestRepository) GetByUUIDForUser(ctx context.Context, id uuid.UUID, userID int64) (*model.AppointmentRequest, error) {
	query := `
		SELECT id, uuid, patient_id, provider_id, start_time, end_time, created_at
		FROM appointment_requests
		WHERE uuid = $1 AND (patient_id = $2 OR provider_id = $2)
	`

	var request model.AppointmentRequest
	err := r.pool.QueryRow(ctx, query, id, userID).Scan(
		&request.ID,
		&request.UUID,
		&request.PatientID,
		&request.ProviderID,
		&request.StartTime,
		&request.EndTime,
		&request.CreatedAt,
	)

	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get request by uuid: %w", err)
	}

	return &request, nil
}

// ListForUser returns requests where the user is on either side, with both
// parties' names filled, ordered by start time.
func (r *RequestRepository) ListForUser(ctx context.Context, userID int64) ([]*model.AppointmentRequest, error) {
	query := `
		SELECT rq.id, rq.uuid, rq.patient_id, rq.provider_id, rq.start_time, rq.end_time, rq.created_at,
		       p.uuid, p.first_name, p.last_name,
		       pr.uuid, pr.first_name, pr.last_name
		FROM appointment_requests rq
		JOIN users p ON p.id = rq.patient_id
		JOIN users pr ON pr.id = rq.provider_id
		WHERE rq.patient_id = $1 OR rq.provider_id = $1
		ORDER BY rq.start_time
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list requests: %w", err)
	}
	defer rows.Close()

	var requests []*model.AppointmentRequest
	for rows.Next() {
		var (
			request  model.AppointmentRequest
			patient  model.User
			provider model.User
		)
		err := rows.Scan(
			&request.ID,
			&request.UUID,
			&request.PatientID,
			&request.ProviderID,
			&request.StartTime,
			&request.EndTime,
			&request.CreatedAt,
			&patient.UUID,
			&patient.FirstName,
			&patient.LastName,
			&provider.UUID,
			&provider.FirstName,
			&provider.LastName,
		)
		if err != nil {
			return nil, fmt.Errorf("scan request: %w", err)
		}

		patient.ID = request.PatientID
		provider.ID = request.ProviderID
		request.Patient = &patient
		request.Provider = &provider

		requests = append(requests, &request)
	}

	return requests, rows.Err()
}

// CountForUser counts pending requests where the user is on either side.
func (r *RequestRepository) CountForUser(ctx context.Context, userID int64) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM appointment_requests
		WHERE patient_id = $1 OR provider_id = $1
	`

	var count int
	if err := r.pool.QueryRow(ctx, query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count requests: %w", err)
	}

	return count, nil
}

// Delete removes a request unconditionally.
func (r *RequestRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM appointment_requests WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete request: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("request not found")
	}

	return nil
}

// ConvertToAppointment deletes the request and inserts the appointment it
// proposed in a single transaction, so a concurrent decline or conflicting
// booking can never leave both alive. A delete that affects no rows means
// the request was already resolved elsewhere.
func (r *RequestRepository) ConvertToAppointment(ctx context.Context, request *model.AppointmentRequest) (*model.Appointment, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	result, err := tx.Exec(ctx, `DELETE FROM appointment_requests WHERE id = $1`, request.ID)
	if err != nil {
		return nil, fmt.Errorf("delete request: %w", err)
	}
	if result.RowsAffected() == 0 {
		return nil, apperr.NotFound("that appointment request does not exist")
	}

	appointment := &model.Appointment{
		UUID:       uuid.New(),
		PatientID:  request.PatientID,
		ProviderID: request.ProviderID,
		StartTime:  request.StartTime,
		EndTime:    request.EndTime,
	}

	err = tx.QueryRow(
		ctx,
		`INSERT INTO appointments (uuid, patient_id, provider_id, start_time, end_time)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		appointment.UUID,
		appointment.PatientID,
		appointment.ProviderID,
		appointment.StartTime,
		appointment.EndTime,
	).Scan(&appointment.ID, &appointment.CreatedAt)

	if err != nil {
		if base.IsUniqueViolation(err, "uniq_provider_active_slot") {
			return nil, apperr.Wrap(apperr.KindOverlap, "the appointment would overlap with an existing one", err)
		}
		return nil, fmt.Errorf("create appointment: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	return appointment, nil
}
