package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/carelinkhq/telecare/internal/calendar"
	"github.com/carelinkhq/telecare/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ScheduleRepository struct {
	pool *pgxpool.Pool
}

func NewScheduleRepository(pool *pgxpool.Pool) *ScheduleRepository {
	return &ScheduleRepository{pool: pool}
}

// Create persists a new availability schedule.
func (r *ScheduleRepository) Create(ctx context.Context, schedule *model.AvailabilitySchedule) error {
	query := `
		INSERT INTO availability_schedules (uuid, provider_id, start_date, end_date, start_sec, end_sec, days_of_week)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`

	if schedule.UUID == uuid.Nil {
		schedule.UUID = uuid.New()
	}

	err := r.pool.QueryRow(
		ctx, query,
		schedule.UUID,
		schedule.ProviderID,
		schedule.StartDate,
		schedule.EndDate,
		int(schedule.StartTime),
		int(schedule.EndTime),
		int(schedule.DaysOfWeek),
	).Scan(&schedule.ID, &schedule.CreatedAt)

	if err != nil {
		return fmt.Errorf("create schedule: %w", err)
	}

	return nil
}

// GetByProviderID returns all schedules of a provider in insertion order.
func (r *ScheduleRepository) GetByProviderID(ctx context.Context, providerID int64) ([]*model.AvailabilitySchedule, error) {
	query := `
		SELECT id, uuid, provider_id, start_date, end_date, start_sec, end_sec, days_of_week, created_at
		FROM availability_schedules
		WHERE provider_id = $1
		ORDER BY id
	`

	rows, err := r.pool.Query(ctx, query, providerID)
	if err != nil {
		return nil, fmt.Errorf("get schedules by provider: %w", err)
	}
	defer rows.Close()

	var schedules []*model.AvailabilitySchedule
	for rows.Next() {
		var (
			schedule         model.AvailabilitySchedule
			startSec, endSec int
			daysOfWeek       int
			startDate        time.Time
			endDate          *time.Time
		)
		err := rows.Scan(
			&schedule.ID,
			&schedule.UUID,
			&schedule.ProviderID,
			&startDate,
			&endDate,
			&startSec,
			&endSec,
			&daysOfWeek,
			&schedule.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan schedule: %w", err)
		}

		schedule.StartDate = startDate.UTC()
		if endDate != nil {
			d := endDate.UTC()
			schedule.EndDate = &d
		}
		schedule.StartTime = calendar.TimeOfDay(startSec)
		schedule.EndTime = calendar.TimeOfDay(endSec)
		schedule.DaysOfWeek = calendar.DayOfWeek(daysOfWeek)

		schedules = append(schedules, &schedule)
	}

	return schedules, rows.Err()
}

// Delete removes a schedule owned by the provider. Returns false when no
// such schedule exists.
func (r *ScheduleRepository) Delete(ctx context.Context, providerID int64, id uuid.UUID) (bool, error) {
	query := `DELETE FROM availability_schedules WHERE uuid = $1 AND provider_id = $2`

	result, err := r.pool.Exec(ctx, query, id, providerID)
	if err != nil {
		return false, fmt.Errorf("delete schedule: %w", err)
	}

	return result.RowsAffected() > 0, nil
}
