package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/pawsched/pawsched-api/internal/models"
)

const boardingColumns = `id, appointment_id, pet_id, service_id, duration_code, start_time, end_time, utc_offset_minutes, status, confirmed_days, created_by, version, created_at, updated_at`

// BoardingScheduleRepository persists boarding stays.
type BoardingScheduleRepository struct {
	db *sqlx.DB
}

// NewBoardingScheduleRepository creates a boarding schedule repository.
func NewBoardingScheduleRepository(db *sqlx.DB) *BoardingScheduleRepository {
	return &BoardingScheduleRepository{db: db}
}

// FindByID loads a boarding schedule by id.
func (r *BoardingScheduleRepository) FindByID(ctx context.Context, id string) (*models.BoardingSchedule, error) {
	query := `SELECT ` + boardingColumns + ` FROM boarding_schedules WHERE id = $1`
	var sched models.BoardingSchedule
	if err := r.db.GetContext(ctx, &sched, query, id); err != nil {
		return nil, err
	}
	return &sched, nil
}

// Create inserts a boarding schedule.
func (r *BoardingScheduleRepository) Create(ctx context.Context, sched *models.BoardingSchedule) error {
	if sched.ID == "" {
		sched.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if sched.CreatedAt.IsZero() {
		sched.CreatedAt = now
	}
	sched.UpdatedAt = now
	sched.Version = 1
	if sched.ConfirmedDays == nil {
		sched.ConfirmedDays = []string{}
	}

	const query = `INSERT INTO boarding_schedules (` + boardingColumns + `) VALUES (:id, :appointment_id, :pet_id, :service_id, :duration_code, :start_time, :end_time, :utc_offset_minutes, :status, :confirmed_days, :created_by, :version, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, sched); err != nil {
		return fmt.Errorf("create boarding schedule: %w", err)
	}
	return nil
}

// Mutate locks the stay row, applies fn and persists the result. Concurrent
// toggles on the same stay are serialized by the row lock.
func (r *BoardingScheduleRepository) Mutate(ctx context.Context, id string, fn func(*models.BoardingSchedule) error) (*models.BoardingSchedule, error) {
	var out models.BoardingSchedule
	err := inTx(ctx, r.db, func(tx *sqlx.Tx) error {
		query := `SELECT ` + boardingColumns + ` FROM boarding_schedules WHERE id = $1 FOR UPDATE`
		if err := tx.GetContext(ctx, &out, query, id); err != nil {
			return err
		}
		if err := fn(&out); err != nil {
			return err
		}
		out.UpdatedAt = time.Now().UTC()

		const update = `UPDATE boarding_schedules SET duration_code = :duration_code, start_time = :start_time, end_time = :end_time, utc_offset_minutes = :utc_offset_minutes, status = :status, confirmed_days = :confirmed_days, version = version + 1, updated_at = :updated_at WHERE id = :id AND version = :version`
		res, err := sqlx.NamedExecContext(ctx, tx, update, &out)
		if err != nil {
			return fmt.Errorf("update boarding schedule: %w", err)
		}
		if err := checkAffected(res); err != nil {
			return err
		}
		out.Version++
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes a boarding schedule by id.
func (r *BoardingScheduleRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM boarding_schedules WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete boarding schedule: %w", err)
	}
	return nil
}
