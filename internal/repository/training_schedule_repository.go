package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/pawsched/pawsched-api/internal/models"
)

const trainingColumns = `id, appointment_id, pet_id, service_id, week_start_date, day_plan_count, schedule, comments, created_by, version, created_at, updated_at`

// TrainingScheduleRepository persists weekly training plans; the day plans are a JSONB column.
type TrainingScheduleRepository struct {
	db *sqlx.DB
}

// NewTrainingScheduleRepository creates a training schedule repository.
func NewTrainingScheduleRepository(db *sqlx.DB) *TrainingScheduleRepository {
	return &TrainingScheduleRepository{db: db}
}

// FindByID loads a training schedule by id.
func (r *TrainingScheduleRepository) FindByID(ctx context.Context, id string) (*models.TrainingSchedule, error) {
	query := `SELECT ` + trainingColumns + ` FROM training_schedules WHERE id = $1`
	var sched models.TrainingSchedule
	if err := r.db.GetContext(ctx, &sched, query, id); err != nil {
		return nil, err
	}
	return &sched, nil
}

// Create inserts a training schedule.
func (r *TrainingScheduleRepository) Create(ctx context.Context, sched *models.TrainingSchedule) error {
	if sched.ID == "" {
		sched.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if sched.CreatedAt.IsZero() {
		sched.CreatedAt = now
	}
	sched.UpdatedAt = now
	sched.Version = 1

	const query = `INSERT INTO training_schedules (` + trainingColumns + `) VALUES (:id, :appointment_id, :pet_id, :service_id, :week_start_date, :day_plan_count, :schedule, :comments, :created_by, :version, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, sched); err != nil {
		return fmt.Errorf("create training schedule: %w", err)
	}
	return nil
}

// Mutate locks the plan row, applies fn and persists the result.
func (r *TrainingScheduleRepository) Mutate(ctx context.Context, id string, fn func(*models.TrainingSchedule) error) (*models.TrainingSchedule, error) {
	var out models.TrainingSchedule
	err := inTx(ctx, r.db, func(tx *sqlx.Tx) error {
		query := `SELECT ` + trainingColumns + ` FROM training_schedules WHERE id = $1 FOR UPDATE`
		if err := tx.GetContext(ctx, &out, query, id); err != nil {
			return err
		}
		if err := fn(&out); err != nil {
			return err
		}
		out.UpdatedAt = time.Now().UTC()

		const update = `UPDATE training_schedules SET week_start_date = :week_start_date, day_plan_count = :day_plan_count, schedule = :schedule, comments = :comments, version = version + 1, updated_at = :updated_at WHERE id = :id AND version = :version`
		res, err := sqlx.NamedExecContext(ctx, tx, update, &out)
		if err != nil {
			return fmt.Errorf("update training schedule: %w", err)
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

// Delete removes a training schedule by id.
func (r *TrainingScheduleRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM training_schedules WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete training schedule: %w", err)
	}
	return nil
}
