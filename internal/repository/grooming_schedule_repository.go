package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/pawsched/pawsched-api/internal/models"
)

const groomingColumns = `id, appointment_id, pet_id, service_id, period, start_time, end_time, status, special_requests, notes, created_by, version, created_at, updated_at`

// GroomingScheduleRepository persists grooming schedules. appointment_id carries
// a unique index so at most one schedule exists per appointment.
type GroomingScheduleRepository struct {
	db *sqlx.DB
}

// NewGroomingScheduleRepository creates a grooming schedule repository.
func NewGroomingScheduleRepository(db *sqlx.DB) *GroomingScheduleRepository {
	return &GroomingScheduleRepository{db: db}
}

// FindByID loads a grooming schedule by id.
func (r *GroomingScheduleRepository) FindByID(ctx context.Context, id string) (*models.GroomingSchedule, error) {
	query := `SELECT ` + groomingColumns + ` FROM grooming_schedules WHERE id = $1`
	var sched models.GroomingSchedule
	if err := r.db.GetContext(ctx, &sched, query, id); err != nil {
		return nil, err
	}
	return &sched, nil
}

// FindByAppointment loads the grooming schedule derived from an appointment.
func (r *GroomingScheduleRepository) FindByAppointment(ctx context.Context, appointmentID string) (*models.GroomingSchedule, error) {
	query := `SELECT ` + groomingColumns + ` FROM grooming_schedules WHERE appointment_id = $1`
	var sched models.GroomingSchedule
	if err := r.db.GetContext(ctx, &sched, query, appointmentID); err != nil {
		return nil, err
	}
	return &sched, nil
}

// Create inserts a grooming schedule. A second schedule for the same
// appointment fails with ErrDuplicate.
func (r *GroomingScheduleRepository) Create(ctx context.Context, sched *models.GroomingSchedule) error {
	if sched.ID == "" {
		sched.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if sched.CreatedAt.IsZero() {
		sched.CreatedAt = now
	}
	sched.UpdatedAt = now
	sched.Version = 1

	const query = `INSERT INTO grooming_schedules (` + groomingColumns + `) VALUES (:id, :appointment_id, :pet_id, :service_id, :period, :start_time, :end_time, :status, :special_requests, :notes, :created_by, :version, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, sched); err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("create grooming schedule: %w", err)
	}
	return nil
}

// Mutate locks the schedule row, applies fn and persists the result.
func (r *GroomingScheduleRepository) Mutate(ctx context.Context, id string, fn func(*models.GroomingSchedule) error) (*models.GroomingSchedule, error) {
	var out models.GroomingSchedule
	err := inTx(ctx, r.db, func(tx *sqlx.Tx) error {
		query := `SELECT ` + groomingColumns + ` FROM grooming_schedules WHERE id = $1 FOR UPDATE`
		if err := tx.GetContext(ctx, &out, query, id); err != nil {
			return err
		}
		if err := fn(&out); err != nil {
			return err
		}
		out.UpdatedAt = time.Now().UTC()

		const update = `UPDATE grooming_schedules SET period = :period, start_time = :start_time, end_time = :end_time, status = :status, special_requests = :special_requests, notes = :notes, version = version + 1, updated_at = :updated_at WHERE id = :id AND version = :version`
		res, err := sqlx.NamedExecContext(ctx, tx, update, &out)
		if err != nil {
			return fmt.Errorf("update grooming schedule: %w", err)
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

// Delete removes a grooming schedule by id.
func (r *GroomingScheduleRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM grooming_schedules WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete grooming schedule: %w", err)
	}
	return nil
}
