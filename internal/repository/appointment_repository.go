package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/pawsched/pawsched-api/internal/models"
)

const appointmentColumns = `id, pet_id, service_id, owner_id, appointment_date, package_type, status, special_notes, discount_applied, version, created_at, updated_at`

// AppointmentRepository provides persistence for appointments.
type AppointmentRepository struct {
	db *sqlx.DB
}

// NewAppointmentRepository creates a new appointment repository.
func NewAppointmentRepository(db *sqlx.DB) *AppointmentRepository {
	return &AppointmentRepository{db: db}
}

// FindByID loads an appointment by id.
func (r *AppointmentRepository) FindByID(ctx context.Context, id string) (*models.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE id = $1`
	var appt models.Appointment
	if err := r.db.GetContext(ctx, &appt, query, id); err != nil {
		return nil, err
	}
	return &appt, nil
}

// ListByPet returns appointments for a pet, most recent first.
func (r *AppointmentRepository) ListByPet(ctx context.Context, petID string) ([]models.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE pet_id = $1 ORDER BY appointment_date DESC`
	var appts []models.Appointment
	if err := r.db.SelectContext(ctx, &appts, query, petID); err != nil {
		return nil, fmt.Errorf("list appointments by pet: %w", err)
	}
	return appts, nil
}

// Create stores a new appointment record.
func (r *AppointmentRepository) Create(ctx context.Context, appt *models.Appointment) error {
	if appt.ID == "" {
		appt.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if appt.CreatedAt.IsZero() {
		appt.CreatedAt = now
	}
	appt.UpdatedAt = now
	appt.Version = 1

	const query = `INSERT INTO appointments (` + appointmentColumns + `) VALUES (:id, :pet_id, :service_id, :owner_id, :appointment_date, :package_type, :status, :special_notes, :discount_applied, :version, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, appt); err != nil {
		return fmt.Errorf("create appointment: %w", err)
	}
	return nil
}

// Mutate locks the appointment row, applies fn and persists the result in one
// transaction. An error from fn aborts the write and is returned as is.
func (r *AppointmentRepository) Mutate(ctx context.Context, id string, fn func(*models.Appointment) error) (*models.Appointment, error) {
	var out models.Appointment
	err := inTx(ctx, r.db, func(tx *sqlx.Tx) error {
		query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE id = $1 FOR UPDATE`
		if err := tx.GetContext(ctx, &out, query, id); err != nil {
			return err
		}
		if err := fn(&out); err != nil {
			return err
		}
		out.UpdatedAt = time.Now().UTC()

		const update = `UPDATE appointments SET appointment_date = :appointment_date, package_type = :package_type, status = :status, special_notes = :special_notes, discount_applied = :discount_applied, version = version + 1, updated_at = :updated_at WHERE id = :id AND version = :version`
		res, err := sqlx.NamedExecContext(ctx, tx, update, &out)
		if err != nil {
			return fmt.Errorf("update appointment: %w", err)
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
