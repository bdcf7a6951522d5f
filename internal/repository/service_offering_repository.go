package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/pawsched/pawsched-api/internal/models"
)

const serviceOfferingColumns = `id, provider_id, name, category, packages, available, created_at, updated_at`

// ServiceOfferingRepository persists provider service offerings and their package tiers.
type ServiceOfferingRepository struct {
	db *sqlx.DB
}

// NewServiceOfferingRepository builds repository.
func NewServiceOfferingRepository(db *sqlx.DB) *ServiceOfferingRepository {
	return &ServiceOfferingRepository{db: db}
}

// FindByID loads a service offering by id.
func (r *ServiceOfferingRepository) FindByID(ctx context.Context, id string) (*models.ServiceOffering, error) {
	query := `SELECT ` + serviceOfferingColumns + ` FROM service_offerings WHERE id = $1`
	var svc models.ServiceOffering
	if err := r.db.GetContext(ctx, &svc, query, id); err != nil {
		return nil, err
	}
	return &svc, nil
}

// Create stores a new service offering.
func (r *ServiceOfferingRepository) Create(ctx context.Context, svc *models.ServiceOffering) error {
	if svc.ID == "" {
		svc.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if svc.CreatedAt.IsZero() {
		svc.CreatedAt = now
	}
	svc.UpdatedAt = now

	const query = `INSERT INTO service_offerings (` + serviceOfferingColumns + `) VALUES (:id, :provider_id, :name, :category, :packages, :available, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, svc); err != nil {
		return fmt.Errorf("create service offering: %w", err)
	}
	return nil
}

// UpdatePackages replaces the package tiers of an offering.
func (r *ServiceOfferingRepository) UpdatePackages(ctx context.Context, id string, packages models.PackageSet) error {
	res, err := r.db.ExecContext(ctx, `UPDATE service_offerings SET packages = $1, updated_at = $2 WHERE id = $3`, packages, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("update service packages: %w", err)
	}
	return checkAffected(res)
}

// SetAvailability toggles whether the offering can be booked.
func (r *ServiceOfferingRepository) SetAvailability(ctx context.Context, id string, available bool) error {
	res, err := r.db.ExecContext(ctx, `UPDATE service_offerings SET available = $1, updated_at = $2 WHERE id = $3`, available, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("update service availability: %w", err)
	}
	return checkAffected(res)
}
