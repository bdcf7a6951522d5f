package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/pawsched/pawsched-api/internal/models"
)

// PetRepository reads the pet directory.
type PetRepository struct {
	db *sqlx.DB
}

// NewPetRepository creates a pet repository.
func NewPetRepository(db *sqlx.DB) *PetRepository {
	return &PetRepository{db: db}
}

// FindByID loads a pet, including soft-deleted ones.
func (r *PetRepository) FindByID(ctx context.Context, id string) (*models.Pet, error) {
	const query = `SELECT id, owner_id, name, species, deleted_at, created_at FROM pets WHERE id = $1`
	var pet models.Pet
	if err := r.db.GetContext(ctx, &pet, query, id); err != nil {
		return nil, err
	}
	return &pet, nil
}
