package models

import "time"

// Pet is a directory record owned by a pet owner.
type Pet struct {
	ID        string     `db:"id" json:"id"`
	OwnerID   string     `db:"owner_id" json:"owner_id"`
	Name      string     `db:"name" json:"name"`
	Species   string     `db:"species" json:"species"`
	DeletedAt *time.Time `db:"deleted_at" json:"deleted_at,omitempty"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
}

// Deleted reports whether the pet was soft-deleted.
func (p *Pet) Deleted() bool {
	return p != nil && p.DeletedAt != nil
}
