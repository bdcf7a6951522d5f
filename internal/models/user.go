package models

// UserRole represents the roles carried by verified identities.
type UserRole string

const (
	RoleOwner    UserRole = "OWNER"
	RoleProvider UserRole = "PROVIDER"
)

// Actor is the authenticated caller of a core operation.
type Actor struct {
	UserID string   `json:"user_id"`
	Role   UserRole `json:"role"`
}

// Is reports whether the actor holds one of the given roles.
func (a Actor) Is(roles ...UserRole) bool {
	for _, r := range roles {
		if a.Role == r {
			return true
		}
	}
	return false
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
