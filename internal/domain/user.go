package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is an authenticated actor: a staff member requesting records or an
// administrator deciding requests.
type User struct {
	ID           uuid.UUID
	Username     string
	Email        string
	PasswordHash string
	Department   *string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsAdmin reports whether the user may decide requests and manage records.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
