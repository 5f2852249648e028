package models

import "time"

// User roles. Managers and admins originate loans and record payments;
// clients only see their own loans.
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleClient  = "client"
)

// User represents a user in the system
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	IPN          string    `json:"ipn,omitempty"` // tax number, stored encrypted
	PasswordHash string    `json:"-"`             // Not serialized
	CreatedAt    time.Time `json:"created_at"`
}

// IsStaff reports whether the user may manage other users' loans.
func (u *User) IsStaff() bool {
	return u.Role == RoleAdmin || u.Role == RoleManager
}
