package domain

import "time"

// UserRole enumerates supported roles.
type UserRole string

const (
	UserRoleUser  UserRole = "user"
	UserRoleAdmin UserRole = "admin"
)

// User represents an account within the platform.
type User struct {
	ID        string
	Email     string
	Name      string
	Picture   string // storage key for the avatar image
	Locale    string
	Role      UserRole
	CreatedAt time.Time
	UpdatedAt time.Time
}
