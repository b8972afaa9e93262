package domain

import "time"

// Achievement is a badge unlocked by a user.
type Achievement struct {
	ID         string
	UserID     string
	Type       string
	UnlockedAt time.Time
}
