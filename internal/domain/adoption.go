package domain

import "time"

// AdoptionStatus enumerates adoption application states.
type AdoptionStatus string

const (
	AdoptionStatusPending   AdoptionStatus = "pending"
	AdoptionStatusCompleted AdoptionStatus = "completed"
	AdoptionStatusCancelled AdoptionStatus = "cancelled"
)

// Adoption records a user taking an animal home.
type Adoption struct {
	ID         string
	UserID     string
	Name       string // the animal's name
	AnimalType string
	Status     AdoptionStatus
	CreatedAt  time.Time
}
