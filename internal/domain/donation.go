package domain

import "time"

// DonationStatus enumerates payment states reported by the payment collaborator.
type DonationStatus string

const (
	DonationStatusPending   DonationStatus = "pending"
	DonationStatusCompleted DonationStatus = "completed"
	DonationStatusFailed    DonationStatus = "failed"
	DonationStatusRefunded  DonationStatus = "refunded"
)

// Donation represents a supporter contribution. CaseID is nil for
// general platform donations. The record always keeps the donor id;
// Anonymous only controls whether identity is exposed on case feeds.
type Donation struct {
	ID        string
	UserID    string
	CaseID    *string
	AmountInt int64 // minor currency units
	Currency  string
	Status    DonationStatus
	Anonymous bool
	Country   string // ISO country code, best effort
	CreatedAt time.Time
}
