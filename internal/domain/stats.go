package domain

import "context"

// StatsSummary is the public platform counters block.
type StatsSummary struct {
	TotalCases         int64
	ClosedCases        int64
	CompletedDonations int64
	DonatedTotal       int64
	CompletedAdoptions int64
	DonationsLast24h   int64
}

// StatsRepository computes platform-wide counters.
type StatsRepository interface {
	Summary(ctx context.Context) (*StatsSummary, error)
}
