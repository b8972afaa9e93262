package repo

import (
	"context"

	"rescuefeed/internal/domain"
	"rescuefeed/internal/infra"
	"rescuefeed/internal/sqlinline"
)

// StatsRepositoryPG implements domain.StatsRepository using PostgreSQL.
type StatsRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewStatsRepository creates a new stats repo.
func NewStatsRepository(sql infra.SQLExecutor) *StatsRepositoryPG {
	return &StatsRepositoryPG{sql: sql}
}

// Summary computes platform counters in one round trip.
func (r *StatsRepositoryPG) Summary(ctx context.Context) (*domain.StatsSummary, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QStatsSummary)
	var s domain.StatsSummary
	if err := row.Scan(
		&s.TotalCases, &s.ClosedCases, &s.CompletedDonations,
		&s.DonatedTotal, &s.CompletedAdoptions, &s.DonationsLast24h,
	); err != nil {
		return nil, err
	}
	return &s, nil
}
