package repo

import (
	"context"

	"rescuefeed/internal/domain"
	"rescuefeed/internal/infra"
	"rescuefeed/internal/sqlinline"
)

// DonationRepositoryPG implements domain.DonationRepository using PostgreSQL.
type DonationRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewDonationRepository creates a new donation repo.
func NewDonationRepository(sql infra.SQLExecutor) *DonationRepositoryPG {
	return &DonationRepositoryPG{sql: sql}
}

// Create inserts a new donation record.
func (r *DonationRepositoryPG) Create(ctx context.Context, donation *domain.Donation) error {
	caseID := ""
	if donation.CaseID != nil {
		caseID = *donation.CaseID
	}
	row := r.sql.QueryRow(ctx, sqlinline.QInsertDonation,
		donation.ID, donation.UserID, caseID,
		donation.AmountInt, donation.Currency, string(donation.Status),
		donation.Anonymous, donation.Country,
	)
	return row.Scan(&donation.CreatedAt)
}

// ListCompleted returns recent completed donations, newest first.
func (r *DonationRepositoryPG) ListCompleted(ctx context.Context, limit int) ([]domain.Donation, error) {
	return r.list(ctx, sqlinline.QListCompletedDonations, limit)
}

// ListByUser returns recent completed donations made by the given user.
func (r *DonationRepositoryPG) ListByUser(ctx context.Context, userID string, limit int) ([]domain.Donation, error) {
	return r.list(ctx, sqlinline.QListDonationsByUser, userID, limit)
}

// ListByCase returns recent completed donations made to the given case.
func (r *DonationRepositoryPG) ListByCase(ctx context.Context, caseID string, limit int) ([]domain.Donation, error) {
	return r.list(ctx, sqlinline.QListDonationsByCase, caseID, limit)
}

func (r *DonationRepositoryPG) list(ctx context.Context, query string, args ...any) ([]domain.Donation, error) {
	rows, err := r.sql.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Donation
	for rows.Next() {
		var donation domain.Donation
		var status string
		if err := rows.Scan(
			&donation.ID, &donation.UserID, &donation.CaseID,
			&donation.AmountInt, &donation.Currency, &status,
			&donation.Anonymous, &donation.Country, &donation.CreatedAt,
		); err != nil {
			return nil, err
		}
		donation.Status = domain.DonationStatus(status)
		items = append(items, donation)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
