package repo

import (
	"context"

	"rescuefeed/internal/domain"
	"rescuefeed/internal/infra"
	"rescuefeed/internal/sqlinline"
)

// AdoptionRepositoryPG implements domain.AdoptionRepository using PostgreSQL.
type AdoptionRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewAdoptionRepository creates a new adoption repo.
func NewAdoptionRepository(sql infra.SQLExecutor) *AdoptionRepositoryPG {
	return &AdoptionRepositoryPG{sql: sql}
}

// ListCompleted returns recent completed adoptions, newest first.
func (r *AdoptionRepositoryPG) ListCompleted(ctx context.Context, limit int) ([]domain.Adoption, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QListCompletedAdoptions, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Adoption
	for rows.Next() {
		var adoption domain.Adoption
		var status string
		if err := rows.Scan(
			&adoption.ID, &adoption.UserID, &adoption.Name,
			&adoption.AnimalType, &status, &adoption.CreatedAt,
		); err != nil {
			return nil, err
		}
		adoption.Status = domain.AdoptionStatus(status)
		items = append(items, adoption)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
