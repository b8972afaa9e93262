package repo

import (
	"context"

	"rescuefeed/internal/domain"
	"rescuefeed/internal/infra"
	"rescuefeed/internal/sqlinline"
)

// AchievementRepositoryPG implements domain.AchievementRepository using PostgreSQL.
type AchievementRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewAchievementRepository creates a new achievement repo.
func NewAchievementRepository(sql infra.SQLExecutor) *AchievementRepositoryPG {
	return &AchievementRepositoryPG{sql: sql}
}

// ListByUser returns achievements unlocked by the given user, newest first.
func (r *AchievementRepositoryPG) ListByUser(ctx context.Context, userID string, limit int) ([]domain.Achievement, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QListAchievementsByUser, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Achievement
	for rows.Next() {
		var achievement domain.Achievement
		if err := rows.Scan(
			&achievement.ID, &achievement.UserID,
			&achievement.Type, &achievement.UnlockedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, achievement)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
