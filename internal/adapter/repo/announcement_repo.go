package repo

import (
	"context"

	"rescuefeed/internal/domain"
	"rescuefeed/internal/infra"
	"rescuefeed/internal/sqlinline"
)

// AnnouncementRepositoryPG implements domain.AnnouncementRepository using PostgreSQL.
type AnnouncementRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewAnnouncementRepository creates a new announcement repo.
func NewAnnouncementRepository(sql infra.SQLExecutor) *AnnouncementRepositoryPG {
	return &AnnouncementRepositoryPG{sql: sql}
}

// ListRecent returns published announcements, newest first.
func (r *AnnouncementRepositoryPG) ListRecent(ctx context.Context, limit int) ([]domain.Announcement, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QListRecentAnnouncements, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Announcement
	for rows.Next() {
		var a domain.Announcement
		if err := rows.Scan(&a.ID, &a.Title, &a.Body, &a.PublishedAt); err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
