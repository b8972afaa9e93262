package domain

import (
	"context"
	"time"
)

// CaseRepository defines persistence for rescue cases.
//
// TransitionStage is the only compare-and-swap operation: it updates the
// lifecycle stage, closed fields and timeline entry in one statement guarded
// by the expected current stage, and returns ErrConflict when another writer
// moved the case first.
type CaseRepository interface {
	Create(ctx context.Context, c *Case) error
	GetByID(ctx context.Context, id string) (*Case, error)
	GetMany(ctx context.Context, ids []string) (map[string]Case, error)
	ListRecent(ctx context.Context, limit int) ([]Case, error)
	ListByOwner(ctx context.Context, ownerUserID string, limit int) ([]Case, error)
	// ListPage returns one keyset page ordered by (created_at DESC, id DESC).
	// A zero beforeCreatedAt means the first page. The boolean reports whether
	// older items remain.
	ListPage(ctx context.Context, limit int, beforeCreatedAt time.Time, beforeID string) ([]Case, bool, error)
	TransitionStage(ctx context.Context, caseID string, from, to LifecycleStage, closedAt *time.Time, closedReason *string, entry CaseUpdate) (*Case, error)
	AppendUpdate(ctx context.Context, caseID string, entry CaseUpdate) (*Case, error)
}

// DonationRepository handles donation persistence.
type DonationRepository interface {
	Create(ctx context.Context, donation *Donation) error
	ListCompleted(ctx context.Context, limit int) ([]Donation, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]Donation, error)
	ListByCase(ctx context.Context, caseID string, limit int) ([]Donation, error)
}

// AdoptionRepository exposes adoption records for the feed.
type AdoptionRepository interface {
	ListCompleted(ctx context.Context, limit int) ([]Adoption, error)
}

// AchievementRepository exposes unlocked achievements per user.
type AchievementRepository interface {
	ListByUser(ctx context.Context, userID string, limit int) ([]Achievement, error)
}

// UserRepository defines access methods for users.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*User, error)
	GetMany(ctx context.Context, ids []string) (map[string]User, error)
}

// AnnouncementRepository exposes curated system announcements.
type AnnouncementRepository interface {
	ListRecent(ctx context.Context, limit int) ([]Announcement, error)
}
