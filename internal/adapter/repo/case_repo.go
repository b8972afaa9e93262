package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"rescuefeed/internal/domain"
	"rescuefeed/internal/infra"
	"rescuefeed/internal/sqlinline"
)

// CaseRepositoryPG implements domain.CaseRepository using PostgreSQL.
// Images and updates live in JSONB columns so the timeline append and the
// stage compare-and-swap stay single-statement atomic.
type CaseRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewCaseRepository creates a new case repo.
func NewCaseRepository(sql infra.SQLExecutor) *CaseRepositoryPG {
	return &CaseRepositoryPG{sql: sql}
}

// Create inserts a new case record.
func (r *CaseRepositoryPG) Create(ctx context.Context, c *domain.Case) error {
	images, err := json.Marshal(c.Images)
	if err != nil {
		return fmt.Errorf("marshal images: %w", err)
	}
	clinicID := ""
	if c.ClinicID != nil {
		clinicID = *c.ClinicID
	}
	row := r.sql.QueryRow(ctx, sqlinline.QInsertCase,
		c.ID, c.Title, c.Description, c.Story, images,
		string(c.Status), string(c.LifecycleStage),
		c.Fundraising.Goal, c.Fundraising.Currency,
		c.OwnerUserID, clinicID,
	)
	if err := row.Scan(&c.CreatedAt, &c.UpdatedAt); err != nil {
		return fmt.Errorf("insert case: %w", err)
	}
	return nil
}

// GetByID returns a single case or domain.ErrNotFound.
func (r *CaseRepositoryPG) GetByID(ctx context.Context, id string) (*domain.Case, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QGetCase, id)
	c, err := scanCaseRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

// GetMany batch-resolves cases by id. Missing ids are simply absent from the
// result map; callers degrade enrichment instead of failing.
func (r *CaseRepositoryPG) GetMany(ctx context.Context, ids []string) (map[string]domain.Case, error) {
	out := make(map[string]domain.Case, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := r.sql.Query(ctx, sqlinline.QGetCasesByIDs, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		c, err := scanCase(rows)
		if err != nil {
			return nil, err
		}
		out[c.ID] = *c
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListRecent returns the newest cases, newest first.
func (r *CaseRepositoryPG) ListRecent(ctx context.Context, limit int) ([]domain.Case, error) {
	return r.list(ctx, sqlinline.QListRecentCases, limit)
}

// ListByOwner returns the newest cases owned by the given user.
func (r *CaseRepositoryPG) ListByOwner(ctx context.Context, ownerUserID string, limit int) ([]domain.Case, error) {
	return r.list(ctx, sqlinline.QListCasesByOwner, ownerUserID, limit)
}

// ListPage returns one keyset page ordered by (created_at DESC, id DESC).
// It probes limit+1 rows so hasMore is known without a second round-trip.
func (r *CaseRepositoryPG) ListPage(ctx context.Context, limit int, beforeCreatedAt time.Time, beforeID string) ([]domain.Case, bool, error) {
	var (
		items []domain.Case
		err   error
	)
	if beforeCreatedAt.IsZero() {
		items, err = r.list(ctx, sqlinline.QListCasesFirstPage, limit+1)
	} else {
		items, err = r.list(ctx, sqlinline.QListCasesPage, beforeCreatedAt, beforeID, limit+1)
	}
	if err != nil {
		return nil, false, err
	}
	hasMore := len(items) > limit
	if hasMore {
		items = items[:limit]
	}
	return items, hasMore, nil
}

// TransitionStage performs the atomic stage compare-and-swap. Zero rows
// updated means either the case is gone (ErrNotFound) or another writer
// moved it first (ErrConflict); a follow-up read disambiguates.
func (r *CaseRepositoryPG) TransitionStage(ctx context.Context, caseID string, from, to domain.LifecycleStage, closedAt *time.Time, closedReason *string, entry domain.CaseUpdate) (*domain.Case, error) {
	entryJSON, err := marshalUpdateEntry(entry)
	if err != nil {
		return nil, err
	}
	reason := ""
	if closedReason != nil {
		reason = *closedReason
	}
	row := r.sql.QueryRow(ctx, sqlinline.QTransitionCaseStage,
		caseID, string(from), string(to), closedAt, reason, entryJSON)
	c, err := scanCaseRow(row)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	if _, getErr := r.GetByID(ctx, caseID); getErr != nil {
		return nil, getErr
	}
	return nil, domain.ErrConflict
}

// AppendUpdate appends one timeline entry. The updates column is append-only;
// nothing is ever reordered or removed.
func (r *CaseRepositoryPG) AppendUpdate(ctx context.Context, caseID string, entry domain.CaseUpdate) (*domain.Case, error) {
	entryJSON, err := marshalUpdateEntry(entry)
	if err != nil {
		return nil, err
	}
	row := r.sql.QueryRow(ctx, sqlinline.QAppendCaseUpdate, caseID, entryJSON)
	c, err := scanCaseRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *CaseRepositoryPG) list(ctx context.Context, query string, args ...any) ([]domain.Case, error) {
	rows, err := r.sql.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []domain.Case
	for rows.Next() {
		c, err := scanCase(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// marshalUpdateEntry wraps a single entry in a JSON array so `updates || $x`
// appends one element instead of splicing object keys.
func marshalUpdateEntry(entry domain.CaseUpdate) ([]byte, error) {
	data, err := json.Marshal([]domain.CaseUpdate{entry})
	if err != nil {
		return nil, fmt.Errorf("marshal update entry: %w", err)
	}
	return data, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCaseRow(row pgx.Row) (*domain.Case, error) {
	return scanCase(row)
}

func scanCase(row rowScanner) (*domain.Case, error) {
	var (
		c           domain.Case
		imagesJSON  []byte
		updatesJSON []byte
		status      string
		stage       string
	)
	if err := row.Scan(
		&c.ID, &c.Title, &c.Description, &c.Story, &imagesJSON, &status, &stage,
		&c.Fundraising.Raised, &c.Fundraising.Goal, &c.Fundraising.Currency,
		&updatesJSON, &c.OwnerUserID, &c.ClinicID,
		&c.ClosedAt, &c.ClosedReason, &c.CreatedAt, &c.UpdatedAt,
	); err != nil {
		return nil, err
	}
	c.Status = domain.CaseStatus(status)
	c.LifecycleStage = domain.LifecycleStage(stage)
	if len(imagesJSON) > 0 {
		if err := json.Unmarshal(imagesJSON, &c.Images); err != nil {
			return nil, fmt.Errorf("unmarshal case images: %w", err)
		}
	}
	if len(updatesJSON) > 0 {
		if err := json.Unmarshal(updatesJSON, &c.Updates); err != nil {
			return nil, fmt.Errorf("unmarshal case updates: %w", err)
		}
	}
	return &c, nil
}
