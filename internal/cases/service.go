// Package cases owns case mutations: lifecycle transitions, timeline updates
// and case creation, plus the paginated listing used by feed clients.
package cases

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"rescuefeed/internal/domain"
	"rescuefeed/internal/pagination"
)

// Service wraps the case repository with authorization and validation.
type Service struct {
	repo   domain.CaseRepository
	logger zerolog.Logger
	now    func() time.Time
}

// NewService creates a case service.
func NewService(repo domain.CaseRepository, logger zerolog.Logger) *Service {
	return &Service{repo: repo, logger: logger, now: time.Now}
}

// closedReasonDefaults is used when a closing transition carries no notes.
var closedReasonDefaults = map[domain.LifecycleStage]string{
	domain.StageClosedSuccess:     "adopted into a forever home",
	domain.StageClosedTransferred: "transferred to a partner shelter",
	domain.StageClosedOther:       "case closed",
}

// TransitionLifecycle moves a case to the target stage on behalf of actorID.
//
// The stage check and write happen in a single compare-and-swap statement:
// of two concurrent transitions from the same starting stage exactly one
// succeeds and the other observes domain.ErrConflict. Only the current stage
// is retained; history lives solely in the timeline entries this method
// appends.
func (s *Service) TransitionLifecycle(ctx context.Context, actorID, caseID string, target domain.LifecycleStage, notes string) (*domain.Case, error) {
	if !target.Valid() {
		return nil, fmt.Errorf("%w: unknown lifecycle stage %q", domain.ErrValidation, target)
	}

	c, err := s.repo.GetByID(ctx, caseID)
	if err != nil {
		return nil, err
	}
	if c.OwnerUserID != actorID {
		return nil, fmt.Errorf("%w: only the case owner may change its lifecycle", domain.ErrUnauthorized)
	}
	if !c.LifecycleStage.CanTransition(target) {
		return nil, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, c.LifecycleStage, target)
	}

	now := s.now().UTC()
	var closedAt *time.Time
	var closedReason *string
	if target.Terminal() {
		closedAt = &now
		reason := strings.TrimSpace(notes)
		if reason == "" {
			reason = closedReasonDefaults[target]
		}
		closedReason = &reason
	}

	entry := domain.CaseUpdate{
		Date: now,
		Text: transitionText(target, notes),
		Type: domain.UpdateTypeMilestone,
	}

	updated, err := s.repo.TransitionStage(ctx, caseID, c.LifecycleStage, target, closedAt, closedReason, entry)
	if err != nil {
		return nil, err
	}
	s.logger.Info().
		Str("case_id", caseID).
		Str("from", string(c.LifecycleStage)).
		Str("to", string(target)).
		Msg("case lifecycle transitioned")
	return updated, nil
}

// AddUpdate appends a timeline entry to a case on behalf of actorID.
// The timeline is append-only; entries are never reordered or removed.
func (s *Service) AddUpdate(ctx context.Context, actorID, caseID, text string, updateType domain.CaseUpdateType, images []string, evidenceType string) (*domain.Case, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: update text must not be empty", domain.ErrValidation)
	}
	if updateType == "" {
		updateType = domain.UpdateTypeProgress
	}

	c, err := s.repo.GetByID(ctx, caseID)
	if err != nil {
		return nil, err
	}
	if c.OwnerUserID != actorID {
		return nil, fmt.Errorf("%w: only the case owner may post updates", domain.ErrUnauthorized)
	}

	entry := domain.CaseUpdate{
		Date:         s.now().UTC(),
		Text:         text,
		Type:         updateType,
		Images:       images,
		EvidenceType: evidenceType,
	}
	return s.repo.AppendUpdate(ctx, caseID, entry)
}

// CreateParams holds the fields required to publish a new case.
type CreateParams struct {
	Title       string
	Description string
	Story       string
	Images      []string
	Status      domain.CaseStatus
	Goal        int64
	Currency    string
	ClinicID    *string
}

// Create publishes a new case owned by actorID, starting in active_treatment.
func (s *Service) Create(ctx context.Context, actorID string, params CreateParams) (*domain.Case, error) {
	if strings.TrimSpace(params.Title) == "" {
		return nil, fmt.Errorf("%w: title must not be empty", domain.ErrValidation)
	}
	if params.Goal < 0 {
		return nil, fmt.Errorf("%w: goal must not be negative", domain.ErrValidation)
	}
	status := params.Status
	if status == "" {
		status = domain.CaseStatusUrgent
	}

	c := &domain.Case{
		ID:             uuid.NewString(),
		Title:          params.Title,
		Description:    params.Description,
		Story:          params.Story,
		Images:         params.Images,
		Status:         status,
		LifecycleStage: domain.StageActiveTreatment,
		Fundraising:    domain.Fundraising{Goal: params.Goal, Currency: params.Currency},
		OwnerUserID:    actorID,
		ClinicID:       params.ClinicID,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Get returns a single case.
func (s *Service) Get(ctx context.Context, caseID string) (*domain.Case, error) {
	return s.repo.GetByID(ctx, caseID)
}

// Page is one page of the paginated case listing.
type Page struct {
	Items      []domain.Case
	HasMore    bool
	NextCursor string
}

// ListPage returns one keyset page of cases, newest first. An empty cursor
// token means the first page.
func (s *Service) ListPage(ctx context.Context, limit int, cursorToken string) (*Page, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be positive", domain.ErrValidation)
	}
	var before pagination.Cursor
	if cursorToken != "" {
		decoded, err := pagination.Decode(cursorToken)
		if err != nil {
			return nil, err
		}
		before = decoded
	}
	items, hasMore, err := s.repo.ListPage(ctx, limit, before.CreatedAt, before.ID)
	if err != nil {
		return nil, err
	}
	page := &Page{Items: items, HasMore: hasMore}
	if hasMore && len(items) > 0 {
		last := items[len(items)-1]
		page.NextCursor = pagination.Encode(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return page, nil
}

func transitionText(target domain.LifecycleStage, notes string) string {
	var text string
	switch target {
	case domain.StageSeekingAdoption:
		text = "Now seeking adoption"
	case domain.StageClosedSuccess:
		text = "Case closed: adopted"
	case domain.StageClosedTransferred:
		text = "Case closed: transferred"
	case domain.StageClosedOther:
		text = "Case closed"
	default:
		text = "Stage changed to " + string(target)
	}
	if notes = strings.TrimSpace(notes); notes != "" {
		text += ": " + notes
	}
	return text
}
