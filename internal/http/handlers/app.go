package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"rescuefeed/internal/cases"
	"rescuefeed/internal/domain"
	"rescuefeed/internal/middleware"
	"rescuefeed/internal/storage"
)

// FeedService produces ranked activity feeds.
type FeedService interface {
	Global(ctx context.Context, limit int) ([]domain.Activity, error)
	ByUser(ctx context.Context, userID string, limit int) ([]domain.Activity, error)
	ByCase(ctx context.Context, caseID string, limit int) ([]domain.Activity, error)
}

// CaseService owns case mutations and the paginated listing.
type CaseService interface {
	Create(ctx context.Context, actorID string, params cases.CreateParams) (*domain.Case, error)
	Get(ctx context.Context, caseID string) (*domain.Case, error)
	ListPage(ctx context.Context, limit int, cursorToken string) (*cases.Page, error)
	TransitionLifecycle(ctx context.Context, actorID, caseID string, target domain.LifecycleStage, notes string) (*domain.Case, error)
	AddUpdate(ctx context.Context, actorID, caseID, text string, updateType domain.CaseUpdateType, images []string, evidenceType string) (*domain.Case, error)
}

// App carries the services handlers depend on.
type App struct {
	Logger    zerolog.Logger
	Feed      FeedService
	Cases     CaseService
	Donations domain.DonationRepository
	Users     domain.UserRepository
	Stats     domain.StatsRepository
	Images    *storage.Resolver
	Uploads   *storage.FileStore
	GeoLookup middleware.CountryLookup
	DB        Pinger
}

const (
	defaultFeedLimit = 20
	maxFeedLimit     = 100
)

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, errCode, message string) {
	a.json(w, code, map[string]any{
		"error": map[string]string{"code": errCode, "message": message},
	})
}

// domainError maps domain sentinels onto the HTTP error envelope.
func (a *App) domainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		a.error(w, http.StatusNotFound, "not_found", "resource not found")
	case errors.Is(err, domain.ErrUnauthorized):
		a.error(w, http.StatusForbidden, "forbidden", "not allowed for this user")
	case errors.Is(err, domain.ErrInvalidTransition):
		a.error(w, http.StatusUnprocessableEntity, "invalid_transition", err.Error())
	case errors.Is(err, domain.ErrConflict):
		a.error(w, http.StatusConflict, "conflict", "resource was modified concurrently, retry")
	case errors.Is(err, domain.ErrValidation):
		a.error(w, http.StatusBadRequest, "bad_request", err.Error())
	default:
		a.Logger.Error().Err(err).Msg("unhandled error")
		a.error(w, http.StatusInternalServerError, "internal", "internal error")
	}
}

func (a *App) currentUserID(r *http.Request) string {
	return middleware.UserIDFromContext(r.Context())
}

// parseLimit reads the limit query parameter, clamped to [1, maxFeedLimit].
func parseLimit(r *http.Request) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return defaultFeedLimit
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return defaultFeedLimit
	}
	if n > maxFeedLimit {
		return maxFeedLimit
	}
	return n
}
