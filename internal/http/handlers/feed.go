package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"rescuefeed/internal/domain"
)

// FeedGlobal serves the platform-wide activity feed.
func (a *App) FeedGlobal(w http.ResponseWriter, r *http.Request) {
	items, err := a.Feed.Global(r.Context(), parseLimit(r))
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, feedResponse(items))
}

// FeedByUser serves one user's activity history.
func (a *App) FeedByUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	if userID == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "user id required")
		return
	}
	items, err := a.Feed.ByUser(r.Context(), userID, parseLimit(r))
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, feedResponse(items))
}

// FeedByCase serves the activity timeline of a single case.
func (a *App) FeedByCase(w http.ResponseWriter, r *http.Request) {
	caseID := chi.URLParam(r, "id")
	if caseID == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "case id required")
		return
	}
	items, err := a.Feed.ByCase(r.Context(), caseID, parseLimit(r))
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, feedResponse(items))
}

func feedResponse(items []domain.Activity) map[string]any {
	if items == nil {
		items = []domain.Activity{}
	}
	return map[string]any{"items": items}
}
