package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"rescuefeed/internal/cases"
	"rescuefeed/internal/domain"
)

// CasesList serves one keyset page of cases, newest first. The cursor query
// parameter is the opaque token returned as next_cursor by the previous page.
func (a *App) CasesList(w http.ResponseWriter, r *http.Request) {
	page, err := a.Cases.ListPage(r.Context(), parseLimit(r), r.URL.Query().Get("cursor"))
	if err != nil {
		a.domainError(w, err)
		return
	}
	items := make([]map[string]any, 0, len(page.Items))
	for _, c := range page.Items {
		items = append(items, a.caseJSON(&c))
	}
	resp := map[string]any{
		"items":    items,
		"has_more": page.HasMore,
	}
	if page.NextCursor != "" {
		resp["next_cursor"] = page.NextCursor
	}
	a.json(w, http.StatusOK, resp)
}

// CaseGet serves one case by id.
func (a *App) CaseGet(w http.ResponseWriter, r *http.Request) {
	c, err := a.Cases.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, a.caseJSON(c))
}

type caseCreateRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Story       string   `json:"story"`
	Images      []string `json:"images"`
	Status      string   `json:"status"`
	Goal        int64    `json:"goal"`
	Currency    string   `json:"currency"`
	ClinicID    *string  `json:"clinic_id"`
}

// CaseCreate publishes a new case owned by the authenticated user.
func (a *App) CaseCreate(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	var req caseCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	c, err := a.Cases.Create(r.Context(), userID, cases.CreateParams{
		Title:       req.Title,
		Description: req.Description,
		Story:       req.Story,
		Images:      req.Images,
		Status:      domain.CaseStatus(req.Status),
		Goal:        req.Goal,
		Currency:    req.Currency,
		ClinicID:    req.ClinicID,
	})
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusCreated, a.caseJSON(c))
}

type lifecycleRequest struct {
	Target string `json:"target"`
	Notes  string `json:"notes"`
}

// CaseLifecycle moves a case to a new lifecycle stage.
func (a *App) CaseLifecycle(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	var req lifecycleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	c, err := a.Cases.TransitionLifecycle(r.Context(), userID, chi.URLParam(r, "id"), domain.LifecycleStage(req.Target), req.Notes)
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, a.caseJSON(c))
}

type caseUpdateRequest struct {
	Text         string   `json:"text"`
	Type         string   `json:"type"`
	Images       []string `json:"images"`
	EvidenceType string   `json:"evidence_type"`
}

// CaseUpdateCreate appends a timeline entry to a case.
func (a *App) CaseUpdateCreate(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	var req caseUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	c, err := a.Cases.AddUpdate(r.Context(), userID, chi.URLParam(r, "id"), req.Text, domain.CaseUpdateType(req.Type), req.Images, req.EvidenceType)
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusCreated, a.caseJSON(c))
}

// caseJSON shapes a case for the wire, resolving stored image keys to URLs.
func (a *App) caseJSON(c *domain.Case) map[string]any {
	images := make([]string, 0, len(c.Images))
	for _, key := range c.Images {
		images = append(images, a.resolveImage(key))
	}
	updates := make([]map[string]any, 0, len(c.Updates))
	for _, u := range c.Updates {
		entry := map[string]any{
			"date": u.Date,
			"text": u.Text,
			"type": u.Type,
		}
		if len(u.Images) > 0 {
			resolved := make([]string, 0, len(u.Images))
			for _, key := range u.Images {
				resolved = append(resolved, a.resolveImage(key))
			}
			entry["images"] = resolved
		}
		if u.EvidenceType != "" {
			entry["evidence_type"] = u.EvidenceType
		}
		updates = append(updates, entry)
	}
	out := map[string]any{
		"id":              c.ID,
		"title":           c.Title,
		"description":     c.Description,
		"story":           c.Story,
		"images":          images,
		"status":          c.Status,
		"lifecycle_stage": c.LifecycleStage,
		"valid_targets":   c.LifecycleStage.ValidTargets(),
		"fundraising": map[string]any{
			"raised":   c.Fundraising.Raised,
			"goal":     c.Fundraising.Goal,
			"currency": c.Fundraising.Currency,
		},
		"updates":       updates,
		"owner_user_id": c.OwnerUserID,
		"created_at":    c.CreatedAt,
	}
	if c.ClinicID != nil {
		out["clinic_id"] = *c.ClinicID
	}
	if c.ClosedAt != nil {
		out["closed_at"] = *c.ClosedAt
	}
	if c.ClosedReason != nil {
		out["closed_reason"] = *c.ClosedReason
	}
	return out
}

func (a *App) resolveImage(key string) string {
	if a.Images == nil {
		return key
	}
	return a.Images.URL(key)
}
