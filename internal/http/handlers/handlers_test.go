package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"rescuefeed/internal/cases"
	"rescuefeed/internal/domain"
	"rescuefeed/internal/middleware"
)

type fakeFeed struct {
	items []domain.Activity
	err   error
}

func (f *fakeFeed) Global(context.Context, int) ([]domain.Activity, error) {
	return f.items, f.err
}

func (f *fakeFeed) ByUser(context.Context, string, int) ([]domain.Activity, error) {
	return f.items, f.err
}

func (f *fakeFeed) ByCase(context.Context, string, int) ([]domain.Activity, error) {
	return f.items, f.err
}

type fakeCases struct {
	CaseService

	page          *cases.Page
	pageErr       error
	transitionErr error
	gotLimit      int
	gotCursor     string
}

func (f *fakeCases) ListPage(_ context.Context, limit int, cursor string) (*cases.Page, error) {
	f.gotLimit = limit
	f.gotCursor = cursor
	return f.page, f.pageErr
}

func (f *fakeCases) TransitionLifecycle(_ context.Context, _, _ string, _ domain.LifecycleStage, _ string) (*domain.Case, error) {
	if f.transitionErr != nil {
		return nil, f.transitionErr
	}
	return &domain.Case{ID: "c1", LifecycleStage: domain.StageSeekingAdoption}, nil
}

type fakeDonations struct {
	domain.DonationRepository

	created   *domain.Donation
	completed []domain.Donation
}

func (f *fakeDonations) Create(_ context.Context, d *domain.Donation) error {
	f.created = d
	return nil
}

func (f *fakeDonations) ListCompleted(context.Context, int) ([]domain.Donation, error) {
	return f.completed, nil
}

func newApp() *App {
	return &App{Logger: zerolog.Nop()}
}

func requestWithID(method, target, id string, body string) *http.Request {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func asUser(req *http.Request, userID string) *http.Request {
	return req.WithContext(middleware.ContextWithUserID(req.Context(), userID))
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var payload map[string]any
	if err := json.NewDecoder(rr.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return payload
}

func TestFeedByCaseReturnsItemsEnvelope(t *testing.T) {
	app := newApp()
	app.Feed = &fakeFeed{items: []domain.Activity{{
		ID:        "donation-d1",
		Type:      domain.ActivityDonation,
		Timestamp: time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC),
	}}}

	rr := httptest.NewRecorder()
	app.FeedByCase(rr, requestWithID("GET", "/v1/cases/c1/feed", "c1", ""))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	payload := decodeBody(t, rr)
	items, ok := payload["items"].([]any)
	if !ok || len(items) != 1 {
		t.Fatalf("items = %#v, want 1 entry", payload["items"])
	}
}

func TestFeedGlobalEmptyFeedIsEmptyArrayNotNull(t *testing.T) {
	app := newApp()
	app.Feed = &fakeFeed{}

	rr := httptest.NewRecorder()
	app.FeedGlobal(rr, httptest.NewRequest("GET", "/v1/feed/global", nil))

	if got := strings.TrimSpace(rr.Body.String()); got != `{"items":[]}` {
		t.Fatalf("body = %s, want empty items array", got)
	}
}

func TestCasesListPassesLimitAndCursor(t *testing.T) {
	fc := &fakeCases{page: &cases.Page{HasMore: true, NextCursor: "tok"}}
	app := newApp()
	app.Cases = fc

	rr := httptest.NewRecorder()
	app.CasesList(rr, httptest.NewRequest("GET", "/v1/cases?limit=5&cursor=abc", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if fc.gotLimit != 5 || fc.gotCursor != "abc" {
		t.Fatalf("service got limit=%d cursor=%q", fc.gotLimit, fc.gotCursor)
	}
	payload := decodeBody(t, rr)
	if payload["next_cursor"] != "tok" {
		t.Fatalf("next_cursor = %#v, want tok", payload["next_cursor"])
	}
	if payload["has_more"] != true {
		t.Fatalf("has_more = %#v, want true", payload["has_more"])
	}
}

func TestCasesListLimitClampedAndDefaulted(t *testing.T) {
	fc := &fakeCases{page: &cases.Page{}}
	app := newApp()
	app.Cases = fc

	app.CasesList(httptest.NewRecorder(), httptest.NewRequest("GET", "/v1/cases", nil))
	if fc.gotLimit != defaultFeedLimit {
		t.Fatalf("default limit = %d, want %d", fc.gotLimit, defaultFeedLimit)
	}

	app.CasesList(httptest.NewRecorder(), httptest.NewRequest("GET", "/v1/cases?limit=9999", nil))
	if fc.gotLimit != maxFeedLimit {
		t.Fatalf("clamped limit = %d, want %d", fc.gotLimit, maxFeedLimit)
	}
}

func TestCaseLifecycleErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{"invalid transition", domain.ErrInvalidTransition, http.StatusUnprocessableEntity},
		{"concurrent writer", domain.ErrConflict, http.StatusConflict},
		{"not the owner", domain.ErrUnauthorized, http.StatusForbidden},
		{"unknown case", domain.ErrNotFound, http.StatusNotFound},
		{"bad target", domain.ErrValidation, http.StatusBadRequest},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			app := newApp()
			app.Cases = &fakeCases{transitionErr: tc.err}

			req := asUser(requestWithID("POST", "/v1/cases/c1/lifecycle", "c1", `{"target":"seeking_adoption"}`), "u1")
			rr := httptest.NewRecorder()
			app.CaseLifecycle(rr, req)

			if rr.Code != tc.wantCode {
				t.Fatalf("status = %d, want %d", rr.Code, tc.wantCode)
			}
			payload := decodeBody(t, rr)
			if _, ok := payload["error"].(map[string]any); !ok {
				t.Fatalf("missing error envelope: %s", rr.Body.String())
			}
		})
	}
}

func TestCaseLifecycleRequiresAuth(t *testing.T) {
	app := newApp()
	app.Cases = &fakeCases{}

	rr := httptest.NewRecorder()
	app.CaseLifecycle(rr, requestWithID("POST", "/v1/cases/c1/lifecycle", "c1", `{"target":"seeking_adoption"}`))

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rr.Code)
	}
}

func TestDonationsCreateDefaultsCurrencyFromCountry(t *testing.T) {
	fd := &fakeDonations{}
	app := newApp()
	app.Donations = fd

	req := asUser(httptest.NewRequest("POST", "/v1/donations", strings.NewReader(`{"amount":5000}`)), "u1")
	req.Header.Set("CF-IPCountry", "BR")
	rr := httptest.NewRecorder()
	app.DonationsCreate(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rr.Code, rr.Body.String())
	}
	if fd.created == nil {
		t.Fatal("donation was not persisted")
	}
	if fd.created.Currency != "BRL" {
		t.Fatalf("currency = %q, want BRL", fd.created.Currency)
	}
	if fd.created.Status != domain.DonationStatusPending {
		t.Fatalf("status = %q, want pending", fd.created.Status)
	}
	if fd.created.Country != "BR" {
		t.Fatalf("country = %q, want BR", fd.created.Country)
	}
}

func TestDonationsCreateRejectsBadInput(t *testing.T) {
	app := newApp()
	app.Donations = &fakeDonations{}

	req := asUser(httptest.NewRequest("POST", "/v1/donations", strings.NewReader(`{"amount":-1}`)), "u1")
	rr := httptest.NewRecorder()
	app.DonationsCreate(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("negative amount status = %d, want 400", rr.Code)
	}

	req = asUser(httptest.NewRequest("POST", "/v1/donations", strings.NewReader(`{"amount":100,"currency":"ZZZZ"}`)), "u1")
	rr = httptest.NewRecorder()
	app.DonationsCreate(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("bad currency status = %d, want 400", rr.Code)
	}
}

func TestDonationsRecentHidesAnonymousDonors(t *testing.T) {
	app := newApp()
	app.Donations = &fakeDonations{completed: []domain.Donation{
		{ID: "d1", UserID: "u1", AmountInt: 100_00, Currency: "USD", Anonymous: true},
		{ID: "d2", UserID: "u2", AmountInt: 50_00, Currency: "USD"},
	}}

	rr := httptest.NewRecorder()
	app.DonationsRecent(rr, httptest.NewRequest("GET", "/v1/donations/recent", nil))

	payload := decodeBody(t, rr)
	items := payload["items"].([]any)
	first := items[0].(map[string]any)
	if _, ok := first["user_id"]; ok {
		t.Fatalf("anonymous donation leaked user_id: %#v", first)
	}
	if first["amount"] != float64(100_00) {
		t.Fatalf("anonymous donation lost its amount: %#v", first)
	}
	second := items[1].(map[string]any)
	if second["user_id"] != "u2" {
		t.Fatalf("named donation missing user_id: %#v", second)
	}
}
