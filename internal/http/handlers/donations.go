package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"

	"rescuefeed/internal/domain"
	"rescuefeed/internal/middleware"
)

type donationRequest struct {
	CaseID    *string `json:"case_id"`
	Amount    int64   `json:"amount"`
	Currency  string  `json:"currency"`
	Anonymous bool    `json:"anonymous"`
}

// DonationsCreate records a pending donation. Payment confirmation arrives
// later from the payment collaborator and flips the status to completed.
// When the request omits a currency, one is inferred from the donor's
// country.
func (a *App) DonationsCreate(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	var req donationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if req.Amount <= 0 {
		a.error(w, http.StatusBadRequest, "bad_request", "amount must be positive")
		return
	}

	country := middleware.CountryFromContext(r.Context())
	if country == "" {
		country = middleware.ResolveCountry(r, a.GeoLookup)
	}
	cur, err := a.resolveCurrency(req.Currency, country)
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "unknown currency")
		return
	}

	d := &domain.Donation{
		ID:        uuid.NewString(),
		UserID:    userID,
		CaseID:    req.CaseID,
		AmountInt: req.Amount,
		Currency:  cur,
		Status:    domain.DonationStatusPending,
		Anonymous: req.Anonymous,
		Country:   country,
	}
	if err := a.Donations.Create(r.Context(), d); err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusCreated, map[string]any{
		"id":       d.ID,
		"status":   d.Status,
		"currency": d.Currency,
	})
}

// DonationsRecent lists recently completed donations for the public ticker.
// Anonymous donations keep their amounts but hide the donor id.
func (a *App) DonationsRecent(w http.ResponseWriter, r *http.Request) {
	donations, err := a.Donations.ListCompleted(r.Context(), parseLimit(r))
	if err != nil {
		a.domainError(w, err)
		return
	}
	items := make([]map[string]any, 0, len(donations))
	for _, d := range donations {
		item := map[string]any{
			"id":         d.ID,
			"amount":     d.AmountInt,
			"currency":   d.Currency,
			"created_at": d.CreatedAt,
		}
		if !d.Anonymous {
			item["user_id"] = d.UserID
		}
		if d.CaseID != nil {
			item["case_id"] = *d.CaseID
		}
		items = append(items, item)
	}
	a.json(w, http.StatusOK, map[string]any{"items": items})
}

// resolveCurrency validates an explicit ISO currency code, or derives one
// from the donor country when the request omits it. USD is the final
// fallback.
func (a *App) resolveCurrency(code, country string) (string, error) {
	if code != "" {
		unit, err := currency.ParseISO(code)
		if err != nil {
			return "", err
		}
		return unit.String(), nil
	}
	if unit, ok := currencyForRegion(country); ok {
		return unit, nil
	}
	return "USD", nil
}

func currencyForRegion(country string) (string, bool) {
	if country == "" {
		return "", false
	}
	region, err := language.ParseRegion(strings.ToUpper(country))
	if err != nil {
		return "", false
	}
	unit, ok := currency.FromRegion(region)
	if !ok {
		return "", false
	}
	return unit.String(), true
}
