package handlers

import (
	"net/http"
)

func (a *App) StatsSummary(w http.ResponseWriter, r *http.Request) {
	s, err := a.Stats.Summary(r.Context())
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"total_cases":         s.TotalCases,
		"closed_cases":        s.ClosedCases,
		"completed_donations": s.CompletedDonations,
		"donated_total":       s.DonatedTotal,
		"completed_adoptions": s.CompletedAdoptions,
		"donations_last_24h":  s.DonationsLast24h,
	})
}
