package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"rescuefeed/internal/http/handlers"
	"rescuefeed/internal/infra"
	mw "rescuefeed/internal/middleware"
)

// NewRouter wires the versioned HTTP surface. Reads are public; mutations
// and the profile endpoint sit behind the JWT group.
func NewRouter(app *handlers.App, cfg *infra.Config) http.Handler {
	r := chi.NewRouter()

	r.Use(
		mw.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		mw.Logger(app.Logger),
		mw.CORS(cfg.CORSAllowedOrigins),
		mw.I18N(cfg.DefaultLocale, app.GeoLookup),
		mw.RateLimit(cfg.RateLimitPerMin, time.Minute),
	)

	r.Get("/v1/healthz", app.Health)
	r.Get("/v1/readyz", app.Ready)
	r.Get("/v1/openapi.json", app.OpenAPIJSON)
	r.Get("/v1/docs", app.OpenAPIDocs)

	r.Get("/v1/feed/global", app.FeedGlobal)
	r.Get("/v1/users/{id}/feed", app.FeedByUser)
	r.Get("/v1/cases/{id}/feed", app.FeedByCase)

	r.Get("/v1/cases", app.CasesList)
	r.Get("/v1/cases/{id}", app.CaseGet)

	r.Get("/v1/donations/recent", app.DonationsRecent)
	r.Get("/v1/stats/summary", app.StatsSummary)

	r.Group(func(r chi.Router) {
		r.Use(mw.AuthJWT(cfg.JWTSecret))
		r.Get("/v1/me", app.Me)
		r.Post("/v1/cases", app.CaseCreate)
		r.Post("/v1/cases/{id}/lifecycle", app.CaseLifecycle)
		r.Post("/v1/cases/{id}/updates", app.CaseUpdateCreate)
		r.Post("/v1/donations", app.DonationsCreate)
		r.Post("/v1/uploads", app.UploadImage)
	})

	// Uploaded case and avatar images are served straight from disk.
	fileServer := http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.StoragePath)))
	r.Get("/static/*", fileServer.ServeHTTP)

	return r
}
