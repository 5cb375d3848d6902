package httpapi

import (
	stdhttp "net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"fledge/internal/http/handlers"
	"fledge/internal/infra"
	"fledge/internal/middleware"
)

// Options configures the middleware stack.
type Options struct {
	Logger             infra.Logger
	CORSAllowedOrigins []string
	RateLimitPerMinute int
	DefaultLocale      string
	CountryLookup      middleware.CountryLookup
}

func NewRouter(app *handlers.App, opts Options) stdhttp.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		middleware.Logger(opts.Logger),
		chimw.Recoverer,
		middleware.CORS(opts.CORSAllowedOrigins),
		middleware.RateLimit(opts.RateLimitPerMinute, time.Minute),
		middleware.Locale(opts.DefaultLocale, opts.CountryLookup),
	)

	// Health & docs
	r.Get("/v1/healthz", app.Health)
	r.Get(handlers.OpenAPIPath, app.OpenAPIJSON)
	r.Get("/v1/docs", app.OpenAPIDocs)

	r.Get("/v1/price", app.Price)
	r.Get("/v1/quote", app.Quote)

	r.Route("/v1/campaigns", func(r chi.Router) {
		r.Get("/", app.ListCampaigns)
		r.Get("/{address}", app.GetCampaign)
	})

	return r
}
