package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/printhuis/quoteportal-backend/api/controllers"
	"github.com/printhuis/quoteportal-backend/api/middleware"
	quotesvc "github.com/printhuis/quoteportal-backend/internal/quotes"
	tariffsvc "github.com/printhuis/quoteportal-backend/internal/tariffs"
	"github.com/printhuis/quoteportal-backend/pkg/config"
	"github.com/printhuis/quoteportal-backend/pkg/logger"
	"github.com/printhuis/quoteportal-backend/pkg/metrics"
	"github.com/printhuis/quoteportal-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbClient controllers.Pinger,
	redisClient *redis.Client,
	quoteService quotesvc.Service,
	tariffService tariffsvc.Service,
	quoteMetrics *metrics.QuoteMetrics,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	// A nil *redis.Client must not end up inside an interface value, the
	// health and rate limit paths treat a nil interface as "not wired".
	var redisDep controllers.Pinger
	quoteLimiter := middleware.QuoteRateLimit(cfg.RateLimit, nil, logg)
	if redisClient != nil {
		redisDep = redisClient
		quoteLimiter = middleware.QuoteRateLimit(cfg.RateLimit, redisClient, logg)
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, map[string]controllers.Pinger{
			"database": dbClient,
			"redis":    redisDep,
		}))
	})

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		r.Route("/quotes", func(r chi.Router) {
			r.With(quoteLimiter).Post("/price", controllers.PriceQuote(quoteService, quoteMetrics, logg))
			r.With(quoteLimiter).Post("/", controllers.CreateQuoteDraft(quoteService, quoteMetrics, logg))
			r.Get("/", controllers.ListQuotes(quoteService, logg))
			r.Get("/{quoteID}", controllers.GetQuote(quoteService, logg))
			r.Post("/{quoteID}/submit", controllers.SubmitQuote(quoteService, quoteMetrics, logg))
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.RequireAdmin(logg))

		r.Route("/pricing", func(r chi.Router) {
			r.Get("/settings", controllers.GetPricingSettings(tariffService, logg))
			r.Put("/settings", controllers.UpdatePricingSettings(tariffService, logg))
			r.Route("/tariffs", func(r chi.Router) {
				r.Get("/", controllers.ListServiceTariffs(tariffService, logg))
				r.Get("/{technique}", controllers.GetServiceTariff(tariffService, logg))
				r.Put("/{technique}", controllers.UpsertServiceTariff(tariffService, logg))
				r.Delete("/{technique}", controllers.DeleteServiceTariff(tariffService, logg))
			})
		})
	})

	return r
}
