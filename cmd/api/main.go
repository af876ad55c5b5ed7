package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/printhuis/quoteportal-backend/api/routes"
	quotesvc "github.com/printhuis/quoteportal-backend/internal/quotes"
	"github.com/printhuis/quoteportal-backend/internal/shipping"
	tariffsvc "github.com/printhuis/quoteportal-backend/internal/tariffs"
	"github.com/printhuis/quoteportal-backend/pkg/config"
	"github.com/printhuis/quoteportal-backend/pkg/db"
	"github.com/printhuis/quoteportal-backend/pkg/logger"
	"github.com/printhuis/quoteportal-backend/pkg/metrics"
	"github.com/printhuis/quoteportal-backend/pkg/migrate"
	"github.com/printhuis/quoteportal-backend/pkg/outbox"
	"github.com/printhuis/quoteportal-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	routingClient, err := shipping.NewClient(cfg.Shipping)
	if err != nil {
		logg.Error(context.Background(), "failed to create routing client", err)
		os.Exit(1)
	}

	shippingService, err := shipping.NewService(routingClient, redisClient, cfg.Shipping, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create shipping service", err)
		os.Exit(1)
	}

	outboxService := outbox.NewService(outbox.NewRepository(dbClient.DB()), logg)

	tariffRepo := tariffsvc.NewRepository(dbClient.DB())
	tariffService, err := tariffsvc.NewService(tariffRepo, dbClient, outboxService)
	if err != nil {
		logg.Error(context.Background(), "failed to create tariff service", err)
		os.Exit(1)
	}

	quoteService, err := quotesvc.NewService(
		quotesvc.NewRepository(dbClient.DB()),
		dbClient,
		tariffRepo,
		shippingService,
		outboxService,
		logg,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create quote service", err)
		os.Exit(1)
	}

	quoteMetrics := metrics.NewQuoteMetrics(prometheus.DefaultRegisterer)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, quoteService, tariffService, quoteMetrics),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
