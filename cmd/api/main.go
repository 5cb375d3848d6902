package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"fledge/internal/adapter/repo"
	"fledge/internal/http/handlers"
	httpapi "fledge/internal/http/httpapi"
	"fledge/internal/infra"
	"fledge/internal/infra/geoip"
	"fledge/internal/providers/price"
	"fledge/internal/tracker"
)

func main() {
	// Load .env when present
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbpool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer dbpool.Close()

	sqlRunner := infra.NewSQLRunner(dbpool, infra.Component(logger, "sql"))
	campaigns := repo.NewCampaignRepository(sqlRunner)

	priceLogger := infra.Component(logger, "price")
	prices, err := price.NewClient(price.Options{
		BaseURL: cfg.PriceFeedURL,
		Symbol:  cfg.PriceSymbol,
		Logger:  &priceLogger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure price feed")
	}

	countries, err := geoip.Open(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn().Err(err).Str("path", cfg.GeoIPDBPath).Msg("geoip disabled")
	}
	defer countries.Close()

	trackerLogger := infra.Component(logger, "tracker")
	tr, err := tracker.New(tracker.Options{
		Directory:     campaigns,
		Facts:         campaigns,
		Prices:        prices,
		Logger:        &trackerLogger,
		PollInterval:  cfg.PollInterval,
		PriceInterval: cfg.PriceInterval,
		EpochMaxAge:   cfg.EpochMaxAge,
		Concurrency:   cfg.FactsConcurrency,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build tracker")
	}

	app := handlers.NewApp(tr, campaigns, prices.Symbol(), logger)
	router := httpapi.NewRouter(app, routerOptions(cfg, logger, countries))
	server := infra.NewHTTPServer(cfg, router)

	trackerDone := make(chan struct{})
	go func() {
		defer close(trackerDone)
		if err := tr.Run(ctx); err != nil && ctx.Err() == nil {
			logger.Error().Err(err).Msg("tracker stopped")
		}
	}()

	go func() {
		logger.Info().Str("addr", server.Addr()).Msg("API listening")
		if err := server.Start(); err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	<-trackerDone
	logger.Info().Msg("server stopped")
}

func routerOptions(cfg *infra.Config, logger infra.Logger, countries *geoip.Resolver) httpapi.Options {
	return httpapi.Options{
		Logger:             infra.Component(logger, "http"),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		RateLimitPerMinute: cfg.RateLimitPerMin,
		DefaultLocale:      cfg.DefaultLocale,
		CountryLookup:      countries.Country,
	}
}
