package main

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/growthops/adscope/internal/apply"
	"github.com/growthops/adscope/internal/config"
	"github.com/growthops/adscope/internal/fetch"
	"github.com/growthops/adscope/internal/httpx"
	"github.com/growthops/adscope/internal/metrics"
	"github.com/growthops/adscope/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config", slog.String("err", err.Error()))
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	cl := fetch.NewHTTPClient(cfg.HTTPTimeout)
	st, err := store.NewFileStore(cfg.ArtifactDir)
	if err != nil {
		logger.Error("artifact store", slog.String("err", err.Error()))
		os.Exit(1)
	}

	fb := fetch.NewFacebookFetcher(cl, cfg.FacebookBaseURL, cfg.FacebookToken, logger)
	google := fetch.NewGoogleFetcher(cl, cfg.GoogleBaseURL, cfg.GoogleToken, logger)
	executor := apply.NewExecutor(cl, cfg.FacebookBaseURL, cfg.FacebookToken, cfg.GoogleBaseURL, cfg.GoogleToken, logger)
	mx := metrics.NewRegistry()

	svc := httpx.NewService(fb, google, executor, st, mx, cfg.Currency, logger)
	r := httpx.NewRouter(logger, svc, st, mx)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("starting server", slog.String("port", cfg.Port))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server error", slog.String("err", err.Error()))
		os.Exit(1)
	}
}
