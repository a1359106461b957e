package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spacesedan/tweelyzer/config"
	"github.com/spacesedan/tweelyzer/internal/analysis"
	"github.com/spacesedan/tweelyzer/internal/api"
	"github.com/spacesedan/tweelyzer/internal/clients"
	"github.com/spacesedan/tweelyzer/internal/logging"
	"github.com/spacesedan/tweelyzer/internal/monitoring"
)

func main() {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	config.LoadEnv(env)
	logging.InitLogger()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	hf := clients.GetHuggingFaceClient()

	health := monitoring.NewHealthTracker(
		analysis.SENTIMENT_MODEL,
		analysis.FACT_CHECK_MODEL,
		analysis.FAKE_NEWS_MODEL,
	)
	health.Start(ctx, hf)

	apiServer := api.NewServer(api.Config{
		Analyzer:  analysis.NewAnalyzer(hf),
		Extractor: clients.GetTwitterClient(),
		Health:    health,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: apiServer,
	}

	go func() {
		slog.Info("[Main] Starting API server", slog.String("port", port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("[Main] Server failed", slog.String("error", err.Error()))
			cancel()
		}
	}()

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("[Main] Graceful shutdown failed", slog.String("error", err.Error()))
	}
}
