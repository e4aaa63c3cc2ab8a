package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/diagnosis/jobiq-care/pkg/config"
	"github.com/diagnosis/jobiq-care/pkg/logger"
	mw "github.com/diagnosis/jobiq-care/pkg/middleware"
	"github.com/diagnosis/jobiq-care/services/advisor/internal/ai"
	"github.com/diagnosis/jobiq-care/services/advisor/internal/handlers"
	"github.com/diagnosis/jobiq-care/services/advisor/internal/service"
	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var completer ai.Completer
	gemini, err := ai.NewGeminiCompleter(ctx, cfg.AI.GeminiAPIKey, cfg.AI.Model)
	switch {
	case errors.Is(err, ai.ErrNotConfigured):
		logger.Warn("GEMINI_API_KEY not set, AI endpoints will return 500")
		completer = ai.Unavailable{}
	case err != nil:
		logger.Error("Failed to create AI client", "error", err)
		os.Exit(1)
	default:
		completer = gemini
	}

	h := handlers.New(service.NewAdvisorService(completer))

	r := chi.NewRouter()
	r.Use(mw.RequestID)
	r.Use(mw.ServiceName("advisor"))
	r.Use(mw.Logging)
	r.Use(mw.Recover)
	r.Use(mw.Health)
	h.Mount(r)

	// Model calls are slow; the write timeout must outlast them.
	srv := &http.Server{
		Addr:         ":" + cfg.Server.AdvisorPort,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting advisor service", "port", cfg.Server.AdvisorPort, "model", cfg.AI.Model)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down advisor service...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Advisor service error", "error", err)
		os.Exit(1)
	}
}
