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
	"github.com/diagnosis/jobiq-care/services/gateway/internal/handlers"
	"github.com/diagnosis/jobiq-care/services/gateway/internal/proxy"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	authProxy := proxy.NewServiceProxy("auth", cfg.Gateway.AuthServiceURL, 30*time.Second)
	advisorProxy := proxy.NewServiceProxy("advisor", cfg.Gateway.AdvisorServiceURL, 80*time.Second)

	h := handlers.New(authProxy, advisorProxy, cfg.Gateway.FrontendDir)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      newRouter(h),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting gateway service",
			"port", cfg.Server.Port,
			"auth", cfg.Gateway.AuthServiceURL,
			"advisor", cfg.Gateway.AdvisorServiceURL,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down gateway service...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Gateway server error", "error", err)
		os.Exit(1)
	}
}

func newRouter(h *handlers.Handlers) http.Handler {
	r := chi.NewRouter()
	r.Use(mw.RequestID)
	r.Use(mw.ServiceName("gateway"))
	r.Use(mw.Logging)
	r.Use(mw.Recover)

	// The browser frontend may be served from anywhere.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	r.Use(mw.Health)
	h.Mount(r)
	return r
}
