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
	"github.com/diagnosis/jobiq-care/services/auth/internal/credential"
	"github.com/diagnosis/jobiq-care/services/auth/internal/handlers"
	"github.com/diagnosis/jobiq-care/services/auth/internal/mailer"
	"github.com/diagnosis/jobiq-care/services/auth/internal/otp"
	"github.com/diagnosis/jobiq-care/services/auth/internal/service"
	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	stores, err := openStores(ctx, cfg.Store)
	if err != nil {
		logger.Error("Failed to configure store", "error", err)
		os.Exit(1)
	}
	defer stores.Close()

	hasher, err := credential.NewHasher(cfg.Password.Scheme)
	if err != nil {
		logger.Error("Failed to configure password hashing", "error", err)
		os.Exit(1)
	}

	sender, err := newSender(cfg.Email)
	if err != nil {
		logger.Error("Failed to configure mailer", "error", err)
		os.Exit(1)
	}

	publisher := newPublisher(cfg.NATS)
	defer publisher.Close()

	limiter, closeLimiter := newLimiter(ctx, cfg.Redis, cfg.Limit)
	defer closeLimiter()

	ledger := otp.NewLedger(stores.OTPs, cfg.OTP.TTL, cfg.OTP.Digits)
	authService := service.NewAuthService(stores.Accounts, ledger, hasher, mailer.New(sender, cfg.OTP.TTL), publisher)
	h := handlers.New(authService)

	r := chi.NewRouter()
	r.Use(mw.RequestID)
	r.Use(mw.ServiceName("auth"))
	r.Use(mw.Logging)
	r.Use(mw.Recover)
	r.Use(mw.Health)
	h.Mount(r, limiter)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.AuthPort,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting auth service", "port", cfg.Server.AuthPort, "store", cfg.Store.Driver, "mail", cfg.Email.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down auth service...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Auth service error", "error", err)
		os.Exit(1)
	}
}
