package main

import (
	"context"
	"fmt"

	"github.com/diagnosis/jobiq-care/pkg/config"
	"github.com/diagnosis/jobiq-care/pkg/database"
	"github.com/diagnosis/jobiq-care/pkg/events"
	"github.com/diagnosis/jobiq-care/pkg/logger"
	mw "github.com/diagnosis/jobiq-care/pkg/middleware"
	"github.com/diagnosis/jobiq-care/services/auth/internal/mailer"
	"github.com/diagnosis/jobiq-care/services/auth/internal/repository"
)

type stores struct {
	Accounts repository.AccountRepository
	OTPs     repository.OTPRepository
	closers  []func()
}

func (s *stores) Close() {
	for _, c := range s.closers {
		c()
	}
}

// openStores builds the configured backend. Connectivity problems are
// logged and the service starts anyway; requests then fail with 503 until
// the store comes back.
func openStores(ctx context.Context, cfg config.StoreConfig) (*stores, error) {
	switch cfg.Driver {
	case config.StoreMongo:
		client, db, err := database.ConnectMongo(ctx, cfg.MongoURI, cfg.DBName)
		if err != nil {
			return nil, err
		}
		if err := database.PingMongo(ctx, client); err != nil {
			logger.Error("MongoDB unreachable, starting degraded", "error", err)
		} else if err := repository.EnsureMongoIndexes(ctx, db); err != nil {
			logger.Error("Failed to ensure MongoDB indexes", "error", err)
		}
		return &stores{
			Accounts: repository.NewMongoAccountRepository(db),
			OTPs:     repository.NewMongoOTPRepository(db),
			closers:  []func(){func() { _ = client.Disconnect(context.Background()) }},
		}, nil

	case config.StorePostgres:
		pool, err := database.Connect(ctx, cfg.PostgresURL)
		if err != nil {
			return nil, err
		}
		if err := pool.Ping(ctx); err != nil {
			logger.Error("Postgres unreachable, starting degraded", "error", err)
		} else if err := repository.EnsureSchema(ctx, pool); err != nil {
			logger.Error("Failed to ensure Postgres schema", "error", err)
		}
		return &stores{
			Accounts: repository.NewPostgresAccountRepository(pool),
			OTPs:     repository.NewPostgresOTPRepository(pool),
			closers:  []func(){pool.Close},
		}, nil

	case config.StoreMemory:
		logger.Warn("Using in-memory store, data is lost on restart")
		return &stores{
			Accounts: repository.NewMemoryAccountRepository(),
			OTPs:     repository.NewMemoryOTPRepository(),
		}, nil

	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.Driver)
	}
}

func newSender(cfg config.EmailConfig) (mailer.Sender, error) {
	switch cfg.Driver {
	case config.MailSMTP:
		return mailer.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.FromEmail, cfg.FromName, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPUseTLS), nil
	case config.MailMailerSend:
		return mailer.NewMailerSendSender(cfg.MailerSendKey, cfg.FromName, cfg.FromEmail)
	case config.MailDev, "":
		return mailer.NewDevSender(), nil
	default:
		return nil, fmt.Errorf("unknown MAIL_DRIVER %q", cfg.Driver)
	}
}

func newPublisher(cfg config.NATSConfig) events.Publisher {
	if cfg.URL == "" {
		return events.NopPublisher{}
	}
	pub, err := events.NewNATSPublisher(cfg.URL)
	if err != nil {
		logger.Warn("NATS unavailable, lifecycle events disabled", "error", err)
		return events.NopPublisher{}
	}
	return pub
}

// newLimiter returns nil when Redis is not configured, which disables
// rate limiting.
func newLimiter(ctx context.Context, redisCfg config.RedisConfig, limitCfg config.RateLimitConfig) (mw.Limiter, func()) {
	if redisCfg.URL == "" || limitCfg.Requests <= 0 {
		return nil, func() {}
	}
	client, err := database.ConnectRedis(redisCfg.URL)
	if err != nil {
		logger.Warn("Invalid REDIS_URL, rate limiting disabled", "error", err)
		return nil, func() {}
	}
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("Redis unreachable, rate limiter will fail open", "error", err)
	}
	return repository.NewRateLimitRepository(client, limitCfg.Requests, limitCfg.Window), func() { _ = client.Close() }
}
