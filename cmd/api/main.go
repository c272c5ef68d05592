package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"tripdesk_backend/internal/adapters"
	"tripdesk_backend/internal/assistant"
	"tripdesk_backend/internal/billing"
	billingservice "tripdesk_backend/internal/billing/service"
	"tripdesk_backend/internal/bookings"
	"tripdesk_backend/internal/bookings/ports"
	"tripdesk_backend/internal/email"
	"tripdesk_backend/internal/events"
	"tripdesk_backend/internal/fleet"
	apphttp "tripdesk_backend/internal/http"
	"tripdesk_backend/internal/http/router"
	"tripdesk_backend/internal/leads"
	"tripdesk_backend/internal/notification"
	"tripdesk_backend/internal/scheduler"
	"tripdesk_backend/platform/ai/openrouter"
	"tripdesk_backend/platform/config"
	"tripdesk_backend/platform/db"
	"tripdesk_backend/platform/logger"
	"tripdesk_backend/platform/redislock"
	"tripdesk_backend/platform/storage"
	"tripdesk_backend/platform/validator"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg, "migrations")
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	eventBus := events.NewInMemoryBus(log)
	val := validator.New()

	finalizeLocker := initFinalizeLocker(cfg, log)

	followUps, closeFollowUps := initFollowUpScheduler(cfg, log)
	if closeFollowUps != nil {
		defer closeFollowUps()
	}

	var invoiceStore billingservice.ObjectStore
	if cfg.IsMinIOEnabled() {
		storageClient, err := storage.New(cfg)
		if err != nil {
			log.Error("failed to initialize storage client", "error", err)
			panic("failed to initialize storage client: " + err.Error())
		}
		if err := withRetry(ctx, log, "ensure invoices bucket", 5, 2*time.Second, func() error {
			return storageClient.EnsureBucket(ctx, cfg.GetMinioBucketInvoices())
		}); err != nil {
			log.Error("failed to ensure invoices bucket", "error", err, "bucket", cfg.GetMinioBucketInvoices())
			panic("failed to ensure invoices bucket: " + err.Error())
		}
		invoiceStore = storageClient
		log.Info("storage initialized", "invoicesBucket", cfg.GetMinioBucketInvoices())
	} else {
		log.Warn("MINIO_ENDPOINT not configured; invoice PDFs disabled")
	}

	var sender email.Sender
	if cfg.IsEmailEnabled() {
		sender = email.NewSMTPSender(cfg)
	} else {
		log.Warn("SMTP not configured; ops alert emails disabled")
	}

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	// Notification module subscribes to domain events (not HTTP-facing)
	notificationModule := notification.New(sender, cfg, log)
	notificationModule.RegisterHandlers(eventBus)

	fleetModule := fleet.NewModule(pool, val, log)
	billingModule := billing.NewModule(pool, invoiceStore, cfg.GetMinioBucketInvoices(), cfg, log)
	bookingsModule := bookings.NewModule(pool, fleetModule.Service(), billingModule.Service(), finalizeLocker, eventBus, cfg, val, log)
	leadsModule := leads.NewModule(pool, eventBus, followUps, val, log)

	modules := []apphttp.Module{
		fleetModule,
		bookingsModule,
		billingModule,
		leadsModule,
	}

	if cfg.IsAssistantEnabled() {
		model := openrouter.NewClient(cfg)
		assistantModule := assistant.NewModule(model, fleetModule.Service(), bookingsModule.Service(), leadsModule.Service(), val, log)
		modules = append(modules, assistantModule)
		log.Info("assistant enabled", "model", model.Model())
	} else {
		log.Warn("OPENROUTER_API_KEY not configured; assistant disabled")
	}

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   db.NewPoolAdapter(pool),
		EventBus: eventBus,
		Modules:  modules,
	}

	engine := router.New(app)

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- engine.Run(cfg.HTTPAddr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = shutdownCtx
	case err := <-srvErr:
		if err != nil {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

func initFinalizeLocker(cfg *config.Config, log *logger.Logger) ports.FinalizeLocker {
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; finalize runs without a distributed lock")
		return nil
	}

	opt, err := redis.ParseURL(cfg.GetRedisURL())
	if err != nil {
		log.Error("invalid REDIS_URL; finalize runs without a distributed lock", "error", err)
		return nil
	}

	client := redis.NewClient(opt)
	return adapters.NewFinalizeLocker(redislock.New(client, cfg.GetFinalizeLockTTL()), log)
}

func initFollowUpScheduler(cfg config.SchedulerConfig, log *logger.Logger) (scheduler.FollowUpScheduler, func()) {
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; lead follow-up tasks disabled")
		return nil, nil
	}

	client, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize follow-up scheduler client", "error", err)
		return nil, nil
	}

	return client, func() {
		_ = client.Close()
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
