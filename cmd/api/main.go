package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"realty_leads_backend/internal/adapters/storage"
	"realty_leads_backend/internal/agents"
	"realty_leads_backend/internal/crm"
	"realty_leads_backend/internal/email"
	apphttp "realty_leads_backend/internal/http"
	"realty_leads_backend/internal/http/router"
	"realty_leads_backend/internal/intake"
	"realty_leads_backend/internal/leadservice"
	"realty_leads_backend/internal/notification"
	"realty_leads_backend/platform/config"
	"realty_leads_backend/platform/db"
	platformevents "realty_leads_backend/platform/events"
	"realty_leads_backend/platform/logger"
	"realty_leads_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
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

	// Event bus for decoupled communication between modules
	eventBus := platformevents.NewInMemoryBus(log)

	// Shared validator instance for dependency injection
	val := validator.New()

	// Mail transport for the notification fan-out
	var sender email.Sender
	if cfg.GetEmailEnabled() {
		sender = email.NewSMTPSender(cfg)
		log.Info("SMTP sender initialized", "host", cfg.GetSMTPHost())
	} else {
		sender = email.NewNoopSender(log)
		log.Warn("email disabled; notifications will be logged only")
	}

	// Submission archive for manual recovery after total persistence failure
	archive := initArchive(ctx, cfg, log)

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	agentDirectory := agents.NewRepository(pool)
	notifier := notification.NewNotifier(sender, agentDirectory, cfg, log)

	// CRM sync subscribes to lead-captured events and queues delivery tasks
	if cfg.IsCRMSyncEnabled() {
		crmClient, err := crm.NewClient(cfg, log)
		if err != nil {
			log.Error("failed to initialize CRM sync client", "error", err)
			panic("failed to initialize CRM sync client: " + err.Error())
		}
		defer crmClient.Close()
		crmClient.Subscribe(eventBus)
		log.Info("CRM sync enabled", "queue", cfg.GetSyncQueueName())
	} else {
		log.Warn("CRM sync disabled; REDIS_URL or CRM_WEBHOOK_URL not configured")
	}

	// Secondary lead service is the fallback persistence tier
	var fallbackStore intake.Store
	if cfg.IsLeadServiceEnabled() {
		fallbackStore = leadservice.New(cfg)
		log.Info("lead service fallback enabled", "url", cfg.GetLeadServiceURL())
	} else {
		log.Warn("lead service fallback disabled; LEAD_SERVICE_URL not configured")
	}

	intakeModule := intake.NewModule(intake.Deps{
		Pool:          pool,
		FallbackStore: fallbackStore,
		Notifier:      notifier,
		Archive:       archive,
		EventBus:      eventBus,
		Validator:     val,
		Logger:        log,
	})

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   db.NewPoolAdapter(pool),
		EventBus: eventBus,
		Modules: []apphttp.Module{
			intakeModule,
		},
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

func initArchive(ctx context.Context, cfg *config.Config, log *logger.Logger) storage.ArchiveService {
	if !cfg.IsArchiveEnabled() {
		log.Warn("submission archive disabled; MINIO_ENDPOINT not configured")
		return nil
	}

	archive, err := storage.NewMinIOArchive(cfg)
	if err != nil {
		log.Error("failed to initialize submission archive", "error", err)
		return nil
	}

	if err := withRetry(ctx, log, "ensure archive bucket", 5, 2*time.Second, func() error {
		return archive.EnsureBucketExists(ctx)
	}); err != nil {
		log.Error("failed to ensure archive bucket exists", "error", err, "bucket", cfg.GetArchiveBucket())
		return nil
	}

	log.Info("submission archive initialized", "bucket", cfg.GetArchiveBucket())
	return archive
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
