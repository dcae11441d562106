package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"sales_pipeline_backend/internal/adapters"
	"sales_pipeline_backend/internal/adapters/storage"
	"sales_pipeline_backend/internal/appointments"
	"sales_pipeline_backend/internal/assistant"
	"sales_pipeline_backend/internal/email"
	"sales_pipeline_backend/internal/engagement"
	"sales_pipeline_backend/internal/events"
	"sales_pipeline_backend/internal/goals"
	apphttp "sales_pipeline_backend/internal/http"
	"sales_pipeline_backend/internal/http/router"
	"sales_pipeline_backend/internal/leads"
	"sales_pipeline_backend/internal/notification"
	"sales_pipeline_backend/internal/notification/push"
	"sales_pipeline_backend/internal/webhook"
	"sales_pipeline_backend/platform/ai/gemini"
	"sales_pipeline_backend/platform/config"
	"sales_pipeline_backend/platform/db"
	"sales_pipeline_backend/platform/logger"
	"sales_pipeline_backend/platform/validator"
	"sales_pipeline_backend/platform/webpush"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ensureBucket wraps the retry logic for verifying a MinIO bucket exists.
func ensureBucket(ctx context.Context, log *logger.Logger, storageSvc storage.StorageService, name, bucket string) error {
	return withRetry(ctx, log, "ensure "+name+" bucket", 5, 2*time.Second, func() error {
		return storageSvc.EnsureBucketExists(ctx, bucket)
	})
}

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

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, pool)
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	sender, err := email.NewSender(cfg)
	if err != nil {
		log.Error("failed to initialize email sender", "error", err)
		panic("failed to initialize email sender: " + err.Error())
	}

	// Shared validator instance for dependency injection
	val := validator.New()

	pusher := initPusher(cfg, log)
	markers, closeMarkers := initMarkerStore(ctx, cfg, log)
	if closeMarkers != nil {
		defer closeMarkers()
	}
	generator := initGenerator(ctx, cfg, log)
	archive := initDocumentArchive(ctx, cfg, log)

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	notificationModule := notification.New(pool, sender, pusher, eventBus, val, cfg, log)
	notificationModule.RegisterHandlers(eventBus)
	inApp := notificationModule.InAppService()

	// Leads is built before engagement; goal progress is set afterwards
	// (breaks the leads <-> engagement cycle).
	leadsModule := leads.NewModule(pool, eventBus, val, adapters.NewLeadsNotifier(inApp), cfg, log)
	webhookModule := webhook.NewModule(leadsModule.ManagementService(), cfg, log)
	goalsModule := goals.NewModule(pool, val)
	appointmentsModule := appointments.NewModule(pool, val, eventBus)

	engagementModule := engagement.NewModule(
		adapters.NewLeadStats(leadsModule.Repository()),
		goalsModule.Service,
		adapters.NewEngagementNotifier(inApp),
		markers,
		log,
	)
	leadsModule.SetGoalProgressReader(adapters.NewGoalProgressReader(engagementModule.Service()))

	assistantModule, err := assistant.NewModule(
		generator,
		leadsModule.Repository(),
		adapters.NewAssistantNotifier(inApp),
		archive,
		cfg,
		val,
		log,
	)
	if err != nil {
		log.Error("failed to initialize assistant module", "error", err)
		panic("failed to initialize assistant module: " + err.Error())
	}

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   pool,
		EventBus: eventBus,
		Modules: []apphttp.Module{
			leadsModule,
			webhookModule,
			engagementModule,
			goalsModule,
			appointmentsModule,
			assistantModule,
			notificationModule,
		},
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router.New(app),
		ReadHeaderTimeout: 10 * time.Second,
	}

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			srvErr <- err
		}
		close(srvErr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
	case err := <-srvErr:
		if err != nil {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}

	// SSE streams never finish on their own; close them before draining.
	notificationModule.SSE().Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http server shutdown failed", "error", err)
	}
	eventBus.Wait()
	log.Info("server stopped")
}

func initPusher(cfg config.PushConfig, log *logger.Logger) push.Pusher {
	if !cfg.IsPushEnabled() {
		log.Warn("VAPID keys not configured; web push delivery disabled")
		return nil
	}
	sender, err := webpush.NewSender(webpush.Config{
		VAPIDPublicKey:  cfg.GetVAPIDPublicKey(),
		VAPIDPrivateKey: cfg.GetVAPIDPrivateKey(),
		Subject:         cfg.GetVAPIDSubject(),
	})
	if err != nil {
		log.Error("failed to initialize web push sender", "error", err)
		return nil
	}
	return sender
}

func initMarkerStore(ctx context.Context, cfg config.RedisConfig, log *logger.Logger) (engagement.MarkerStore, func()) {
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; engagement markers kept in memory")
		return engagement.NewMemoryMarkerStore(), nil
	}

	client, err := engagement.NewRedisClient(cfg.GetRedisURL())
	if err != nil {
		log.Error("failed to initialize redis client", "error", err)
		return engagement.NewMemoryMarkerStore(), nil
	}
	if err := withRetry(ctx, log, "redis connection", 3, time.Second, func() error {
		return client.Ping(ctx).Err()
	}); err != nil {
		log.Error("redis unreachable; engagement markers kept in memory", "error", err)
		_ = client.Close()
		return engagement.NewMemoryMarkerStore(), nil
	}

	log.Info("engagement marker store initialized", "backend", "redis")
	return engagement.NewRedisMarkerStore(client, cfg.GetEngagementMarkerTTL()), func() {
		_ = client.Close()
	}
}

func initGenerator(ctx context.Context, cfg config.GeminiConfig, log *logger.Logger) assistant.TextGenerator {
	if !cfg.IsGeminiEnabled() {
		log.Warn("GEMINI_API_KEY not configured; generation falls back where possible")
		return nil
	}
	client, err := gemini.NewClient(ctx, gemini.Config{
		APIKey:  cfg.GetGeminiAPIKey(),
		Model:   cfg.GetGeminiModel(),
		Timeout: cfg.GetGenerationTimeout(),
	})
	if err != nil {
		log.Error("failed to initialize gemini client", "error", err)
		return nil
	}
	log.Info("text generation initialized", "model", client.Model())
	return client
}

func initDocumentArchive(ctx context.Context, cfg *config.Config, log *logger.Logger) assistant.DocumentArchive {
	if !cfg.IsMinIOEnabled() {
		log.Info("MINIO_ENDPOINT not configured; generated documents are not archived")
		return nil
	}
	storageSvc, err := storage.NewMinIOService(cfg)
	if err != nil {
		log.Error("failed to initialize storage service", "error", err)
		return nil
	}
	if err := ensureBucket(ctx, log, storageSvc, "documents", cfg.GetMinioBucketDocuments()); err != nil {
		log.Error("failed to ensure storage bucket exists", "error", err, "bucket", cfg.GetMinioBucketDocuments())
		return nil
	}
	log.Info("storage service initialized", "documentsBucket", cfg.GetMinioBucketDocuments())
	return assistant.NewArchive(storageSvc, cfg.GetMinioBucketDocuments())
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
