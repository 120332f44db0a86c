// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"rekonet-workers/internal/common/aws"
	"rekonet-workers/internal/common/camunda"
	"rekonet-workers/internal/common/config"
	"rekonet-workers/internal/common/database"
	"rekonet-workers/internal/common/logger"
	"rekonet-workers/internal/common/observability"
	"rekonet-workers/internal/locale"
	"rekonet-workers/internal/readiness"
	"rekonet-workers/internal/store"

	// Assessment Workers (3)
	ca "rekonet-workers/internal/workers/assessment/create-assessment"
	ra "rekonet-workers/internal/workers/assessment/record-answer"
	sl "rekonet-workers/internal/workers/assessment/set-language"

	// Result Workers (2)
	cp "rekonet-workers/internal/workers/result/calculate-progress"
	crr "rekonet-workers/internal/workers/result/compute-readiness-result"

	// Role Workers (2)
	mr "rekonet-workers/internal/workers/roles/match-roles"
	src "rekonet-workers/internal/workers/roles/search-role-catalog"

	// Profile Workers (3)
	lcs "rekonet-workers/internal/workers/profile/load-cv-summary"
	pg "rekonet-workers/internal/workers/profile/plan-goal"
	sa "rekonet-workers/internal/workers/profile/save-availability"

	// Interview, Jobs & Communication Workers (3)
	rat "rekonet-workers/internal/workers/interview/record-attempt"
	bjl "rekonet-workers/internal/workers/jobs/build-live-job-links"
	srs "rekonet-workers/internal/workers/communication/send-result-summary"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
			if delay > 30*time.Second {
				delay = 30 * time.Second
			}
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()

	// Wrap zap logger with our logger interface
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	obs := observability.New(observability.Options{
		ServiceName:    cfg.Observability.ServiceName,
		TracingEnabled: cfg.Observability.TracingEnabled,
	}, log)
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init Zeebe Client (topology check retries inside) ---
	zeebe, err := camunda.NewClientWithConfig(&camunda.ClientConfig{
		GatewayAddress:         cfg.Camunda.BrokerAddress,
		UsePlaintextConnection: true,
		ConnectionTimeout:      time.Duration(cfg.Camunda.Timeout) * time.Millisecond,
		RequestTimeout:         time.Duration(cfg.Camunda.RequestTimeout) * time.Millisecond,
		RetryConfig: &camunda.RetryConfig{
			MaxRetries: 10,
			BaseDelay:  2 * time.Second,
			MaxDelay:   30 * time.Second,
		},
	})
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zapLog.Info("Zeebe client connected successfully")

	// --- Init PostgreSQL with retry ---
	var pgClient *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pgClient, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pgClient.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pgClient.Close()

	if err := pgClient.Migrate(ctx, store.Schema); err != nil {
		zapLog.Fatal("postgres schema failed", zap.Error(err))
	}
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Elasticsearch with retry ---
	var esClient *database.ElasticsearchClient
	err = retryWithBackoff(func() error {
		var err error
		esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			return err
		}
		return esClient.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "Elasticsearch connection")
	if err != nil {
		zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
	}
	zapLog.Info("Elasticsearch connected successfully")
	if created, err := esClient.EnsureIndex(ctx, cfg.Search.RoleIndex, store.RoleIndexMapping); err != nil {
		zapLog.Warn("role index not ensured, goal search will fall back to the catalog", zap.Error(err))
	} else if created {
		zapLog.Info("role index created", zap.String("index", cfg.Search.RoleIndex))
	}

	// --- Init Redis with retry ---
	redisClient := database.NewRedis(cfg.Database.Redis)
	err = retryWithBackoff(func() error {
		return redisClient.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")
	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redisClient.Close()
	zapLog.Info("Redis connected successfully")

	// --- Locale & Engine ---
	messages := locale.MustNew()
	if cfg.Locale.Dir != "" {
		if err := messages.LoadDir(cfg.Locale.Dir); err != nil {
			zapLog.Fatal("locale overrides failed", zap.Error(err), zap.String("dir", cfg.Locale.Dir))
		}
	}
	zapLog.Info("Locale catalogs loaded", zap.Strings("languages", messages.Languages()))

	settings, err := cfg.Engine.Settings()
	if err != nil {
		zapLog.Fatal("engine settings invalid", zap.Error(err))
	}
	engine, err := readiness.New(settings, messages)
	if err != nil {
		zapLog.Fatal("engine init failed", zap.Error(err))
	}

	// --- Stores ---
	pgStore := store.NewPostgresStore(pgClient.DB)
	var catalog store.RoleCatalog = pgStore
	if ttl := cfg.Cache.RoleCatalogTTLDuration(); ttl > 0 {
		catalog = store.NewCachedRoleCatalog(pgStore, redisClient.Client, ttl, log)
	}
	roleIndex := store.NewRoleIndex(esClient.Client, cfg.Search.RoleIndex)

	goals := readiness.DefaultGoalProfiles()
	if cfg.Catalog.Path != "" {
		seed, err := store.LoadCatalogFile(cfg.Catalog.Path)
		if err != nil {
			zapLog.Warn("role catalog file unavailable, using default goals", zap.Error(err))
		} else if len(seed.Goals) > 0 {
			goals = seed.Goals
		}
	}

	// --- Notifications ---
	var (
		emailSender aws.EmailSender
		smsSender   aws.SMSSender
	)
	if cfg.Notifications.Email.Enabled || cfg.Notifications.SMS.Enabled {
		sesClient, snsClient, err := aws.LoadClients(ctx, cfg.Notifications.AWS.Region)
		if err != nil {
			zapLog.Fatal("aws clients failed", zap.Error(err))
		}
		if cfg.Notifications.Email.Enabled {
			emailSender = sesClient
		}
		if cfg.Notifications.SMS.Enabled {
			smsSender = snsClient
		}
	}
	notifier := aws.NewNotifier(emailSender, smsSender,
		cfg.Notifications.Email.FromEmail, cfg.Notifications.SMS.SenderID)

	// --- START: Register Workers ---
	var workers []*camunda.Worker
	timeout := func(taskType string, fallback time.Duration) time.Duration {
		return cfg.Worker(taskType).TimeoutOr(fallback)
	}
	start := func(taskType string, handler camunda.JobHandler) {
		workers = append(workers, camunda.NewWorker(zeebe.GetClient(), camunda.WorkerOptions{
			TaskType:      taskType,
			MaxJobsActive: cfg.Worker(taskType).MaxJobsActive,
			Timeout:       time.Duration(cfg.Camunda.Timeout) * time.Millisecond,
		}, handler, log))
	}

	// --- 1. Assessment Workers (3) ---
	if cfg.Worker(ca.TaskType).Enabled {
		c := ca.LoadConfig()
		c.Timeout = timeout(ca.TaskType, c.Timeout)
		if cfg.Locale.DefaultLanguage != "" {
			c.DefaultLanguage = cfg.Locale.DefaultLanguage
		}
		start(ca.TaskType, ca.NewHandler(c, pgStore, messages, log))
	}

	if cfg.Worker(ra.TaskType).Enabled {
		c := ra.LoadConfig()
		c.Timeout = timeout(ra.TaskType, c.Timeout)
		start(ra.TaskType, ra.NewHandler(c, pgStore, log))
	}

	if cfg.Worker(sl.TaskType).Enabled {
		c := sl.LoadConfig()
		c.Timeout = timeout(sl.TaskType, c.Timeout)
		start(sl.TaskType, sl.NewHandler(c, pgStore, messages, log))
	}

	// --- 2. Result Workers (2) ---
	if cfg.Worker(crr.TaskType).Enabled {
		c := crr.LoadConfig()
		c.Timeout = timeout(crr.TaskType, c.Timeout)
		if cfg.Engine.TotalActivities > 0 {
			c.TotalActivities = cfg.Engine.TotalActivities
		}
		start(crr.TaskType, crr.NewHandler(c, pgStore, catalog, engine, obs, log))
	}

	if cfg.Worker(cp.TaskType).Enabled {
		c := cp.LoadConfig()
		c.Timeout = timeout(cp.TaskType, c.Timeout)
		start(cp.TaskType, cp.NewHandler(c, engine, log))
	}

	// --- 3. Role Workers (2) ---
	if cfg.Worker(mr.TaskType).Enabled {
		c := mr.LoadConfig()
		c.Timeout = timeout(mr.TaskType, c.Timeout)
		start(mr.TaskType, mr.NewHandler(c, catalog, engine, messages, log))
	}

	if cfg.Worker(src.TaskType).Enabled {
		c := src.LoadConfig()
		c.Timeout = timeout(src.TaskType, c.Timeout)
		c.Index = cfg.Search.RoleIndex
		if cfg.Search.MaxHits > 0 {
			c.MaxHits = cfg.Search.MaxHits
		}
		start(src.TaskType, src.NewHandler(c, roleIndex, catalog, log))
	}

	// --- 4. Profile Workers (3) ---
	if cfg.Worker(sa.TaskType).Enabled {
		c := sa.LoadConfig()
		c.Timeout = timeout(sa.TaskType, c.Timeout)
		start(sa.TaskType, sa.NewHandler(c, pgStore, log))
	}

	if cfg.Worker(lcs.TaskType).Enabled {
		c := lcs.LoadConfig()
		c.Timeout = timeout(lcs.TaskType, c.Timeout)
		start(lcs.TaskType, lcs.NewHandler(c, pgStore, log))
	}

	if cfg.Worker(pg.TaskType).Enabled {
		c := pg.LoadConfig()
		c.Timeout = timeout(pg.TaskType, c.Timeout)
		start(pg.TaskType, pg.NewHandler(c, pgStore, engine, goals, log))
	}

	// --- 5. Interview, Jobs & Communication Workers (3) ---
	if cfg.Worker(rat.TaskType).Enabled {
		c := rat.LoadConfig()
		c.Timeout = timeout(rat.TaskType, c.Timeout)
		start(rat.TaskType, rat.NewHandler(c, pgStore, engine, log))
	}

	if cfg.Worker(bjl.TaskType).Enabled {
		c := bjl.LoadConfig()
		c.Timeout = timeout(bjl.TaskType, c.Timeout)
		start(bjl.TaskType, bjl.NewHandler(c, engine, log))
	}

	if cfg.Worker(srs.TaskType).Enabled {
		if !notifier.EmailEnabled() && !notifier.SMSEnabled() {
			zapLog.Warn("send-result-summary enabled with no notification channel")
		}
		c := srs.LoadConfig()
		c.Timeout = timeout(srs.TaskType, c.Timeout)
		if !notifier.EmailEnabled() && notifier.SMSEnabled() {
			c.DefaultChannel = srs.ChannelSMS
		}
		start(srs.TaskType, srs.NewHandler(c, notifier, messages, log))
	}
	zapLog.Info("Workers registered", zap.Int("count", len(workers)))

	// --- Health & Metrics Server ---
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusOK, map[string]string{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		checkCtx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		checks := map[string]string{}
		status := http.StatusOK
		for name, ping := range map[string]func(context.Context) error{
			"postgres":      pgClient.Ping,
			"redis":         redisClient.Ping,
			"elasticsearch": esClient.Ping,
			"zeebe":         zeebe.HealthCheck,
		} {
			if err := ping(checkCtx); err != nil {
				checks[name] = err.Error()
				status = http.StatusServiceUnavailable
				continue
			}
			checks[name] = "ok"
		}
		checks["time"] = time.Now().Format(time.RFC3339)
		writeStatus(w, status, checks)
	})
	if cfg.Observability.MetricsEnabled {
		mux.Handle("/metrics", promhttp.Handler())
	}

	port := cfg.App.HealthPort
	if port == 0 {
		port = 8080
	}
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		zapLog.Info("Health/Metrics server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, w := range workers {
		w.Stop(shutdownCtx)
	}
	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping health server", zap.Error(err))
	}
	if err := zeebe.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}

func writeStatus(w http.ResponseWriter, status int, body map[string]string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
