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

	"github.com/joho/godotenv"

	adminhandler "pccreg/internal/admin/handler"
	adminservice "pccreg/internal/admin/service"
	adminstore "pccreg/internal/admin/store"
	audithandler "pccreg/internal/audit/handler"
	auditpublisher "pccreg/internal/audit/publisher"
	auditservice "pccreg/internal/audit/service"
	auditstore "pccreg/internal/audit/store"
	contenthandler "pccreg/internal/content/handler"
	contentservice "pccreg/internal/content/service"
	contentstore "pccreg/internal/content/store"
	jwttoken "pccreg/internal/jwt_token"
	"pccreg/internal/platform/config"
	"pccreg/internal/platform/httpserver"
	"pccreg/internal/platform/logger"
	"pccreg/internal/platform/postgres"
	platformredis "pccreg/internal/platform/redis"
	rlmetrics "pccreg/internal/ratelimit/metrics"
	rlservice "pccreg/internal/ratelimit/service"
	rlstore "pccreg/internal/ratelimit/store"
	reghandler "pccreg/internal/registration/handler"
	regmetrics "pccreg/internal/registration/metrics"
	regservice "pccreg/internal/registration/service"
	regstore "pccreg/internal/registration/store"
	"pccreg/internal/seed"
	"pccreg/internal/siteconfig"
	httptransport "pccreg/internal/transport/http"
	"pccreg/internal/upload"
)

// main wires dependencies and owns the server lifecycle. Business logic lives
// in the internal service packages.
func main() {
	_ = godotenv.Load()

	cfg := config.FromEnv()
	log := logger.New()

	if err := run(cfg, log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Server, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Storage. Without a database everything runs in memory, which is enough
	// for local development but loses state on restart.
	var (
		registrations regservice.Store
		admins        adminservice.Store
		contents      contentservice.Store
		configs       siteconfig.Store
		auditLog      auditservice.Store
	)
	if cfg.DatabaseURL != "" {
		db, err := postgres.Open(cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer db.Close()

		registrations = regstore.NewPostgres(db)
		admins = adminstore.NewPostgres(db)
		contents = contentstore.NewPostgres(db)
		configs = siteconfig.NewPostgres(db)
		auditLog = auditstore.NewPostgres(db)
	} else {
		log.Warn("DATABASE_URL not set, using in-memory stores")
		registrations = regstore.NewInMemory()
		admins = adminstore.NewInMemory()
		contents = contentstore.NewInMemory()
		configs = siteconfig.NewInMemoryStore()
		auditLog = auditstore.NewInMemory()
	}

	// Rate limiting. Redis gives a shared window across replicas; the
	// in-process store covers single-instance deployments.
	var windows rlservice.WindowStore
	if redisClient, err := platformredis.New(cfg.Redis); err != nil {
		return err
	} else if redisClient != nil {
		defer redisClient.Close()
		windows = rlstore.NewRedis(redisClient.Client)
	} else {
		log.Warn("REDIS_URL not set, using in-process rate limit windows")
		windows = rlstore.NewInMemory()
	}

	// Audit trail. The database log is the source of truth; Kafka is an
	// optional fan-out for downstream consumers.
	auditOpts := []auditservice.Option{auditservice.WithLogger(log)}
	if len(cfg.Kafka.Brokers) > 0 {
		publisher, err := auditpublisher.NewKafka(ctx, cfg.Kafka.Brokers, cfg.Kafka.Topic)
		if err != nil {
			return err
		}
		defer publisher.Close()
		auditOpts = append(auditOpts, auditservice.WithPublisher(publisher))
	}
	auditRecorder := auditservice.NewRecorder(auditLog, auditOpts...)

	tokens := jwttoken.NewJWTService(cfg.JWTSigningKey, "pccreg")

	configService := siteconfig.NewService(configs,
		siteconfig.WithLogger(log),
		siteconfig.WithAuditEmitter(auditRecorder),
	)

	registrationService, err := regservice.New(registrations, configService,
		regservice.WithLogger(log),
		regservice.WithMetrics(regmetrics.New()),
		regservice.WithAuditEmitter(auditRecorder),
	)
	if err != nil {
		return err
	}

	contentService, err := contentservice.New(contents, configService,
		contentservice.WithLogger(log),
		contentservice.WithAuditEmitter(auditRecorder),
	)
	if err != nil {
		return err
	}

	limiter, err := rlservice.New(windows,
		rlservice.WithLogger(log),
		rlservice.WithMetrics(rlmetrics.New()),
		rlservice.WithDisabled(cfg.RateLimitDisabled),
	)
	if err != nil {
		return err
	}

	adminService, err := adminservice.New(admins, tokens,
		adminservice.WithLogger(log),
		adminservice.WithLoginLimiter(limiter),
		adminservice.WithAuditEmitter(auditRecorder),
	)
	if err != nil {
		return err
	}

	blobs, err := upload.NewLocalStore(cfg.Upload.Dir, cfg.Upload.BaseURL)
	if err != nil {
		return err
	}
	uploadService := upload.New(blobs, upload.WithLogger(log))

	router := httptransport.New(httptransport.Deps{
		Logger:        log,
		Tokens:        tokens,
		Limiter:       limiter,
		Registrations: reghandler.New(registrationService, log),
		SiteConfig:    siteconfig.NewHandler(configService, log),
		Content:       contenthandler.New(contentService, log),
		Auth:          adminhandler.New(adminService, log),
		Audit:         audithandler.New(auditRecorder, log),
		Upload:        upload.NewHandler(uploadService, log),
		Seed:          seed.NewHandler(cfg.SeedSecret, cfg.SeedAdminUsername, cfg.SeedAdminPassword, adminService, configService, log),
		UploadDir:     cfg.Upload.Dir,
	})

	srv := httpserver.New(cfg.Addr, router)

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
