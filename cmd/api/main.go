package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/fuelguard/fuelguard-backend/api/routes"
	"github.com/fuelguard/fuelguard-backend/internal/audit"
	"github.com/fuelguard/fuelguard-backend/internal/auth"
	"github.com/fuelguard/fuelguard-backend/internal/companies"
	"github.com/fuelguard/fuelguard-backend/internal/compliance"
	"github.com/fuelguard/fuelguard-backend/internal/evidence"
	"github.com/fuelguard/fuelguard-backend/internal/export"
	"github.com/fuelguard/fuelguard-backend/internal/obligations"
	"github.com/fuelguard/fuelguard-backend/internal/periods"
	"github.com/fuelguard/fuelguard-backend/internal/stations"
	"github.com/fuelguard/fuelguard-backend/internal/submissions"
	"github.com/fuelguard/fuelguard-backend/internal/tasks"
	"github.com/fuelguard/fuelguard-backend/internal/users"
	pkgauth "github.com/fuelguard/fuelguard-backend/pkg/auth"
	"github.com/fuelguard/fuelguard-backend/pkg/auth/session"
	"github.com/fuelguard/fuelguard-backend/pkg/config"
	"github.com/fuelguard/fuelguard-backend/pkg/db"
	"github.com/fuelguard/fuelguard-backend/pkg/logger"
	"github.com/fuelguard/fuelguard-backend/pkg/migrate"
	"github.com/fuelguard/fuelguard-backend/pkg/redis"
	"github.com/fuelguard/fuelguard-backend/pkg/storage"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	gormDB := dbClient.DB()

	sessionManager, err := session.NewManager(gormDB, cfg.Session.TTL())
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	tokens, err := pkgauth.NewTokenIssuer(cfg.Session)
	if err != nil {
		logg.Error(context.Background(), "failed to create token issuer", err)
		os.Exit(1)
	}

	fileStore, err := storage.NewLocalStore(cfg.Storage)
	if err != nil {
		logg.Error(context.Background(), "failed to create evidence store", err)
		os.Exit(1)
	}

	auditRepo := audit.NewRepository(gormDB)
	recorder := audit.NewRecorder(auditRepo, logg)

	companyRepo := companies.NewRepository(gormDB)
	stationRepo := stations.NewRepository(gormDB)
	userRepo := users.NewRepository(gormDB)
	obligationRepo := obligations.NewRepository(gormDB)
	periodRepo := periods.NewRepository(gormDB)
	submissionRepo := submissions.NewRepository(gormDB)
	taskRepo := tasks.NewRepository(gormDB)
	evidenceRepo := evidence.NewRepository(gormDB)

	companyService, err := companies.NewService(companyRepo, recorder)
	if err != nil {
		logg.Error(context.Background(), "failed to create company service", err)
		os.Exit(1)
	}
	stationService, err := stations.NewService(stationRepo, companyRepo, recorder)
	if err != nil {
		logg.Error(context.Background(), "failed to create station service", err)
		os.Exit(1)
	}
	userService, err := users.NewService(userRepo, sessionManager, recorder, cfg.Password)
	if err != nil {
		logg.Error(context.Background(), "failed to create user service", err)
		os.Exit(1)
	}
	authService, err := auth.NewService(userRepo, sessionManager, tokens)
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}
	obligationService, err := obligations.NewService(obligationRepo, recorder)
	if err != nil {
		logg.Error(context.Background(), "failed to create obligation service", err)
		os.Exit(1)
	}
	periodService, err := periods.NewService(periodRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create period service", err)
		os.Exit(1)
	}
	complianceService, err := compliance.NewService(submissionRepo, stationRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create compliance service", err)
		os.Exit(1)
	}
	taskService, err := tasks.NewService(taskRepo, stationRepo, recorder)
	if err != nil {
		logg.Error(context.Background(), "failed to create task service", err)
		os.Exit(1)
	}
	submissionService, err := submissions.NewService(
		submissionRepo,
		stationRepo,
		obligationService,
		periodService,
		recorder,
		tasks.FromRejectedSubmission(taskService),
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create submission service", err)
		os.Exit(1)
	}
	evidenceService, err := evidence.NewService(evidenceRepo, stationRepo, fileStore, recorder)
	if err != nil {
		logg.Error(context.Background(), "failed to create evidence service", err)
		os.Exit(1)
	}
	exportRepo, err := export.NewRepository(gormDB)
	if err != nil {
		logg.Error(context.Background(), "failed to create export repository", err)
		os.Exit(1)
	}
	exportService, err := export.NewService(exportRepo, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create export service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, gormDB, redisClient, tokens, sessionManager, routes.Services{
			Auth:        authService,
			Companies:   companyService,
			Stations:    stationService,
			Users:       userService,
			Obligations: obligationService,
			Periods:     periodService,
			Compliance:  complianceService,
			Submissions: submissionService,
			Tasks:       taskService,
			Evidence:    evidenceService,
			Export:      exportService,
			AuditRepo:   auditRepo,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
