package main

import (
	"context"
	"flag"
	"os"

	"github.com/joho/godotenv"

	"github.com/fuelguard/fuelguard-backend/internal/seed"
	"github.com/fuelguard/fuelguard-backend/pkg/config"
	"github.com/fuelguard/fuelguard-backend/pkg/db"
	"github.com/fuelguard/fuelguard-backend/pkg/logger"
	"github.com/fuelguard/fuelguard-backend/pkg/migrate"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "seed"})

	_ = godotenv.Load()

	backfillSlugs := flag.Bool("backfill-slugs", false, "only backfill missing station slugs")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "seed",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	if cfg.App.IsProd() {
		logg.Error(context.Background(), "refusing to seed a production environment", nil)
		os.Exit(1)
	}

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

	ctx := logg.WithField(context.Background(), "env", cfg.App.Env)

	if *backfillSlugs {
		if err := seed.BackfillStationSlugs(ctx, dbClient.DB(), logg); err != nil {
			logg.Error(ctx, "slug backfill failed", err)
			os.Exit(1)
		}
		logg.Info(ctx, "slug backfill complete")
		return
	}

	seeder, err := seed.New(dbClient.DB(), logg, cfg.Password)
	if err != nil {
		logg.Error(ctx, "failed to create seeder", err)
		os.Exit(1)
	}
	if err := seeder.Run(ctx); err != nil {
		logg.Error(ctx, "seeding failed", err)
		os.Exit(1)
	}
}
