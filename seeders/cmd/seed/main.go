package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"hvac-service/internal/repositories"
	"hvac-service/pkg/config"
	"hvac-service/pkg/database/migrations"
	"hvac-service/pkg/database/postgresql"
	applogger "hvac-service/pkg/logger"
	"hvac-service/seeders"

	"go.uber.org/zap"
)

func main() {
	runMigrate := flag.Bool("migrate", false, "apply database migrations")
	runAdmin := flag.Bool("admin", false, "create the first admin from SEED_ADMIN_USERNAME / SEED_ADMIN_PASSWORD")
	runDemo := flag.Bool("demo", false, "insert a demo client, site tree, assets and users")
	flag.Parse()

	if !*runMigrate && !*runAdmin && !*runDemo {
		fmt.Fprintln(os.Stderr, "nothing to do; available flags:")
		flag.PrintDefaults()
		fmt.Fprintln(os.Stderr, "\nexample: go run ./seeders/cmd/seed -migrate -admin")
		os.Exit(2)
	}

	cfg := config.New()
	logger := applogger.NewLogger(cfg.Log.Mode, "").Named("seed")
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()
	pool, err := postgresql.ConnectDB(ctx, cfg.Postgres.DSN)
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}
	defer pool.Close()

	if *runMigrate {
		if err := migrations.Up(ctx, pool); err != nil {
			logger.Fatal("migrations failed", zap.Error(err))
		}
		logger.Info("migrations applied")
	}

	s := seeders.New(
		repositories.NewUserRepository(pool, logger),
		repositories.NewLocationRepository(pool, logger),
		repositories.NewAssetRepository(pool, logger),
		logger,
	)

	if *runAdmin {
		if err := s.SeedAdmin(ctx, os.Getenv("SEED_ADMIN_USERNAME"), os.Getenv("SEED_ADMIN_PASSWORD")); err != nil {
			logger.Fatal("admin seeding failed", zap.Error(err))
		}
	}
	if *runDemo {
		if err := s.SeedDemo(ctx); err != nil {
			logger.Fatal("demo seeding failed", zap.Error(err))
		}
	}
	logger.Info("seeding finished")
}
