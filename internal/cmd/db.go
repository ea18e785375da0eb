package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/PauloHFS/inkpress/internal/config"
	"github.com/PauloHFS/inkpress/internal/db"
	"github.com/PauloHFS/inkpress/internal/logging"
)

func initDB() (*config.Config, *db.DualPool, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	logging.Init(cfg.LogLevel)

	pool, err := db.NewDualPool(cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}
	return cfg, pool, nil
}

// RunSeed migrates and loads the default categories and tags. Outside prod
// it also creates an "admin" account when --admin-password is given.
func RunSeed(args []string) {
	flags := pflag.NewFlagSet("seed", pflag.ExitOnError)
	clearFirst := flags.Bool("clear", false, "delete existing categories and tags first")
	adminPassword := flags.String("admin-password", "", "create an admin account with this password (non-prod only)")
	_ = flags.Parse(args)

	cfg, pool, err := initDB()
	if err != nil {
		panic(err)
	}
	defer pool.Close()
	logger := logging.Get()

	if err := db.RunMigrations(context.Background(), pool.Write); err != nil {
		logger.Error("failed to run migrations during seed", "error", err)
		os.Exit(1)
	}

	opts := db.SeedOptions{Clear: *clearFirst}
	if *adminPassword != "" {
		if cfg.IsProd() {
			logger.Error("refusing to seed an admin account in prod; use create-user")
			os.Exit(1)
		}
		opts.AdminPassword = *adminPassword
	}

	if _, err := db.Seed(context.Background(), pool, opts); err != nil {
		logger.Error("failed to seed database", "error", err)
		os.Exit(1)
	}
	logger.Info("database seeded successfully")
}

func RunMigrate() {
	_, pool, err := initDB()
	if err != nil {
		panic(err)
	}
	defer pool.Close()
	logger := logging.Get()

	if err := db.RunMigrations(context.Background(), pool.Write); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}
	logger.Info("migrations executed successfully")
}
