package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/angelmondragon/stockkeeper/pkg/config"
	"github.com/angelmondragon/stockkeeper/pkg/db"
	"github.com/angelmondragon/stockkeeper/pkg/logger"
	"github.com/angelmondragon/stockkeeper/pkg/migrate"
)

func main() {
	// bootstrap logger early (then re-init after config load)
	logg := logger.New(logger.Options{ServiceName: "migrate"})

	_ = godotenv.Load()

	cmd := flag.String("cmd", migrate.CommandUp, "migration command: up|down|status|version")
	version := flag.String("version", "", "target schema version for -cmd=version")
	flag.Parse()

	cfg, err := config.Load()
	requireResource(context.Background(), logg, "config", err)

	level := logger.ParseLevel(cfg.App.LogLevel)
	logg = logger.New(logger.Options{
		ServiceName: "migrate",
		Level:       &level,
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":    cfg.App.Env,
		"cmd":    *cmd,
		"driver": cfg.DB.Driver,
	})

	dbClient, err := db.New(ctx, cfg.DB, logg)
	requireResource(ctx, logg, "database", err)
	defer dbClient.Close()

	logg.Info(ctx, "migrate ready")

	if *cmd == migrate.CommandVersion && *version != "" {
		err = migrate.MigrateToVersion(ctx, dbClient, logg, *version)
	} else {
		err = migrate.Run(ctx, dbClient, logg, *cmd)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "migrate %s failed: %v\n", *cmd, err)
		dbClient.Close()
		os.Exit(1)
	}
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
