package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/angelmondragon/stockkeeper/api/routes"
	"github.com/angelmondragon/stockkeeper/api/web"
	"github.com/angelmondragon/stockkeeper/internal/export"
	"github.com/angelmondragon/stockkeeper/internal/products"
	"github.com/angelmondragon/stockkeeper/internal/purchaseorders"
	"github.com/angelmondragon/stockkeeper/internal/vendors"
	"github.com/angelmondragon/stockkeeper/pkg/config"
	"github.com/angelmondragon/stockkeeper/pkg/db"
	"github.com/angelmondragon/stockkeeper/pkg/env"
	"github.com/angelmondragon/stockkeeper/pkg/logger"
	"github.com/angelmondragon/stockkeeper/pkg/metrics"
	"github.com/angelmondragon/stockkeeper/pkg/migrate"
	"github.com/angelmondragon/stockkeeper/pkg/redis"
)

const shutdownTimeout = 10 * time.Second

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

	level := logger.ParseLevel(cfg.App.LogLevel)
	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       &level,
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}

	if cfg.Features.AutoMigrate {
		if err := migrate.Up(ctx, dbClient, logg); err != nil {
			logg.Error(ctx, "failed to run migrations", err)
			_ = dbClient.Close()
			os.Exit(1)
		}
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			logg.Error(ctx, "failed to bootstrap redis", err)
			_ = dbClient.Close()
			os.Exit(1)
		}
	} else {
		logg.Info(ctx, "redis not configured, idempotency keys disabled")
	}

	var (
		obs              routes.Observability
		inventoryMetrics *metrics.InventoryMetrics
	)
	if cfg.Features.Metrics {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		obs = routes.Observability{Registry: reg, HTTP: metrics.NewHTTPMetrics(reg)}
		inventoryMetrics = metrics.NewInventoryMetrics(reg)
	}

	handler, err := buildHandler(cfg, logg, dbClient, redisClient, obs, inventoryMetrics)
	if err != nil {
		logg.Error(ctx, "failed to wire services", err)
		closeResources(logg, dbClient, redisClient)
		os.Exit(1)
	}

	addr := ":" + env.First(cfg.App.Port, config.EnvPlatformPort)
	ctx = logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})

	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		logg.Info(ctx, "starting api server")
		serveErr <- server.ListenAndServe()
	}()

	exitCode := 0
	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			exitCode = 1
		}
	case <-ctx.Done():
		logg.Info(context.WithoutCancel(ctx), "shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(shutdownCtx, "graceful shutdown failed", err)
			exitCode = 1
		}
		cancel()
	}

	closeResources(logg, dbClient, redisClient)
	os.Exit(exitCode)
}

func buildHandler(
	cfg *config.Config,
	logg *logger.Logger,
	dbClient *db.Client,
	redisClient *redis.Client,
	obs routes.Observability,
	inventoryMetrics *metrics.InventoryMetrics,
) (http.Handler, error) {
	productRepo := products.NewRepository(dbClient.DB())
	productSvc, err := products.NewService(productRepo)
	if err != nil {
		return nil, err
	}
	vendorSvc, err := vendors.NewService(vendors.NewRepository(dbClient.DB()))
	if err != nil {
		return nil, err
	}
	orderSvc, err := purchaseorders.NewService(purchaseorders.ServiceParams{
		Repo:     purchaseorders.NewRepository(dbClient.DB()),
		Products: productRepo,
		Tx:       dbClient,
		Logger:   logg,
		Metrics:  inventoryMetrics,
	})
	if err != nil {
		return nil, err
	}
	exporter, err := export.NewExporter(dbClient.DB(), cfg.Export.Path, logg, inventoryMetrics)
	if err != nil {
		return nil, err
	}
	views, err := web.NewViews(logg)
	if err != nil {
		return nil, err
	}

	return routes.NewRouter(cfg, logg, dbClient, redisClient, obs, views, routes.Services{
		Products: productSvc,
		Vendors:  vendorSvc,
		Orders:   orderSvc,
		Exporter: exporter,
	}), nil
}

func closeResources(logg *logger.Logger, dbClient *db.Client, redisClient *redis.Client) {
	err := dbClient.Close()
	if redisClient != nil {
		err = multierr.Append(err, redisClient.Close())
	}
	if err != nil {
		logg.Error(context.Background(), "error closing resources", err)
	}
}
