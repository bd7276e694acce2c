package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/shopdeskhq/shopdesk-backend/api/routes"
	authsvc "github.com/shopdeskhq/shopdesk-backend/internal/auth"
	checkoutsvc "github.com/shopdeskhq/shopdesk-backend/internal/checkout"
	"github.com/shopdeskhq/shopdesk-backend/internal/customers"
	"github.com/shopdeskhq/shopdesk-backend/internal/devices"
	"github.com/shopdeskhq/shopdesk-backend/internal/inventory"
	"github.com/shopdeskhq/shopdesk-backend/internal/repairs"
	"github.com/shopdeskhq/shopdesk-backend/internal/sales"
	"github.com/shopdeskhq/shopdesk-backend/internal/shops"
	"github.com/shopdeskhq/shopdesk-backend/internal/stockledger"
	"github.com/shopdeskhq/shopdesk-backend/internal/users"
	"github.com/shopdeskhq/shopdesk-backend/pkg/config"
	"github.com/shopdeskhq/shopdesk-backend/pkg/db"
	"github.com/shopdeskhq/shopdesk-backend/pkg/logger"
	"github.com/shopdeskhq/shopdesk-backend/pkg/metrics"
	"github.com/shopdeskhq/shopdesk-backend/pkg/migrate"
	"github.com/shopdeskhq/shopdesk-backend/pkg/redis"
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

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	checkoutMetrics := metrics.NewCheckoutMetrics(registry)

	svcs, err := buildServices(cfg, logg, dbClient, redisClient, checkoutMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to wire services", err)
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
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, registry, svcs),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func buildServices(
	cfg *config.Config,
	logg *logger.Logger,
	dbClient *db.Client,
	redisClient *redis.Client,
	checkoutMetrics *metrics.CheckoutMetrics,
) (routes.Services, error) {
	gdb := dbClient.DB()

	userService, err := users.NewService(users.NewRepository(gdb))
	if err != nil {
		return routes.Services{}, err
	}
	shopService, err := shops.NewService(shops.NewRepository(gdb))
	if err != nil {
		return routes.Services{}, err
	}
	authService, err := authsvc.NewService(userService, shopService, redisClient, redisClient, cfg.JWT, cfg.AuthRateLimit, logg)
	if err != nil {
		return routes.Services{}, err
	}
	checkoutService, err := checkoutsvc.NewService(dbClient, nil, logg, checkoutMetrics)
	if err != nil {
		return routes.Services{}, err
	}
	customerService, err := customers.NewService(customers.NewRepository(gdb))
	if err != nil {
		return routes.Services{}, err
	}
	deviceService, err := devices.NewService(devices.NewRepository(gdb))
	if err != nil {
		return routes.Services{}, err
	}
	ledger, err := stockledger.NewService(dbClient, logg, checkoutMetrics)
	if err != nil {
		return routes.Services{}, err
	}
	inventoryService, err := inventory.NewService(inventory.NewRepository(gdb), ledger, dbClient, logg)
	if err != nil {
		return routes.Services{}, err
	}
	repairService, err := repairs.NewService(dbClient, repairs.NewRepository(gdb), nil, logg)
	if err != nil {
		return routes.Services{}, err
	}
	salesService, err := sales.NewService(sales.NewRepository(gdb), logg)
	if err != nil {
		return routes.Services{}, err
	}

	return routes.Services{
		Auth:      authService,
		Checkout:  checkoutService,
		Customers: customerService,
		Devices:   deviceService,
		Inventory: inventoryService,
		Repairs:   repairService,
		Sales:     salesService,
	}, nil
}
