package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/floracare/storefront/api/controllers"
	"github.com/floracare/storefront/api/routes"
	cartsvc "github.com/floracare/storefront/internal/cart"
	"github.com/floracare/storefront/internal/catalog"
	checkoutsvc "github.com/floracare/storefront/internal/checkout"
	"github.com/floracare/storefront/internal/orders"
	"github.com/floracare/storefront/pkg/config"
	"github.com/floracare/storefront/pkg/db"
	"github.com/floracare/storefront/pkg/logger"
	"github.com/floracare/storefront/pkg/metrics"
	"github.com/floracare/storefront/pkg/migrate"
	"github.com/floracare/storefront/pkg/redis"
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

	var closers []func() error
	defer func() {
		var closeErr error
		for i := len(closers) - 1; i >= 0; i-- {
			closeErr = multierr.Append(closeErr, closers[i]())
		}
		if closeErr != nil {
			logg.Error(context.Background(), "error closing resources", closeErr)
		}
	}()

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	closers = append(closers, dbClient.Close)

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	readiness := map[string]controllers.Pinger{"database": dbClient}

	var slotStore cartsvc.KeyValue
	if cfg.FeatureFlags.InMemoryCart {
		slotStore = cartsvc.NewMemoryKeyValue()
		logg.Warn(context.Background(), "cart slots are in-memory, carts reset on restart")
	} else {
		redisClient, err := redis.New(context.Background(), cfg.Redis, cfg.Cart.KeyNamespace, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		closers = append(closers, redisClient.Close)
		readiness["redis"] = redisClient
		slotStore = redisClient
	}

	notifier := cartsvc.NewNotifier(logg)

	cartStore, err := cartsvc.NewStore(slotStore, notifier, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart store", err)
		os.Exit(1)
	}

	catalogService, err := catalog.NewService(catalog.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	ordersRepo := orders.NewRepository(dbClient.DB())

	orchestrator, err := checkoutsvc.NewOrchestrator(cartStore, ordersRepo, cfg.Checkout.SuccessDisplayDelay, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout orchestrator", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := metrics.NewHTTPMetrics(registry)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting storefront api")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:      cfg,
			Logger:      logg,
			Readiness:   readiness,
			HTTPMetrics: httpMetrics,
			Registry:    registry,
			Catalog:     catalogService,
			CartStore:   cartStore,
			Checkout:    orchestrator,
			Orders:      ordersRepo,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "storefront api stopped unexpectedly", err)
		os.Exit(1)
	}
}
