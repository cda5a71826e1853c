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
	"golang.org/x/sync/errgroup"

	"github.com/angelmondragon/brandcorner-backend/api/routes"
	"github.com/angelmondragon/brandcorner-backend/internal/cart"
	"github.com/angelmondragon/brandcorner-backend/internal/checkout"
	"github.com/angelmondragon/brandcorner-backend/internal/orders"
	"github.com/angelmondragon/brandcorner-backend/internal/products"
	"github.com/angelmondragon/brandcorner-backend/pkg/config"
	"github.com/angelmondragon/brandcorner-backend/pkg/db"
	"github.com/angelmondragon/brandcorner-backend/pkg/events"
	"github.com/angelmondragon/brandcorner-backend/pkg/logger"
	"github.com/angelmondragon/brandcorner-backend/pkg/metrics"
	"github.com/angelmondragon/brandcorner-backend/pkg/migrate"
	"github.com/angelmondragon/brandcorner-backend/pkg/redis"
)

const shutdownTimeout = 20 * time.Second

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
		Format:      cfg.App.LogFormat,
	})

	if err := run(cfg, logg); err != nil {
		logg.Error(context.Background(), "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logg *logger.Logger) (err error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var closers []func() error
	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			err = multierr.Append(err, closers[i]())
		}
	}()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return err
	}
	closers = append(closers, dbClient.Close)

	if err := migrate.MaybeRun(ctx, cfg, logg, dbClient); err != nil {
		return err
	}

	var (
		redisClient *redis.Client
		cartStore   cart.Store
		guard       checkout.Guard
	)
	if redis.Configured(cfg.Redis) {
		redisClient, err = redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			return err
		}
		closers = append(closers, redisClient.Close)

		if cartStore, err = cart.NewRedisStore(redisClient, cfg.Checkout.CartTTL); err != nil {
			return err
		}
		if guard, err = checkout.NewRedisGuard(redisClient, cfg.Checkout.GuardTTL); err != nil {
			return err
		}
	} else {
		logg.Warn(ctx, "redis not configured, using in-process cart store")
		cartStore = cart.NewMemoryStore()
		guard = checkout.NewMemoryGuard()
	}

	publisher, err := events.New(ctx, cfg, logg)
	if err != nil {
		return err
	}
	closers = append(closers, publisher.Close)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	checkoutMetrics := metrics.NewCheckoutMetrics(registry)

	catalog, err := products.NewService(products.NewRepository(dbClient.DB()))
	if err != nil {
		return err
	}

	cartService, err := cart.NewService(cartStore, catalog)
	if err != nil {
		return err
	}

	orderService, err := orders.NewService(orders.ServiceParams{
		Repo:      orders.NewRepository(dbClient.DB()),
		Tx:        dbClient,
		Catalog:   catalog,
		Cart:      cartService,
		Publisher: publisher,
		Topic:     cfg.Events.OrdersTopic,
		Metrics:   checkoutMetrics,
		Logger:    logg,
	})
	if err != nil {
		return err
	}

	checkoutService, err := checkout.NewService(checkout.ServiceParams{
		Cart:          cartService,
		Orders:        orderService,
		Guard:         guard,
		Navigator:     cfg.App,
		CatalogPath:   cfg.App.CatalogPath,
		SubmitTimeout: cfg.Checkout.SubmitTimeout,
		Metrics:       checkoutMetrics,
		Logger:        logg,
	})
	if err != nil {
		return err
	}

	streamsDone := make(chan struct{})
	deps := routes.Dependencies{
		DB:       dbClient,
		Redis:    redisClient,
		Gatherer: registry,
		Shutdown: streamsDone,
		Products: catalog,
		Cart:     cartService,
		Checkout: checkoutService,
		Orders:   orderService,
	}
	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	id := os.Getenv("DYNO")
	if id == "" {
		id = "local"
	}
	logCtx := logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": id,
		"events":   cfg.Events.DriverName(),
		"redis":    redisClient != nil,
	})
	logg.Info(logCtx, "starting api server")

	server := &http.Server{
		Addr:              addr,
		Handler:           routes.NewRouter(cfg, logg, deps),
		ReadHeaderTimeout: 10 * time.Second,
	}
	// Shutdown does not cancel request contexts, so event streams are told directly.
	server.RegisterOnShutdown(func() { close(streamsDone) })

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logg.Info(logCtx, "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
