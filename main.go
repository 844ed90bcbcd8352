package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"constructo/internal/checkout"
	"constructo/internal/config"
	"constructo/internal/database"
	"constructo/internal/events"
	"constructo/internal/idempotency"
	"constructo/internal/logging"
	"constructo/internal/middleware"
	"constructo/internal/payment"
	"constructo/internal/store"
	"constructo/internal/tracing"
)

const serviceName = "constructo-api"

func main() {
	config.Load()
	cfg := config.AppEnv

	logger, err := logging.New(cfg.Env)
	if err != nil {
		log.Fatalf("logger init failed: %v", err)
	}
	defer logging.Sync(logger)

	if err := cfg.Validate(); err != nil {
		logger.Fatal("[CONFIG] [ERROR] invalid configuration", zap.Error(err))
	}

	if cfg.JaegerEndpoint != "" {
		tp, err := tracing.Init(serviceName, cfg.JaegerEndpoint)
		if err != nil {
			logger.Warn("[TRACING] [WARN] tracer init failed, continuing without traces", zap.Error(err))
		} else {
			defer func() { _ = tp.Shutdown(context.Background()) }()
		}
	}

	client, err := database.Connect(cfg.MongoURI)
	if err != nil {
		logger.Fatal("[DB] [ERROR] mongo connect failed", zap.Error(err))
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	db := client.Database(cfg.DBName)
	logger.Info("[DB] [INFO] mongo connected", zap.String("database", db.Name()))

	if err := database.EnsureIndexes(db, logger); err != nil {
		logger.Warn("[DB] [WARN] index setup incomplete", zap.Error(err))
	}

	var publisher events.Publisher = events.NopPublisher{}
	if len(cfg.Kafka.Brokers) > 0 {
		kp := events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.TopicOrderEvents, logger)
		defer kp.Close()
		publisher = kp
	} else {
		logger.Info("[EVENTS] [INFO] KAFKA_BROKERS not set, domain events disabled")
	}

	catalog := store.NewCatalogStore(db)
	carts := store.NewCartStore(db)
	orders := store.NewOrderStore(db)
	payments := store.NewPaymentStore(db)
	users := store.NewUserStore(db)
	reviews := store.NewReviewStore(db)

	opts := []checkout.Option{}
	if cfg.Redis.Addr != "" {
		keeper, err := idempotency.NewKeeper(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.IdempotencyTTL)
		if err != nil {
			logger.Warn("[IDEMPOTENCY] [WARN] redis unavailable, Idempotency-Key headers are ignored", zap.Error(err))
		} else {
			defer keeper.Close()
			opts = append(opts, checkout.WithIdempotencyKeeper(keeper))
		}
	}

	builder := checkout.NewBuilder(catalog, checkout.ShippingPolicy{
		FreeThreshold: cfg.Shipping.FreeThreshold,
		FlatFee:       cfg.Shipping.FlatFee,
	}, logger)
	orchestrator := checkout.NewOrchestrator(carts, orders, builder, publisher, logger, opts...)

	deps := routeDeps{
		cfg:          cfg,
		logger:       logger,
		ping:         func(ctx context.Context) error { return database.Ping(ctx, db) },
		catalog:      catalog,
		carts:        carts,
		orders:       orders,
		users:        users,
		reviews:      reviews,
		orchestrator: orchestrator,
	}

	if cfg.PaymentsEnabled() {
		gateway := payment.NewRazorpayGateway(cfg.Razorpay.KeyID, cfg.Razorpay.KeySecret, cfg.Razorpay.Timeout)
		deps.intents = payment.NewIntentService(gateway, payments, orders, publisher, logger, cfg.Razorpay.KeyID, cfg.Razorpay.Currency)
		deps.reconciler = payment.NewReconciler(payments, orders, cfg.Razorpay.KeySecret, cfg.Razorpay.WebhookSecret, publisher, logger)
	} else {
		logger.Warn("[PAYMENT] [WARN] razorpay credentials missing, payment routes return 503")
	}

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestMetrics(logger))
	registerRoutes(r, deps)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("[HTTP] [INFO] listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("[HTTP] [ERROR] server stopped", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("[HTTP] [INFO] shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("[HTTP] [ERROR] graceful shutdown failed", zap.Error(err))
	}
}
