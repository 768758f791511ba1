package app

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/brewline/queue/internal/dal/identity"
	"github.com/brewline/queue/internal/dal/postgres"
	"github.com/brewline/queue/internal/dal/rabbitmq"
	redisclient "github.com/brewline/queue/internal/dal/redis"
	cacherepo "github.com/brewline/queue/internal/dal/repositories/business/cache"
	businessrepo "github.com/brewline/queue/internal/dal/repositories/business/postgres"
	orderrepo "github.com/brewline/queue/internal/dal/repositories/order/postgres"
	outboxrepo "github.com/brewline/queue/internal/dal/repositories/outbox/postgres"
	"github.com/brewline/queue/internal/dal/suggest"
	"github.com/brewline/queue/internal/otel"
	"github.com/brewline/queue/internal/service/services/businesssvc"
	"github.com/brewline/queue/internal/service/services/ordersvc"
	"github.com/brewline/queue/internal/sync/livesync"
	"github.com/brewline/queue/internal/transport/consumer"
	httptransport "github.com/brewline/queue/internal/transport/http"
	outboxworker "github.com/brewline/queue/internal/worker/outbox"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
)

// App represents the application.
type App struct {
	orderSvc       *ordersvc.OrderService
	businessSvc    *businesssvc.BusinessService
	transport      *httptransport.HTTPTransport
	consumerTransp *consumer.Consumer
	outboxWorker   *outboxworker.Worker
	hub            *livesync.Hub
	postgresClient *postgres.Client
	redisClient    *redis.Client
	rabbitMqClient *rabbitmq.Client
	otelController *otel.OtelController
}

// MustNewApp creates a new application.
func MustNewApp() *App {
	otelController := otel.MustInitOtel()
	postgresClient := postgres.MustNewClient()
	redisClient := redisclient.MustNewClient()
	rabbitMqClient := rabbitmq.MustNewClient()

	businessTTL := viper.GetDuration("redis.business_ttl")
	if businessTTL == 0 {
		businessTTL = time.Minute
	}
	businessRepo := cacherepo.NewCachedBusinessRepository(
		businessrepo.NewPostgresBusinessRepository(postgresClient.DB()),
		redisClient,
		businessTTL,
	)

	businessSvc := businesssvc.MustNewBusinessService(
		businesssvc.WithRepository(businessRepo),
	)

	orderSvc := ordersvc.MustNewOrderService(
		ordersvc.WithPostgresClient(postgresClient),
	)

	hub := livesync.NewHub(orderrepo.NewPostgresOrderRepository(postgresClient.DB()))

	consumerTransp := consumer.NewConsumer(rabbitMqClient, hub)

	outboxWorker := outboxworker.NewWorker(
		outboxrepo.NewOutboxRepository(postgresClient.DB()),
		rabbitMqClient,
	)

	transport := httptransport.NewHTTPTransport(
		orderSvc,
		businessSvc,
		hub,
		identity.NewClient(),
		suggest.NewClient(),
	)
	transport.RegisterRoutes()

	return &App{
		orderSvc:       orderSvc,
		businessSvc:    businessSvc,
		transport:      transport,
		consumerTransp: consumerTransp,
		outboxWorker:   outboxWorker,
		hub:            hub,
		postgresClient: postgresClient,
		redisClient:    redisClient,
		rabbitMqClient: rabbitMqClient,
		otelController: otelController,
	}
}

// Run starts the application.
// Tracks interrupt signal to gracefully shut down the application.
func (a *App) Run() {
	// Create a channel to receive OS signals
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		slog.Info("Starting HTTP server")
		if err := a.transport.Run(); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()

	go func() {
		slog.Info("Starting order-events consumer")
		if err := a.consumerTransp.Run(ctx); err != nil {
			slog.Error("Consumer error", "error", err)
		}
	}()

	go func() {
		slog.Info("Starting outbox worker")
		a.outboxWorker.Start(ctx)
	}()

	<-stop
	slog.Info("Shutdown signal received")
	cancel()

	a.gracefulShutdown()
}

// gracefulShutdown performs graceful shutdown of all application components.
// It shuts down components sequentially: HTTP server, outbox worker, consumer,
// live sync hub, RabbitMQ, Redis, PostgreSQL, and OpenTelemetry.
func (a *App) gracefulShutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.transport.Shutdown(ctx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped gracefully")
	}

	a.outboxWorker.Stop()
	slog.Info("Outbox worker stopped gracefully")

	if err := a.consumerTransp.Shutdown(); err != nil {
		slog.Error("Consumer shutdown error", "error", err)
	} else {
		slog.Info("Consumer stopped gracefully")
	}

	a.hub.Close()
	slog.Info("Live sync hub closed gracefully")

	if err := a.rabbitMqClient.Close(); err != nil {
		slog.Error("RabbitMQ connection close error", "error", err)
	} else {
		slog.Info("RabbitMQ connection closed gracefully")
	}

	if err := a.redisClient.Close(); err != nil {
		slog.Error("Redis connection close error", "error", err)
	} else {
		slog.Info("Redis connection closed gracefully")
	}

	a.postgresClient.Close()
	slog.Info("Database connection closed gracefully")

	if err := a.otelController.Shutdown(); err != nil {
		slog.Error("Otel trace provider connection close error", "error", err)
	} else {
		slog.Info("Otel trace provider connection closed gracefully")
	}

	select {
	case <-ctx.Done():
		slog.Warn("Shutdown timeout exceeded")
	default:
		slog.Info("Application shutdown complete")
	}
}
