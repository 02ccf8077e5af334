package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/carelinkhq/telecare/internal/app"
	"github.com/carelinkhq/telecare/internal/config"
	"github.com/carelinkhq/telecare/internal/controller/httpapi"
	"github.com/carelinkhq/telecare/internal/locker"
	"github.com/carelinkhq/telecare/internal/notify"
	"github.com/carelinkhq/telecare/internal/repository"
	"github.com/carelinkhq/telecare/internal/service"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.DBDSN)
	if err != nil {
		logger.Fatal("Failed to create database pool", zap.Error(err))
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		logger.Fatal("Failed to reach database", zap.Error(err))
	}

	migrator, err := app.NewMigrator(pool, cfg.MigrationsPath)
	if err != nil {
		logger.Fatal("Failed to create migrator", zap.Error(err))
	}
	if err := migrator.Run(ctx); err != nil {
		logger.Fatal("Failed to apply migrations", zap.Error(err))
	}
	_ = migrator.Close()

	locks := buildLocker(ctx, cfg, logger)
	notifier := buildNotifier(cfg, logger)

	users := repository.NewUserRepository(pool)
	schedules := repository.NewScheduleRepository(pool)
	appointments := repository.NewAppointmentRepository(pool)
	requests := repository.NewRequestRepository(pool)

	clock := service.SystemClock()
	slots := service.NewSlotService(schedules, appointments, clock, cfg.BlockDuration, cfg.MaxSearchDays, logger)

	server := httpapi.NewServer(
		users,
		service.NewUserService(users, logger),
		service.NewAvailabilityService(users, schedules, clock, logger),
		slots,
		service.NewAppointmentService(users, schedules, appointments, slots, locks, notifier, clock, logger),
		service.NewRequestService(users, schedules, requests, slots, locks, notifier, clock, logger),
		service.NewVideoService(appointments, clock, cfg.SessionTokenSecret, logger),
		logger,
	)

	httpServer := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      server.Router(cfg.RateLimitPerSec),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		logger.Info("Starting API server",
			zap.String("port", cfg.HTTPPort),
			zap.String("environment", cfg.Environment),
		)

		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", zap.Error(err))
	}
}

// buildLocker connects to Redis for slot leases. Without Redis the service
// still runs; the database's unique index remains the last line of defense.
func buildLocker(ctx context.Context, cfg *config.Config, logger *zap.Logger) locker.Locker {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("Redis unreachable, slot leases disabled", zap.Error(err))
		return locker.Noop{}
	}

	return locker.NewRedisLocker(client, logger)
}

// buildNotifier connects to RabbitMQ for outbound notifications. Absent a
// broker URL, notifications are dropped.
func buildNotifier(cfg *config.Config, logger *zap.Logger) notify.Notifier {
	if cfg.RabbitMQURL == "" {
		logger.Warn("RABBITMQ_URL not set, notifications disabled")
		return notify.Noop{}
	}

	conn, err := amqp091.Dial(cfg.RabbitMQURL)
	if err != nil {
		logger.Warn("RabbitMQ unreachable, notifications disabled", zap.Error(err))
		return notify.Noop{}
	}

	notifier, err := notify.NewAMQPNotifier(conn, logger)
	if err != nil {
		logger.Warn("Failed to set up notifier, notifications disabled", zap.Error(err))
		return notify.Noop{}
	}

	return notifier
}
