// cmd/notifier/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"transaction-notifier/internal/auditlog"
	"transaction-notifier/internal/common/config"
	"transaction-notifier/internal/common/database"
	"transaction-notifier/internal/common/logger"
	"transaction-notifier/internal/directory"
	"transaction-notifier/internal/mailer"
	"transaction-notifier/internal/notifier"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New("info", "console")
		bootLog.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("starting transaction notifier",
		zap.String("address", cfg.Server.Address),
		zap.String("environment", cfg.App.Environment),
	)

	ctx := context.Background()

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")

	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Audit log schema (idempotent) ---
	auditWriter := auditlog.NewWriter(pg.GetDB(), log)
	if err := auditWriter.EnsureSchema(ctx); err != nil {
		zapLog.Fatal("audit schema provisioning failed", zap.Error(err))
	}

	// --- Wire components ---
	directoryClient := directory.NewClient(&directory.Config{
		BaseURL: cfg.CustomerService.BaseURL,
		Timeout: config.GetDuration(cfg.CustomerService.Timeout),
	}, log)

	mailerConfig := &mailer.Config{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.User,
		Password: cfg.SMTP.Password,
		UseTLS:   cfg.SMTP.UseTLS,
		From:     cfg.SMTP.From,
	}
	// An incomplete mailer config is not fatal: sends will fail and be
	// recorded as ordinary delivery failures.
	if err := mailerConfig.Validate(); err != nil {
		zapLog.Warn("mailer configuration incomplete", zap.Error(err))
	}
	smtpMailer := mailer.NewMailer(mailerConfig, log)

	service := notifier.NewService(notifier.Dependencies{
		Resolver: directoryClient,
		Sender:   smtpMailer,
		Recorder: auditWriter,
		Logger:   log,
	})
	handler := notifier.NewHandler(service, log)

	// --- HTTP server ---
	app := fiber.New(fiber.Config{
		AppName:     cfg.App.Name,
		ReadTimeout: config.GetDuration(cfg.Server.ReadTimeout),
	})
	app.Use(recover.New())

	app.Get("/healthz", func(c *fiber.Ctx) error {
		if err := pg.Ping(c.Context()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded"})
		}
		return c.JSON(fiber.Map{"status": "ok"})
	})

	handler.RegisterRoutes(app)

	// --- Metrics endpoint on its own listener ---
	if cfg.Metrics.Enabled {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			zapLog.Info("metrics listener started", zap.String("address", cfg.Metrics.Address))
			if err := http.ListenAndServe(cfg.Metrics.Address, mux); err != nil {
				zapLog.Error("metrics listener stopped", zap.Error(err))
			}
		}()
	}

	go func() {
		if err := app.Listen(cfg.Server.Address); err != nil {
			zapLog.Fatal("server stopped", zap.Error(err))
		}
	}()

	// --- Graceful shutdown: stop accepting, drain in-flight requests ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	zapLog.Info("shutting down", zap.String("signal", sig.String()))

	if err := app.ShutdownWithTimeout(config.GetDuration(cfg.Server.ShutdownTimeout)); err != nil {
		zapLog.Error("shutdown error", zap.Error(err))
	}
}
