package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/honeycombio/otel-config-go/otelconfig"
	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdkresource "go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.uber.org/zap"

	"github.com/rusty-replay/replay-be/internal/config"
	"github.com/rusty-replay/replay-be/internal/db"
	errorz "github.com/rusty-replay/replay-be/internal/errors"
	httpserver "github.com/rusty-replay/replay-be/internal/http"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(errors.Join(errorz.ErrConfigNotFound, err))
	}

	logger, err := newLogger(cfg.Environment)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("config loaded",
		zap.String("service", cfg.ServiceName),
		zap.String("environment", cfg.Environment),
	)

	otelShutdown, err := otelconfig.ConfigureOpenTelemetry(otelconfig.WithServiceName(cfg.ServiceName))
	if err != nil {
		// No collector reachable. Fall back to a local stdout exporter so
		// spans are still visible during development.
		exp, expErr := stdouttrace.New(stdouttrace.WithPrettyPrint())
		if expErr != nil {
			logger.Fatal("failed to initialize tracing", zap.Error(errors.Join(err, expErr)))
		}
		tp := sdktrace.NewTracerProvider(
			sdktrace.WithBatcher(exp),
			sdktrace.WithResource(sdkresource.NewSchemaless(
				semconv.ServiceName(cfg.ServiceName),
			)),
		)
		otelShutdown = func() { _ = tp.Shutdown(context.Background()) }
	}
	defer otelShutdown()

	database, err := db.Open(cfg.DatabaseDSN)
	if err != nil {
		logger.Fatal("failed to open database", zap.Error(err))
	}

	logger.Info("database initialized")

	e := echo.New()
	otelTracer := otel.Tracer(cfg.ServiceName)
	if err := httpserver.Register(e, database, logger, otelTracer, cfg); err != nil {
		logger.Fatal("failed to register routes", zap.Error(err))
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	srvErrCh := make(chan error, 1)
	go func() { srvErrCh <- e.StartServer(srv) }()

	logger.Info("server listening", zap.String("port", cfg.Port))

	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case <-shutdownCtx.Done():
		ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := e.Shutdown(ctx); err != nil {
			_ = e.Close()
		}
		logger.Info("server stopped")
	case err := <-srvErrCh:
		if err != nil && err != http.ErrServerClosed {
			logger.Error("server failed", zap.Error(errors.Join(errorz.ErrServerError, err)))
			os.Exit(1)
		}
	}
}

func newLogger(environment string) (*zap.Logger, error) {
	if environment == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
