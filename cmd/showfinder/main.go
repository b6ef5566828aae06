package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/Belphemur/ShowFinder/internal/client"
	"github.com/Belphemur/ShowFinder/internal/config"
	grpcserver "github.com/Belphemur/ShowFinder/internal/grpc"
	"github.com/Belphemur/ShowFinder/internal/metrics"
	"github.com/Belphemur/ShowFinder/internal/render"
	"github.com/Belphemur/ShowFinder/internal/server"
	"github.com/Belphemur/ShowFinder/internal/store"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.GetConfig()
	logger := config.GetLogger()

	logger.Info().
		Str("tvmaze_base_url", cfg.TVMazeBaseURL).
		Str("registry_provider", cfg.Registry.Provider).
		Str("summary_policy", cfg.Render.SummaryPolicy).
		Int("server_port", cfg.Server.Port).
		Str("server_address", cfg.Server.Address).
		Msg("Application started with configuration")

	var hub *sentry.Hub
	if cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.Sentry.DSN,
			Environment: cfg.Sentry.Environment,
		}); err != nil {
			logger.Fatal().Err(err).Msg("Failed to initialize Sentry")
		}
		defer sentry.Flush(2 * time.Second)
		hub = sentry.CurrentHub()
		logger.Info().Str("environment", cfg.Sentry.Environment).Msg("Sentry reporting enabled")
	}

	summary, err := render.NewSummaryFilter(cfg.Render.SummaryPolicy)
	if err != nil {
		logger.Fatal().Err(err).Msg("Invalid render.summary_policy")
	}

	registryTTL, err := time.ParseDuration(cfg.Registry.TTL)
	if err != nil {
		logger.Fatal().Err(err).Str("ttl", cfg.Registry.TTL).Msg("Invalid registry.ttl")
	}
	sessionTTL, err := time.ParseDuration(cfg.Session.TTL)
	if err != nil {
		logger.Fatal().Err(err).Str("ttl", cfg.Session.TTL).Msg("Invalid session.ttl")
	}
	if registryTTL < sessionTTL {
		logger.Warn().
			Dur("registry_ttl", registryTTL).
			Dur("session_ttl", sessionTTL).
			Msg("registry.ttl is shorter than session.ttl, using session.ttl for handles")
		registryTTL = sessionTTL
	}

	registry, err := store.New(cfg.Registry.Provider, store.ProviderConfig{
		Size:          cfg.Registry.Size,
		TTL:           registryTTL,
		Logger:        store.NewLogger(logger),
		RedisAddress:  cfg.Registry.Redis.Address,
		RedisPassword: cfg.Registry.Redis.Password,
		RedisDB:       cfg.Registry.Redis.DB,
		Group:         "handles",
	})
	if err != nil {
		logger.Fatal().Err(err).Str("provider", cfg.Registry.Provider).Msg("Failed to create handle registry")
	}
	defer func() {
		if err := registry.Close(); err != nil {
			logger.Error().Err(err).Msg("Failed to close handle registry")
		}
	}()

	tvmaze := client.NewClient(cfg)
	defer func() { _ = tvmaze.Close() }()

	widgetServer, err := server.New(server.Options{
		Client:      tvmaze,
		Store:       registry,
		Summary:     summary,
		Logger:      logger,
		Hub:         hub,
		SessionSize: cfg.Session.Size,
		SessionTTL:  sessionTTL,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create HTTP server")
	}
	defer widgetServer.Close()

	// Start Prometheus metrics HTTP server
	if cfg.Metrics.Enabled {
		metricsServer := metrics.NewHTTPServer(cfg.Server.Address, cfg.Metrics.Port)
		go func() {
			logger.Info().Str("address", metricsServer.Addr).Msg("Starting Prometheus metrics HTTP server")
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Fatal().Err(err).Msg("Failed to serve metrics")
			}
		}()
		defer func() {
			if err := metricsServer.Shutdown(context.Background()); err != nil {
				logger.Error().Err(err).Msg("Failed to shutdown metrics server")
			}
		}()
	}

	var grpcServer *grpcserver.Server
	if cfg.GRPC.Enabled {
		grpcServer = grpcserver.NewGRPCServer()
		address := fmt.Sprintf("%s:%d", cfg.Server.Address, cfg.GRPC.Port)
		listener, err := net.Listen("tcp", address)
		if err != nil {
			logger.Fatal().Err(err).Str("address", address).Msg("Failed to create gRPC listener")
		}
		go func() {
			logger.Info().Str("address", address).Msg("Starting gRPC health server")
			if err := grpcServer.Serve(listener); err != nil {
				logger.Error().Err(err).Msg("gRPC server stopped")
			}
		}()
	}

	httpServer := server.NewHTTPServer(cfg.Server.Address, cfg.Server.Port, widgetServer)

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		sig := <-sigChan
		logger.Info().Str("signal", sig.String()).Msg("Received shutdown signal")

		if grpcServer != nil {
			grpcServer.SetWidgetServing(false)
		}

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(ctx); err != nil {
			logger.Error().Err(err).Msg("Failed to shutdown HTTP server")
		}

		if grpcServer != nil {
			grpcServer.Shutdown()
		}
	}()

	logger.Info().Str("address", httpServer.Addr).Msg("Starting HTTP server")
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal().Err(err).Msg("Failed to serve HTTP")
	}
	<-stopped

	logger.Info().Msg("Server stopped gracefully")
}
