package main

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/MKhiriev/go-tours/internal/adapter"
	"github.com/MKhiriev/go-tours/internal/config"
	"github.com/MKhiriev/go-tours/internal/crypto"
	"github.com/MKhiriev/go-tours/internal/handler"
	"github.com/MKhiriev/go-tours/internal/limiter"
	"github.com/MKhiriev/go-tours/internal/logger"
	"github.com/MKhiriev/go-tours/internal/server"
	"github.com/MKhiriev/go-tours/internal/service"
	"github.com/MKhiriev/go-tours/internal/store"
	"github.com/MKhiriev/go-tours/internal/workers"
	"github.com/MKhiriev/go-tours/models"
	"golang.org/x/sync/errgroup"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	build := models.NewAppBuildInfo(buildVersion, buildDate, buildCommit)
	printBuildInfo(build)

	log := logger.NewLogger("go-tours-server")
	cfg, err := config.GetStructuredConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}
	if err = logger.SetLevel(cfg.App.LogLevel); err != nil {
		log.Fatal().Err(err).Msg("error setting log level")
	}

	log.Debug().Str("http", cfg.Server.HTTPAddress).Str("grpc", cfg.Server.GRPCAddress).Msg("received configs")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
	defer stop()

	storages, err := store.NewStorages(ctx, cfg.Storage, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating storages")
	}
	defer storages.Close()

	notifier, err := adapter.NewNotifier(cfg.Adapter.Notifier, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating notifier")
	}

	hasher, err := crypto.NewPasswordHasher(cfg.App.PasswordHashCost, cfg.App.PasswordHashWorkers)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating password hasher")
	}

	rateLimiter, err := limiter.New(ctx, cfg.Limiter, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating rate limiter")
	}
	if closer, ok := rateLimiter.(io.Closer); ok {
		defer closer.Close()
	}

	services, err := service.NewServices(storages, notifier, hasher, *cfg, build, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating services")
	}
	if pinger, ok := rateLimiter.(service.Pinger); ok {
		services.HealthService = service.NewHealthService(map[string]service.Pinger{
			"storage": storages,
			"limiter": pinger,
		})
	}

	handlers, err := handler.NewHandlers(services, rateLimiter, cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating handlers")
	}

	srv, err := server.NewServer(handlers, cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.RunServer(gctx) })
	g.Go(func() error { return workers.NewWorkers(storages, cfg.Workers, log).Run(gctx) })

	if err = g.Wait(); err != nil {
		log.Error().Err(err).Msg("server stopped with error")
		return
	}
	log.Info().Msg("server stopped")
}

func printBuildInfo(build models.AppBuildInfo) {
	fmt.Printf("Build version: %s\n", build.BuildVersion())
	fmt.Printf("Build date: %s\n", build.BuildDate())
	fmt.Printf("Build commit: %s\n", build.BuildCommit())
}
