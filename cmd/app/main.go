package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/abeleng/shemeta/internal/bootstrap"
	"github.com/abeleng/shemeta/internal/config"
	"github.com/abeleng/shemeta/internal/metrics"
	"github.com/abeleng/shemeta/internal/server"
	"github.com/abeleng/shemeta/internal/sse"
)

// shutdownTimeout bounds graceful shutdown
const shutdownTimeout = 15 * time.Second

// @title Shemeta API
// @version 1.0
// @description Crop advisory and farmer-buyer marketplace.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := run(); err != nil {
		log.Fatalf("shemeta: %v", err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logFile, err := bootstrap.SetupLogger(cfg)
	if err != nil {
		return err
	}
	if logFile != nil {
		defer logFile.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	storage, err := bootstrap.OpenStorage(ctx, cfg)
	if err != nil {
		return err
	}

	ref, err := bootstrap.LoadReferenceData(ctx, cfg, storage.Repositories)
	if err != nil {
		storage.Close()
		return err
	}
	if err := bootstrap.RegisterResolverMetrics(prometheus.DefaultRegisterer, ref.Resolver); err != nil {
		storage.Close()
		return err
	}

	events, err := bootstrap.InitializeEventSystem(cfg)
	if err != nil {
		storage.Close()
		return err
	}

	services, err := bootstrap.InitializeServices(cfg, storage.Repositories, ref, events.Publisher)
	if err != nil {
		storage.Close()
		return err
	}

	hub := sse.NewHub()
	hub.Start()
	if err := metrics.RegisterStreamHub(prometheus.DefaultRegisterer, hub); err != nil {
		hub.Stop()
		storage.Close()
		return err
	}

	handlers, err := bootstrap.RegisterEventHandlers(ctx, bootstrap.EventHandlerDependencies{
		Bus:     events.Bus,
		Config:  cfg,
		Hub:     hub,
		Expirer: services.Offers,
	})
	if err != nil {
		hub.Stop()
		storage.Close()
		return err
	}

	pool, sched := bootstrap.StartBackgroundJobs(cfg, services.Offers)

	srv := server.NewServer(cfg, server.Deps{
		DB:          storage,
		Tokens:      services.Issuer,
		Auth:        services.Auth,
		Advisory:    services.Advisory,
		Market:      services.Market,
		Offers:      services.Offers,
		Aggregation: services.Aggregation,
		Hub:         hub,
	})

	serveErr := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
	case err = <-serveErr:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	bootstrap.GracefulShutdown(shutdownCtx, bootstrap.ShutdownComponents{
		Server:             srv,
		Scheduler:          sched,
		Pool:               pool,
		ExpiryWorker:       handlers.ExpiryWorker,
		Hub:                hub,
		ResilientPublisher: events.Publisher,
		Redis:              handlers.Redis,
		Storage:            storage,
	})
	return err
}
