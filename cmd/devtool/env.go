package main

import (
	"context"
	"fmt"
	"os"

	"github.com/abeleng/shemeta/internal/bootstrap"
	"github.com/abeleng/shemeta/internal/config"
	"github.com/abeleng/shemeta/internal/event"
	"github.com/abeleng/shemeta/internal/logger"
)

// env is the storage, reference data and services a command works against.
// Events published by commands go to a bus nobody listens on.
type env struct {
	cfg      *config.Config
	storage  *bootstrap.Storage
	ref      *bootstrap.Reference
	services *bootstrap.Services
}

// loadConfig reads the environment and routes logs to stderr so stdout stays
// clean for results.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger.InitWithWriter(logger.NewConfig(cfg.LogLevel, cfg.LogFormat, cfg.ServiceName, cfg.Version, cfg.Environment, false), os.Stderr)
	return cfg, nil
}

// openEnv opens storage, loads reference data and wires the services.
func openEnv(ctx context.Context) (*env, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	storage, err := bootstrap.OpenStorage(ctx, cfg)
	if err != nil {
		return nil, err
	}
	ref, err := bootstrap.LoadReferenceData(ctx, cfg, storage.Repositories)
	if err != nil {
		storage.Close()
		return nil, err
	}
	services, err := bootstrap.InitializeServices(cfg, storage.Repositories, ref, event.NewMemoryBus())
	if err != nil {
		storage.Close()
		return nil, err
	}
	if cfg.Storage == config.StorageMemory {
		ui.Warn("STORAGE=%s: changes are discarded on exit", cfg.Storage)
	}
	return &env{cfg: cfg, storage: storage, ref: ref, services: services}, nil
}

func (e *env) Close() {
	e.storage.Close()
}

func requireArg(args []string, usage string) (string, error) {
	if len(args) < 1 || args[0] == "" {
		return "", fmt.Errorf("argument required: %s", usage)
	}
	return args[0], nil
}
