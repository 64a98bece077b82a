package bootstrap

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/abeleng/shemeta/internal/config"
	"github.com/abeleng/shemeta/internal/event"
)

// EventSystem is the in-process bus plus the publisher services write through.
// Subscribers attach to Bus; Publisher retries failed deliveries and
// dead-letters what it cannot deliver.
type EventSystem struct {
	Bus       event.Bus
	Publisher *event.ResilientPublisher
}

// InitializeEventSystem creates the bus and publisher. Entries left in the
// dead-letter file by an earlier run are counted and reported.
func InitializeEventSystem(cfg *config.Config) (*EventSystem, error) {
	path := cfg.EventDeadLetterPath
	if path == "" {
		path = config.DefaultEventDeadLetterPath
	}
	if err := os.MkdirAll(filepath.Dir(path), DirPermission); err != nil {
		return nil, fmt.Errorf("%s: %w", LogMsgFailedCreateDeadLetterDir, err)
	}

	if entries, err := event.ReadDeadLetters(path); err == nil && len(entries) > 0 {
		slog.Warn(LogMsgPendingDeadLetters,
			"path", path,
			"count", len(entries),
			"oldest", entries[0].Timestamp)
	}

	bus := event.NewMemoryBus()
	publisher, err := event.NewResilientPublisher(bus, cfg.EventMaxRetries, cfg.EventRetryDelay, path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", LogMsgFailedCreateResilientPublisher, err)
	}

	slog.Info(LogMsgEventSystemInitialized,
		"max_retries", cfg.EventMaxRetries,
		"retry_delay", cfg.EventRetryDelay,
		"deadletter_path", path)

	return &EventSystem{Bus: bus, Publisher: publisher}, nil
}
