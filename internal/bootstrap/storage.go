package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/abeleng/shemeta/internal/config"
	"github.com/abeleng/shemeta/internal/database"
	"github.com/abeleng/shemeta/internal/database/memory"
	"github.com/abeleng/shemeta/internal/database/postgres"
	"github.com/abeleng/shemeta/internal/repository"
)

// Repositories groups every store the services are built on
type Repositories struct {
	Users        repository.User
	Lands        repository.Land
	Farmers      repository.FarmerSource
	Requirements repository.Requirement
	Offers       repository.Offer
	Geo          repository.GeoReference
}

// Storage is the selected backend. Pool is nil for the in-memory backend.
type Storage struct {
	Repositories
	Pool *pgxpool.Pool
}

// Ping reports backend health for the readiness probe
func (s *Storage) Ping(ctx context.Context) error {
	if s.Pool == nil {
		return nil
	}
	return s.Pool.Ping(ctx)
}

// Close releases the connection pool, if any
func (s *Storage) Close() {
	if s.Pool != nil {
		s.Pool.Close()
	}
}

// MemoryRepositories backs every repository with one in-memory store
func MemoryRepositories(store *memory.Store) Repositories {
	return Repositories{
		Users:        store,
		Lands:        store,
		Farmers:      store,
		Requirements: store,
		Offers:       store,
		Geo:          store,
	}
}

// PostgresRepositories backs every repository with the connection pool
func PostgresRepositories(pool *pgxpool.Pool) Repositories {
	lands := postgres.NewLandRepository(pool)
	return Repositories{
		Users:        postgres.NewUserRepository(pool),
		Lands:        lands,
		Farmers:      lands,
		Requirements: postgres.NewRequirementRepository(pool),
		Offers:       postgres.NewOfferRepository(pool),
		Geo:          postgres.NewGeoRepository(pool),
	}
}

// OpenStorage selects the backend named by the config. The postgres backend
// is migrated to the latest schema before use.
func OpenStorage(ctx context.Context, cfg *config.Config) (*Storage, error) {
	slog.Info(LogMsgStorageSelected, "storage", cfg.Storage)

	switch cfg.Storage {
	case config.StorageMemory:
		return &Storage{Repositories: MemoryRepositories(memory.NewStore())}, nil
	case config.StoragePostgres:
		pool, err := database.NewPool(ctx, cfg.GetDBConnString(), database.PoolOptions{
			MaxConns:        cfg.DBMaxConns,
			MaxConnIdleTime: cfg.DBMaxConnIdleTime,
			MaxConnLifetime: cfg.DBMaxConnLifetime,
		})
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedConnectDB, err)
		}
		if err := database.Migrate(ctx, pool, database.MigrateUp); err != nil {
			pool.Close()
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedMigrate, err)
		}
		return &Storage{Repositories: PostgresRepositories(pool), Pool: pool}, nil
	}
	return nil, fmt.Errorf("%s: %q", ErrMsgUnknownStorage, cfg.Storage)
}
