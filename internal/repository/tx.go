package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/abeleng/shemeta/internal/logger"
)

// Tx is the part of a database transaction the stores need to finish it
type Tx interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// SafeRollback is deferred right after Begin. Once Commit has run the rollback
// is a no-op, so only real failures are logged.
func SafeRollback(ctx context.Context, tx Tx) {
	err := tx.Rollback(ctx)
	if err == nil || errors.Is(err, pgx.ErrTxClosed) {
		return
	}
	logger.FromContext(ctx).Error("Failed to roll back transaction", "error", err)
}
