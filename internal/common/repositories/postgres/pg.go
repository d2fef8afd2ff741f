package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/retvizor/invest-backend/pkg/log"
	"go.uber.org/zap"
)

// rollback is deferred after Begin; rolling back a committed transaction is
// a no-op and not worth logging.
func rollback(ctx context.Context, tx pgx.Tx) {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		log.Error("failed to rollback transaction", zap.Error(err))
	}
}
