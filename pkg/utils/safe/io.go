package safe

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"

	"github.com/Gthierry-dev/applyonce-sub001/pkg/utils/logging"
)

// Close closes an io.Closer and logs any error. Nil closers are ignored.
func Close(ctx context.Context, closer io.Closer) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		logging.From(ctx).Error("Failed to close", slog.Any("error", err))
	}
}

// Rollback aborts a transaction. Errors from a transaction that has already
// been committed are ignored, so it is safe to defer right after BeginTx.
func Rollback(ctx context.Context, tx *sql.Tx) {
	if tx == nil {
		return
	}
	if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		logging.From(ctx).Error("Failed to rollback", slog.Any("error", err))
	}
}
