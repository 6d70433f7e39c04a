package pgxstorage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"paint-backend/pkg/logging"
)

type TxBeginner interface {
	BeginTx(ctx context.Context) (context.Context, pgx.Tx, error)
}

// TxManager is the unit-of-work boundary: DoWithTransaction commits when
// the body returns nil and rolls back otherwise. pgx releases the pooled
// connection on Commit/Rollback, so every path hands the connection back.
type TxManager struct {
	storage TxBeginner
	logger  *logging.ZapLogger
}

func NewTxManager(storage TxBeginner, logger *logging.ZapLogger) *TxManager {
	return &TxManager{
		storage: storage,
		logger:  logger,
	}
}

func (tm *TxManager) DoWithTransaction(
	ctx context.Context,
	f func(ctx context.Context) error,
) error {
	ctxWithTransaction, tx, err := tm.storage.BeginTx(ctx)
	if err != nil {
		return err
	}
	if err := f(ctxWithTransaction); err != nil {
		// The body's error propagates unchanged; rollback is best-effort.
		tm.rollback(ctx, tx, err)
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		tm.rollback(ctx, tx, err)
		return fmt.Errorf("transaction commit failed: %w", err)
	}
	return nil
}

// rollback uses a fresh context so an already-canceled request context
// cannot block releasing the connection.
func (tm *TxManager) rollback(ctx context.Context, tx pgx.Tx, cause error) {
	rollbackErr := tx.Rollback(context.Background())
	if rollbackErr != nil && !errors.Is(rollbackErr, pgx.ErrTxClosed) {
		tm.logger.ErrorCtx(ctx, "transaction rollback failed",
			zap.Error(rollbackErr),
			zap.NamedError("cause", cause),
		)
	}
}
