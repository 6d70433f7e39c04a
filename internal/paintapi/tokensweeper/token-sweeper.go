// Package tokensweeper periodically drops expired rows from the revocation
// store and sweeps the in-memory caches and rate windows.
package tokensweeper

import (
	"context"
	"time"

	"go.uber.org/zap"

	"paint-backend/pkg/logging"
)

type TransactionManager interface {
	DoWithTransaction(ctx context.Context, f func(ctx context.Context) error) error
}

type RevokedTokenRepository interface {
	DeleteExpiredRevokedTokens(ctx context.Context) (int64, error)
}

type Config struct {
	TickPeriod time.Duration
}

type TokenSweeper struct {
	repository         RevokedTokenRepository
	transactionManager TransactionManager
	// cleanups sweep in-memory structures (caches, rate windows) alongside
	// the revocation table.
	cleanups []func() int
	config   Config
	logger   *logging.ZapLogger
	done     chan struct{}
}

func New(
	config Config,
	repository RevokedTokenRepository,
	transactionManager TransactionManager,
	logger *logging.ZapLogger,
	cleanups ...func() int,
) *TokenSweeper {
	return &TokenSweeper{
		repository:         repository,
		transactionManager: transactionManager,
		cleanups:           cleanups,
		config:             config,
		logger:             logger,
		done:               make(chan struct{}),
	}
}

func (ts *TokenSweeper) Run() {
	ticker := time.NewTicker(ts.config.TickPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ts.done:
			return
		case <-ticker.C:
			ts.tick()
		}
	}
}

func (ts *TokenSweeper) Stop() {
	close(ts.done)
}

func (ts *TokenSweeper) tick() {
	ctx := context.Background()

	var removed int64
	err := ts.transactionManager.DoWithTransaction(ctx, func(ctx context.Context) error {
		var err error
		removed, err = ts.repository.DeleteExpiredRevokedTokens(ctx)
		return err
	})
	if err != nil {
		ts.logger.ErrorCtx(ctx, "error sweeping revoked tokens", zap.Error(err))
	} else if removed > 0 {
		ts.logger.DebugCtx(ctx, "swept expired revoked tokens", zap.Int64("removed", removed))
	}

	for _, cleanup := range ts.cleanups {
		cleanup()
	}
}
