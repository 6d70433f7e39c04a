package pgxstorage

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paint-backend/pkg/logging"
)

type fakeTx struct {
	pgx.Tx

	commitErr   error
	rollbackErr error

	commits   int
	rollbacks int
}

func (f *fakeTx) Commit(ctx context.Context) error {
	f.commits++
	return f.commitErr
}

func (f *fakeTx) Rollback(ctx context.Context) error {
	f.rollbacks++
	return f.rollbackErr
}

type fakeBeginner struct {
	tx       *fakeTx
	beginErr error
}

func (f *fakeBeginner) BeginTx(ctx context.Context) (context.Context, pgx.Tx, error) {
	if f.beginErr != nil {
		return nil, nil, f.beginErr
	}
	return ctx, f.tx, nil
}

func TestDoWithTransactionCommitsOnSuccess(t *testing.T) {
	tx := &fakeTx{}
	tm := NewTxManager(&fakeBeginner{tx: tx}, logging.NewNop())

	err := tm.DoWithTransaction(context.Background(), func(ctx context.Context) error {
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, tx.commits)
	assert.Zero(t, tx.rollbacks)
}

func TestDoWithTransactionRollsBackBodyError(t *testing.T) {
	bodyErr := errors.New("body failed")
	tx := &fakeTx{}
	tm := NewTxManager(&fakeBeginner{tx: tx}, logging.NewNop())

	err := tm.DoWithTransaction(context.Background(), func(ctx context.Context) error {
		return bodyErr
	})
	// the body's error must come back unchanged
	assert.Equal(t, bodyErr, err)
	assert.Zero(t, tx.commits)
	assert.Equal(t, 1, tx.rollbacks)
}

func TestDoWithTransactionPropagatesBodyErrorDespiteRollbackFailure(t *testing.T) {
	bodyErr := errors.New("body failed")
	tx := &fakeTx{rollbackErr: errors.New("rollback failed")}
	tm := NewTxManager(&fakeBeginner{tx: tx}, logging.NewNop())

	err := tm.DoWithTransaction(context.Background(), func(ctx context.Context) error {
		return bodyErr
	})
	assert.Equal(t, bodyErr, err)
	assert.Equal(t, 1, tx.rollbacks)
}

func TestDoWithTransactionCommitFailure(t *testing.T) {
	commitErr := errors.New("commit failed")
	tx := &fakeTx{commitErr: commitErr}
	tm := NewTxManager(&fakeBeginner{tx: tx}, logging.NewNop())

	err := tm.DoWithTransaction(context.Background(), func(ctx context.Context) error {
		return nil
	})
	assert.ErrorIs(t, err, commitErr)
	assert.Equal(t, 1, tx.rollbacks)
}

func TestDoWithTransactionBeginFailure(t *testing.T) {
	beginErr := errors.New("begin failed")
	tm := NewTxManager(&fakeBeginner{beginErr: beginErr}, logging.NewNop())

	called := false
	err := tm.DoWithTransaction(context.Background(), func(ctx context.Context) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, beginErr)
	assert.False(t, called)
}

func TestIsTransientError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{
			name:     "nil",
			err:      nil,
			expected: false,
		},
		{
			name:     "connection exception class",
			err:      &pgconn.PgError{Code: "08006"},
			expected: true,
		},
		{
			name:     "unique violation is not transient",
			err:      &pgconn.PgError{Code: "23505"},
			expected: false,
		},
		{
			name:     "plain application error",
			err:      errors.New("boom"),
			expected: false,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.expected, IsTransientError(test.err))
		})
	}
}
