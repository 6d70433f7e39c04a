// Package dbrepository implements the persistence operations of the API
// over a pgxstorage.DBStorage. Statements run inside the transaction
// carried by the context, when the caller opened one.
package dbrepository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"paint-backend/internal/paintapi/data"
	"paint-backend/pkg/logging"
)

type DBStorage interface {
	Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, query string, args ...any) (pgx.Row, error)
	Query(ctx context.Context, query string, args ...any) (pgx.Rows, error)
	QueryValue(ctx context.Context, query string, args []any, dest []any) error
}

type DBRepository struct {
	storage DBStorage
	logger  *logging.ZapLogger
}

func New(storage DBStorage, logger *logging.ZapLogger) *DBRepository {
	return &DBRepository{
		storage: storage,
		logger:  logger,
	}
}

// HealthCheck runs a single query outside any transaction.
func (db *DBRepository) HealthCheck(ctx context.Context) error {
	var one int
	err := db.storage.QueryValue(ctx, "SELECT 1", nil, []any{&one})
	if err != nil {
		return fmt.Errorf("health query failed: %w", err)
	}
	return nil
}

func handleSQLError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" {
			return data.ErrUniqueConstraintViolation
		}
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return data.ErrNotFound
	}
	return err
}

func formatParams(firstNumber, valuesCount int) string {
	currentNum := firstNumber
	values := make([]string, valuesCount)
	for i := 0; i < valuesCount; i++ {
		values[i] = fmt.Sprintf("$%v", currentNum)
		currentNum++
	}
	return strings.Join(values, ",")
}
