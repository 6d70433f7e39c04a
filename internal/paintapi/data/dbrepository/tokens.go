package dbrepository

import (
	"context"
	_ "embed"
	"time"
)

//go:embed sql/insert_revoked_token.sql
var insertRevokedTokenQuery string

func (db *DBRepository) InsertRevokedToken(ctx context.Context, token string, userID int, expiresAt time.Time) error {
	_, err := db.storage.Exec(ctx, insertRevokedTokenQuery, token, userID, expiresAt)
	if err != nil {
		return handleSQLError(err)
	}
	return nil
}

//go:embed sql/select_revoked_token.sql
var selectRevokedTokenQuery string

func (db *DBRepository) IsTokenRevoked(ctx context.Context, token string) (bool, error) {
	var revoked bool
	err := db.storage.QueryValue(ctx, selectRevokedTokenQuery, []any{token}, []any{&revoked})
	if err != nil {
		return false, handleSQLError(err)
	}
	return revoked, nil
}

//go:embed sql/delete_expired_revoked_tokens.sql
var deleteExpiredRevokedTokensQuery string

// DeleteExpiredRevokedTokens drops revocation rows whose tokens already
// expired on their own; they can no longer pass verification anyway.
func (db *DBRepository) DeleteExpiredRevokedTokens(ctx context.Context) (int64, error) {
	tag, err := db.storage.Exec(ctx, deleteExpiredRevokedTokensQuery)
	if err != nil {
		return 0, handleSQLError(err)
	}
	return tag.RowsAffected(), nil
}
