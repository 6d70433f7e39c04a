package dbrepository

import (
	"context"
	_ "embed"
	"errors"

	"github.com/jackc/pgx/v5"

	"paint-backend/internal/paintapi/data"
)

//go:embed sql/select_admin_by_username.sql
var selectAdminByUsernameQuery string

func (db *DBRepository) GetAdminByUsername(ctx context.Context, username string) (data.AdminAccount, error) {
	var account data.AdminAccount
	err := db.storage.QueryValue(
		ctx,
		selectAdminByUsernameQuery,
		[]any{username},
		[]any{&account.ID, &account.Username, &account.Email, &account.PasswordHash, &account.LastLogin},
	)
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return data.AdminAccount{}, data.ErrInvalidLogin
		default:
			return data.AdminAccount{}, handleSQLError(err)
		}
	}
	return account, nil
}

//go:embed sql/select_admin_id_by_username.sql
var selectAdminIDByUsernameQuery string

func (db *DBRepository) GetAdminID(ctx context.Context, username string) (int, error) {
	var id int
	err := db.storage.QueryValue(ctx, selectAdminIDByUsernameQuery, []any{username}, []any{&id})
	if err != nil {
		return 0, handleSQLError(err)
	}
	return id, nil
}

//go:embed sql/select_password_hash.sql
var selectPasswordHashQuery string

func (db *DBRepository) GetPasswordHash(ctx context.Context, userID int) (string, error) {
	var hash string
	err := db.storage.QueryValue(ctx, selectPasswordHashQuery, []any{userID}, []any{&hash})
	if err != nil {
		return "", handleSQLError(err)
	}
	return hash, nil
}

//go:embed sql/update_password_hash.sql
var updatePasswordHashQuery string

func (db *DBRepository) UpdatePasswordHash(ctx context.Context, userID int, hash string) error {
	tag, err := db.storage.Exec(ctx, updatePasswordHashQuery, userID, hash)
	if err != nil {
		return handleSQLError(err)
	}
	if tag.RowsAffected() == 0 {
		return data.ErrNotFound
	}
	return nil
}

//go:embed sql/update_last_login.sql
var updateLastLoginQuery string

func (db *DBRepository) UpdateLastLogin(ctx context.Context, userID int) error {
	_, err := db.storage.Exec(ctx, updateLastLoginQuery, userID)
	if err != nil {
		return handleSQLError(err)
	}
	return nil
}
