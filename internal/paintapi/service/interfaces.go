package service

import (
	"context"
	"time"

	"paint-backend/internal/paintapi/data"
	"paint-backend/pkg/jwtfactory"
)

type TransactionManager interface {
	DoWithTransaction(ctx context.Context, f func(ctx context.Context) error) error
}

type TokenFactory interface {
	Generate(subject string, kind jwtfactory.Kind) (string, error)
	Verify(tokenString string) (jwtfactory.Claims, error)
	Decode(tokenString string) (jwtfactory.Claims, error)
}

type AccountRepository interface {
	GetAdminByUsername(ctx context.Context, username string) (data.AdminAccount, error)
	GetAdminID(ctx context.Context, username string) (int, error)
	GetPasswordHash(ctx context.Context, userID int) (string, error)
	UpdatePasswordHash(ctx context.Context, userID int, hash string) error
	UpdateLastLogin(ctx context.Context, userID int) error
}

type RevokedTokenRepository interface {
	InsertRevokedToken(ctx context.Context, token string, userID int, expiresAt time.Time) error
	IsTokenRevoked(ctx context.Context, token string) (bool, error)
}
