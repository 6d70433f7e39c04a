package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"paint-backend/internal/paintapi/data"
	"paint-backend/pkg/jwtfactory"
	"paint-backend/pkg/logging"
	"paint-backend/pkg/passhash"
)

type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

type Auth struct {
	accounts           AccountRepository
	revokedTokens      RevokedTokenRepository
	transactionManager TransactionManager
	tokenFactory       TokenFactory
	logger             *logging.ZapLogger

	// Verified against when the username is unknown, so the wrong-user and
	// wrong-password paths cost the same.
	dummyHash string
}

func NewAuth(
	accounts AccountRepository,
	revokedTokens RevokedTokenRepository,
	transactionManager TransactionManager,
	tokenFactory TokenFactory,
	logger *logging.ZapLogger,
) (*Auth, error) {
	dummyHash, err := passhash.Hash("placeholder-never-matches")
	if err != nil {
		return nil, fmt.Errorf("failed to prepare dummy hash: %w", err)
	}
	return &Auth{
		accounts:           accounts,
		revokedTokens:      revokedTokens,
		transactionManager: transactionManager,
		tokenFactory:       tokenFactory,
		logger:             logger,
		dummyHash:          dummyHash,
	}, nil
}

// Login authenticates the admin and mints an access/refresh token pair.
func (a *Auth) Login(ctx context.Context, username, password string) (TokenPair, error) {
	account, err := a.Authenticate(ctx, username, password)
	if err != nil {
		return TokenPair{}, err
	}

	accessToken, err := a.tokenFactory.Generate(account.Username, jwtfactory.AccessToken)
	if err != nil {
		return TokenPair{}, fmt.Errorf("error generating access token: %w", err)
	}
	refreshToken, err := a.tokenFactory.Generate(account.Username, jwtfactory.RefreshToken)
	if err != nil {
		return TokenPair{}, fmt.Errorf("error generating refresh token: %w", err)
	}

	if err := a.touchLastLogin(ctx, account.ID); err != nil {
		a.logger.WarnCtx(ctx, "failed to update last login", zap.Error(err), zap.Int("userID", account.ID))
	}

	return TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// Authenticate verifies the credentials and, when the stored hash uses the
// deprecated scheme, rewrites it under the preferred one. The migration is
// best-effort: its failure is logged and never fails the login.
func (a *Auth) Authenticate(ctx context.Context, username, password string) (data.AdminAccount, error) {
	account, err := a.accounts.GetAdminByUsername(ctx, username)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrInvalidLogin):
			// burn the same verification work before answering
			_ = passhash.Verify(password, a.dummyHash)
			return data.AdminAccount{}, ErrInvalidCredentials
		default:
			return data.AdminAccount{}, fmt.Errorf("error loading account: %w", err)
		}
	}

	if err := passhash.Verify(password, account.PasswordHash); err != nil {
		switch {
		case errors.Is(err, passhash.ErrMismatch):
			return data.AdminAccount{}, ErrInvalidCredentials
		default:
			return data.AdminAccount{}, fmt.Errorf("error verifying password: %w", err)
		}
	}

	if passhash.NeedsUpdate(account.PasswordHash) {
		if err := a.migrateHash(ctx, account.ID, password); err != nil {
			a.logger.WarnCtx(ctx, "password hash migration failed",
				zap.Error(err),
				zap.Int("userID", account.ID),
			)
		} else {
			a.logger.InfoCtx(ctx, "migrated password hash to current scheme", zap.Int("userID", account.ID))
		}
	}

	return account, nil
}

func (a *Auth) migrateHash(ctx context.Context, userID int, password string) error {
	newHash, err := passhash.Hash(password)
	if err != nil {
		return fmt.Errorf("error hashing password: %w", err)
	}
	return a.transactionManager.DoWithTransaction(ctx, func(ctx context.Context) error {
		return a.accounts.UpdatePasswordHash(ctx, userID, newHash)
	})
}

func (a *Auth) touchLastLogin(ctx context.Context, userID int) error {
	return a.transactionManager.DoWithTransaction(ctx, func(ctx context.Context) error {
		return a.accounts.UpdateLastLogin(ctx, userID)
	})
}

// VerifyAccess validates an access token end to end: signature, expiry,
// revocation, and the existence of the account it names.
func (a *Auth) VerifyAccess(ctx context.Context, tokenString string) (data.AdminAccount, error) {
	claims, err := a.tokenFactory.Verify(tokenString)
	if err != nil {
		return data.AdminAccount{}, ErrUnauthorized
	}
	if claims.Kind != jwtfactory.AccessToken {
		return data.AdminAccount{}, ErrUnauthorized
	}

	revoked, err := a.revokedTokens.IsTokenRevoked(ctx, tokenString)
	if err != nil {
		return data.AdminAccount{}, fmt.Errorf("error checking revocation: %w", err)
	}
	if revoked {
		return data.AdminAccount{}, ErrUnauthorized
	}

	account, err := a.accounts.GetAdminByUsername(ctx, claims.Subject)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrInvalidLogin):
			return data.AdminAccount{}, ErrUnauthorized
		default:
			return data.AdminAccount{}, fmt.Errorf("error loading account: %w", err)
		}
	}
	return account, nil
}

// Refresh mints a new access token from a valid refresh token. The caller
// keeps using the same refresh token until it expires.
func (a *Auth) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := a.tokenFactory.Verify(refreshToken)
	if err != nil {
		return "", ErrUnauthorized
	}
	if claims.Kind != jwtfactory.RefreshToken {
		return "", ErrUnauthorized
	}

	revoked, err := a.revokedTokens.IsTokenRevoked(ctx, refreshToken)
	if err != nil {
		return "", fmt.Errorf("error checking revocation: %w", err)
	}
	if revoked {
		return "", ErrUnauthorized
	}

	accessToken, err := a.tokenFactory.Generate(claims.Subject, jwtfactory.AccessToken)
	if err != nil {
		return "", fmt.Errorf("error generating access token: %w", err)
	}
	return accessToken, nil
}

// Logout revokes the presented tokens. Revocation is best-effort: a
// malformed token is logged and skipped, never surfaced to the client.
func (a *Auth) Logout(ctx context.Context, userID int, accessToken, refreshToken string) {
	for _, tokenString := range []string{accessToken, refreshToken} {
		if tokenString == "" {
			continue
		}
		if err := a.revoke(ctx, tokenString, userID); err != nil {
			a.logger.WarnCtx(ctx, "token revocation skipped", zap.Error(err), zap.Int("userID", userID))
		}
	}
}

// revoke decodes without expiry validation so a token about to expire can
// still be written to the revocation store.
func (a *Auth) revoke(ctx context.Context, tokenString string, userID int) error {
	claims, err := a.tokenFactory.Decode(tokenString)
	if err != nil {
		return fmt.Errorf("error decoding token: %w", err)
	}
	return a.transactionManager.DoWithTransaction(ctx, func(ctx context.Context) error {
		return a.revokedTokens.InsertRevokedToken(ctx, tokenString, userID, claims.ExpiresAt)
	})
}
