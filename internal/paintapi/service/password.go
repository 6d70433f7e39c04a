package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"

	"paint-backend/internal/paintapi/data"
	"paint-backend/pkg/logging"
	"paint-backend/pkg/passhash"
)

// Password handles the two reset flows: the self-service reset gated by
// the current password, and the emergency reset gated by a pre-shared key.
type Password struct {
	accounts           AccountRepository
	transactionManager TransactionManager
	superadminKey      []byte
	logger             *logging.ZapLogger
}

func NewPassword(
	accounts AccountRepository,
	transactionManager TransactionManager,
	superadminKey string,
	logger *logging.ZapLogger,
) *Password {
	return &Password{
		accounts:           accounts,
		transactionManager: transactionManager,
		superadminKey:      []byte(superadminKey),
		logger:             logger,
	}
}

func (p *Password) Reset(ctx context.Context, userID int, oldPassword, newPassword string) error {
	return p.transactionManager.DoWithTransaction(ctx, func(ctx context.Context) error {
		currentHash, err := p.accounts.GetPasswordHash(ctx, userID)
		if err != nil {
			switch {
			case errors.Is(err, data.ErrNotFound):
				return ErrNotFound
			default:
				return fmt.Errorf("error loading password hash: %w", err)
			}
		}

		if err := passhash.Verify(oldPassword, currentHash); err != nil {
			switch {
			case errors.Is(err, passhash.ErrMismatch):
				return ErrWrongPassword
			default:
				return fmt.Errorf("error verifying password: %w", err)
			}
		}

		newHash, err := passhash.Hash(newPassword)
		if err != nil {
			return fmt.Errorf("error hashing password: %w", err)
		}
		return p.accounts.UpdatePasswordHash(ctx, userID, newHash)
	})
}

// EmergencyReset requires no session; the pre-shared superadmin key is the
// only credential and is compared in constant time.
func (p *Password) EmergencyReset(ctx context.Context, adminUsername, newPassword, superadminKey string) error {
	if len(p.superadminKey) == 0 ||
		subtle.ConstantTimeCompare([]byte(superadminKey), p.superadminKey) != 1 {
		return ErrInvalidSuperadminKey
	}

	return p.transactionManager.DoWithTransaction(ctx, func(ctx context.Context) error {
		userID, err := p.accounts.GetAdminID(ctx, adminUsername)
		if err != nil {
			switch {
			case errors.Is(err, data.ErrNotFound):
				return ErrNotFound
			default:
				return fmt.Errorf("error loading account: %w", err)
			}
		}

		newHash, err := passhash.Hash(newPassword)
		if err != nil {
			return fmt.Errorf("error hashing password: %w", err)
		}
		return p.accounts.UpdatePasswordHash(ctx, userID, newHash)
	})
}
