package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paint-backend/internal/paintapi/data"
	"paint-backend/pkg/logging"
	"paint-backend/pkg/passhash"
)

func TestPasswordReset(t *testing.T) {
	accounts := newFakeAccounts(data.AdminAccount{
		ID:           1,
		Username:     "admin",
		PasswordHash: mustHash(t, "old password"),
	})
	svc := NewPassword(accounts, &passthroughTxManager{}, "superkey", logging.NewNop())

	err := svc.Reset(context.Background(), 1, "old password", "new password")
	require.NoError(t, err)

	newHash, ok := accounts.updatedHashes[1]
	require.True(t, ok)
	assert.NoError(t, passhash.Verify("new password", newHash))
}

func TestPasswordResetWrongOldPassword(t *testing.T) {
	accounts := newFakeAccounts(data.AdminAccount{
		ID:           1,
		Username:     "admin",
		PasswordHash: mustHash(t, "old password"),
	})
	svc := NewPassword(accounts, &passthroughTxManager{}, "superkey", logging.NewNop())

	err := svc.Reset(context.Background(), 1, "not the password", "new password")
	assert.ErrorIs(t, err, ErrWrongPassword)
	assert.Empty(t, accounts.updatedHashes)
}

func TestPasswordResetUnknownUser(t *testing.T) {
	accounts := newFakeAccounts()
	svc := NewPassword(accounts, &passthroughTxManager{}, "superkey", logging.NewNop())

	err := svc.Reset(context.Background(), 42, "whatever", "new password")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEmergencyReset(t *testing.T) {
	accounts := newFakeAccounts(data.AdminAccount{
		ID:           1,
		Username:     "admin",
		PasswordHash: mustHash(t, "forgotten"),
	})
	svc := NewPassword(accounts, &passthroughTxManager{}, "superkey", logging.NewNop())

	err := svc.EmergencyReset(context.Background(), "admin", "new password", "superkey")
	require.NoError(t, err)

	newHash, ok := accounts.updatedHashes[1]
	require.True(t, ok)
	assert.NoError(t, passhash.Verify("new password", newHash))
}

func TestEmergencyResetKeyChecks(t *testing.T) {
	tests := []struct {
		name          string
		configuredKey string
		presentedKey  string
	}{
		{
			name:          "wrong key",
			configuredKey: "superkey",
			presentedKey:  "guess",
		},
		{
			name:          "unconfigured key never matches",
			configuredKey: "",
			presentedKey:  "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			accounts := newFakeAccounts(data.AdminAccount{ID: 1, Username: "admin"})
			svc := NewPassword(accounts, &passthroughTxManager{}, tt.configuredKey, logging.NewNop())

			err := svc.EmergencyReset(context.Background(), "admin", "new password", tt.presentedKey)
			assert.ErrorIs(t, err, ErrInvalidSuperadminKey)
			assert.Empty(t, accounts.updatedHashes)
		})
	}
}

func TestEmergencyResetUnknownAdmin(t *testing.T) {
	accounts := newFakeAccounts()
	svc := NewPassword(accounts, &passthroughTxManager{}, "superkey", logging.NewNop())

	err := svc.EmergencyReset(context.Background(), "ghost", "new password", "superkey")
	assert.ErrorIs(t, err, ErrNotFound)
}
