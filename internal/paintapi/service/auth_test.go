package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paint-backend/internal/paintapi/data"
	"paint-backend/pkg/jwtfactory"
	"paint-backend/pkg/logging"
	"paint-backend/pkg/passhash"
)

type fakeAccounts struct {
	accounts       map[string]data.AdminAccount
	updatedHashes  map[int]string
	lastLoginCalls int
	updateHashErr  error
}

func newFakeAccounts(accounts ...data.AdminAccount) *fakeAccounts {
	f := &fakeAccounts{
		accounts:      map[string]data.AdminAccount{},
		updatedHashes: map[int]string{},
	}
	for _, a := range accounts {
		f.accounts[a.Username] = a
	}
	return f
}

func (f *fakeAccounts) GetAdminByUsername(_ context.Context, username string) (data.AdminAccount, error) {
	account, ok := f.accounts[username]
	if !ok {
		return data.AdminAccount{}, data.ErrInvalidLogin
	}
	return account, nil
}

func (f *fakeAccounts) GetAdminID(_ context.Context, username string) (int, error) {
	account, ok := f.accounts[username]
	if !ok {
		return 0, data.ErrNotFound
	}
	return account.ID, nil
}

func (f *fakeAccounts) GetPasswordHash(_ context.Context, userID int) (string, error) {
	for _, a := range f.accounts {
		if a.ID == userID {
			return a.PasswordHash, nil
		}
	}
	return "", data.ErrNotFound
}

func (f *fakeAccounts) UpdatePasswordHash(_ context.Context, userID int, hash string) error {
	if f.updateHashErr != nil {
		return f.updateHashErr
	}
	f.updatedHashes[userID] = hash
	return nil
}

func (f *fakeAccounts) UpdateLastLogin(_ context.Context, _ int) error {
	f.lastLoginCalls++
	return nil
}

type fakeRevokedTokens struct {
	revoked   map[string]time.Time
	checkErr  error
	insertErr error
}

func newFakeRevokedTokens() *fakeRevokedTokens {
	return &fakeRevokedTokens{revoked: map[string]time.Time{}}
}

func (f *fakeRevokedTokens) InsertRevokedToken(_ context.Context, token string, _ int, expiresAt time.Time) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.revoked[token] = expiresAt
	return nil
}

func (f *fakeRevokedTokens) IsTokenRevoked(_ context.Context, token string) (bool, error) {
	if f.checkErr != nil {
		return false, f.checkErr
	}
	_, ok := f.revoked[token]
	return ok, nil
}

// passthroughTxManager runs the body without a real transaction.
type passthroughTxManager struct {
	beginErr error
}

func (m *passthroughTxManager) DoWithTransaction(ctx context.Context, f func(ctx context.Context) error) error {
	if m.beginErr != nil {
		return m.beginErr
	}
	return f(ctx)
}

func newTestAuth(t *testing.T, accounts *fakeAccounts, revoked *fakeRevokedTokens) (*Auth, *jwtfactory.TokenFactory) {
	t.Helper()
	factory := jwtfactory.New(jwtauth.New("HS256", []byte("test-secret"), nil), time.Hour, 24*time.Hour)
	auth, err := NewAuth(accounts, revoked, &passthroughTxManager{}, factory, logging.NewNop())
	require.NoError(t, err)
	return auth, factory
}

func mustHash(t *testing.T, password string) string {
	t.Helper()
	hash, err := passhash.Hash(password)
	require.NoError(t, err)
	return hash
}

func TestAuthLogin(t *testing.T) {
	accounts := newFakeAccounts(data.AdminAccount{
		ID:           1,
		Username:     "admin",
		PasswordHash: mustHash(t, "correct horse"),
	})
	auth, factory := newTestAuth(t, accounts, newFakeRevokedTokens())

	pair, err := auth.Login(context.Background(), "admin", "correct horse")
	require.NoError(t, err)

	accessClaims, err := factory.Verify(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "admin", accessClaims.Subject)
	assert.Equal(t, jwtfactory.AccessToken, accessClaims.Kind)

	refreshClaims, err := factory.Verify(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, jwtfactory.RefreshToken, refreshClaims.Kind)

	assert.Equal(t, 1, accounts.lastLoginCalls)
}

func TestAuthenticateFailures(t *testing.T) {
	accounts := newFakeAccounts(data.AdminAccount{
		ID:           1,
		Username:     "admin",
		PasswordHash: mustHash(t, "correct horse"),
	})
	auth, _ := newTestAuth(t, accounts, newFakeRevokedTokens())

	tests := []struct {
		name     string
		username string
		password string
	}{
		{
			name:     "wrong password",
			username: "admin",
			password: "battery staple",
		},
		{
			name:     "unknown user",
			username: "nobody",
			password: "correct horse",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := auth.Authenticate(context.Background(), tt.username, tt.password)
			// both paths answer with the same error
			assert.ErrorIs(t, err, ErrInvalidCredentials)
		})
	}
}

func TestAuthenticateMigratesLegacyHash(t *testing.T) {
	legacyHash, err := passhash.HashLegacy("correct horse")
	require.NoError(t, err)
	accounts := newFakeAccounts(data.AdminAccount{
		ID:           7,
		Username:     "admin",
		PasswordHash: legacyHash,
	})
	auth, _ := newTestAuth(t, accounts, newFakeRevokedTokens())

	_, err = auth.Authenticate(context.Background(), "admin", "correct horse")
	require.NoError(t, err)

	newHash, ok := accounts.updatedHashes[7]
	require.True(t, ok, "expected the stored hash to be rewritten")
	assert.False(t, passhash.NeedsUpdate(newHash))
	assert.NoError(t, passhash.Verify("correct horse", newHash))
}

func TestAuthenticateMigrationFailureDoesNotFailLogin(t *testing.T) {
	legacyHash, err := passhash.HashLegacy("correct horse")
	require.NoError(t, err)
	accounts := newFakeAccounts(data.AdminAccount{
		ID:           7,
		Username:     "admin",
		PasswordHash: legacyHash,
	})
	accounts.updateHashErr = errors.New("storage offline")
	auth, _ := newTestAuth(t, accounts, newFakeRevokedTokens())

	account, err := auth.Authenticate(context.Background(), "admin", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, 7, account.ID)
}

func TestVerifyAccess(t *testing.T) {
	accounts := newFakeAccounts(data.AdminAccount{
		ID:           1,
		Username:     "admin",
		PasswordHash: mustHash(t, "correct horse"),
	})
	revoked := newFakeRevokedTokens()
	auth, factory := newTestAuth(t, accounts, revoked)

	accessToken, err := factory.Generate("admin", jwtfactory.AccessToken)
	require.NoError(t, err)

	account, err := auth.VerifyAccess(context.Background(), accessToken)
	require.NoError(t, err)
	assert.Equal(t, "admin", account.Username)
}

func TestVerifyAccessRejections(t *testing.T) {
	accounts := newFakeAccounts(data.AdminAccount{ID: 1, Username: "admin"})
	revoked := newFakeRevokedTokens()
	auth, factory := newTestAuth(t, accounts, revoked)

	refreshToken, err := factory.Generate("admin", jwtfactory.RefreshToken)
	require.NoError(t, err)

	revokedToken, err := factory.Generate("admin", jwtfactory.AccessToken)
	require.NoError(t, err)
	revoked.revoked[revokedToken] = time.Now().Add(time.Hour)

	ghostToken, err := factory.Generate("deleted-admin", jwtfactory.AccessToken)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{
			name:  "garbage token",
			token: "not-a-token",
		},
		{
			name:  "refresh token used as access",
			token: refreshToken,
		},
		{
			name:  "revoked token",
			token: revokedToken,
		},
		{
			name:  "account no longer exists",
			token: ghostToken,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := auth.VerifyAccess(context.Background(), tt.token)
			assert.ErrorIs(t, err, ErrUnauthorized)
		})
	}
}

func TestRefresh(t *testing.T) {
	accounts := newFakeAccounts(data.AdminAccount{ID: 1, Username: "admin"})
	auth, factory := newTestAuth(t, accounts, newFakeRevokedTokens())

	refreshToken, err := factory.Generate("admin", jwtfactory.RefreshToken)
	require.NoError(t, err)

	accessToken, err := auth.Refresh(context.Background(), refreshToken)
	require.NoError(t, err)

	claims, err := factory.Verify(accessToken)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Subject)
	assert.Equal(t, jwtfactory.AccessToken, claims.Kind)
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	accounts := newFakeAccounts(data.AdminAccount{ID: 1, Username: "admin"})
	auth, factory := newTestAuth(t, accounts, newFakeRevokedTokens())

	accessToken, err := factory.Generate("admin", jwtfactory.AccessToken)
	require.NoError(t, err)

	_, err = auth.Refresh(context.Background(), accessToken)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestRefreshRejectsRevokedToken(t *testing.T) {
	accounts := newFakeAccounts(data.AdminAccount{ID: 1, Username: "admin"})
	revoked := newFakeRevokedTokens()
	auth, factory := newTestAuth(t, accounts, revoked)

	refreshToken, err := factory.Generate("admin", jwtfactory.RefreshToken)
	require.NoError(t, err)
	revoked.revoked[refreshToken] = time.Now().Add(time.Hour)

	_, err = auth.Refresh(context.Background(), refreshToken)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestLogout(t *testing.T) {
	accounts := newFakeAccounts(data.AdminAccount{ID: 1, Username: "admin"})
	revoked := newFakeRevokedTokens()
	auth, factory := newTestAuth(t, accounts, revoked)

	accessToken, err := factory.Generate("admin", jwtfactory.AccessToken)
	require.NoError(t, err)
	refreshToken, err := factory.Generate("admin", jwtfactory.RefreshToken)
	require.NoError(t, err)

	auth.Logout(context.Background(), 1, accessToken, refreshToken)

	assert.Contains(t, revoked.revoked, accessToken)
	assert.Contains(t, revoked.revoked, refreshToken)
}

func TestLogoutSkipsMalformedToken(t *testing.T) {
	accounts := newFakeAccounts(data.AdminAccount{ID: 1, Username: "admin"})
	revoked := newFakeRevokedTokens()
	auth, factory := newTestAuth(t, accounts, revoked)

	refreshToken, err := factory.Generate("admin", jwtfactory.RefreshToken)
	require.NoError(t, err)

	auth.Logout(context.Background(), 1, "garbage", refreshToken)

	assert.NotContains(t, revoked.revoked, "garbage")
	assert.Contains(t, revoked.revoked, refreshToken)
}
