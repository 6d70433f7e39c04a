package middleware

import (
	"context"
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"go.uber.org/zap"

	"paint-backend/internal/paintapi/data"
	"paint-backend/pkg/logging"
)

type contextKey string

const (
	accountContextKey contextKey = "admin-account"
	tokenContextKey   contextKey = "access-token"
)

// AccessVerifier is the full token check: signature, expiry, revocation and
// account existence.
type AccessVerifier interface {
	VerifyAccess(ctx context.Context, tokenString string) (data.AdminAccount, error)
}

// Authenticator guards the admin routes. The raw token string stays in the
// context so logout can revoke the exact token that was presented.
type Authenticator struct {
	verifier AccessVerifier
	logger   *logging.ZapLogger
}

func NewAuthenticator(verifier AccessVerifier, logger *logging.ZapLogger) *Authenticator {
	return &Authenticator{
		verifier: verifier,
		logger:   logger,
	}
}

func (a *Authenticator) CreateHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString := jwtauth.TokenFromHeader(r)
		if tokenString == "" {
			unauthorized(w)
			return
		}

		account, err := a.verifier.VerifyAccess(r.Context(), tokenString)
		if err != nil {
			a.logger.DebugCtx(r.Context(), "access token rejected", zap.Error(err))
			unauthorized(w)
			return
		}

		ctx := context.WithValue(r.Context(), accountContextKey, account)
		ctx = context.WithValue(ctx, tokenContextKey, tokenString)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	w.WriteHeader(http.StatusUnauthorized)
}

// AccountFromCtx returns the admin placed into the context by Authenticator.
func AccountFromCtx(ctx context.Context) (data.AdminAccount, bool) {
	account, ok := ctx.Value(accountContextKey).(data.AdminAccount)
	return account, ok
}

// TokenFromCtx returns the raw bearer token the request authenticated with.
func TokenFromCtx(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(tokenContextKey).(string)
	return token, ok
}
