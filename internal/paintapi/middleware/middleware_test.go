package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paint-backend/internal/paintapi/data"
	"paint-backend/internal/paintapi/service"
	"paint-backend/pkg/logging"
	"paint-backend/pkg/threadsafe"
)

type fakeVerifier struct {
	account data.AdminAccount
	err     error
}

func (f *fakeVerifier) VerifyAccess(_ context.Context, _ string) (data.AdminAccount, error) {
	return f.account, f.err
}

func TestAuthenticator(t *testing.T) {
	tests := []struct {
		name       string
		header     string
		verifier   *fakeVerifier
		wantStatus int
	}{
		{
			name:       "valid token",
			header:     "Bearer some-token",
			verifier:   &fakeVerifier{account: data.AdminAccount{ID: 1, Username: "admin"}},
			wantStatus: http.StatusOK,
		},
		{
			name:       "missing header",
			header:     "",
			verifier:   &fakeVerifier{},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "rejected token",
			header:     "Bearer bad-token",
			verifier:   &fakeVerifier{err: service.ErrUnauthorized},
			wantStatus: http.StatusUnauthorized,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotAccount data.AdminAccount
			var gotToken string
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotAccount, _ = AccountFromCtx(r.Context())
				gotToken, _ = TokenFromCtx(r.Context())
				w.WriteHeader(http.StatusOK)
			})
			handler := NewAuthenticator(tt.verifier, logging.NewNop()).CreateHandler(next)

			r := httptest.NewRequest(http.MethodGet, "/api/admin/products", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, r)

			require.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, "admin", gotAccount.Username)
				assert.Equal(t, "some-token", gotToken)
			} else {
				assert.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))
			}
		})
	}
}

func TestRateLimit(t *testing.T) {
	handler := NewRateLimit(threadsafe.NewRateWindow(2, time.Minute)).
		CreateHandler(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

	request := func(remoteAddr string) *httptest.ResponseRecorder {
		r := httptest.NewRequest(http.MethodGet, "/api/products", nil)
		r.RemoteAddr = remoteAddr
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)
		return w
	}

	assert.Equal(t, http.StatusOK, request("10.0.0.1:1111").Code)
	assert.Equal(t, http.StatusOK, request("10.0.0.1:2222").Code)

	limited := request("10.0.0.1:3333")
	assert.Equal(t, http.StatusTooManyRequests, limited.Code)
	assert.NotEmpty(t, limited.Header().Get("Retry-After"))

	// another client has its own window
	assert.Equal(t, http.StatusOK, request("10.0.0.2:1111").Code)
}
