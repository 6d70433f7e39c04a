package jwtfactory

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

type Kind string

const (
	AccessToken  Kind = "access"
	RefreshToken Kind = "refresh"
)

const kindClaimName = "kind"

var (
	ErrInvalidToken = errors.New("invalid token")
)

// Claims is the decoded self-contained claim set of a bearer token.
type Claims struct {
	Subject   string
	ExpiresAt time.Time
	Kind      Kind
}

type TokenFactory struct {
	tokenAuth  *jwtauth.JWTAuth
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func New(tokenAuth *jwtauth.JWTAuth, accessTTL, refreshTTL time.Duration) *TokenFactory {
	return &TokenFactory{
		tokenAuth:  tokenAuth,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

func (tf *TokenFactory) Generate(subject string, kind Kind) (string, error) {
	ttl := tf.accessTTL
	if kind == RefreshToken {
		ttl = tf.refreshTTL
	}
	timeNow := time.Now()
	claims := map[string]any{
		"sub":         subject,
		kindClaimName: string(kind),
		"iat":         timeNow.Unix(),
		"exp":         timeNow.Add(ttl).Unix(),
	}
	_, tokenString, err := tf.tokenAuth.Encode(claims)
	if err != nil {
		return "", fmt.Errorf("token encoding failed: %w", err)
	}
	return tokenString, nil
}

// Verify checks signature and expiry. A token at exactly its expiry
// instant is rejected. Revocation is the caller's concern.
func (tf *TokenFactory) Verify(tokenString string) (Claims, error) {
	token, err := jwtauth.VerifyToken(tf.tokenAuth, tokenString)
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	return tf.claims(token)
}

// Decode verifies the signature only, skipping expiry validation. Used by
// revocation, which must accept tokens about to expire.
func (tf *TokenFactory) Decode(tokenString string) (Claims, error) {
	token, err := tf.tokenAuth.Decode(tokenString)
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	return tf.claims(token)
}

func (tf *TokenFactory) claims(token jwt.Token) (Claims, error) {
	kindVal, ok := token.Get(kindClaimName)
	if !ok {
		return Claims{}, fmt.Errorf("%w: missing %q claim", ErrInvalidToken, kindClaimName)
	}
	kind, ok := kindVal.(string)
	if !ok {
		return Claims{}, fmt.Errorf("%w: malformed %q claim", ErrInvalidToken, kindClaimName)
	}
	if token.Subject() == "" {
		return Claims{}, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return Claims{
		Subject:   token.Subject(),
		ExpiresAt: token.Expiration(),
		Kind:      Kind(kind),
	}, nil
}
