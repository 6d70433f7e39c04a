// Package passhash hashes admin passwords with bcrypt over a SHA-256
// pre-hash and still verifies plain bcrypt hashes left over from earlier
// deployments, so stored credentials can be migrated on successful login.
package passhash

import (
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
)

const (
	// Hashes produced here carry this prefix; anything else is treated as
	// a legacy plain-bcrypt hash.
	sha256Prefix = "$bcrypt-sha256$"

	// bcrypt ignores input beyond this many bytes.
	bcryptMaxBytes = 72
)

var (
	ErrMismatch = errors.New("password does not match hash")
)

// Hash produces a hash under the preferred scheme: the password is
// pre-hashed with SHA-256 and base64-encoded before bcrypt, which lifts
// bcrypt's 72-byte input limit for arbitrarily long passwords.
func Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword(prehash(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("bcrypt hashing failed: %w", err)
	}
	return sha256Prefix + string(hashed), nil
}

// Verify checks password against a stored hash of either scheme.
// Returns ErrMismatch on a wrong password and other errors only for
// malformed hashes.
func Verify(password, hash string) error {
	var err error
	if inner, ok := strings.CutPrefix(hash, sha256Prefix); ok {
		err = bcrypt.CompareHashAndPassword([]byte(inner), prehash(password))
	} else {
		err = bcrypt.CompareHashAndPassword([]byte(hash), truncateForBcrypt(password))
	}
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrMismatch
		}
		return fmt.Errorf("hash comparison failed: %w", err)
	}
	return nil
}

// NeedsUpdate reports whether a stored hash uses the legacy scheme and
// should be recomputed once the plaintext is known.
func NeedsUpdate(hash string) bool {
	return !strings.HasPrefix(hash, sha256Prefix)
}

func prehash(password string) []byte {
	sum := sha256.Sum256([]byte(password))
	out := make([]byte, base64.StdEncoding.EncodedLen(len(sum)))
	base64.StdEncoding.Encode(out, sum[:])
	return out
}

// truncateForBcrypt cuts the password at the largest rune boundary that
// fits bcrypt's input limit. The same cut is applied on hash creation and
// verification, so long passwords survive the legacy scheme consistently.
func truncateForBcrypt(password string) []byte {
	b := []byte(password)
	if len(b) <= bcryptMaxBytes {
		return b
	}
	cut := bcryptMaxBytes
	for cut > 0 && !utf8.RuneStart(b[cut]) {
		cut--
	}
	return b[:cut]
}

// HashLegacy exists for provisioning fixtures and tests that need a hash
// under the deprecated plain-bcrypt scheme.
func HashLegacy(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword(truncateForBcrypt(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("bcrypt hashing failed: %w", err)
	}
	return string(hashed), nil
}
