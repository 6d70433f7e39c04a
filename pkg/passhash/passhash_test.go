package passhash

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashRoundTrip(t *testing.T) {
	tests := []struct {
		name     string
		password string
	}{
		{
			name:     "short ascii",
			password: "correct horse",
		},
		{
			name:     "multi-byte runes",
			password: "пароль-жёлтая-краска",
		},
		{
			name:     "longer than bcrypt limit",
			password: strings.Repeat("a", 100),
		},
		{
			name:     "multi-byte runes past bcrypt limit",
			password: strings.Repeat("ж", 80),
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			hash, err := Hash(test.password)
			require.NoError(t, err)
			assert.NoError(t, Verify(test.password, hash))
			assert.ErrorIs(t, Verify(test.password+"x", hash), ErrMismatch)
			assert.False(t, NeedsUpdate(hash))
		})
	}
}

func TestVerifyLegacyHash(t *testing.T) {
	hash, err := HashLegacy("old-password")
	require.NoError(t, err)

	assert.NoError(t, Verify("old-password", hash))
	assert.ErrorIs(t, Verify("wrong", hash), ErrMismatch)
	assert.True(t, NeedsUpdate(hash))
}

func TestLegacyLongPasswordRoundTrip(t *testing.T) {
	// 91 bytes with rune boundaries off the 72-byte mark; the cut must
	// land on a boundary so the identical string verifies later.
	password := "a" + strings.Repeat("€", 30)

	hash, err := HashLegacy(password)
	require.NoError(t, err)
	assert.NoError(t, Verify(password, hash))
}

func TestTruncateForBcrypt(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "short input untouched",
			input:    "abc",
			expected: "abc",
		},
		{
			name:     "ascii cut at limit",
			input:    strings.Repeat("a", 80),
			expected: strings.Repeat("a", 72),
		},
		{
			name:     "never splits a rune",
			input:    "a" + strings.Repeat("€", 30), // boundaries at 1+3k, nearest below 72 is 70
			expected: "a" + strings.Repeat("€", 23),
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.expected, string(truncateForBcrypt(test.input)))
		})
	}
}
