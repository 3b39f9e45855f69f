package cryptox

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	for _, plaintext := range []string{"hunter2", "пароль", "a long passphrase with spaces", "!@#$%^&*"} {
		verifier, err := HashPassword(plaintext)
		require.NoError(t, err)
		require.NotEqual(t, plaintext, verifier, "verifier must not be the plaintext")

		assert.True(t, PasswordMatches(plaintext, verifier))
		assert.False(t, PasswordMatches(plaintext+"x", verifier))
	}
}

func TestHashPassword_SaltedPerCall(t *testing.T) {
	first, err := HashPassword("hunter2")
	require.NoError(t, err)
	second, err := HashPassword("hunter2")
	require.NoError(t, err)

	assert.NotEqual(t, first, second, "two hashes of the same plaintext must differ")
	assert.True(t, PasswordMatches("hunter2", first))
	assert.True(t, PasswordMatches("hunter2", second))
}

func TestPasswordMatches_GarbageVerifier(t *testing.T) {
	assert.False(t, PasswordMatches("hunter2", "not-a-bcrypt-hash"))
	assert.False(t, PasswordMatches("", ""))
}
