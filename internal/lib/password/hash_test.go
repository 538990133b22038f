package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHashAndCompareHash(t *testing.T) {
	hash, err := GetHash("password123")
	require.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotEqual(t, "password123", hash)

	t.Run("correct password matches", func(t *testing.T) {
		require.NoError(t, CompareHash(hash, "password123"))
	})

	t.Run("wrong password does not match", func(t *testing.T) {
		require.Error(t, CompareHash(hash, "password124"))
	})

	t.Run("hashes are salted", func(t *testing.T) {
		otherHash, err := GetHash("password123")
		require.NoError(t, err)
		assert.NotEqual(t, hash, otherHash)
	})
}
