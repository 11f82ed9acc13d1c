package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewToken(t *testing.T) {
	// When: minting two tokens
	first, err := NewToken()
	require.NoError(t, err)

	second, err := NewToken()
	require.NoError(t, err)

	// Then: they are long, URL-safe, and distinct
	assert.GreaterOrEqual(t, len(first), 40)
	assert.NotContains(t, first, "=")
	assert.NotEqual(t, first, second)
}

func TestVerifyToken(t *testing.T) {
	token, err := NewToken()
	require.NoError(t, err)

	t.Run("Accepts the issued token", func(t *testing.T) {
		assert.True(t, VerifyToken(token, token))
	})

	t.Run("Rejects a different token", func(t *testing.T) {
		other, err := NewToken()
		require.NoError(t, err)

		assert.False(t, VerifyToken(token, other))
	})

	t.Run("An unissued seat never matches", func(t *testing.T) {
		assert.False(t, VerifyToken("", ""))
		assert.False(t, VerifyToken("", token))
	})

	t.Run("An empty presentation never matches", func(t *testing.T) {
		assert.False(t, VerifyToken(token, ""))
	})
}
