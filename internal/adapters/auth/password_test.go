package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBcryptHasher(t *testing.T) {
	h := NewBcryptHasher(10)

	t.Run("salts are random hex", func(t *testing.T) {
		a, err := h.GenerateSalt()
		require.NoError(t, err)
		b, err := h.GenerateSalt()
		require.NoError(t, err)
		assert.Regexp(t, "^[0-9a-f]{64}$", a)
		assert.NotEqual(t, a, b)
	})

	t.Run("hash and compare round trip", func(t *testing.T) {
		salt, err := h.GenerateSalt()
		require.NoError(t, err)
		hash, err := h.Hash(salt, "my-secret-password")
		require.NoError(t, err)
		require.NotEmpty(t, hash)

		assert.NoError(t, h.Compare(hash, salt, "my-secret-password"))
	})

	t.Run("wrong password fails", func(t *testing.T) {
		salt, _ := h.GenerateSalt()
		hash, err := h.Hash(salt, "correct")
		require.NoError(t, err)

		assert.Error(t, h.Compare(hash, salt, "wrong"))
	})

	t.Run("wrong salt fails", func(t *testing.T) {
		salt1, _ := h.GenerateSalt()
		salt2, _ := h.GenerateSalt()
		hash, err := h.Hash(salt1, "password")
		require.NoError(t, err)

		assert.Error(t, h.Compare(hash, salt2, "password"))
	})
}
