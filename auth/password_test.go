package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHasher(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	hashed, err := h.Hash("MyPass777!")
	require.NoError(t, err)
	assert.NotEqual(t, "MyPass777!", hashed)

	assert.NoError(t, h.Compare(hashed, "MyPass777!"))
	assert.ErrorIs(t, h.Compare(hashed, "MyPass778!"), ErrPasswordMismatch)
	assert.ErrorIs(t, h.Compare("not-a-hash", "MyPass777!"), ErrPasswordMismatch)
}

func TestNewHasher_ClampsCost(t *testing.T) {
	assert.Equal(t, bcrypt.DefaultCost, NewHasher(0).cost)
	assert.Equal(t, bcrypt.DefaultCost, NewHasher(99).cost)
	assert.Equal(t, 12, NewHasher(12).cost)
}
