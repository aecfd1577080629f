package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	t.Parallel()

	const plain = "secret123"
	h1, err := HashPassword(plain, bcrypt.MinCost)
	require.NoError(t, err)
	h2, err := HashPassword(plain, bcrypt.MinCost)
	require.NoError(t, err)

	// Salting makes every digest unique, yet both verify.
	assert.NotEqual(t, h1, h2)
	assert.NotEqual(t, plain, h1)
	assert.True(t, CompareHashAndPassword(h1, plain))
	assert.True(t, CompareHashAndPassword(h2, plain))
}

func TestCompareHashAndPassword_Mismatch(t *testing.T) {
	t.Parallel()

	h, err := HashPassword("correct horse", bcrypt.MinCost)
	require.NoError(t, err)
	assert.False(t, CompareHashAndPassword(h, "battery staple"))
}

func TestCompareHashAndPassword_MalformedDigest(t *testing.T) {
	t.Parallel()

	assert.False(t, CompareHashAndPassword("not-a-bcrypt-digest", "whatever"))
	assert.False(t, CompareHashAndPassword("", "whatever"))
}

func TestHashPassword_CostOutOfRangeFallsBack(t *testing.T) {
	t.Parallel()

	h, err := HashPassword("secret123", 99)
	require.NoError(t, err)
	cost, err := bcrypt.Cost([]byte(h))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, cost)
}
