package helpers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTManager_GenerateAndParse(t *testing.T) {
	t.Parallel()

	m := &JWTManager{Secret: []byte("super-secret"), TTL: time.Hour}
	tok, exp, err := m.Generate("user-123")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	claims, err := m.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
}

func TestJWTManager_Parse_Expired(t *testing.T) {
	t.Parallel()

	m := &JWTManager{Secret: []byte("secret"), TTL: -time.Minute}
	tok, _, err := m.Generate("u1")
	require.NoError(t, err)

	_, err = m.Parse(tok)
	assert.Error(t, err)
}

func TestJWTManager_Parse_WrongSecret(t *testing.T) {
	t.Parallel()

	issuer := &JWTManager{Secret: []byte("right-secret"), TTL: time.Hour}
	tok, _, err := issuer.Generate("u2")
	require.NoError(t, err)

	verifier := &JWTManager{Secret: []byte("wrong-secret"), TTL: time.Hour}
	_, err = verifier.Parse(tok)
	assert.Error(t, err)
}

func TestJWTManager_Parse_Malformed(t *testing.T) {
	t.Parallel()

	m := &JWTManager{Secret: []byte("k"), TTL: time.Hour}
	_, err := m.Parse("not.a.jwt")
	assert.Error(t, err)
}
