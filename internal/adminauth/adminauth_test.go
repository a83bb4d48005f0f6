package adminauth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogin_WrongPasswordRejected(t *testing.T) {
	hash, err := HashPassword("correct-horse")
	require.NoError(t, err)
	g := New(hash, "secret", time.Hour)

	_, err = g.Login("wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_ThenValidate(t *testing.T) {
	hash, err := HashPassword("correct-horse")
	require.NoError(t, err)
	g := New(hash, "secret", time.Hour)

	token, err := g.Login("correct-horse")
	require.NoError(t, err)

	claims, err := g.Validate(token)
	require.NoError(t, err)
	assert.True(t, claims.Admin)
}

func TestLogin_Disabled(t *testing.T) {
	g := New("", "secret", time.Hour)
	_, err := g.Login("anything")
	assert.ErrorIs(t, err, ErrDisabled)
}

func TestValidate_WrongSecretRejected(t *testing.T) {
	hash, err := HashPassword("correct-horse")
	require.NoError(t, err)
	g := New(hash, "secret", time.Hour)
	token, err := g.Login("correct-horse")
	require.NoError(t, err)

	other := New(hash, "different-secret", time.Hour)
	_, err = other.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidate_ExpiredRejected(t *testing.T) {
	hash, err := HashPassword("correct-horse")
	require.NoError(t, err)
	g := New(hash, "secret", -time.Minute)
	token, err := g.Login("correct-horse")
	require.NoError(t, err)

	_, err = g.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
