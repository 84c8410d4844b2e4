package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLogin(t *testing.T) {
	users := newFakeUserRepo()
	service := NewAuthService(users, newTestLogger(t))

	created, token, err := service.Register("Ada", "Ada@Example.com", "correct horse battery")
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.NotEmpty(t, token)
	assert.Equal(t, "ada@example.com", created.Email, "emails are normalized to lower case")
	assert.NotEqual(t, "correct horse battery", created.PasswordHash)

	loggedIn, loginToken, err := service.Login("ada@example.com", "correct horse battery")
	require.NoError(t, err)
	assert.Equal(t, created.ID, loggedIn.ID)
	assert.NotEmpty(t, loginToken)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	users := newFakeUserRepo()
	service := NewAuthService(users, newTestLogger(t))

	_, _, err := service.Register("Ada", "ada@example.com", "password-one")
	require.NoError(t, err)

	_, _, err = service.Register("Imposter", "ADA@example.com", "password-two")
	assert.Error(t, err)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	users := newFakeUserRepo()
	service := NewAuthService(users, newTestLogger(t))

	_, _, err := service.Register("Ada", "ada@example.com", "the right password")
	require.NoError(t, err)

	_, _, err = service.Login("ada@example.com", "the wrong password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginRejectsUnknownEmail(t *testing.T) {
	service := NewAuthService(newFakeUserRepo(), newTestLogger(t))

	_, _, err := service.Login("nobody@example.com", "whatever")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestValidateTokenRoundTrip(t *testing.T) {
	users := newFakeUserRepo()
	service := NewAuthService(users, newTestLogger(t))

	created, token, err := service.Register("Ada", "ada@example.com", "correct horse battery")
	require.NoError(t, err)

	assert.Equal(t, created.ID, service.ValidateToken(token))
}

func TestValidateTokenDowngradesInvalidTokensToGuest(t *testing.T) {
	service := NewAuthService(newFakeUserRepo(), newTestLogger(t))

	assert.Equal(t, int64(0), service.ValidateToken(""))
	assert.Equal(t, int64(0), service.ValidateToken("not-a-jwt"))
	assert.Equal(t, int64(0), service.ValidateToken("eyJhbGciOiJIUzI1NiJ9.e30.bad-signature"))
}
