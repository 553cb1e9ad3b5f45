package services_test

import (
	"testing"

	"github.com/SscSPs/auth_session_service/internal/apperrors"
	"github.com/SscSPs/auth_session_service/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestCredentialService_HashAndVerify(t *testing.T) {
	svc := services.NewCredentialService(bcrypt.MinCost)

	hash, err := svc.HashPassword("s3cret-password")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-password", hash)

	ok, err := svc.VerifyPassword(hash, "s3cret-password")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.VerifyPassword(hash, "s3cret-passwore")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCredentialService_HashesAreSalted(t *testing.T) {
	svc := services.NewCredentialService(bcrypt.MinCost)

	a, err := svc.HashPassword("same")
	require.NoError(t, err)
	b, err := svc.HashPassword("same")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestCredentialService_BadStoredHash(t *testing.T) {
	svc := services.NewCredentialService(bcrypt.MinCost)

	ok, err := svc.VerifyPassword("", "anything")
	assert.False(t, ok)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	ok, err = svc.VerifyPassword("plainly-not-bcrypt", "anything")
	assert.False(t, ok)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}
