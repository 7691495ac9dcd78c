package auth

import (
	"testing"
	"time"

	"github.com/dangerclosesec/siren/internal/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidate(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)

	token, err := tm.Generate("ci-runner")
	require.NoError(t, err)

	claims, err := tm.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "ci-runner", claims.Client)
	assert.Equal(t, "ci-runner", claims.Subject)
}

func TestValidateRejectsForeignTokens(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)

	other, err := NewTokenManager("other", time.Hour).Generate("x")
	require.NoError(t, err)
	_, err = tm.Validate(other)
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)

	expired, err := NewTokenManager("secret", -time.Minute).Generate("x")
	require.NoError(t, err)
	_, err = tm.Validate(expired)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = tm.Validate("not-a-token")
	assert.Error(t, err)
}
