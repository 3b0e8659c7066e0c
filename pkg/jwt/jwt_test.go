package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidate(t *testing.T) {
	svc, err := NewService("test-secret", "etegie-bot", time.Hour)
	require.NoError(t, err)

	token, expires, err := svc.GenerateToken("company-a")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expires, time.Minute)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "company-a", claims.CompanyID)
	assert.True(t, claims.CanAccess("company-a"))
	assert.False(t, claims.CanAccess("company-b"))
}

func TestValidateRejectsForeignSecret(t *testing.T) {
	a, _ := NewService("secret-a", "etegie-bot", time.Hour)
	b, _ := NewService("secret-b", "etegie-bot", time.Hour)

	token, _, err := a.GenerateToken("company-a")
	require.NoError(t, err)

	_, err = b.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateExpired(t *testing.T) {
	svc, _ := NewService("test-secret", "etegie-bot", time.Minute)
	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, _, err := svc.GenerateToken("company-a")
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestNewServiceRequiresSecret(t *testing.T) {
	_, err := NewService("", "", 0)
	assert.Error(t, err)

	svc, err := NewService("s", "", 0)
	require.NoError(t, err)
	_, _, err = svc.GenerateToken("")
	assert.Error(t, err)
}
