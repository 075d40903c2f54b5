package services_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"

	"payflow/services"
)

const testSecret = "test-signing-secret"

func TestNewTokenService_EmptySecret(t *testing.T) {
	_, err := services.NewTokenService("")
	assert.Error(t, err)
}

func TestIssueValidate_RoundTrip(t *testing.T) {
	svc, err := services.NewTokenService(testSecret)
	assert.NoError(t, err)

	token, err := svc.Issue("user123", "admin")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := svc.Validate(token)
	assert.NoError(t, err)
	assert.Equal(t, "user123", claims.Subject)
	assert.Equal(t, "admin", claims.Role)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), claims.ExpiresAt, time.Minute)
}

func TestValidate_Expired(t *testing.T) {
	svc, err := services.NewTokenService(testSecret)
	assert.NoError(t, err)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "user123",
		"role": "admin",
		"exp":  time.Now().Add(-time.Hour).Unix(),
		"iat":  time.Now().Add(-25 * time.Hour).Unix(),
	})
	tokenStr, err := expired.SignedString([]byte(testSecret))
	assert.NoError(t, err)

	_, err = svc.Validate(tokenStr)
	assert.ErrorIs(t, err, services.ErrInvalidToken)
}

func TestValidate_WrongSecret(t *testing.T) {
	issuer, _ := services.NewTokenService("other-secret")
	svc, _ := services.NewTokenService(testSecret)

	token, err := issuer.Issue("user123", "admin")
	assert.NoError(t, err)

	_, err = svc.Validate(token)
	assert.ErrorIs(t, err, services.ErrInvalidToken)
}

func TestValidate_Malformed(t *testing.T) {
	svc, _ := services.NewTokenService(testSecret)

	_, err := svc.Validate("not-a-token")
	assert.ErrorIs(t, err, services.ErrInvalidToken)
}
