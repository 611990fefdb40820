package test

import (
	"os"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
)

// Token signs a JWT for the principal with the secret from JWT_SECRET.
func Token(t *testing.T, principal string) string {
	claims := jwt.RegisteredClaims{
		Subject:   principal,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(os.Getenv("JWT_SECRET")))
	if err != nil {
		assert.FailNow(t, "Token could not be signed", err)
	}

	return token
}

// AuthHeader returns request headers authenticating as the principal.
func AuthHeader(t *testing.T, principal string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + Token(t, principal)}
}
