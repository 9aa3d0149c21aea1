package utils

import (
	"testing"

	"rifa/src/types"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
)

func TestIsProd(t *testing.T) {
	t.Setenv("API_ENV", "production")
	assert.True(t, IsProd())
	t.Setenv("API_ENV", "local")
	assert.False(t, IsProd())
}

func TestGenerateJWTCarriesAdminClaim(t *testing.T) {
	token, err := GenerateJWT("admin@example.com", "uid-1", true)
	assert.Nil(t, err)

	claims := &types.Claims{}
	_, err = jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return jwtKey, nil
	})
	assert.Nil(t, err)
	assert.True(t, claims.Admin)
	assert.Equal(t, "admin@example.com", claims.Email)
	assert.Equal(t, "uid-1", claims.Subject)
}
