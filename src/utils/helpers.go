package utils

import (
	"os"
	"time"

	"rifa/src/types"

	"github.com/golang-jwt/jwt/v4"
)

var jwtKey = []byte(os.Getenv("JWT_SECRET"))

func IsProd() bool {
	return os.Getenv("API_ENV") == "production"
}

// GenerateJWT mints the session token handed out after a verified login. The
// admin claim is decided at mint time from the allow-list; handlers only read
// the claim.
func GenerateJWT(email, uid string, admin bool) (string, error) {
	expirationTime := time.Now().Add(24 * time.Hour)
	claims := &types.Claims{
		Email: email,
		UID:   uid,
		Admin: admin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uid,
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtKey)
}
