package middlewares

import (
	"log"
	"net/http"
	"os"
	"strings"

	"rifa/src/config"
	"rifa/src/types"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
)

var jwtKey = []byte(os.Getenv("JWT_SECRET"))

func AuthMiddleware(ctx *gin.Context) {
	bearerToken := ctx.Request.Header.Get("Authorization")
	if !strings.HasPrefix(bearerToken, "Bearer") {
		ctx.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	reqToken := strings.Split(bearerToken, " ")[1]
	if reqToken == "" {
		ctx.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	claims := &types.Claims{}
	tkn, err := jwt.ParseWithClaims(reqToken, claims, func(t *jwt.Token) (any, error) {
		return jwtKey, nil
	})
	if err != nil {
		log.Printf("token error: %s\n", err.Error())
		if err == jwt.ErrSignatureInvalid || err == jwt.ErrTokenMalformed {
			ctx.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		ctx.AbortWithError(http.StatusUnauthorized, err)
		return
	}
	if !tkn.Valid {
		ctx.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	ctx.Set("email", claims.Email)
	ctx.Set("uid", claims.UID)
	ctx.Set("admin", claims.Admin)
}

// AdminMiddleware gates the moderation surface. The allow-list is checked
// again here so a stale token loses access as soon as the email is removed
// from ADMIN_EMAILS.
func AdminMiddleware(ctx *gin.Context) {
	email := ctx.GetString("email")
	if !ctx.GetBool("admin") || !config.IsAdminEmail(email) {
		log.Printf("Denied admin access for [%s]\n", email)
		ctx.AbortWithStatus(http.StatusForbidden)
		return
	}
}
