package controllers

import (
	"context"
	"log"
	"net/http"

	"rifa/src/config"
	"rifa/src/lib"
	"rifa/src/utils"

	"github.com/gin-gonic/gin"
)

// AuthLogin exchanges a verified Firebase ID token for a local session JWT.
// The uid is set by the VerifyIdToken middleware; admin standing comes from
// the email allow-list, never from the client.
func AuthLogin(ctx *gin.Context) (token *string, status int, err error) {
	uid := ctx.GetString("uid")
	auth, err := lib.GetFirebaseAuth()
	if err != nil {
		log.Printf("Error initializing FirebaseAuth client: %s\n", err.Error())
		return nil, http.StatusBadRequest, err
	}
	user, err := auth.GetUser(context.Background(), uid)
	if err != nil {
		log.Printf("error from Firebase: %s\n", err.Error())
		return nil, http.StatusNotFound, err
	}

	admin := config.IsAdminEmail(user.Email)
	jwt, err := utils.GenerateJWT(user.Email, user.UID, admin)
	if err != nil {
		log.Printf("Error generating JWT for [%s]: %s\n", user.Email, err.Error())
		return nil, http.StatusInternalServerError, err
	}
	log.Printf("Logged in [%s] admin=%v\n", user.Email, admin)
	return &jwt, http.StatusOK, nil
}
