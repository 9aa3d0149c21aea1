package main

import (
	"errors"
	"log"
	"net/http"

	"rifa/src/config"
	awslib "rifa/src/lib/aws"
	"rifa/src/types"

	"github.com/gin-gonic/gin"
)

func sessionHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/sessions", func(ctx *gin.Context) {
			sess, err := sessions.Create(ctx)
			if err != nil {
				log.Printf("Error creating session: %s\n", err.Error())
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": sess})
		}).
		GET("/sessions/:id", func(ctx *gin.Context) {
			var params types.SessionURIParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			sess, err := sessions.Get(ctx, params.SessionID)
			if err != nil {
				respondSessionLookupError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{
				"data":  sess,
				"total": sess.Total(config.TicketPrice()),
			})
		}).
		POST("/sessions/:id/toggle", func(ctx *gin.Context) {
			var params types.SessionURIParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var body types.ToggleTicketRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			sess, ticket, err := sessions.Toggle(ctx, params.SessionID, body.TicketID)
			if err != nil {
				switch {
				case errors.Is(err, types.ErrSessionNotFound):
					ctx.Status(http.StatusNotFound)
				case errors.Is(err, types.ErrStoreUnavailable):
					ctx.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
				case errors.Is(err, types.ErrTicketOutOfRange):
					ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				case errors.Is(err, types.ErrInvalidTransition):
					ctx.JSON(http.StatusConflict, gin.H{"error": err.Error()})
				case errors.Is(err, types.ErrPersistenceFailure):
					// Locally the toggle took effect; the remote write did
					// not confirm. The buyer is told rather than rolled back.
					log.Printf("Toggle for ticket %d unconfirmed: %s\n", body.TicketID, err.Error())
					ctx.JSON(http.StatusOK, gin.H{
						"data":        sess,
						"ticket":      ticket,
						"total":       sess.Total(config.TicketPrice()),
						"unconfirmed": true,
					})
				default:
					ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				}
				return
			}
			ctx.JSON(http.StatusOK, gin.H{
				"data":   sess,
				"ticket": ticket,
				"total":  sess.Total(config.TicketPrice()),
			})
		}).
		POST("/sessions/:id/checkout", func(ctx *gin.Context) {
			var params types.SessionURIParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			sess, dropped, err := sessions.OpenCheckout(ctx, params.SessionID)
			if err != nil {
				switch {
				case errors.Is(err, types.ErrSessionNotFound):
					ctx.Status(http.StatusNotFound)
				case errors.Is(err, types.ErrStoreUnavailable):
					ctx.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
				case errors.Is(err, types.ErrEmptySelection):
					ctx.JSON(http.StatusConflict, gin.H{
						"error":   "no tickets remain selectable",
						"dropped": dropped,
					})
				default:
					ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				}
				return
			}
			ctx.JSON(http.StatusOK, gin.H{
				"data":    sess,
				"dropped": dropped,
				"total":   sess.Total(config.TicketPrice()),
			})
		}).
		POST("/sessions/:id/submit", func(ctx *gin.Context) {
			var params types.SessionURIParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			// The session must exist before the proof blob is stored;
			// submitting against an expired session must not leave an
			// orphan upload behind.
			if _, err := sessions.Get(ctx, params.SessionID); err != nil {
				respondSessionLookupError(ctx, err)
				return
			}
			var buyer types.BuyerDetails
			if err := ctx.ShouldBind(&buyer); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			fileHeader, err := ctx.FormFile("proof")
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": "payment proof is required"})
				return
			}
			if fileHeader.Size > awslib.MaxProofSize {
				ctx.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "proof exceeds the 10MB limit"})
				return
			}
			file, err := fileHeader.Open()
			if err != nil {
				log.Printf("Error opening uploaded proof: %s\n", err.Error())
				ctx.Status(http.StatusBadRequest)
				return
			}
			defer file.Close()
			key := awslib.ProofObjectKey(fileHeader.Filename)
			proofURL, err := awslib.S3UploadProof(ctx, key, fileHeader.Header.Get("Content-Type"), file)
			if err != nil {
				// No reservation without a stored proof.
				log.Printf("Proof upload failed for session %s: %s\n", params.SessionID, err.Error())
				ctx.JSON(http.StatusBadGateway, gin.H{"error": "could not store payment proof"})
				return
			}

			reserved, excluded, err := sessions.Submit(ctx, params.SessionID, buyer, *proofURL)
			if err != nil {
				var stale *types.StaleSelectionError
				switch {
				case errors.Is(err, types.ErrSessionNotFound):
					ctx.Status(http.StatusNotFound)
				case errors.Is(err, types.ErrStoreUnavailable):
					ctx.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
				case errors.Is(err, types.ErrEmptySelection):
					ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				case errors.As(err, &stale):
					ctx.JSON(http.StatusConflict, gin.H{
						"error":    "selected tickets are no longer available",
						"excluded": stale.IDs,
					})
				case errors.Is(err, types.ErrPersistenceFailure):
					log.Printf("Reservation for session %s unconfirmed: %s\n", params.SessionID, err.Error())
					ctx.JSON(http.StatusOK, gin.H{
						"data":        reserved,
						"excluded":    excluded,
						"unconfirmed": true,
					})
				default:
					ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				}
				return
			}
			ctx.JSON(http.StatusOK, gin.H{
				"data":     reserved,
				"excluded": excluded,
			})
		})
	return g
}

func respondSessionLookupError(ctx *gin.Context, err error) {
	if errors.Is(err, types.ErrStoreUnavailable) {
		ctx.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	ctx.Status(http.StatusNotFound)
}
