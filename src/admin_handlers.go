package main

import (
	"context"
	"errors"
	"log"
	"net/http"

	"rifa/src/boot"
	"rifa/src/common"
	"rifa/src/config"
	"rifa/src/lib"
	"rifa/src/models"
	"rifa/src/types"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func adminHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/tickets", func(ctx *gin.Context) {
			var query struct {
				Status string `form:"status"`
				Search string `form:"q"`
			}
			if err := ctx.ShouldBindQuery(&query); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			filter := common.TicketFilter{Search: query.Search}
			if query.Status != "" {
				status := models.TicketStatus(query.Status)
				if !status.Valid() {
					ctx.JSON(http.StatusBadRequest, gin.H{"error": "unknown status"})
					return
				}
				filter.Status = status
			}
			if _, err := inventory.Load(ctx); err != nil {
				log.Printf("Inventory load degraded: %s\n", err.Error())
			}
			tickets := common.FilterTickets(inventory.Snapshot(), filter)
			ctx.JSON(http.StatusOK, gin.H{"data": tickets})
		}).
		GET("/report", func(ctx *gin.Context) {
			rd := lib.GetRedisClient()
			if rd != nil {
				val, err := rd.Get(context.Background(), boot.ReportCacheKey).Result()
				if err == nil && val != "" {
					ctx.Data(http.StatusOK, "application/json", []byte(val))
					return
				}
				if err != nil && !errors.Is(err, redis.Nil) {
					log.Printf("Error reading report cache: %s\n", err.Error())
				}
			}
			summary := common.Summarize(inventory.Snapshot(), config.TicketPrice())
			go boot.RefreshReportCache(inventory)
			ctx.JSON(http.StatusOK, summary)
		}).
		POST("/tickets/:id/confirm", func(ctx *gin.Context) {
			var params types.TicketURIParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var body types.ModerateTicketRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ticket, err := moderation.Confirm(ctx, params.TicketID, body.Remark)
			if err != nil {
				respondModerationError(ctx, ticket, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": ticket})
		}).
		POST("/tickets/:id/reject", func(ctx *gin.Context) {
			var params types.TicketURIParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var body types.ModerateTicketRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ticket, err := moderation.Reject(ctx, params.TicketID, body.Remark, body.ConfirmedEmpty)
			if err != nil {
				respondModerationError(ctx, ticket, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": ticket})
		}).
		PUT("/tickets/:id", func(ctx *gin.Context) {
			var params types.TicketURIParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var body types.EditTicketRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ticket, err := moderation.Edit(ctx, params.TicketID, body)
			if err != nil {
				respondModerationError(ctx, ticket, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": ticket})
		})
	return g
}

func respondModerationError(ctx *gin.Context, ticket models.RaffleTicket, err error) {
	switch {
	case errors.Is(err, types.ErrTicketOutOfRange):
		ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, types.ErrInvalidTransition):
		ctx.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, types.ErrRemarkRequired):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "a rejection remark is required unless explicitly confirmed empty"})
	case errors.Is(err, types.ErrPersistenceFailure):
		log.Printf("Moderation write for ticket %d unconfirmed: %s\n", ticket.ID, err.Error())
		ctx.JSON(http.StatusOK, gin.H{"data": ticket, "unconfirmed": true})
	default:
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	}
}
