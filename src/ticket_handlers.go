package main

import (
	"log"
	"net/http"

	"rifa/src/common"
	"rifa/src/config"
	"rifa/src/models"

	"github.com/gin-gonic/gin"
)

// PublicTicket is the buyer-facing projection of a ticket. Buyer details and
// moderation notes never leave the admin surface.
type PublicTicket struct {
	ID          int                 `json:"id"`
	Status      models.TicketStatus `json:"status"`
	Unconfirmed bool                `json:"unconfirmed,omitempty"`
}

func ticketHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/tickets", func(ctx *gin.Context) {
			var query struct {
				Status string `form:"status"`
			}
			if err := ctx.ShouldBindQuery(&query); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			if _, err := inventory.Load(ctx); err != nil {
				// Fail-soft: the synthetic inventory is still served.
				log.Printf("Inventory load degraded: %s\n", err.Error())
			}
			tickets := inventory.Snapshot()
			if query.Status != "" {
				status := models.TicketStatus(query.Status)
				if !status.Valid() {
					ctx.JSON(http.StatusBadRequest, gin.H{"error": "unknown status"})
					return
				}
				tickets = common.FilterTickets(tickets, common.TicketFilter{Status: status})
			}
			public := make([]PublicTicket, 0, len(tickets))
			for _, t := range tickets {
				public = append(public, PublicTicket{ID: t.ID, Status: t.Status, Unconfirmed: t.Unconfirmed})
			}
			ctx.JSON(http.StatusOK, gin.H{"data": public})
		}).
		GET("/raffle", func(ctx *gin.Context) {
			summary := common.Summarize(inventory.Snapshot(), config.TicketPrice())
			ctx.JSON(http.StatusOK, gin.H{
				"size":      config.RaffleSize(),
				"price":     config.TicketPrice(),
				"prize":     config.PrizeAmount(),
				"draw_date": config.DrawDate(),
				"progress":  summary.Progress,
			})
		})
	return g
}
