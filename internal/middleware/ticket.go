package middleware

import (
	"errors"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/helpdesk-api/internal/constants"
	apierrors "github.com/yukikurage/helpdesk-api/internal/errors"
	"github.com/yukikurage/helpdesk-api/internal/models"
	"github.com/yukikurage/helpdesk-api/internal/services"
	"github.com/yukikurage/helpdesk-api/internal/utils"
)

// LoadTicket resolves the :id route parameter to a ticket and stores it in
// the context for the handler.
func LoadTicket(tickets *services.TicketService, log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ticketID, err := utils.ParseIDParam(c, "id")
		if err != nil {
			apierrors.BadRequest(c, "Invalid ticket ID")
			c.Abort()
			return
		}

		ticket, err := tickets.GetTicket(ticketID)
		if err != nil {
			if errors.Is(err, services.ErrTicketNotFound) {
				apierrors.NotFound(c, "Ticket not found")
			} else {
				log.Error("failed to load ticket", "ticket_id", ticketID, "error", err)
				apierrors.InternalError(c, "")
			}
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyTicket, *ticket)
		c.Next()
	}
}

// GetTicket returns the ticket stored by LoadTicket
func GetTicket(c *gin.Context) (models.Ticket, bool) {
	v, exists := c.Get(constants.ContextKeyTicket)
	if !exists {
		return models.Ticket{}, false
	}
	ticket, ok := v.(models.Ticket)
	return ticket, ok
}
