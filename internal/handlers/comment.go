package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/helpdesk-api/internal/dto"
	apierrors "github.com/yukikurage/helpdesk-api/internal/errors"
	"github.com/yukikurage/helpdesk-api/internal/logger"
	"github.com/yukikurage/helpdesk-api/internal/middleware"
	"github.com/yukikurage/helpdesk-api/internal/models"
	"github.com/yukikurage/helpdesk-api/internal/services"
	"github.com/yukikurage/helpdesk-api/internal/utils"
)

type CommentHandler struct {
	ticketService *services.TicketService
	userService   *services.UserService
	logger        *slog.Logger
}

func NewCommentHandler(ticketService *services.TicketService, userService *services.UserService, log *slog.Logger) *CommentHandler {
	return &CommentHandler{
		ticketService: ticketService,
		userService:   userService,
		logger:        logger.WithComponent(log, "comments"),
	}
}

// ListComments returns the ticket's comments, oldest first
func (h *CommentHandler) ListComments(c *gin.Context) {
	ticket, ok := middleware.GetTicket(c)
	if !ok {
		apierrors.NotFound(c, "Ticket not found")
		return
	}

	comments, err := h.ticketService.ListComments(ticket.ID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	users, err := h.userService.ListUsers()
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToCommentDTOs(comments, users))
}

// CreateComment adds a comment authored by the session user
func (h *CommentHandler) CreateComment(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	ticket, ok := middleware.GetTicket(c)
	if !ok {
		apierrors.NotFound(c, "Ticket not found")
		return
	}

	type CreateCommentRequest struct {
		Content string `json:"content" binding:"required,max=10000"`
	}

	var req CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.ValidationFailed(c, err)
		return
	}

	content := utils.SanitizeText(req.Content)
	if blank := blankFields(textField{"content", &content}); len(blank) > 0 {
		apierrors.BadRequestWithDetails(c, "Validation failed", blank)
		return
	}

	comment, err := h.ticketService.CreateComment(c.Request.Context(), ticket.ID, userID, content)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	users, err := h.userService.ListUsers()
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToCommentDTOs([]models.Comment{*comment}, users)[0])
}

func (h *CommentHandler) DeleteComment(c *gin.Context) {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		apierrors.BadRequest(c, "Invalid comment ID")
		return
	}

	if err := h.ticketService.DeleteComment(id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
