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

type TicketHandler struct {
	ticketService   *services.TicketService
	userService     *services.UserService
	categoryService *services.CategoryService
	aiService       *services.AIService
	logger          *slog.Logger
}

func NewTicketHandler(
	ticketService *services.TicketService,
	userService *services.UserService,
	categoryService *services.CategoryService,
	aiService *services.AIService,
	log *slog.Logger,
) *TicketHandler {
	return &TicketHandler{
		ticketService:   ticketService,
		userService:     userService,
		categoryService: categoryService,
		aiService:       aiService,
		logger:          logger.WithComponent(log, "tickets"),
	}
}

// ListTickets returns tickets matching the query filters, each with its
// creator, assignee and category attached.
// status and priority may be repeated to match any of several values.
func (h *TicketHandler) ListTickets(c *gin.Context) {
	filter, ok := parseTicketFilter(c)
	if !ok {
		return
	}

	tickets, err := h.ticketService.ListTickets(filter)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	details, err := h.ticketService.WithDetails(tickets...)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToTicketDTOs(details))
}

func parseTicketFilter(c *gin.Context) (models.TicketFilter, bool) {
	var filter models.TicketFilter
	var invalid []apierrors.FieldError

	for _, v := range utils.QueryValues(c, "status") {
		status := models.TicketStatus(v)
		if !status.Valid() {
			invalid = append(invalid, apierrors.FieldError{Field: "status", Rule: "oneof", Param: "open in_progress resolved closed"})
			break
		}
		filter.Statuses = append(filter.Statuses, status)
	}
	for _, v := range utils.QueryValues(c, "priority") {
		priority := models.TicketPriority(v)
		if !priority.Valid() {
			invalid = append(invalid, apierrors.FieldError{Field: "priority", Rule: "oneof", Param: "low medium high"})
			break
		}
		filter.Priorities = append(filter.Priorities, priority)
	}

	for _, q := range []struct {
		name   string
		target **uint64
	}{
		{"categoryId", &filter.CategoryID},
		{"assignedToId", &filter.AssignedToID},
		{"createdById", &filter.CreatedByID},
	} {
		id, err := utils.OptionalIDQuery(c, q.name)
		if err != nil {
			invalid = append(invalid, apierrors.FieldError{Field: q.name, Rule: "numeric"})
			continue
		}
		*q.target = id
	}

	if len(invalid) > 0 {
		apierrors.BadRequestWithDetails(c, "Invalid ticket filter", invalid)
		return filter, false
	}
	return filter, true
}

// GetTicket returns one ticket with its relations and comment thread
func (h *TicketHandler) GetTicket(c *gin.Context) {
	ticket, ok := middleware.GetTicket(c)
	if !ok {
		apierrors.NotFound(c, "Ticket not found")
		return
	}

	details, err := h.ticketService.WithDetails(ticket)
	if err != nil {
		respondError(c, h.logger, err)
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

	c.JSON(http.StatusOK, dto.TicketDetailDTO{
		TicketDTO: dto.ToTicketDTO(details[0]),
		Comments:  dto.ToCommentDTOs(comments, users),
	})
}

// CreateTicket opens a ticket. The creator defaults to the session user.
func (h *TicketHandler) CreateTicket(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	type CreateTicketRequest struct {
		Subject      string                `json:"subject" binding:"required,max=255"`
		Description  string                `json:"description" binding:"required"`
		Status       models.TicketStatus   `json:"status" binding:"omitempty,oneof=open in_progress resolved closed"`
		Priority     models.TicketPriority `json:"priority" binding:"omitempty,oneof=low medium high"`
		CategoryID   *uint64               `json:"categoryId"`
		CreatedByID  *uint64               `json:"createdById"`
		AssignedToID *uint64               `json:"assignedToId"`
	}

	var req CreateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.ValidationFailed(c, err)
		return
	}

	subject := utils.SanitizeText(req.Subject)
	description := utils.SanitizeText(req.Description)
	if blank := blankFields(textField{"subject", &subject}, textField{"description", &description}); len(blank) > 0 {
		apierrors.BadRequestWithDetails(c, "Validation failed", blank)
		return
	}

	createdBy := userID
	if req.CreatedByID != nil {
		createdBy = *req.CreatedByID
	}

	ticket, err := h.ticketService.CreateTicket(c.Request.Context(), services.CreateTicketInput{
		Subject:      subject,
		Description:  description,
		Status:       req.Status,
		Priority:     req.Priority,
		CategoryID:   req.CategoryID,
		CreatedByID:  createdBy,
		AssignedToID: req.AssignedToID,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	details, err := h.ticketService.WithDetails(*ticket)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToTicketDTO(details[0]))
}

// UpdateTicket applies a partial update. assignedToId and categoryId accept
// null to clear them.
func (h *TicketHandler) UpdateTicket(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	ticket, ok := middleware.GetTicket(c)
	if !ok {
		apierrors.NotFound(c, "Ticket not found")
		return
	}

	type UpdateTicketRequest struct {
		Subject      *string                `json:"subject" binding:"omitempty,min=1,max=255"`
		Description  *string                `json:"description" binding:"omitempty,min=1"`
		Status       *models.TicketStatus   `json:"status" binding:"omitempty,oneof=open in_progress resolved closed"`
		Priority     *models.TicketPriority `json:"priority" binding:"omitempty,oneof=low medium high"`
		CategoryID   models.OptionalID      `json:"categoryId"`
		AssignedToID models.OptionalID      `json:"assignedToId"`
	}

	var req UpdateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.ValidationFailed(c, err)
		return
	}

	subject := sanitizeOptional(req.Subject)
	description := sanitizeOptional(req.Description)
	if blank := blankFields(textField{"subject", subject}, textField{"description", description}); len(blank) > 0 {
		apierrors.BadRequestWithDetails(c, "Validation failed", blank)
		return
	}

	updated, err := h.ticketService.UpdateTicket(c.Request.Context(), ticket.ID, userID, models.TicketPatch{
		Subject:      subject,
		Description:  description,
		Status:       req.Status,
		Priority:     req.Priority,
		CategoryID:   req.CategoryID,
		AssignedToID: req.AssignedToID,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	details, err := h.ticketService.WithDetails(*updated)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToTicketDTO(details[0]))
}

func (h *TicketHandler) DeleteTicket(c *gin.Context) {
	ticket, ok := middleware.GetTicket(c)
	if !ok {
		apierrors.NotFound(c, "Ticket not found")
		return
	}

	if err := h.ticketService.DeleteTicket(ticket.ID); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetHistory lists a ticket's field changes, newest first
func (h *TicketHandler) GetHistory(c *gin.Context) {
	ticket, ok := middleware.GetTicket(c)
	if !ok {
		apierrors.NotFound(c, "Ticket not found")
		return
	}

	history, err := h.ticketService.ListHistory(ticket.ID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, history)
}

// TriageTicket suggests a priority and category for a draft ticket
func (h *TicketHandler) TriageTicket(c *gin.Context) {
	type TriageRequest struct {
		Subject     string `json:"subject" binding:"required,max=255"`
		Description string `json:"description" binding:"required,max=10000"`
	}

	var req TriageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.ValidationFailed(c, err)
		return
	}

	if h.aiService == nil {
		respondError(c, h.logger, services.ErrAIServiceNotConfigured)
		return
	}

	categories, err := h.categoryService.ListCategories()
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	names := make([]string, len(categories))
	for i, category := range categories {
		names[i] = category.Name
	}

	suggestion, err := h.aiService.SuggestTriage(c.Request.Context(), req.Subject, req.Description, names)
	if err != nil {
		h.logger.Warn("triage failed", "error", err)
		apierrors.ServiceUnavailable(c, "AI triage failed")
		return
	}

	resp := gin.H{
		"priority": suggestion.Priority,
		"reason":   suggestion.Reason,
		"category": nil,
	}
	for _, category := range categories {
		if category.Name == suggestion.Category {
			resp["category"] = category
			break
		}
	}
	c.JSON(http.StatusOK, resp)
}
