package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/helpdesk-api/internal/errors"
	"github.com/yukikurage/helpdesk-api/internal/logger"
	"github.com/yukikurage/helpdesk-api/internal/services"
	"github.com/yukikurage/helpdesk-api/internal/utils"
)

type CategoryHandler struct {
	categoryService *services.CategoryService
	logger          *slog.Logger
}

func NewCategoryHandler(categoryService *services.CategoryService, log *slog.Logger) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categoryService,
		logger:          logger.WithComponent(log, "categories"),
	}
}

func (h *CategoryHandler) ListCategories(c *gin.Context) {
	categories, err := h.categoryService.ListCategories()
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

func (h *CategoryHandler) GetCategory(c *gin.Context) {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		apierrors.BadRequest(c, "Invalid category ID")
		return
	}

	category, err := h.categoryService.GetCategory(id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	type CreateCategoryRequest struct {
		Name        string  `json:"name" binding:"required,max=255"`
		Description *string `json:"description"`
	}

	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.ValidationFailed(c, err)
		return
	}

	name := utils.SanitizeText(req.Name)
	if blank := blankFields(textField{"name", &name}); len(blank) > 0 {
		apierrors.BadRequestWithDetails(c, "Validation failed", blank)
		return
	}

	category, err := h.categoryService.CreateCategory(name, sanitizeOptional(req.Description))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, category)
}

func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		apierrors.BadRequest(c, "Invalid category ID")
		return
	}

	type UpdateCategoryRequest struct {
		Name        *string `json:"name" binding:"omitempty,min=1,max=255"`
		Description *string `json:"description"`
	}

	var req UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.ValidationFailed(c, err)
		return
	}

	name := sanitizeOptional(req.Name)
	if blank := blankFields(textField{"name", name}); len(blank) > 0 {
		apierrors.BadRequestWithDetails(c, "Validation failed", blank)
		return
	}

	category, err := h.categoryService.UpdateCategory(id, name, sanitizeOptional(req.Description))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		apierrors.BadRequest(c, "Invalid category ID")
		return
	}

	if err := h.categoryService.DeleteCategory(id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func sanitizeOptional(s *string) *string {
	if s == nil {
		return nil
	}
	clean := utils.SanitizeText(*s)
	return &clean
}

type textField struct {
	name  string
	value *string
}

// blankFields reports fields that were sent but are empty once sanitised.
func blankFields(fields ...textField) []apierrors.FieldError {
	var blank []apierrors.FieldError
	for _, f := range fields {
		if f.value != nil && *f.value == "" {
			blank = append(blank, apierrors.FieldError{Field: f.name, Rule: "required"})
		}
	}
	return blank
}
