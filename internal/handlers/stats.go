package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/helpdesk-api/internal/logger"
	"github.com/yukikurage/helpdesk-api/internal/services"
)

type StatsHandler struct {
	statsService *services.StatsService
	logger       *slog.Logger
}

func NewStatsHandler(statsService *services.StatsService, log *slog.Logger) *StatsHandler {
	return &StatsHandler{
		statsService: statsService,
		logger:       logger.WithComponent(log, "stats"),
	}
}

func (h *StatsHandler) GetStats(c *gin.Context) {
	stats, err := h.statsService.Stats()
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
