// internal/handlers/admin_history.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/javajoker/museum-backend/internal/i18n"
	"github.com/javajoker/museum-backend/internal/models"
	"github.com/javajoker/museum-backend/internal/services"
	"github.com/javajoker/museum-backend/internal/utils"
)

type HistoryAdminHandler struct {
	historyService *services.HistoryService
}

func NewHistoryAdminHandler(historyService *services.HistoryService) *HistoryAdminHandler {
	return &HistoryAdminHandler{historyService: historyService}
}

// GET /admin/history
func (h *HistoryAdminHandler) ListHistory(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	filter := services.HistoryFilter{
		PaginationParams: params,
		ExhibitID:        optionalUintQuery(c, "exhibit"),
	}
	if raw := c.Query("action"); raw != "" {
		action := models.HistoryAction(raw)
		filter.Action = &action
	}

	history, total, err := h.historyService.ListAllHistory(filter)
	if err != nil {
		respondError(c, err, i18n.KeyExhibitNotFound)
		return
	}

	result := utils.CreatePaginationResult(history, total, params)
	utils.PaginatedResponse(c, result)
}
