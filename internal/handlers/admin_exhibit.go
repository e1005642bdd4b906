// internal/handlers/admin_exhibit.go
package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/javajoker/museum-backend/internal/i18n"
	"github.com/javajoker/museum-backend/internal/services"
	"github.com/javajoker/museum-backend/internal/utils"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ExhibitAdminHandler struct {
	exhibitService *services.ExhibitService
	historyService *services.HistoryService
	exportService  *services.ExportService
}

func NewExhibitAdminHandler(exhibitService *services.ExhibitService, historyService *services.HistoryService, exportService *services.ExportService) *ExhibitAdminHandler {
	return &ExhibitAdminHandler{
		exhibitService: exhibitService,
		historyService: historyService,
		exportService:  exportService,
	}
}

// GET /admin/exhibits
func (h *ExhibitAdminHandler) ListExhibits(c *gin.Context) {
	params := utils.GetPaginationParams(c)
	filter := h.filterFromQuery(c, params)

	exhibits, total, err := h.exhibitService.ListExhibits(filter)
	if err != nil {
		respondError(c, err, i18n.KeyExhibitNotFound)
		return
	}

	result := utils.CreatePaginationResult(exhibits, total, params)
	utils.PaginatedResponse(c, result)
}

// POST /admin/exhibits
func (h *ExhibitAdminHandler) CreateExhibit(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.SaveExhibitRequest
	if !bindJSON(c, &req) {
		return
	}

	exhibit, err := h.exhibitService.CreateExhibit(actorID(c), &req)
	if err != nil {
		respondError(c, err, i18n.KeyExhibitNotFound)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyExhibitCreated),
		"exhibit": exhibit,
	})
}

// GET /admin/exhibits/:id
func (h *ExhibitAdminHandler) GetExhibit(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	view, err := h.exhibitService.GetAdminView(id)
	if err != nil {
		respondError(c, err, i18n.KeyExhibitNotFound)
		return
	}

	utils.SuccessResponse(c, view)
}

// PUT /admin/exhibits/:id
func (h *ExhibitAdminHandler) UpdateExhibit(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req services.SaveExhibitRequest
	if !bindJSON(c, &req) {
		return
	}

	exhibit, err := h.exhibitService.UpdateExhibit(id, actorID(c), &req)
	if err != nil {
		respondError(c, err, i18n.KeyExhibitNotFound)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyExhibitUpdated),
		"exhibit": exhibit,
	})
}

// PATCH /admin/exhibits/:id/status
func (h *ExhibitAdminHandler) ChangeStatus(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req services.ChangeStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	exhibit, err := h.exhibitService.ChangeStatus(id, actorID(c), req.Status)
	if err != nil {
		respondError(c, err, i18n.KeyExhibitNotFound)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyExhibitUpdated),
		"exhibit": exhibit,
	})
}

// DELETE /admin/exhibits/:id
func (h *ExhibitAdminHandler) DeleteExhibit(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.exhibitService.DeleteExhibit(id); err != nil {
		respondError(c, err, i18n.KeyExhibitNotFound)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyExhibitDeleted),
	})
}

// GET /admin/exhibits/:id/history
func (h *ExhibitAdminHandler) GetHistory(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if _, err := h.exhibitService.GetExhibit(id); err != nil {
		respondError(c, err, i18n.KeyExhibitNotFound)
		return
	}

	history, err := h.historyService.ListHistory(id, 0)
	if err != nil {
		respondError(c, err, i18n.KeyExhibitNotFound)
		return
	}

	utils.SuccessResponse(c, history)
}

// GET /admin/exhibits/export
func (h *ExhibitAdminHandler) ExportExhibits(c *gin.Context) {
	filter := h.filterFromQuery(c, utils.PaginationParams{Search: c.Query("search")})

	var buf bytes.Buffer
	if _, err := h.exportService.ExportExhibits(&buf, filter); err != nil {
		respondError(c, err, i18n.KeyExhibitNotFound)
		return
	}

	filename := fmt.Sprintf("exhibits-%s.xlsx", time.Now().Format("20060102-150405"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// POST /admin/exhibits/import
func (h *ExhibitAdminHandler) ImportExhibits(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	header, err := c.FormFile("file")
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyFileRequired), nil)
		return
	}

	file, err := header.Open()
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}
	defer file.Close()

	result, err := h.exportService.ImportExhibits(file, actorID(c))
	if err != nil {
		respondError(c, err, i18n.KeyExhibitNotFound)
		return
	}

	utils.SuccessResponse(c, result)
}

func (h *ExhibitAdminHandler) filterFromQuery(c *gin.Context, params utils.PaginationParams) services.ExhibitFilter {
	return services.ExhibitFilter{
		PaginationParams: params,
		Status:           statusQuery(c),
		CategoryID:       optionalUintQuery(c, "category"),
		IsFeatured:       optionalBoolQuery(c, "is_featured"),
	}
}

// GET /admin/exhibits/stats
func (h *ExhibitAdminHandler) StatusCounts(c *gin.Context) {
	counts, err := h.exhibitService.StatusCounts()
	if err != nil {
		respondError(c, err, i18n.KeyExhibitNotFound)
		return
	}

	utils.SuccessResponse(c, gin.H{"by_status": counts})
}
