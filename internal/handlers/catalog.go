// internal/handlers/catalog.go
package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/javajoker/museum-backend/internal/i18n"
	"github.com/javajoker/museum-backend/internal/services"
	"github.com/javajoker/museum-backend/internal/utils"
)

// CatalogHandler serves the public, read-only catalog.
type CatalogHandler struct {
	catalogService *services.CatalogService
}

func NewCatalogHandler(catalogService *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// GET /
func (h *CatalogHandler) ListExhibits(c *gin.Context) {
	query := services.ExhibitQuery{
		Query:        c.Query("q"),
		CategoryID:   optionalUintQuery(c, "category"),
		Tag:          c.Query("tag"),
		Page:         utils.ParsePageNumber(c.Query("page")),
		FeaturedOnly: presenceFlag(c, "is_featured"),
	}

	listing, err := h.catalogService.ListExhibits(query)
	if err != nil {
		respondError(c, err, i18n.KeyExhibitNotFound)
		return
	}

	utils.PageResponse(c, listing, listing.Page)
}

// GET /exhibit/:id/
func (h *CatalogHandler) GetExhibit(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	_, authenticated := utils.GetUserIDFromContext(c)
	detail, err := h.catalogService.ExhibitDetail(id, authenticated)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) || errors.Is(err, services.ErrAccessDenied) {
			c.Redirect(http.StatusFound, "/")
			return
		}
		respondError(c, err, i18n.KeyExhibitNotFound)
		return
	}

	utils.SuccessResponse(c, detail)
}

// GET /category/:id/
func (h *CatalogHandler) GetCategory(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	page, err := h.catalogService.CategoryDetail(id, utils.ParsePageNumber(c.Query("page")))
	if err != nil {
		respondError(c, err, i18n.KeyCategoryNotFound)
		return
	}

	utils.PageResponse(c, page, page.Page)
}

// GET /categories/
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	index, err := h.catalogService.ListCategories()
	if err != nil {
		respondError(c, err, i18n.KeyCategoryNotFound)
		return
	}

	utils.SuccessResponse(c, index)
}

// GET /featured/
func (h *CatalogHandler) Featured(c *gin.Context) {
	listing, err := h.catalogService.Featured(utils.ParsePageNumber(c.Query("page")))
	if err != nil {
		respondError(c, err, i18n.KeyExhibitNotFound)
		return
	}

	utils.PageResponse(c, listing, listing.Page)
}

// GET /search/
func (h *CatalogHandler) Search(c *gin.Context) {
	term := strings.TrimSpace(c.Query("q"))
	if term == "" {
		c.Redirect(http.StatusFound, "/")
		return
	}

	listing, err := h.catalogService.Search(term, utils.ParsePageNumber(c.Query("page")))
	if err != nil {
		respondError(c, err, i18n.KeyExhibitNotFound)
		return
	}

	utils.PageResponse(c, listing, listing.Page)
}

// GET /stats/
func (h *CatalogHandler) Stats(c *gin.Context) {
	stats, err := h.catalogService.Stats()
	if err != nil {
		respondError(c, err, i18n.KeyExhibitNotFound)
		return
	}

	utils.SuccessResponse(c, stats)
}
