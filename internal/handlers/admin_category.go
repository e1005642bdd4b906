// internal/handlers/admin_category.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/javajoker/museum-backend/internal/i18n"
	"github.com/javajoker/museum-backend/internal/services"
	"github.com/javajoker/museum-backend/internal/utils"
)

type CategoryAdminHandler struct {
	categoryService *services.CategoryService
}

func NewCategoryAdminHandler(categoryService *services.CategoryService) *CategoryAdminHandler {
	return &CategoryAdminHandler{categoryService: categoryService}
}

// GET /admin/categories
func (h *CategoryAdminHandler) ListCategories(c *gin.Context) {
	categories, err := h.categoryService.ListCategories()
	if err != nil {
		respondError(c, err, i18n.KeyCategoryNotFound)
		return
	}

	utils.SuccessResponse(c, categories)
}

// POST /admin/categories
func (h *CategoryAdminHandler) CreateCategory(c *gin.Context) {
	var req services.SaveCategoryRequest
	if !bindJSON(c, &req) {
		return
	}

	category, err := h.categoryService.CreateCategory(&req)
	if err != nil {
		respondError(c, err, i18n.KeyCategoryNotFound)
		return
	}

	utils.CreatedResponse(c, category)
}

// PUT /admin/categories/:id
func (h *CategoryAdminHandler) UpdateCategory(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req services.SaveCategoryRequest
	if !bindJSON(c, &req) {
		return
	}

	category, err := h.categoryService.UpdateCategory(id, &req)
	if err != nil {
		respondError(c, err, i18n.KeyCategoryNotFound)
		return
	}

	utils.SuccessResponse(c, category)
}

// DELETE /admin/categories/:id
func (h *CategoryAdminHandler) DeleteCategory(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.categoryService.DeleteCategory(id, actorID(c)); err != nil {
		respondError(c, err, i18n.KeyCategoryNotFound)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyCategoryDeleted),
	})
}
