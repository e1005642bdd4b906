// internal/handlers/user.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/javajoker/museum-backend/internal/i18n"
	"github.com/javajoker/museum-backend/internal/services"
	"github.com/javajoker/museum-backend/internal/utils"
)

type UserHandler struct {
	userService *services.UserService
	authService *services.AuthService
}

func NewUserHandler(userService *services.UserService, authService *services.AuthService) *UserHandler {
	return &UserHandler{
		userService: userService,
		authService: authService,
	}
}

// PUT /auth/me
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.UpdateProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.userService.UpdateProfile(actorID(c), &req)
	if err != nil {
		respondError(c, err, i18n.KeyUserNotFound)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyUserProfileUpdated),
		"user":    user,
	})
}

// POST /auth/password
func (h *UserHandler) ChangePassword(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.ChangePasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.userService.ChangePassword(actorID(c), &req); err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyAuthInvalidCredentials), nil)
			return
		}
		respondError(c, err, i18n.KeyUserNotFound)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyUserPasswordChanged),
	})
}

// GET /admin/staff
func (h *UserHandler) ListUsers(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	users, total, err := h.userService.ListUsers(services.UserFilter{
		PaginationParams: params,
		IsActive:         optionalBoolQuery(c, "is_active"),
	})
	if err != nil {
		respondError(c, err, i18n.KeyUserNotFound)
		return
	}

	result := utils.CreatePaginationResult(users, total, params)
	utils.PaginatedResponse(c, result)
}

// POST /admin/staff
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req services.CreateStaffRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.authService.CreateStaff(&req)
	if err != nil {
		respondError(c, err, i18n.KeyUserNotFound)
		return
	}

	utils.CreatedResponse(c, user)
}

// GET /admin/staff/:id
func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	user, err := h.userService.GetUserByID(id)
	if err != nil {
		respondError(c, err, i18n.KeyUserNotFound)
		return
	}

	utils.SuccessResponse(c, user)
}

// PATCH /admin/staff/:id/active
func (h *UserHandler) SetActive(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req services.SetActiveRequest
	if !bindJSON(c, &req) {
		return
	}
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	user, err := h.userService.SetActive(id, actorID(c), *req.IsActive)
	if err != nil {
		respondError(c, err, i18n.KeyUserNotFound)
		return
	}

	utils.SuccessResponse(c, user)
}
