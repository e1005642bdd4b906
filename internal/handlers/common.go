// internal/handlers/common.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/museum-backend/internal/i18n"
	"github.com/javajoker/museum-backend/internal/models"
	"github.com/javajoker/museum-backend/internal/services"
	"github.com/javajoker/museum-backend/internal/utils"
)

func parseID(c *gin.Context, param string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 64)
	if err != nil || id == 0 {
		lang := utils.GetLangFromContext(c)
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, param), nil)
		return 0, false
	}
	return uint(id), true
}

// optionalUintQuery returns nil for missing or malformed values.
func optionalUintQuery(c *gin.Context, key string) *uint {
	raw := c.Query(key)
	if raw == "" {
		return nil
	}
	value, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || value == 0 {
		return nil
	}
	id := uint(value)
	return &id
}

func optionalBoolQuery(c *gin.Context, key string) *bool {
	raw := c.Query(key)
	if raw == "" {
		return nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return nil
	}
	return &value
}

// presenceFlag is true whenever key is sent with any value, the way an HTML
// checkbox submits "on".
func presenceFlag(c *gin.Context, key string) bool {
	return c.Query(key) != ""
}

// formCheckbox reads a multipart checkbox. Any value other than an explicit
// false ("0", "false", "off", "no") turns it on.
func formCheckbox(c *gin.Context, key string) bool {
	switch strings.ToLower(strings.TrimSpace(c.PostForm(key))) {
	case "", "0", "f", "false", "off", "no":
		return false
	}
	return true
}

// bindJSON decodes the body and reports malformed JSON as a bad request.
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		lang := utils.GetLangFromContext(c)
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return false
	}
	return true
}

// respondError maps service errors onto the response envelope.
// notFoundKey names the resource for 404 messages.
func respondError(c *gin.Context, err error, notFoundKey string) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		utils.NotFoundResponse(c, notFoundKey)
	case errors.Is(err, services.ErrConstraintViolation):
		utils.ConflictResponse(c, err.Error())
	case errors.Is(err, services.ErrValidation):
		if details := utils.GetValidationErrors(err); len(details) > 0 {
			utils.ValidationErrorResponse(c, details)
			return
		}
		utils.ErrorResponse(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
	case errors.Is(err, services.ErrAccessDenied):
		utils.ForbiddenResponse(c, "")
	case errors.Is(err, services.ErrFileTooLarge), errors.Is(err, services.ErrFileTypeNotAllowed):
		utils.BadRequestResponse(c, err.Error(), nil)
	default:
		logrus.WithError(err).WithField("path", c.Request.URL.Path).Error("Request failed")
		utils.InternalErrorResponse(c, "")
	}
}

func actorID(c *gin.Context) uint {
	id, _ := utils.GetUserIDFromContext(c)
	return id
}

func statusQuery(c *gin.Context) *models.ExhibitStatus {
	raw := c.Query("status")
	if raw == "" {
		return nil
	}
	status := models.ExhibitStatus(raw)
	if !status.Valid() {
		return nil
	}
	return &status
}
