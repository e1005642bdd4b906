// internal/handlers/admin_media.go
package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/javajoker/museum-backend/internal/i18n"
	"github.com/javajoker/museum-backend/internal/models"
	"github.com/javajoker/museum-backend/internal/services"
	"github.com/javajoker/museum-backend/internal/utils"
)

// MediaAdminHandler manages exhibit photos and documents. Uploads arrive
// either as multipart forms carrying the file, or as JSON registering an
// already stored reference.
type MediaAdminHandler struct {
	photoService    *services.PhotoService
	documentService *services.DocumentService
	storageService  *services.StorageService
}

func NewMediaAdminHandler(photoService *services.PhotoService, documentService *services.DocumentService, storageService *services.StorageService) *MediaAdminHandler {
	return &MediaAdminHandler{
		photoService:    photoService,
		documentService: documentService,
		storageService:  storageService,
	}
}

// GET /admin/exhibits/:id/photos
func (h *MediaAdminHandler) ListPhotos(c *gin.Context) {
	exhibitID, ok := parseID(c, "id")
	if !ok {
		return
	}

	photos, err := h.photoService.ListPhotos(exhibitID)
	if err != nil {
		respondError(c, err, i18n.KeyExhibitNotFound)
		return
	}

	utils.SuccessResponse(c, photos)
}

// POST /admin/exhibits/:id/photos
func (h *MediaAdminHandler) AddPhoto(c *gin.Context) {
	exhibitID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req services.AddPhotoRequest
	if isMultipart(c) {
		key, ok := h.storeUpload(c, "image", h.storageService.PhotoUploadOptions())
		if !ok {
			return
		}
		req = services.AddPhotoRequest{
			Image:       key,
			Title:       c.PostForm("title"),
			Description: c.PostForm("description"),
			IsPrimary:   formCheckbox(c, "is_primary"),
		}
	} else if !bindJSON(c, &req) {
		return
	}

	photo, err := h.photoService.AddPhoto(exhibitID, actorID(c), &req)
	if err != nil {
		if isMultipart(c) {
			h.storageService.DeleteFileQuietly(req.Image)
		}
		respondError(c, err, i18n.KeyExhibitNotFound)
		return
	}

	utils.CreatedResponse(c, services.PhotoView{ExhibitPhoto: *photo, URL: h.storageService.URL(photo.Image)})
}

// PATCH /admin/photos/:id
func (h *MediaAdminHandler) UpdatePhoto(c *gin.Context) {
	photoID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req services.UpdatePhotoRequest
	if !bindJSON(c, &req) {
		return
	}

	photo, err := h.photoService.UpdatePhoto(photoID, &req)
	if err != nil {
		respondError(c, err, i18n.KeyPhotoNotFound)
		return
	}

	utils.SuccessResponse(c, photo)
}

// POST /admin/photos/:id/primary
func (h *MediaAdminHandler) SetPrimaryPhoto(c *gin.Context) {
	photoID, ok := parseID(c, "id")
	if !ok {
		return
	}

	photo, err := h.photoService.SetPrimaryPhoto(photoID)
	if err != nil {
		respondError(c, err, i18n.KeyPhotoNotFound)
		return
	}

	utils.SuccessResponse(c, photo)
}

// DELETE /admin/photos/:id
func (h *MediaAdminHandler) DeletePhoto(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	photoID, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.photoService.DeletePhoto(photoID); err != nil {
		respondError(c, err, i18n.KeyPhotoNotFound)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyPhotoDeleted),
	})
}

// GET /admin/exhibits/:id/documents
func (h *MediaAdminHandler) ListDocuments(c *gin.Context) {
	exhibitID, ok := parseID(c, "id")
	if !ok {
		return
	}

	documents, err := h.documentService.ListDocuments(exhibitID)
	if err != nil {
		respondError(c, err, i18n.KeyExhibitNotFound)
		return
	}

	utils.SuccessResponse(c, documents)
}

// POST /admin/exhibits/:id/documents
func (h *MediaAdminHandler) AddDocument(c *gin.Context) {
	exhibitID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req services.AddDocumentRequest
	if isMultipart(c) {
		key, ok := h.storeUpload(c, "file", h.storageService.DocumentUploadOptions())
		if !ok {
			return
		}
		req = services.AddDocumentRequest{
			File:         key,
			Title:        c.PostForm("title"),
			DocumentType: models.DocumentType(c.PostForm("document_type")),
			Description:  c.PostForm("description"),
		}
	} else if !bindJSON(c, &req) {
		return
	}

	document, err := h.documentService.AddDocument(exhibitID, actorID(c), &req)
	if err != nil {
		if isMultipart(c) {
			h.storageService.DeleteFileQuietly(req.File)
		}
		respondError(c, err, i18n.KeyExhibitNotFound)
		return
	}

	utils.CreatedResponse(c, services.DocumentView{Document: *document, URL: h.storageService.URL(document.File)})
}

// DELETE /admin/documents/:id
func (h *MediaAdminHandler) DeleteDocument(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	documentID, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.documentService.DeleteDocument(documentID); err != nil {
		respondError(c, err, i18n.KeyDocumentNotFound)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyDocumentDeleted),
	})
}

func (h *MediaAdminHandler) storeUpload(c *gin.Context, field string, options services.UploadOptions) (string, bool) {
	lang := utils.GetLangFromContext(c)

	header, err := c.FormFile(field)
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyFileRequired), nil)
		return "", false
	}

	result, err := h.storageService.UploadFile(header, options)
	if err != nil {
		respondError(c, err, i18n.KeyExhibitNotFound)
		return "", false
	}
	return result.Key, true
}

func isMultipart(c *gin.Context) bool {
	return strings.HasPrefix(c.ContentType(), "multipart/form-data")
}
