// internal/services/document_service.go
package services

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/javajoker/museum-backend/internal/database"
	"github.com/javajoker/museum-backend/internal/models"
	"github.com/javajoker/museum-backend/internal/utils"
)

type DocumentService struct {
	db             *gorm.DB
	historyService *HistoryService
	storageService *StorageService
}

type AddDocumentRequest struct {
	File         string              `json:"file" validate:"required,max=500"`
	Title        string              `json:"title" validate:"required,max=200"`
	DocumentType models.DocumentType `json:"document_type"`
	Description  string              `json:"description"`
}

func NewDocumentService(db *gorm.DB, historyService *HistoryService, storageService *StorageService) *DocumentService {
	return &DocumentService{
		db:             db,
		historyService: historyService,
		storageService: storageService,
	}
}

func (s *DocumentService) AddDocument(exhibitID, actorID uint, req *AddDocumentRequest) (*models.Document, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, validationError(err)
	}

	documentType := req.DocumentType
	if documentType == "" {
		documentType = models.DocumentTypeOther
	}
	if !documentType.Valid() {
		return nil, fmt.Errorf("unknown document type %q: %w", documentType, ErrValidation)
	}

	document := &models.Document{
		ExhibitID:    exhibitID,
		File:         req.File,
		Title:        req.Title,
		DocumentType: documentType,
		Description:  req.Description,
		UploadedByID: actorRef(actorID),
	}

	err := database.WithTransaction(s.db, func(tx *gorm.DB) error {
		if err := lockExhibit(tx, exhibitID); err != nil {
			return err
		}

		if err := tx.Omit(clause.Associations).Create(document).Error; err != nil {
			return storeError("failed to add document", err)
		}

		changes := FieldChanges{"document": {Old: nil, New: document.Title}}
		return s.historyService.Record(tx, exhibitID, actorID, models.HistoryActionDocumentAdded,
			fmt.Sprintf("Document added: %s", document.Title), changes)
	})
	if err != nil {
		return nil, err
	}

	return document, nil
}

func (s *DocumentService) ListDocuments(exhibitID uint) ([]models.Document, error) {
	var documents []models.Document
	if err := s.db.Where("exhibit_id = ?", exhibitID).Order(documentOrder).Find(&documents).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch documents: %w", err)
	}
	return documents, nil
}

func (s *DocumentService) DeleteDocument(documentID uint) error {
	var document models.Document
	if err := s.db.First(&document, documentID).Error; err != nil {
		return storeError("document", err)
	}

	if err := s.db.Delete(&document).Error; err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}

	if s.storageService != nil {
		s.storageService.DeleteFileQuietly(document.File)
	}
	return nil
}
