// internal/services/photo_service.go
package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/javajoker/museum-backend/internal/database"
	"github.com/javajoker/museum-backend/internal/models"
	"github.com/javajoker/museum-backend/internal/utils"
)

// PhotoService owns exhibit photos and keeps at most one of them primary.
// Every write that may touch the primary flag locks the owning exhibit row
// first so concurrent writers for the same exhibit run one after another.
type PhotoService struct {
	db             *gorm.DB
	historyService *HistoryService
	storageService *StorageService
}

type AddPhotoRequest struct {
	Image       string `json:"image" validate:"required,max=500"`
	Title       string `json:"title" validate:"max=200"`
	Description string `json:"description"`
	IsPrimary   bool   `json:"is_primary"`
}

type UpdatePhotoRequest struct {
	Title       *string `json:"title" validate:"omitempty,max=200"`
	Description *string `json:"description"`
	IsPrimary   *bool   `json:"is_primary"`
}

func NewPhotoService(db *gorm.DB, historyService *HistoryService, storageService *StorageService) *PhotoService {
	return &PhotoService{
		db:             db,
		historyService: historyService,
		storageService: storageService,
	}
}

func (s *PhotoService) AddPhoto(exhibitID, actorID uint, req *AddPhotoRequest) (*models.ExhibitPhoto, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, validationError(err)
	}

	photo := &models.ExhibitPhoto{
		ExhibitID:    exhibitID,
		Image:        req.Image,
		Title:        req.Title,
		Description:  req.Description,
		IsPrimary:    req.IsPrimary,
		UploadedByID: actorRef(actorID),
	}

	err := database.WithTransaction(s.db, func(tx *gorm.DB) error {
		if err := lockExhibit(tx, exhibitID); err != nil {
			return err
		}

		if photo.IsPrimary {
			if err := demoteOtherPhotos(tx, exhibitID, 0); err != nil {
				return err
			}
		}

		if err := tx.Omit(clause.Associations).Create(photo).Error; err != nil {
			return storeError("failed to add photo", err)
		}

		description := "Photo added"
		if photo.Title != "" {
			description = fmt.Sprintf("Photo added: %s", photo.Title)
		}
		changes := FieldChanges{"photo": {Old: nil, New: photo.Image}}
		return s.historyService.Record(tx, exhibitID, actorID, models.HistoryActionPhotoAdded, description, changes)
	})
	if err != nil {
		return nil, err
	}

	return photo, nil
}

func (s *PhotoService) UpdatePhoto(photoID uint, req *UpdatePhotoRequest) (*models.ExhibitPhoto, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, validationError(err)
	}

	var photo models.ExhibitPhoto
	err := database.WithTransaction(s.db, func(tx *gorm.DB) error {
		if err := tx.First(&photo, photoID).Error; err != nil {
			return storeError("photo", err)
		}

		if req.Title != nil {
			photo.Title = *req.Title
		}
		if req.Description != nil {
			photo.Description = *req.Description
		}

		if req.IsPrimary != nil && *req.IsPrimary {
			if err := lockExhibit(tx, photo.ExhibitID); err != nil {
				return err
			}
			if err := demoteOtherPhotos(tx, photo.ExhibitID, photo.ID); err != nil {
				return err
			}
		}
		if req.IsPrimary != nil {
			photo.IsPrimary = *req.IsPrimary
		}

		err := tx.Model(&photo).Select("title", "description", "is_primary").Updates(map[string]interface{}{
			"title":       photo.Title,
			"description": photo.Description,
			"is_primary":  photo.IsPrimary,
		}).Error
		if err != nil {
			return storeError("failed to update photo", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &photo, nil
}

// SetPrimaryPhoto makes photoID the primary photo of its exhibit. Calling it
// again for the same photo leaves the same state.
func (s *PhotoService) SetPrimaryPhoto(photoID uint) (*models.ExhibitPhoto, error) {
	isPrimary := true
	return s.UpdatePhoto(photoID, &UpdatePhotoRequest{IsPrimary: &isPrimary})
}

// GetPrimaryPhoto returns the flagged photo, else the earliest uploaded one,
// else nil.
func (s *PhotoService) GetPrimaryPhoto(exhibitID uint) (*models.ExhibitPhoto, error) {
	var photo models.ExhibitPhoto
	err := s.db.Where("exhibit_id = ?", exhibitID).Order(photoOrder).First(&photo).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch primary photo: %w", err)
	}
	return &photo, nil
}

func (s *PhotoService) ListPhotos(exhibitID uint) ([]models.ExhibitPhoto, error) {
	var photos []models.ExhibitPhoto
	if err := s.db.Where("exhibit_id = ?", exhibitID).Order(photoOrder).Find(&photos).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch photos: %w", err)
	}
	return photos, nil
}

func (s *PhotoService) DeletePhoto(photoID uint) error {
	var photo models.ExhibitPhoto
	if err := s.db.First(&photo, photoID).Error; err != nil {
		return storeError("photo", err)
	}

	if err := s.db.Delete(&photo).Error; err != nil {
		return fmt.Errorf("failed to delete photo: %w", err)
	}

	if s.storageService != nil {
		s.storageService.DeleteFileQuietly(photo.Image)
	}
	return nil
}

// lockExhibit takes a row lock on the exhibit (SELECT ... FOR UPDATE) and
// reports a missing exhibit as ErrNotFound.
func lockExhibit(tx *gorm.DB, exhibitID uint) error {
	var exhibit models.Exhibit
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Select("id").First(&exhibit, exhibitID).Error
	if err != nil {
		return storeError("exhibit", err)
	}
	return nil
}

func demoteOtherPhotos(tx *gorm.DB, exhibitID, keepID uint) error {
	query := tx.Model(&models.ExhibitPhoto{}).Where("exhibit_id = ? AND is_primary = ?", exhibitID, true)
	if keepID != 0 {
		query = query.Where("id <> ?", keepID)
	}
	if err := query.Update("is_primary", false).Error; err != nil {
		return fmt.Errorf("failed to demote photos: %w", err)
	}
	return nil
}
