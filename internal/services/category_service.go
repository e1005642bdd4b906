// internal/services/category_service.go
package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/javajoker/museum-backend/internal/database"
	"github.com/javajoker/museum-backend/internal/models"
	"github.com/javajoker/museum-backend/internal/utils"
)

type CategoryService struct {
	db             *gorm.DB
	historyService *HistoryService
}

type SaveCategoryRequest struct {
	Name        string `json:"name" validate:"required,max=200"`
	Description string `json:"description"`
	ParentID    *uint  `json:"parent_id"`
	Icon        string `json:"icon" validate:"max=50"`
}

func NewCategoryService(db *gorm.DB, historyService *HistoryService) *CategoryService {
	return &CategoryService{
		db:             db,
		historyService: historyService,
	}
}

func (s *CategoryService) ListCategories() ([]models.Category, error) {
	var categories []models.Category
	if err := s.db.Preload("Parent").Order("name ASC, id ASC").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch categories: %w", err)
	}
	return categories, nil
}

func (s *CategoryService) GetCategory(id uint) (*models.Category, error) {
	var category models.Category
	if err := s.db.Preload("Parent").First(&category, id).Error; err != nil {
		return nil, storeError("category", err)
	}
	return &category, nil
}

func (s *CategoryService) CreateCategory(req *SaveCategoryRequest) (*models.Category, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, validationError(err)
	}

	category := &models.Category{
		Name:        req.Name,
		Description: req.Description,
		ParentID:    req.ParentID,
		Icon:        iconOrDefault(req.Icon),
	}

	err := database.WithTransaction(s.db, func(tx *gorm.DB) error {
		if req.ParentID != nil {
			if err := ensureCategoryExists(tx, *req.ParentID); err != nil {
				return err
			}
		}
		if err := tx.Create(category).Error; err != nil {
			return storeError("failed to create category", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return category, nil
}

func (s *CategoryService) UpdateCategory(id uint, req *SaveCategoryRequest) (*models.Category, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, validationError(err)
	}

	var category models.Category
	err := database.WithTransaction(s.db, func(tx *gorm.DB) error {
		if err := tx.First(&category, id).Error; err != nil {
			return storeError("category", err)
		}

		if req.ParentID != nil {
			if err := ensureCategoryExists(tx, *req.ParentID); err != nil {
				return err
			}
			if err := checkCategoryCycle(tx, id, *req.ParentID); err != nil {
				return err
			}
		}

		category.Name = req.Name
		category.Description = req.Description
		category.ParentID = req.ParentID
		category.Icon = iconOrDefault(req.Icon)

		if err := tx.Select("name", "description", "parent_id", "icon", "updated_at").Save(&category).Error; err != nil {
			return storeError("failed to update category", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &category, nil
}

// DeleteCategory removes a category. Exhibits and child categories that
// pointed at it lose the reference; each affected exhibit gets an "updated"
// history entry.
func (s *CategoryService) DeleteCategory(id, actorID uint) error {
	return database.WithTransaction(s.db, func(tx *gorm.DB) error {
		var category models.Category
		if err := tx.First(&category, id).Error; err != nil {
			return storeError("category", err)
		}

		var exhibitIDs []uint
		if err := tx.Model(&models.Exhibit{}).Where("category_id = ?", id).Order("id").Pluck("id", &exhibitIDs).Error; err != nil {
			return fmt.Errorf("failed to find exhibits of category: %w", err)
		}

		if len(exhibitIDs) > 0 {
			if err := tx.Model(&models.Exhibit{}).Where("id IN ?", exhibitIDs).Update("category_id", nil).Error; err != nil {
				return fmt.Errorf("failed to detach exhibits: %w", err)
			}

			description := fmt.Sprintf("Category %q was deleted", category.Name)
			changes := FieldChanges{"category_id": {Old: category.ID, New: nil}}
			for _, exhibitID := range exhibitIDs {
				if err := s.historyService.Record(tx, exhibitID, actorID, models.HistoryActionUpdated, description, changes); err != nil {
					return err
				}
			}
		}

		if err := tx.Model(&models.Category{}).Where("parent_id = ?", id).Update("parent_id", nil).Error; err != nil {
			return fmt.Errorf("failed to detach child categories: %w", err)
		}

		if err := tx.Delete(&category).Error; err != nil {
			return storeError("failed to delete category", err)
		}
		return nil
	})
}

func ensureCategoryExists(tx *gorm.DB, id uint) error {
	var count int64
	if err := tx.Model(&models.Category{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check category: %w", err)
	}
	if count == 0 {
		return fmt.Errorf("category %d does not exist: %w", id, ErrValidation)
	}
	return nil
}

// checkCategoryCycle walks up from parentID and fails if it reaches id.
func checkCategoryCycle(tx *gorm.DB, id, parentID uint) error {
	visited := map[uint]bool{}
	current := &parentID

	for current != nil {
		if *current == id {
			return fmt.Errorf("category %d cannot be its own ancestor: %w", id, ErrValidation)
		}
		if visited[*current] {
			return nil
		}
		visited[*current] = true

		var ancestor models.Category
		if err := tx.Select("id", "parent_id").First(&ancestor, *current).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return fmt.Errorf("failed to walk category tree: %w", err)
		}
		current = ancestor.ParentID
	}
	return nil
}

func iconOrDefault(icon string) string {
	if icon == "" {
		return models.DefaultCategoryIcon
	}
	return icon
}
