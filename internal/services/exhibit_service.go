// internal/services/exhibit_service.go
package services

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/javajoker/museum-backend/internal/database"
	"github.com/javajoker/museum-backend/internal/models"
	"github.com/javajoker/museum-backend/internal/utils"
)

type ExhibitService struct {
	db             *gorm.DB
	historyService *HistoryService
	storageService *StorageService
}

// SaveExhibitRequest is the full edit form of an exhibit. Updates replace
// every field.
type SaveExhibitRequest struct {
	Title            string `json:"title" validate:"required,max=500"`
	ShortDescription string `json:"short_description" validate:"max=300"`
	Description      string `json:"description" validate:"required"`

	InventoryNumber string `json:"inventory_number" validate:"required,max=100"`
	CatalogNumber   string `json:"catalog_number" validate:"max=100"`
	Barcode         string `json:"barcode" validate:"max=50"`

	CategoryID *uint  `json:"category_id"`
	Tags       string `json:"tags" validate:"max=300"`

	AcquisitionDate   string `json:"acquisition_date" validate:"omitempty,datetime=2006-01-02"`
	AcquisitionSource string `json:"acquisition_source" validate:"max=300"`
	CreationDate      string `json:"creation_date" validate:"max=100"`
	Author            string `json:"author" validate:"max=200"`
	HistoricalContext string `json:"historical_context"`

	Condition       string `json:"condition"`
	StorageLocation string `json:"storage_location" validate:"max=200"`
	Size            string `json:"size" validate:"max=100"`
	Weight          string `json:"weight" validate:"max=50"`
	Material        string `json:"material" validate:"max=200"`
	Color           string `json:"color" validate:"max=100"`

	EstimatedValue *float64 `json:"estimated_value" validate:"omitempty,gte=0,lt=100000000"`
	InsuranceValue *float64 `json:"insurance_value" validate:"omitempty,gte=0,lt=100000000"`

	Status     models.ExhibitStatus `json:"status" validate:"exhibit_status"`
	IsFeatured bool                 `json:"is_featured"`
}

type ChangeStatusRequest struct {
	Status models.ExhibitStatus `json:"status" validate:"required,exhibit_status"`
}

type ExhibitFilter struct {
	utils.PaginationParams
	Status     *models.ExhibitStatus `json:"status,omitempty"`
	CategoryID *uint                 `json:"category_id,omitempty"`
	IsFeatured *bool                 `json:"is_featured,omitempty"`
}

// ExhibitAdminView is the staff edit page payload.
type ExhibitAdminView struct {
	Exhibit       *models.Exhibit         `json:"exhibit"`
	Photos        []models.ExhibitPhoto   `json:"photos"`
	Documents     []models.Document       `json:"documents"`
	History       []models.ExhibitHistory `json:"history"`
	PhotoCount    int                     `json:"photo_count"`
	DocumentCount int                     `json:"document_count"`
}

const adminHistoryLimit = 10

func NewExhibitService(db *gorm.DB, historyService *HistoryService, storageService *StorageService) *ExhibitService {
	return &ExhibitService{
		db:             db,
		historyService: historyService,
		storageService: storageService,
	}
}

func (s *ExhibitService) CreateExhibit(actorID uint, req *SaveExhibitRequest) (*models.Exhibit, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, validationError(err)
	}

	exhibit := &models.Exhibit{
		CreatedByID:      actorRef(actorID),
		LastModifiedByID: actorRef(actorID),
	}
	if err := applyExhibitRequest(exhibit, req); err != nil {
		return nil, err
	}
	if exhibit.Status == "" {
		exhibit.Status = models.ExhibitStatusDraft
	}

	err := database.WithTransaction(s.db, func(tx *gorm.DB) error {
		if err := s.checkReferences(tx, 0, exhibit); err != nil {
			return err
		}

		if err := tx.Omit(clause.Associations).Create(exhibit).Error; err != nil {
			return storeError("failed to create exhibit", err)
		}

		return s.historyService.Record(tx, exhibit.ID, actorID, models.HistoryActionCreated,
			"Exhibit created", creationChanges(exhibit))
	})
	if err != nil {
		return nil, err
	}

	return s.GetExhibit(exhibit.ID)
}

func (s *ExhibitService) GetExhibit(id uint) (*models.Exhibit, error) {
	var exhibit models.Exhibit
	err := s.db.Preload("Category").Preload("CreatedBy").Preload("LastModifiedBy").
		First(&exhibit, id).Error
	if err != nil {
		return nil, storeError("exhibit", err)
	}
	return &exhibit, nil
}

// GetAdminView loads an exhibit with its media and the latest history.
func (s *ExhibitService) GetAdminView(id uint) (*ExhibitAdminView, error) {
	exhibit, err := s.GetExhibit(id)
	if err != nil {
		return nil, err
	}

	view := &ExhibitAdminView{Exhibit: exhibit}

	if err := s.db.Where("exhibit_id = ?", id).Order(photoOrder).Find(&view.Photos).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch photos: %w", err)
	}
	if err := s.db.Where("exhibit_id = ?", id).Order(documentOrder).Find(&view.Documents).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch documents: %w", err)
	}
	if view.History, err = s.historyService.ListHistory(id, adminHistoryLimit); err != nil {
		return nil, err
	}

	view.PhotoCount = len(view.Photos)
	view.DocumentCount = len(view.Documents)
	return view, nil
}

// UpdateExhibit replaces every editable field. An edit that changes nothing
// writes nothing.
func (s *ExhibitService) UpdateExhibit(id, actorID uint, req *SaveExhibitRequest) (*models.Exhibit, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, validationError(err)
	}

	err := s.modifyExhibit(id, actorID, func(tx *gorm.DB, exhibit *models.Exhibit) error {
		if err := applyExhibitRequest(exhibit, req); err != nil {
			return err
		}
		if exhibit.Status == "" {
			exhibit.Status = models.ExhibitStatusDraft
		}
		return s.checkReferences(tx, id, exhibit)
	})
	if err != nil {
		return nil, err
	}

	return s.GetExhibit(id)
}

func (s *ExhibitService) ChangeStatus(id, actorID uint, status models.ExhibitStatus) (*models.Exhibit, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("unknown status %q: %w", status, ErrValidation)
	}

	err := s.modifyExhibit(id, actorID, func(_ *gorm.DB, exhibit *models.Exhibit) error {
		exhibit.Status = status
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetExhibit(id)
}

// modifyExhibit loads the exhibit inside a transaction, lets mutate change
// it, and saves it together with one history row when something changed.
func (s *ExhibitService) modifyExhibit(id, actorID uint, mutate func(tx *gorm.DB, exhibit *models.Exhibit) error) error {
	return database.WithTransaction(s.db, func(tx *gorm.DB) error {
		var exhibit models.Exhibit
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&exhibit, id).Error; err != nil {
			return storeError("exhibit", err)
		}
		before := exhibit

		if err := mutate(tx, &exhibit); err != nil {
			return err
		}

		changes := diffExhibits(&before, &exhibit)
		if len(changes) == 0 {
			return nil
		}

		exhibit.LastModifiedByID = actorRef(actorID)
		if err := tx.Omit(clause.Associations).Save(&exhibit).Error; err != nil {
			return storeError("failed to update exhibit", err)
		}

		action := updateAction(before.Status, exhibit.Status)
		return s.historyService.Record(tx, id, actorID, action, describeChange(action, changes), changes)
	})
}

// DeleteExhibit removes the exhibit with its history, documents and photos.
// Stored files are removed after the transaction commits.
func (s *ExhibitService) DeleteExhibit(id uint) error {
	var files []string

	err := database.WithTransaction(s.db, func(tx *gorm.DB) error {
		var exhibit models.Exhibit
		if err := tx.First(&exhibit, id).Error; err != nil {
			return storeError("exhibit", err)
		}

		var photoFiles, documentFiles []string
		if err := tx.Model(&models.ExhibitPhoto{}).Where("exhibit_id = ?", id).Pluck("image", &photoFiles).Error; err != nil {
			return fmt.Errorf("failed to list photos: %w", err)
		}
		if err := tx.Model(&models.Document{}).Where("exhibit_id = ?", id).Pluck("file", &documentFiles).Error; err != nil {
			return fmt.Errorf("failed to list documents: %w", err)
		}
		files = append(photoFiles, documentFiles...)

		if err := tx.Where("exhibit_id = ?", id).Delete(&models.ExhibitHistory{}).Error; err != nil {
			return fmt.Errorf("failed to delete history: %w", err)
		}
		if err := tx.Where("exhibit_id = ?", id).Delete(&models.Document{}).Error; err != nil {
			return fmt.Errorf("failed to delete documents: %w", err)
		}
		if err := tx.Where("exhibit_id = ?", id).Delete(&models.ExhibitPhoto{}).Error; err != nil {
			return fmt.Errorf("failed to delete photos: %w", err)
		}
		if err := tx.Delete(&exhibit).Error; err != nil {
			return storeError("failed to delete exhibit", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if s.storageService != nil {
		for _, file := range files {
			s.storageService.DeleteFileQuietly(file)
		}
	}
	return nil
}

// ListExhibits is the staff listing: every status, optional filters and a
// search that also covers catalog numbers.
func (s *ExhibitService) ListExhibits(filter ExhibitFilter) ([]models.Exhibit, int64, error) {
	query := s.db.Model(&models.Exhibit{})

	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.IsFeatured != nil {
		query = query.Where("is_featured = ?", *filter.IsFeatured)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		query = whereContains(query, search, adminSearchColumns)
	}

	// Get total count
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count exhibits: %w", err)
	}

	allowedSortFields := []string{"created_at", "updated_at", "title", "inventory_number", "status"}
	query = utils.ApplySort(query, filter.PaginationParams, allowedSortFields)
	query = utils.ApplyPagination(query, filter.PaginationParams)

	var exhibits []models.Exhibit
	if err := query.Preload("Category").Find(&exhibits).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch exhibits: %w", err)
	}

	return exhibits, total, nil
}

// checkReferences verifies the category exists and the inventory number is
// free. selfID excludes the exhibit being edited.
func (s *ExhibitService) checkReferences(tx *gorm.DB, selfID uint, exhibit *models.Exhibit) error {
	if exhibit.CategoryID != nil {
		if err := ensureCategoryExists(tx, *exhibit.CategoryID); err != nil {
			return err
		}
	}

	var count int64
	query := tx.Model(&models.Exhibit{}).Where("inventory_number = ?", exhibit.InventoryNumber)
	if selfID != 0 {
		query = query.Where("id <> ?", selfID)
	}
	if err := query.Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check inventory number: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("inventory number %q already exists: %w", exhibit.InventoryNumber, ErrConstraintViolation)
	}
	return nil
}

func applyExhibitRequest(exhibit *models.Exhibit, req *SaveExhibitRequest) error {
	var acquisitionDate *time.Time
	if req.AcquisitionDate != "" {
		parsed, err := time.Parse("2006-01-02", req.AcquisitionDate)
		if err != nil {
			return fmt.Errorf("acquisition_date: %w", ErrValidation)
		}
		acquisitionDate = &parsed
	}

	exhibit.Title = strings.TrimSpace(req.Title)
	exhibit.ShortDescription = req.ShortDescription
	exhibit.Description = req.Description
	exhibit.InventoryNumber = strings.TrimSpace(req.InventoryNumber)
	exhibit.CatalogNumber = req.CatalogNumber
	exhibit.Barcode = req.Barcode
	exhibit.CategoryID = req.CategoryID
	exhibit.Tags = req.Tags
	exhibit.AcquisitionDate = acquisitionDate
	exhibit.AcquisitionSource = req.AcquisitionSource
	exhibit.CreationDate = req.CreationDate
	exhibit.Author = req.Author
	exhibit.HistoricalContext = req.HistoricalContext
	exhibit.Condition = req.Condition
	exhibit.StorageLocation = req.StorageLocation
	exhibit.Size = req.Size
	exhibit.Weight = req.Weight
	exhibit.Material = req.Material
	exhibit.Color = req.Color
	exhibit.EstimatedValue = req.EstimatedValue
	exhibit.InsuranceValue = req.InsuranceValue
	exhibit.Status = req.Status
	exhibit.IsFeatured = req.IsFeatured
	return nil
}

func describeChange(action models.HistoryAction, changes FieldChanges) string {
	switch action {
	case models.HistoryActionPublished:
		return "Exhibit published"
	case models.HistoryActionArchived:
		return "Exhibit archived"
	case models.HistoryActionRestored:
		return "Exhibit restored from archive"
	case models.HistoryActionStatusChanged:
		return fmt.Sprintf("Status changed from %v to %v", changes["status"].Old, changes["status"].New)
	}

	fields := make([]string, 0, len(changes))
	for field := range changes {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return "Changed: " + strings.Join(fields, ", ")
}

// StatusCounts returns how many exhibits are in each status. Statuses with
// no exhibits are reported as zero.
func (s *ExhibitService) StatusCounts() (map[models.ExhibitStatus]int64, error) {
	var rows []struct {
		Status models.ExhibitStatus
		Count  int64
	}
	if err := s.db.Model(&models.Exhibit{}).Select("status, COUNT(*) AS count").Group("status").Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to count exhibits by status: %w", err)
	}

	counts := map[models.ExhibitStatus]int64{
		models.ExhibitStatusDraft:     0,
		models.ExhibitStatusPublished: 0,
		models.ExhibitStatusArchived:  0,
		models.ExhibitStatusRepair:    0,
	}
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}
