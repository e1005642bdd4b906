// internal/services/history_service.go
package services

import (
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/javajoker/museum-backend/internal/models"
	"github.com/javajoker/museum-backend/internal/utils"
)

// HistoryService appends audit rows for exhibits. Writers pass their own
// transaction so a history row is committed together with the change it
// describes.
type HistoryService struct {
	db *gorm.DB
}

// FieldChange is the old/new pair stored under each key of changed_fields.
type FieldChange struct {
	Old interface{} `json:"old"`
	New interface{} `json:"new"`
}

type FieldChanges map[string]FieldChange

type HistoryFilter struct {
	utils.PaginationParams
	ExhibitID *uint                 `json:"exhibit_id,omitempty"`
	Action    *models.HistoryAction `json:"action,omitempty"`
}

func NewHistoryService(db *gorm.DB) *HistoryService {
	return &HistoryService{db: db}
}

func (s *HistoryService) Record(tx *gorm.DB, exhibitID, actorID uint, action models.HistoryAction, description string, changes FieldChanges) error {
	if !action.Valid() {
		return fmt.Errorf("unknown history action %q: %w", action, ErrValidation)
	}

	entry := &models.ExhibitHistory{
		ExhibitID:     exhibitID,
		Action:        action,
		ChangedByID:   actorRef(actorID),
		Description:   description,
		ChangedFields: changes.toJSONMap(),
	}

	if err := tx.Create(entry).Error; err != nil {
		return fmt.Errorf("failed to record history: %w", err)
	}
	return nil
}

// ListHistory returns the newest entries for one exhibit. limit <= 0 means
// no limit.
func (s *HistoryService) ListHistory(exhibitID uint, limit int) ([]models.ExhibitHistory, error) {
	query := s.db.Preload("ChangedBy").
		Where("exhibit_id = ?", exhibitID).
		Order("changed_at DESC, id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var history []models.ExhibitHistory
	if err := query.Find(&history).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch history: %w", err)
	}
	return history, nil
}

func (s *HistoryService) ListAllHistory(filter HistoryFilter) ([]models.ExhibitHistory, int64, error) {
	query := s.db.Model(&models.ExhibitHistory{})

	if filter.ExhibitID != nil {
		query = query.Where("exhibit_id = ?", *filter.ExhibitID)
	}
	if filter.Action != nil {
		if !filter.Action.Valid() {
			return nil, 0, fmt.Errorf("unknown history action %q: %w", *filter.Action, ErrValidation)
		}
		query = query.Where("action = ?", *filter.Action)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count history: %w", err)
	}

	query = utils.ApplyPagination(query.Order("changed_at DESC, id DESC"), filter.PaginationParams)

	var history []models.ExhibitHistory
	if err := query.Preload("ChangedBy").Find(&history).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch history: %w", err)
	}

	return history, total, nil
}

func (c FieldChanges) toJSONMap() datatypes.JSONMap {
	if len(c) == 0 {
		return nil
	}
	m := make(datatypes.JSONMap, len(c))
	for field, change := range c {
		m[field] = map[string]interface{}{"old": change.Old, "new": change.New}
	}
	return m
}

// exhibitSnapshot flattens the tracked exhibit fields into JSON-friendly
// values keyed by their column names.
func exhibitSnapshot(e *models.Exhibit) map[string]interface{} {
	snapshot := map[string]interface{}{
		"title":              e.Title,
		"short_description":  e.ShortDescription,
		"description":        e.Description,
		"inventory_number":   e.InventoryNumber,
		"catalog_number":     e.CatalogNumber,
		"barcode":            e.Barcode,
		"category_id":        nil,
		"tags":               e.Tags,
		"acquisition_date":   nil,
		"acquisition_source": e.AcquisitionSource,
		"creation_date":      e.CreationDate,
		"author":             e.Author,
		"historical_context": e.HistoricalContext,
		"condition":          e.Condition,
		"storage_location":   e.StorageLocation,
		"size":               e.Size,
		"weight":             e.Weight,
		"material":           e.Material,
		"color":              e.Color,
		"estimated_value":    nil,
		"insurance_value":    nil,
		"status":             string(e.Status),
		"is_featured":        e.IsFeatured,
	}
	if e.CategoryID != nil {
		snapshot["category_id"] = *e.CategoryID
	}
	if e.AcquisitionDate != nil {
		snapshot["acquisition_date"] = e.AcquisitionDate.Format("2006-01-02")
	}
	if e.EstimatedValue != nil {
		snapshot["estimated_value"] = *e.EstimatedValue
	}
	if e.InsuranceValue != nil {
		snapshot["insurance_value"] = *e.InsuranceValue
	}
	return snapshot
}

// creationChanges lists every non-empty tracked field with a null old value.
func creationChanges(e *models.Exhibit) FieldChanges {
	changes := FieldChanges{}
	for field, value := range exhibitSnapshot(e) {
		if isEmptyValue(value) {
			continue
		}
		changes[field] = FieldChange{Old: nil, New: value}
	}
	return changes
}

func diffExhibits(before, after *models.Exhibit) FieldChanges {
	oldValues := exhibitSnapshot(before)
	newValues := exhibitSnapshot(after)

	changes := FieldChanges{}
	for field, newValue := range newValues {
		if oldValue := oldValues[field]; oldValue != newValue {
			changes[field] = FieldChange{Old: oldValue, New: newValue}
		}
	}
	return changes
}

// updateAction picks the history action for an edit from its status
// transition.
func updateAction(oldStatus, newStatus models.ExhibitStatus) models.HistoryAction {
	switch {
	case oldStatus == newStatus:
		return models.HistoryActionUpdated
	case newStatus == models.ExhibitStatusArchived:
		return models.HistoryActionArchived
	case oldStatus == models.ExhibitStatusArchived:
		return models.HistoryActionRestored
	case newStatus == models.ExhibitStatusPublished:
		return models.HistoryActionPublished
	default:
		return models.HistoryActionStatusChanged
	}
}

func isEmptyValue(v interface{}) bool {
	switch value := v.(type) {
	case nil:
		return true
	case string:
		return value == ""
	case bool:
		return !value
	default:
		return false
	}
}
