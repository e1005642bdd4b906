// internal/services/export_service.go
package services

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/javajoker/museum-backend/internal/models"
)

const exhibitSheet = "Exhibits"

// ExportService moves the catalog in and out of XLSX workbooks. Both
// directions use the same column headers.
type ExportService struct {
	db             *gorm.DB
	exhibitService *ExhibitService
}

type ImportResult struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors"`
}

type exportColumn struct {
	header string
	value  func(e *models.Exhibit) interface{}
}

var exportColumns = []exportColumn{
	{"ID", func(e *models.Exhibit) interface{} { return e.ID }},
	{"Inventory number", func(e *models.Exhibit) interface{} { return e.InventoryNumber }},
	{"Catalog number", func(e *models.Exhibit) interface{} { return e.CatalogNumber }},
	{"Barcode", func(e *models.Exhibit) interface{} { return e.Barcode }},
	{"Title", func(e *models.Exhibit) interface{} { return e.Title }},
	{"Short description", func(e *models.Exhibit) interface{} { return e.ShortDescription }},
	{"Description", func(e *models.Exhibit) interface{} { return e.Description }},
	{"Category", func(e *models.Exhibit) interface{} {
		if e.Category == nil {
			return ""
		}
		return e.Category.Name
	}},
	{"Tags", func(e *models.Exhibit) interface{} { return e.Tags }},
	{"Status", func(e *models.Exhibit) interface{} { return string(e.Status) }},
	{"Featured", func(e *models.Exhibit) interface{} { return e.IsFeatured }},
	{"Author", func(e *models.Exhibit) interface{} { return e.Author }},
	{"Creation date", func(e *models.Exhibit) interface{} { return e.CreationDate }},
	{"Acquisition date", func(e *models.Exhibit) interface{} {
		if e.AcquisitionDate == nil {
			return ""
		}
		return e.AcquisitionDate.Format("2006-01-02")
	}},
	{"Acquisition source", func(e *models.Exhibit) interface{} { return e.AcquisitionSource }},
	{"Material", func(e *models.Exhibit) interface{} { return e.Material }},
	{"Size", func(e *models.Exhibit) interface{} { return e.Size }},
	{"Weight", func(e *models.Exhibit) interface{} { return e.Weight }},
	{"Color", func(e *models.Exhibit) interface{} { return e.Color }},
	{"Condition", func(e *models.Exhibit) interface{} { return e.Condition }},
	{"Storage location", func(e *models.Exhibit) interface{} { return e.StorageLocation }},
	{"Estimated value", func(e *models.Exhibit) interface{} { return floatOrBlank(e.EstimatedValue) }},
	{"Insurance value", func(e *models.Exhibit) interface{} { return floatOrBlank(e.InsuranceValue) }},
	{"Created at", func(e *models.Exhibit) interface{} { return e.CreatedAt.Format("2006-01-02 15:04:05") }},
	{"Updated at", func(e *models.Exhibit) interface{} { return e.UpdatedAt.Format("2006-01-02 15:04:05") }},
}

func NewExportService(db *gorm.DB, exhibitService *ExhibitService) *ExportService {
	return &ExportService{
		db:             db,
		exhibitService: exhibitService,
	}
}

// ExportExhibits writes every exhibit matching filter, ignoring its paging,
// as one workbook and returns the number of rows written.
func (s *ExportService) ExportExhibits(w io.Writer, filter ExhibitFilter) (int, error) {
	query := s.db.Model(&models.Exhibit{}).Preload("Category")
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

	var exhibits []models.Exhibit
	if err := query.Order("inventory_number ASC, id ASC").Find(&exhibits).Error; err != nil {
		return 0, fmt.Errorf("failed to fetch exhibits: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exhibitSheet); err != nil {
		return 0, fmt.Errorf("failed to name sheet: %w", err)
	}

	header := make([]interface{}, len(exportColumns))
	for i, column := range exportColumns {
		header[i] = column.header
	}
	if err := f.SetSheetRow(exhibitSheet, "A1", &header); err != nil {
		return 0, fmt.Errorf("failed to write header: %w", err)
	}

	for i := range exhibits {
		row := make([]interface{}, len(exportColumns))
		for j, column := range exportColumns {
			row[j] = column.value(&exhibits[i])
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return 0, err
		}
		if err := f.SetSheetRow(exhibitSheet, cell, &row); err != nil {
			return 0, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.SetPanes(exhibitSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return 0, fmt.Errorf("failed to freeze header: %w", err)
	}

	if err := f.Write(w); err != nil {
		return 0, fmt.Errorf("failed to write workbook: %w", err)
	}
	return len(exhibits), nil
}

// ImportExhibits creates one exhibit per data row of the first sheet. Rows
// whose inventory number already exists are skipped; invalid rows are
// reported and do not stop the import.
func (s *ExportService) ImportExhibits(r io.Reader, actorID uint) (*ImportResult, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("invalid workbook: %w: %w", ErrValidation, err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}
	if len(rows) == 0 {
		return &ImportResult{Errors: []string{}}, nil
	}

	index := make(map[string]int, len(rows[0]))
	for i, title := range rows[0] {
		index[strings.ToLower(strings.TrimSpace(title))] = i
	}
	cell := func(row []string, header string) string {
		i, ok := index[strings.ToLower(header)]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	categories, err := s.categoryIDsByName()
	if err != nil {
		return nil, err
	}

	result := &ImportResult{Errors: []string{}}
	for i, row := range rows[1:] {
		line := i + 2
		if cell(row, "Inventory number") == "" && cell(row, "Title") == "" {
			continue
		}

		req := &SaveExhibitRequest{
			InventoryNumber:   cell(row, "Inventory number"),
			CatalogNumber:     cell(row, "Catalog number"),
			Barcode:           cell(row, "Barcode"),
			Title:             cell(row, "Title"),
			ShortDescription:  cell(row, "Short description"),
			Description:       cell(row, "Description"),
			Tags:              cell(row, "Tags"),
			Status:            models.ExhibitStatus(strings.ToLower(cell(row, "Status"))),
			Author:            cell(row, "Author"),
			CreationDate:      cell(row, "Creation date"),
			AcquisitionDate:   cell(row, "Acquisition date"),
			AcquisitionSource: cell(row, "Acquisition source"),
			Material:          cell(row, "Material"),
			Size:              cell(row, "Size"),
			Weight:            cell(row, "Weight"),
			Color:             cell(row, "Color"),
			Condition:         cell(row, "Condition"),
			StorageLocation:   cell(row, "Storage location"),
		}
		req.IsFeatured, _ = strconv.ParseBool(cell(row, "Featured"))

		if name := cell(row, "Category"); name != "" {
			id, ok := categories[strings.ToLower(name)]
			if !ok {
				result.Errors = append(result.Errors, fmt.Sprintf("row %d: unknown category %q", line, name))
				continue
			}
			req.CategoryID = &id
		}
		if req.EstimatedValue, err = parseOptionalFloat(cell(row, "Estimated value")); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: estimated value: %v", line, err))
			continue
		}
		if req.InsuranceValue, err = parseOptionalFloat(cell(row, "Insurance value")); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: insurance value: %v", line, err))
			continue
		}

		if _, err := s.exhibitService.CreateExhibit(actorID, req); err != nil {
			if errors.Is(err, ErrConstraintViolation) {
				result.Skipped++
				continue
			}
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", line, err))
			continue
		}
		result.Imported++
	}

	return result, nil
}

func (s *ExportService) categoryIDsByName() (map[string]uint, error) {
	var categories []models.Category
	if err := s.db.Select("id", "name").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch categories: %w", err)
	}
	ids := make(map[string]uint, len(categories))
	for _, category := range categories {
		ids[strings.ToLower(category.Name)] = category.ID
	}
	return ids, nil
}

func floatOrBlank(v *float64) interface{} {
	if v == nil {
		return ""
	}
	return *v
}

func parseOptionalFloat(raw string) (*float64, error) {
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", "."), 64)
	if err != nil {
		return nil, err
	}
	return &value, nil
}
