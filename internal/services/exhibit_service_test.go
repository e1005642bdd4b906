package services

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/javajoker/museum-backend/internal/models"
	"github.com/javajoker/museum-backend/internal/utils"
)

type ExhibitServiceTestSuite struct {
	suite.Suite
	db             *gorm.DB
	curator        *models.User
	historyService *HistoryService
	exhibitService *ExhibitService
	photoService   *PhotoService
	docService     *DocumentService
}

func (suite *ExhibitServiceTestSuite) SetupTest() {
	suite.db = newTestDB(suite.T())
	suite.curator = createStaff(suite.T(), suite.db, "curator")
	suite.historyService = NewHistoryService(suite.db)
	suite.exhibitService = NewExhibitService(suite.db, suite.historyService, nil)
	suite.photoService = NewPhotoService(suite.db, suite.historyService, nil)
	suite.docService = NewDocumentService(suite.db, suite.historyService, nil)
}

func (suite *ExhibitServiceTestSuite) TestCreateDefaultsToDraft() {
	req := exhibitRequest("INV-001", "Roman Coin", "")

	exhibit, err := suite.exhibitService.CreateExhibit(suite.curator.ID, req)
	require.NoError(suite.T(), err)

	loaded, err := suite.exhibitService.GetExhibit(exhibit.ID)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "INV-001", loaded.InventoryNumber)
	assert.Equal(suite.T(), models.ExhibitStatusDraft, loaded.Status)
	assert.False(suite.T(), loaded.IsFeatured)
	require.NotNil(suite.T(), loaded.CreatedByID)
	assert.Equal(suite.T(), suite.curator.ID, *loaded.CreatedByID)
}

func (suite *ExhibitServiceTestSuite) TestDuplicateInventoryNumber() {
	_, err := suite.exhibitService.CreateExhibit(suite.curator.ID, exhibitRequest("INV-001", "First", ""))
	require.NoError(suite.T(), err)

	_, err = suite.exhibitService.CreateExhibit(suite.curator.ID, exhibitRequest("INV-001", "Second", ""))
	assert.ErrorIs(suite.T(), err, ErrConstraintViolation)

	var count int64
	suite.db.Model(&models.Exhibit{}).Count(&count)
	assert.EqualValues(suite.T(), 1, count)
}

func (suite *ExhibitServiceTestSuite) TestCreateValidation() {
	req := exhibitRequest("", "", "lost")
	req.AcquisitionDate = "12/05/1923"

	_, err := suite.exhibitService.CreateExhibit(suite.curator.ID, req)
	require.ErrorIs(suite.T(), err, ErrValidation)

	var validationErrors validator.ValidationErrors
	require.ErrorAs(suite.T(), err, &validationErrors)

	fields := map[string]bool{}
	for _, ve := range utils.GetValidationErrors(err) {
		fields[ve.Field] = true
	}
	assert.True(suite.T(), fields["title"])
	assert.True(suite.T(), fields["inventory_number"])
	assert.True(suite.T(), fields["status"])
	assert.True(suite.T(), fields["acquisition_date"])
}

func (suite *ExhibitServiceTestSuite) TestCreateWithUnknownCategory() {
	req := exhibitRequest("INV-002", "Medal", "")
	req.CategoryID = uintPtr(999)

	_, err := suite.exhibitService.CreateExhibit(suite.curator.ID, req)
	assert.ErrorIs(suite.T(), err, ErrValidation)
}

func (suite *ExhibitServiceTestSuite) TestCreateRecordsHistory() {
	req := exhibitRequest("INV-003", "Letter", models.ExhibitStatusDraft)
	req.Author = "Unknown scribe"

	exhibit, err := suite.exhibitService.CreateExhibit(suite.curator.ID, req)
	require.NoError(suite.T(), err)

	history, err := suite.historyService.ListHistory(exhibit.ID, 0)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), history, 1)

	entry := history[0]
	assert.Equal(suite.T(), models.HistoryActionCreated, entry.Action)
	require.NotNil(suite.T(), entry.ChangedByID)
	assert.Equal(suite.T(), suite.curator.ID, *entry.ChangedByID)
	assert.Contains(suite.T(), entry.ChangedFields, "title")
	assert.Contains(suite.T(), entry.ChangedFields, "author")
	assert.NotContains(suite.T(), entry.ChangedFields, "barcode")
	assert.NotContains(suite.T(), entry.ChangedFields, "is_featured")
}

func (suite *ExhibitServiceTestSuite) TestUpdateRecordsDiff() {
	exhibit, err := suite.exhibitService.CreateExhibit(suite.curator.ID, exhibitRequest("INV-004", "Old title", ""))
	require.NoError(suite.T(), err)

	req := exhibitRequest("INV-004", "New title", "")
	updated, err := suite.exhibitService.UpdateExhibit(exhibit.ID, suite.curator.ID, req)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "New title", updated.Title)

	history, err := suite.historyService.ListHistory(exhibit.ID, 1)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), history, 1)

	entry := history[0]
	assert.Equal(suite.T(), models.HistoryActionUpdated, entry.Action)
	assert.Equal(suite.T(), "Changed: description, title", entry.Description)
	assert.Equal(suite.T(),
		map[string]interface{}{"old": "Old title", "new": "New title"},
		entry.ChangedFields["title"])
}

func (suite *ExhibitServiceTestSuite) TestUpdateWithoutChangesWritesNothing() {
	req := exhibitRequest("INV-005", "Vase", "")
	exhibit, err := suite.exhibitService.CreateExhibit(suite.curator.ID, req)
	require.NoError(suite.T(), err)

	_, err = suite.exhibitService.UpdateExhibit(exhibit.ID, suite.curator.ID, req)
	require.NoError(suite.T(), err)

	history, err := suite.historyService.ListHistory(exhibit.ID, 0)
	require.NoError(suite.T(), err)
	assert.Len(suite.T(), history, 1)
}

func (suite *ExhibitServiceTestSuite) TestUpdateRejectsTakenInventoryNumber() {
	_, err := suite.exhibitService.CreateExhibit(suite.curator.ID, exhibitRequest("INV-006", "A", ""))
	require.NoError(suite.T(), err)
	other, err := suite.exhibitService.CreateExhibit(suite.curator.ID, exhibitRequest("INV-007", "B", ""))
	require.NoError(suite.T(), err)

	_, err = suite.exhibitService.UpdateExhibit(other.ID, suite.curator.ID, exhibitRequest("INV-006", "B", ""))
	assert.ErrorIs(suite.T(), err, ErrConstraintViolation)
}

func (suite *ExhibitServiceTestSuite) TestStatusTransitionsPickHistoryAction() {
	exhibit, err := suite.exhibitService.CreateExhibit(suite.curator.ID, exhibitRequest("INV-008", "Helmet", ""))
	require.NoError(suite.T(), err)

	steps := []struct {
		status models.ExhibitStatus
		action models.HistoryAction
	}{
		{models.ExhibitStatusPublished, models.HistoryActionPublished},
		{models.ExhibitStatusRepair, models.HistoryActionStatusChanged},
		{models.ExhibitStatusArchived, models.HistoryActionArchived},
		{models.ExhibitStatusDraft, models.HistoryActionRestored},
	}

	for _, step := range steps {
		updated, err := suite.exhibitService.ChangeStatus(exhibit.ID, suite.curator.ID, step.status)
		require.NoError(suite.T(), err)
		assert.Equal(suite.T(), step.status, updated.Status)

		history, err := suite.historyService.ListHistory(exhibit.ID, 1)
		require.NoError(suite.T(), err)
		require.Len(suite.T(), history, 1)
		assert.Equal(suite.T(), step.action, history[0].Action, "moving to %s", step.status)
	}

	_, err = suite.exhibitService.ChangeStatus(exhibit.ID, suite.curator.ID, "lost")
	assert.ErrorIs(suite.T(), err, ErrValidation)

	_, err = suite.exhibitService.ChangeStatus(9999, suite.curator.ID, models.ExhibitStatusDraft)
	assert.ErrorIs(suite.T(), err, ErrNotFound)
}

func (suite *ExhibitServiceTestSuite) TestDeleteCascades() {
	exhibit, err := suite.exhibitService.CreateExhibit(suite.curator.ID, exhibitRequest("INV-009", "Sword", ""))
	require.NoError(suite.T(), err)

	_, err = suite.photoService.AddPhoto(exhibit.ID, suite.curator.ID, &AddPhotoRequest{Image: "exhibit_photos/a.jpg"})
	require.NoError(suite.T(), err)
	_, err = suite.docService.AddDocument(exhibit.ID, suite.curator.ID, &AddDocumentRequest{File: "exhibit_docs/a.pdf", Title: "Act"})
	require.NoError(suite.T(), err)

	require.NoError(suite.T(), suite.exhibitService.DeleteExhibit(exhibit.ID))

	for _, model := range []interface{}{&models.Exhibit{}, &models.ExhibitPhoto{}, &models.Document{}, &models.ExhibitHistory{}} {
		var count int64
		require.NoError(suite.T(), suite.db.Model(model).Count(&count).Error)
		assert.Zero(suite.T(), count)
	}

	assert.ErrorIs(suite.T(), suite.exhibitService.DeleteExhibit(exhibit.ID), ErrNotFound)
}

func (suite *ExhibitServiceTestSuite) TestAdminViewAndListing() {
	category := createCategory(suite.T(), suite.db, "Awards")

	req := exhibitRequest("INV-010", "Order of Glory", models.ExhibitStatusPublished)
	req.CategoryID = &category.ID
	req.CatalogNumber = "KP-77"
	exhibit, err := suite.exhibitService.CreateExhibit(suite.curator.ID, req)
	require.NoError(suite.T(), err)
	_, err = suite.exhibitService.CreateExhibit(suite.curator.ID, exhibitRequest("INV-011", "Spoon", ""))
	require.NoError(suite.T(), err)

	view, err := suite.exhibitService.GetAdminView(exhibit.ID)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Awards", view.Exhibit.Category.Name)
	assert.Zero(suite.T(), view.PhotoCount)
	assert.Len(suite.T(), view.History, 1)

	published := models.ExhibitStatusPublished
	exhibits, total, err := suite.exhibitService.ListExhibits(ExhibitFilter{
		PaginationParams: utils.PaginationParams{Page: 1, Limit: 20},
		Status:           &published,
	})
	require.NoError(suite.T(), err)
	assert.EqualValues(suite.T(), 1, total)
	require.Len(suite.T(), exhibits, 1)
	assert.Equal(suite.T(), exhibit.ID, exhibits[0].ID)

	// Staff search also covers catalog numbers
	exhibits, total, err = suite.exhibitService.ListExhibits(ExhibitFilter{
		PaginationParams: utils.PaginationParams{Page: 1, Limit: 20, Search: "kp-77"},
	})
	require.NoError(suite.T(), err)
	assert.EqualValues(suite.T(), 1, total)
	assert.Len(suite.T(), exhibits, 1)

	counts, err := suite.exhibitService.StatusCounts()
	require.NoError(suite.T(), err)
	assert.EqualValues(suite.T(), 1, counts[models.ExhibitStatusPublished])
	assert.EqualValues(suite.T(), 1, counts[models.ExhibitStatusDraft])
	assert.EqualValues(suite.T(), 0, counts[models.ExhibitStatusArchived])
}

func TestExhibitServiceSuite(t *testing.T) {
	suite.Run(t, new(ExhibitServiceTestSuite))
}
