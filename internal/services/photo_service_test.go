package services

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/javajoker/museum-backend/internal/models"
)

type PhotoServiceTestSuite struct {
	suite.Suite
	db             *gorm.DB
	exhibit        *models.Exhibit
	historyService *HistoryService
	photoService   *PhotoService
}

func (suite *PhotoServiceTestSuite) SetupTest() {
	suite.db = newTestDB(suite.T())
	suite.historyService = NewHistoryService(suite.db)
	suite.photoService = NewPhotoService(suite.db, suite.historyService, nil)

	exhibitService := NewExhibitService(suite.db, suite.historyService, nil)
	exhibit, err := exhibitService.CreateExhibit(0, exhibitRequest("INV-100", "Samovar", models.ExhibitStatusPublished))
	require.NoError(suite.T(), err)
	suite.exhibit = exhibit
}

func (suite *PhotoServiceTestSuite) addPhoto(image string, primary bool) *models.ExhibitPhoto {
	photo, err := suite.photoService.AddPhoto(suite.exhibit.ID, 0, &AddPhotoRequest{Image: image, IsPrimary: primary})
	require.NoError(suite.T(), err)
	return photo
}

func (suite *PhotoServiceTestSuite) primaryCount() int64 {
	var count int64
	require.NoError(suite.T(), suite.db.Model(&models.ExhibitPhoto{}).
		Where("exhibit_id = ? AND is_primary = ?", suite.exhibit.ID, true).
		Count(&count).Error)
	return count
}

func (suite *PhotoServiceTestSuite) TestConcurrentPrimaryWritesLeaveOnePrimary() {
	photos := []*models.ExhibitPhoto{
		suite.addPhoto("exhibit_photos/a.jpg", false),
		suite.addPhoto("exhibit_photos/b.jpg", false),
		suite.addPhoto("exhibit_photos/c.jpg", false),
	}

	for round := 0; round < 5; round++ {
		var wg sync.WaitGroup
		errs := make(chan error, len(photos)+1)

		for _, photo := range photos {
			wg.Add(1)
			go func(id uint) {
				defer wg.Done()
				_, err := suite.photoService.SetPrimaryPhoto(id)
				errs <- err
			}(photo.ID)
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := suite.photoService.AddPhoto(suite.exhibit.ID, 0, &AddPhotoRequest{
				Image:     fmt.Sprintf("exhibit_photos/round-%d.jpg", round),
				IsPrimary: true,
			})
			errs <- err
		}()

		wg.Wait()
		close(errs)
		for err := range errs {
			require.NoError(suite.T(), err)
		}
		assert.EqualValues(suite.T(), 1, suite.primaryCount(), "round %d", round)
	}
}

func (suite *PhotoServiceTestSuite) TestAtMostOnePrimaryAfterEachWrite() {
	first := suite.addPhoto("exhibit_photos/1.jpg", true)
	assert.EqualValues(suite.T(), 1, suite.primaryCount())

	second := suite.addPhoto("exhibit_photos/2.jpg", true)
	assert.EqualValues(suite.T(), 1, suite.primaryCount())

	suite.addPhoto("exhibit_photos/3.jpg", false)
	assert.EqualValues(suite.T(), 1, suite.primaryCount())

	_, err := suite.photoService.SetPrimaryPhoto(first.ID)
	require.NoError(suite.T(), err)
	assert.EqualValues(suite.T(), 1, suite.primaryCount())

	primary, err := suite.photoService.GetPrimaryPhoto(suite.exhibit.ID)
	require.NoError(suite.T(), err)
	require.NotNil(suite.T(), primary)
	assert.Equal(suite.T(), first.ID, primary.ID)

	var reloaded models.ExhibitPhoto
	require.NoError(suite.T(), suite.db.First(&reloaded, second.ID).Error)
	assert.False(suite.T(), reloaded.IsPrimary)
}

func (suite *PhotoServiceTestSuite) TestSetPrimaryIsIdempotent() {
	suite.addPhoto("exhibit_photos/1.jpg", false)
	target := suite.addPhoto("exhibit_photos/2.jpg", false)

	for i := 0; i < 2; i++ {
		photo, err := suite.photoService.SetPrimaryPhoto(target.ID)
		require.NoError(suite.T(), err)
		assert.True(suite.T(), photo.IsPrimary)
		assert.EqualValues(suite.T(), 1, suite.primaryCount())
	}

	photos, err := suite.photoService.ListPhotos(suite.exhibit.ID)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), photos, 2)
	assert.Equal(suite.T(), target.ID, photos[0].ID)
}

func (suite *PhotoServiceTestSuite) TestPrimaryFallsBackToEarliestUpload() {
	none, err := suite.photoService.GetPrimaryPhoto(suite.exhibit.ID)
	require.NoError(suite.T(), err)
	assert.Nil(suite.T(), none)

	later := suite.addPhoto("exhibit_photos/later.jpg", false)
	earlier := suite.addPhoto("exhibit_photos/earlier.jpg", false)
	require.NoError(suite.T(), suite.db.Model(&models.ExhibitPhoto{}).Where("id = ?", earlier.ID).
		Update("uploaded_at", time.Now().Add(-time.Hour)).Error)

	primary, err := suite.photoService.GetPrimaryPhoto(suite.exhibit.ID)
	require.NoError(suite.T(), err)
	require.NotNil(suite.T(), primary)
	assert.Equal(suite.T(), earlier.ID, primary.ID)
	assert.NotEqual(suite.T(), later.ID, primary.ID)
}

func (suite *PhotoServiceTestSuite) TestUpdatePhotoFields() {
	photo := suite.addPhoto("exhibit_photos/1.jpg", true)

	updated, err := suite.photoService.UpdatePhoto(photo.ID, &UpdatePhotoRequest{
		Title:     stringPtr("Front view"),
		IsPrimary: boolPtr(false),
	})
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Front view", updated.Title)
	assert.False(suite.T(), updated.IsPrimary)
	assert.Zero(suite.T(), suite.primaryCount())

	_, err = suite.photoService.UpdatePhoto(9999, &UpdatePhotoRequest{Title: stringPtr("x")})
	assert.ErrorIs(suite.T(), err, ErrNotFound)
}

func (suite *PhotoServiceTestSuite) TestAddPhotoRecordsHistory() {
	_, err := suite.photoService.AddPhoto(suite.exhibit.ID, 0, &AddPhotoRequest{Image: "exhibit_photos/1.jpg", Title: "Lid"})
	require.NoError(suite.T(), err)

	history, err := suite.historyService.ListHistory(suite.exhibit.ID, 1)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), history, 1)
	assert.Equal(suite.T(), models.HistoryActionPhotoAdded, history[0].Action)
	assert.Equal(suite.T(), "Photo added: Lid", history[0].Description)
	assert.Nil(suite.T(), history[0].ChangedByID)
}

func (suite *PhotoServiceTestSuite) TestAddPhotoToMissingExhibit() {
	_, err := suite.photoService.AddPhoto(9999, 0, &AddPhotoRequest{Image: "exhibit_photos/1.jpg"})
	assert.ErrorIs(suite.T(), err, ErrNotFound)

	_, err = suite.photoService.AddPhoto(suite.exhibit.ID, 0, &AddPhotoRequest{})
	assert.ErrorIs(suite.T(), err, ErrValidation)
}

func (suite *PhotoServiceTestSuite) TestDeletePhoto() {
	photo := suite.addPhoto("exhibit_photos/1.jpg", true)

	require.NoError(suite.T(), suite.photoService.DeletePhoto(photo.ID))
	assert.ErrorIs(suite.T(), suite.photoService.DeletePhoto(photo.ID), ErrNotFound)

	photos, err := suite.photoService.ListPhotos(suite.exhibit.ID)
	require.NoError(suite.T(), err)
	assert.Empty(suite.T(), photos)
}

func TestPhotoServiceSuite(t *testing.T) {
	suite.Run(t, new(PhotoServiceTestSuite))
}
