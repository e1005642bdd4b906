package services

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/javajoker/museum-backend/internal/config"
	"github.com/javajoker/museum-backend/internal/database"
	"github.com/javajoker/museum-backend/internal/models"
)

// newTestDB opens a private in-memory SQLite database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.Initialize(config.DatabaseConfig{
		Driver:     "sqlite",
		SQLitePath: fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString()),
		LogLevel:   "silent",
	})
	require.NoError(t, err)
	require.NoError(t, database.RunMigrations(db))

	t.Cleanup(func() { database.Close(db) })
	return db
}

func createStaff(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()

	user := &models.User{Username: username, IsStaff: true, IsActive: true}
	require.NoError(t, user.SetPassword("Curator#2024"))
	require.NoError(t, db.Create(user).Error)
	return user
}

func createCategory(t *testing.T, db *gorm.DB, name string) *models.Category {
	t.Helper()

	category := &models.Category{Name: name, Icon: models.DefaultCategoryIcon}
	require.NoError(t, db.Create(category).Error)
	return category
}

func exhibitRequest(inventory, title string, status models.ExhibitStatus) *SaveExhibitRequest {
	return &SaveExhibitRequest{
		Title:           title,
		Description:     "Description of " + title,
		InventoryNumber: inventory,
		Status:          status,
	}
}

func uintPtr(v uint) *uint {
	return &v
}

func boolPtr(v bool) *bool {
	return &v
}

func stringPtr(v string) *string {
	return &v
}
