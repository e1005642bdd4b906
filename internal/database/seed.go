// internal/database/seed.go
package database

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/javajoker/museum-backend/internal/models"
)

type SeedOptions struct {
	AdminUsername string
	AdminPassword string
	AdminEmail    string
}

// SeedInitialData creates the first staff account and the starter category
// set. It is safe to run repeatedly.
func SeedInitialData(db *gorm.DB, opts SeedOptions) error {
	logrus.Info("Seeding initial data...")

	if opts.AdminUsername == "" {
		opts.AdminUsername = "admin"
	}

	var staffCount int64
	if err := db.Model(&models.User{}).Where("is_staff = ?", true).Count(&staffCount).Error; err != nil {
		return fmt.Errorf("failed to count staff users: %w", err)
	}

	if staffCount == 0 {
		if opts.AdminPassword == "" {
			return fmt.Errorf("admin password is required to seed the first staff account")
		}

		admin := &models.User{
			Username: opts.AdminUsername,
			Email:    opts.AdminEmail,
			FullName: "Museum Administrator",
			IsStaff:  true,
			IsActive: true,
		}
		if err := admin.SetPassword(opts.AdminPassword); err != nil {
			return fmt.Errorf("failed to set admin password: %w", err)
		}
		if err := db.Create(admin).Error; err != nil {
			return fmt.Errorf("failed to create admin user: %w", err)
		}

		logrus.WithField("username", admin.Username).Info("Default staff account created")
	}

	defaultCategories := []models.Category{
		{Name: "Documents", Description: "Letters, certificates and archival papers", Icon: "fas fa-file-alt"},
		{Name: "Photographs", Description: "Historical photographs and negatives", Icon: "fas fa-camera"},
		{Name: "Awards", Description: "Orders, medals and honours", Icon: "fas fa-medal"},
		{Name: "Household items", Description: "Everyday objects", Icon: models.DefaultCategoryIcon},
	}

	for _, category := range defaultCategories {
		var count int64
		db.Model(&models.Category{}).Where("name = ?", category.Name).Count(&count)
		if count > 0 {
			continue
		}
		if err := db.Create(&category).Error; err != nil {
			logrus.WithError(err).WithField("category", category.Name).Warn("Failed to create category")
		}
	}

	logrus.Info("Initial data seeding completed")
	return nil
}
