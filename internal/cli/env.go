// internal/cli/env.go
package cli

import (
	"fmt"

	"github.com/fatih/color"
	"gorm.io/gorm"

	"github.com/javajoker/museum-backend/internal/config"
	"github.com/javajoker/museum-backend/internal/database"
)

var (
	okMark   = color.New(color.FgHiGreen).Sprint("✓")
	warnMark = color.New(color.FgYellow).Sprint("!")
)

// openDatabase loads configuration and connects, the way the server does.
// The returned close function must be called when done.
func openDatabase() (*config.Config, *gorm.DB, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	config.SetupLogging(cfg.Log)

	db, err := database.Initialize(cfg.Database)
	if err != nil {
		return nil, nil, nil, err
	}

	return cfg, db, func() { database.Close(db) }, nil
}
