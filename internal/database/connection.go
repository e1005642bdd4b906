// internal/database/connection.go
package database

import (
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/javajoker/museum-backend/internal/config"
	"github.com/javajoker/museum-backend/internal/models"
)

func Initialize(cfg config.DatabaseConfig) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		Logger:         logger.Default.LogMode(gormLogLevel(cfg.LogLevel)),
		TranslateError: true,
	}

	var dialector gorm.Dialector
	switch cfg.Driver {
	case "sqlite":
		dialector = sqliteDialector(cfg.DSN())
	case "postgres", "":
		dialector = postgres.Open(cfg.DSN())
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying sql.DB
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Configure connection pool
	if cfg.Driver == "sqlite" {
		// SQLite serializes writers; a single connection avoids SQLITE_BUSY
		// and keeps shared in-memory databases alive.
		sqlDB.SetMaxOpenConns(1)
		if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
			return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
		}
	} else {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
		sqlDB.SetConnMaxLifetime(time.Duration(cfg.MaxLifetime) * time.Second)
	}

	// Test connection
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logrus.WithField("driver", db.Dialector.Name()).Info("Database connection established")
	return db, nil
}

const sqliteDriverName = "sqlite3_museum"

var registerSQLiteDriver sync.Once

// sqliteDialector opens SQLite through a driver whose LOWER and UPPER fold
// the full Unicode range. The built-in versions only fold ASCII, which breaks
// case-insensitive search on Cyrillic titles.
func sqliteDialector(dsn string) gorm.Dialector {
	registerSQLiteDriver.Do(func() {
		sql.Register(sqliteDriverName, &sqlite3.SQLiteDriver{
			ConnectHook: func(conn *sqlite3.SQLiteConn) error {
				if err := conn.RegisterFunc("lower", strings.ToLower, true); err != nil {
					return fmt.Errorf("failed to register lower: %w", err)
				}
				if err := conn.RegisterFunc("upper", strings.ToUpper, true); err != nil {
					return fmt.Errorf("failed to register upper: %w", err)
				}
				return nil
			},
		})
	})

	return sqlite.New(sqlite.Config{DriverName: sqliteDriverName, DSN: dsn})
}

func gormLogLevel(level string) logger.LogLevel {
	switch level {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}

func Close(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		logrus.WithError(err).Error("Error getting underlying sql.DB")
		return
	}

	if err := sqlDB.Close(); err != nil {
		logrus.WithError(err).Error("Error closing database connection")
	} else {
		logrus.Info("Database connection closed")
	}
}

func RunMigrations(db *gorm.DB) error {
	logrus.Info("Running database migrations...")

	err := db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Exhibit{},
		&models.ExhibitPhoto{},
		&models.Document{},
		&models.ExhibitHistory{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := createIndexes(db); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	logrus.Info("Database migrations completed")
	return nil
}

func createIndexes(db *gorm.DB) error {
	indexes := []string{
		// Public listing: published exhibits, newest first
		"CREATE INDEX IF NOT EXISTS idx_exhibits_status_created ON exhibits(status, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_exhibits_category_status ON exhibits(category_id, status)",

		// Photo ordering: primary first, then upload time
		"CREATE INDEX IF NOT EXISTS idx_exhibit_photos_order ON exhibit_photos(exhibit_id, is_primary, uploaded_at)",

		// History: newest first per exhibit
		"CREATE INDEX IF NOT EXISTS idx_exhibit_history_exhibit_changed ON exhibit_history(exhibit_id, changed_at DESC)",
	}

	if db.Dialector.Name() == "postgres" {
		indexes = append(indexes,
			// At most one primary photo per exhibit, enforced by the database too
			"CREATE UNIQUE INDEX IF NOT EXISTS idx_exhibit_photos_one_primary ON exhibit_photos(exhibit_id) WHERE is_primary",
			"CREATE INDEX IF NOT EXISTS idx_exhibits_search ON exhibits USING GIN(to_tsvector('simple', title || ' ' || description || ' ' || tags))",
		)
	}

	for _, index := range indexes {
		if err := db.Exec(index).Error; err != nil {
			// Continue with other indexes instead of failing completely
			logrus.WithError(err).WithField("index", index).Warn("Failed to create index")
		}
	}

	return nil
}

// WithTransaction runs fn inside a transaction, rolling back on error or panic.
func WithTransaction(db *gorm.DB, fn func(*gorm.DB) error) error {
	tx := db.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}
