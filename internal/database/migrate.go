package database

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pageza/foodgram/backend/internal/logging"
	"github.com/pageza/foodgram/backend/internal/models"
	"gorm.io/gorm"
)

// RunMigrations brings the schema up to date. SQLite databases are
// auto-migrated from the models; Postgres runs the ordered SQL files in
// migrationsDir, skipping rollback files and those already recorded.
func RunMigrations(db *gorm.DB, migrationsDir string) error {
	if db.Dialector.Name() == "sqlite" {
		logging.Debug("using GORM auto-migration for SQLite")
		return db.AutoMigrate(models.AllModels()...)
	}

	files, err := MigrationFiles(migrationsDir)
	if err != nil {
		return err
	}

	if err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			id SERIAL PRIMARY KEY,
			name VARCHAR(255) NOT NULL UNIQUE,
			applied_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`).Error; err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	for _, name := range files {
		var count int64
		if err := db.Table("schema_migrations").Where("name = ?", name).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check migration status: %w", err)
		}
		if count > 0 {
			continue
		}

		content, err := os.ReadFile(filepath.Join(migrationsDir, name))
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", name, err)
		}

		err = db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Exec(string(content)).Error; err != nil {
				return fmt.Errorf("failed to apply migration %s: %w", name, err)
			}
			return tx.Exec("INSERT INTO schema_migrations (name) VALUES (?)", name).Error
		})
		if err != nil {
			return err
		}

		logging.Info("applied migration", map[string]interface{}{"name": name})
	}

	return nil
}

// MigrationFiles lists forward migration files in apply order.
func MigrationFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var files []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || filepath.Ext(name) != ".sql" || strings.HasSuffix(name, "_rollback.sql") {
			continue
		}
		files = append(files, name)
	}
	sort.Strings(files)
	return files, nil
}

// RollbackFile returns the name of the file that undoes migration name.
func RollbackFile(name string) string {
	return strings.TrimSuffix(name, ".sql") + "_rollback.sql"
}
