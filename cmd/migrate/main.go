// Command migrate applies or rolls back the SQL migrations against Postgres.
package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/lib/pq"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/database"
	"github.com/pageza/foodgram/backend/internal/logging"
)

func main() {
	rollback := flag.Bool("rollback", false, "Rollback the last migration")
	dir := flag.String("dir", "migrations", "Directory holding the migration files")
	flag.Parse()

	logging.Init(logging.Config{Format: "console"})

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		cfg, err := config.LoadConfig()
		if err != nil {
			logging.Error("failed to load configuration", err)
			os.Exit(1)
		}
		dsn = cfg.DSN()
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		logging.Error("failed to connect to database", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := ensureTable(db); err != nil {
		logging.Error("failed to create migrations table", err)
		os.Exit(1)
	}

	if *rollback {
		err = rollbackLast(db, *dir)
	} else {
		err = applyAll(db, *dir)
	}
	if err != nil {
		logging.Error("migration failed", err)
		os.Exit(1)
	}
}

func ensureTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			id SERIAL PRIMARY KEY,
			name VARCHAR(255) NOT NULL UNIQUE,
			applied_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`)
	return err
}

func applyAll(db *sql.DB, dir string) error {
	files, err := database.MigrationFiles(dir)
	if err != nil {
		return err
	}

	for _, file := range files {
		var applied bool
		if err := db.QueryRow("SELECT EXISTS (SELECT 1 FROM schema_migrations WHERE name = $1)", file).Scan(&applied); err != nil {
			return fmt.Errorf("failed to check migration status: %w", err)
		}
		if applied {
			logging.Debug("migration already applied: " + file)
			continue
		}

		content, err := os.ReadFile(filepath.Join(dir, file))
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", file, err)
		}
		if err := inTx(db, string(content), "INSERT INTO schema_migrations (name) VALUES ($1)", file); err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", file, err)
		}
		logging.Info("applied migration", map[string]interface{}{"name": file})
	}
	return nil
}

func rollbackLast(db *sql.DB, dir string) error {
	var name string
	err := db.QueryRow("SELECT name FROM schema_migrations ORDER BY id DESC LIMIT 1").Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return errors.New("no migrations to rollback")
	}
	if err != nil {
		return fmt.Errorf("failed to get last migration: %w", err)
	}

	path := filepath.Join(dir, database.RollbackFile(name))
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read rollback file: %w", err)
	}
	if err := inTx(db, string(content), "DELETE FROM schema_migrations WHERE name = $1", name); err != nil {
		return fmt.Errorf("failed to roll back %s: %w", name, err)
	}
	logging.Info("rolled back migration", map[string]interface{}{"name": name})
	return nil
}

// inTx runs script and then the bookkeeping statement in one transaction.
func inTx(db *sql.DB, script, record, name string) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	if _, err := tx.Exec(script); err != nil {
		_ = tx.Rollback()
		return err
	}
	if _, err := tx.Exec(record, name); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
