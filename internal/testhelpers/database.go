// Package testhelpers provides databases and fixtures for tests.
package testhelpers

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	_ "github.com/lib/pq"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/database"
)

// SetupTestDB opens a file-backed SQLite database in a temp dir with the
// schema auto-migrated and foreign keys enforced.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	cfg := &config.Config{
		DBDriver: "sqlite",
		DBPath:   filepath.Join(t.TempDir(), "test.db"),
	}
	db, err := database.Open(cfg)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := database.RunMigrations(db, ""); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// MigrationsDir returns the absolute path of the SQL migrations.
func MigrationsDir() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "..", "migrations")
}

// SetupPostgresDB starts a PostgreSQL container and applies the SQL
// migrations to it. The test is skipped when docker is unavailable.
func SetupPostgresDB(t *testing.T) *gorm.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container-based test in short mode")
	}
	if _, err := exec.LookPath("docker"); err != nil {
		t.Skip("docker not installed, skipping container-based test")
	}

	const (
		user     = "foodgram"
		password = "foodgram"
		name     = "foodgram_test"
	)

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     user,
				"POSTGRES_PASSWORD": password,
				"POSTGRES_DB":       name,
			},
			WaitingFor: wait.ForAll(
				wait.ForListeningPort("5432/tcp"),
				wait.ForSQL("5432/tcp", "postgres", func(host string, port nat.Port) string {
					return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
						user, password, host, port.Port(), name)
				}),
			).WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Skipf("failed to start postgres container: %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := container.Terminate(ctx); err != nil {
			t.Errorf("failed to terminate container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("failed to get container host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("failed to get container port: %v", err)
	}

	cfg := &config.Config{
		DBDriver:   "postgres",
		DBHost:     host,
		DBPort:     port.Port(),
		DBUser:     user,
		DBPassword: password,
		DBName:     name,
		DBSSLMode:  "disable",
	}
	db, err := database.Open(cfg)
	if err != nil {
		t.Fatalf("failed to connect to database: %v", err)
	}
	if err := database.RunMigrations(db, MigrationsDir()); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}
