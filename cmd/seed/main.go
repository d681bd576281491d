// Command seed creates the default tags and, in development, a few demo
// accounts.
package main

import (
	"context"
	"errors"
	"os"

	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/database"
	"github.com/pageza/foodgram/backend/internal/logging"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/types"
)

const demoPassword = "testpassword123"

var defaultTags = []models.Tag{
	{Name: "Завтрак", Color: "#E26C2D", Slug: "breakfast"},
	{Name: "Обед", Color: "#49B64E", Slug: "lunch"},
	{Name: "Ужин", Color: "#8775D2", Slug: "dinner"},
}

var demoUsers = []types.RegisterRequest{
	{Email: "john.doe@example.com", Username: "johndoe", FirstName: "John", LastName: "Doe"},
	{Email: "jane.smith@example.com", Username: "janesmith", FirstName: "Jane", LastName: "Smith"},
	{Email: "ivan.petrov@example.com", Username: "ivanpetrov", FirstName: "Иван", LastName: "Петров"},
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logging.Error("failed to load configuration", err)
		os.Exit(1)
	}
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	db, err := database.Open(cfg)
	if err != nil {
		logging.Error("failed to connect to database", err)
		os.Exit(1)
	}
	if err := database.RunMigrations(db, cfg.MigrationsDir); err != nil {
		logging.Error("failed to run migrations", err)
		os.Exit(1)
	}

	ctx := context.Background()
	if err := seedTags(ctx, db); err != nil {
		logging.Error("failed to seed tags", err)
		os.Exit(1)
	}
	if !config.IsDevelopment() {
		logging.Info("seed complete", map[string]interface{}{"tags": len(defaultTags), "users": 0})
		return
	}
	if err := seedUsers(ctx, service.NewUserService(db)); err != nil {
		logging.Error("failed to seed users", err)
		os.Exit(1)
	}
	logging.Info("seed complete", map[string]interface{}{"tags": len(defaultTags), "users": len(demoUsers)})
}

func seedTags(ctx context.Context, db *gorm.DB) error {
	for _, tag := range defaultTags {
		tag := tag
		if err := db.WithContext(ctx).Where(models.Tag{Slug: tag.Slug}).FirstOrCreate(&tag).Error; err != nil {
			return err
		}
	}
	return nil
}

// seedUsers registers the demo accounts. Accounts that already exist are
// reported as validation errors and skipped.
func seedUsers(ctx context.Context, users *service.UserService) error {
	for _, req := range demoUsers {
		req.Password = demoPassword
		user, err := users.Register(ctx, req)
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			logging.Info("skipping demo user", map[string]interface{}{"username": req.Username, "reason": verr.Error()})
			continue
		}
		if err != nil {
			return err
		}
		logging.Info("created demo user", map[string]interface{}{"id": user.ID, "email": user.Email})
	}
	return nil
}
