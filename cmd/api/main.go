package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/api"
	"github.com/pageza/foodgram/backend/internal/database"
	"github.com/pageza/foodgram/backend/internal/export"
	"github.com/pageza/foodgram/backend/internal/logging"
	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/server"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/storage"
)

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

	// Redis backs token revocation and rate limiting; both are skipped
	// without it.
	redisClient, err := database.NewRedisClient(cfg)
	if err != nil {
		logging.Warn("redis unavailable, continuing without denylist and rate limiting", err)
		redisClient = nil
	}
	var denylist service.TokenDenylist
	if redisClient != nil {
		denylist = service.NewRedisDenylist(redisClient)
	}

	store, mediaDir, err := imageStore(cfg)
	if err != nil {
		logging.Error("failed to set up image storage", err)
		os.Exit(1)
	}

	authService := service.NewAuthService(db, cfg.JWTSecret, cfg.JWTTTL, denylist)
	recipeService := service.NewRecipeService(db, service.NewImageService(store), service.RecipeRules{
		MinAmount:      cfg.MinAmount,
		MinCookingTime: cfg.MinCookingTime,
	})

	srv := server.New(cfg, api.Dependencies{
		DB:            db,
		Redis:         redisClient,
		Auth:          authService,
		Users:         service.NewUserService(db),
		Catalog:       service.NewCatalogService(db),
		Recipes:       recipeService,
		Lists:         service.NewListService(db),
		Shopping:      service.NewShoppingListService(db),
		Exporter:      export.NewExporter(cfg.PDFFontPath),
		CreateLimiter: rateLimiter(redisClient, cfg.RecipeCreateLimit),
		PageSize:      cfg.PageSize,
		MediaDir:      mediaDir,
		MediaURL:      cfg.MediaURL,
	})

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			logging.Error("server error", err)
			os.Exit(1)
		}
	case sig := <-quit:
		logging.Info("received signal", map[string]interface{}{"signal": sig.String()})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logging.Error("server shutdown error", err)
	}
	if redisClient != nil {
		_ = redisClient.Close()
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	logging.Info("server stopped", nil)
}

// imageStore picks S3 when a bucket is configured and the local media
// directory otherwise. The returned directory is empty for S3.
func imageStore(cfg *config.Config) (storage.ImageStore, string, error) {
	if cfg.S3Bucket != "" {
		s3cfg, err := config.NewS3Config(context.Background(), cfg)
		if err != nil {
			return nil, "", err
		}
		return storage.NewS3Store(s3cfg), "", nil
	}
	local, err := storage.NewLocalStore(cfg.MediaDir, cfg.MediaURL)
	if err != nil {
		return nil, "", err
	}
	return local, local.Dir(), nil
}

func rateLimiter(client *redis.Client, limit int) *middleware.RateLimiter {
	if client == nil {
		return nil
	}
	return middleware.NewRecipeCreationRateLimiter(client, limit)
}
