package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/database"
	"github.com/pageza/foodgram/backend/internal/export"
	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/service"
)

// Dependencies holds everything the HTTP layer is built from.
type Dependencies struct {
	DB            *gorm.DB
	Redis         *redis.Client
	Auth          service.IAuthService
	Users         service.IUserService
	Catalog       service.ICatalogService
	Recipes       service.IRecipeService
	Lists         service.IListService
	Shopping      service.IShoppingListService
	Exporter      *export.Exporter
	CreateLimiter *middleware.RateLimiter
	PageSize      int
	// MediaDir is served under MediaURL when images are stored locally.
	MediaDir string
	MediaURL string
}

// RegisterRoutes registers all API routes
func RegisterRoutes(router *gin.Engine, deps Dependencies) {
	router.GET("/health", healthCheck(deps.DB, deps.Redis))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	if deps.MediaDir != "" && deps.MediaURL != "" {
		router.Static(deps.MediaURL, deps.MediaDir)
	}

	v1 := router.Group("/api/v1")
	NewAuthHandler(deps.Auth).RegisterRoutes(v1)
	NewUserHandler(deps.Users, deps.Recipes, deps.Auth, deps.PageSize).RegisterRoutes(v1)
	NewCatalogHandler(deps.Catalog).RegisterRoutes(v1)
	NewRecipeHandler(RecipeHandlerDeps{
		Recipes:       deps.Recipes,
		Users:         deps.Users,
		Lists:         deps.Lists,
		Shopping:      deps.Shopping,
		Auth:          deps.Auth,
		Exporter:      deps.Exporter,
		CreateLimiter: deps.CreateLimiter,
		PageSize:      deps.PageSize,
	}).RegisterRoutes(v1)
}

// healthCheck reports whether the database, and Redis when configured, answer.
func healthCheck(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		checks := gin.H{"database": "ok"}
		status := http.StatusOK
		if db != nil {
			if err := database.HealthCheck(ctx, db); err != nil {
				checks["database"] = err.Error()
				status = http.StatusServiceUnavailable
			}
		}
		if rdb != nil {
			checks["redis"] = "ok"
			if err := rdb.Ping(ctx).Err(); err != nil {
				checks["redis"] = err.Error()
				status = http.StatusServiceUnavailable
			}
		}

		state := "healthy"
		if status != http.StatusOK {
			state = "unhealthy"
		}
		c.JSON(status, gin.H{"status": state, "checks": checks})
	}
}
