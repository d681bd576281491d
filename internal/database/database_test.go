package database_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/database"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
)

func TestOpenSQLite(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	require.NoError(t, database.HealthCheck(context.Background(), db))

	for _, m := range models.AllModels() {
		assert.True(t, db.Migrator().HasTable(m), "%T table missing", m)
	}
}

func TestRecipeDeleteCascades(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	author := testhelpers.CreateUser(t, db, "author")
	reader := testhelpers.CreateUser(t, db, "reader")
	salt := testhelpers.CreateIngredient(t, db, "Salt", "g")
	tag := testhelpers.CreateTag(t, db, "lunch")
	recipe := testhelpers.CreateRecipe(t, db, author, "Soup", []testhelpers.Amount{{Ingredient: salt, Amount: 2}}, tag)

	require.NoError(t, db.Create(&models.Favorite{UserID: reader.ID, RecipeID: recipe.ID}).Error)
	require.NoError(t, db.Create(&models.ShoppingCart{UserID: reader.ID, RecipeID: recipe.ID}).Error)

	require.NoError(t, db.Delete(&models.Recipe{}, recipe.ID).Error)

	for _, m := range []interface{}{&models.Composition{}, &models.TagList{}, &models.Favorite{}, &models.ShoppingCart{}} {
		var count int64
		require.NoError(t, db.Model(m).Where("recipe_id = ?", recipe.ID).Count(&count).Error)
		assert.Zero(t, count, "%T rows left after delete", m)
	}
}

func TestMigrationFiles(t *testing.T) {
	files, err := database.MigrationFiles(testhelpers.MigrationsDir())
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for i, f := range files {
		assert.False(t, strings.HasSuffix(f, "_rollback.sql"))
		if i > 0 {
			assert.Less(t, files[i-1], f)
		}
		_, err := os.Stat(filepath.Join(testhelpers.MigrationsDir(), database.RollbackFile(f)))
		assert.NoError(t, err, "missing rollback for %s", f)
	}
}

func TestRollbackFile(t *testing.T) {
	assert.Equal(t, "000001_create_users_rollback.sql", database.RollbackFile("000001_create_users.sql"))
}

func TestNewRedisClientNotConfigured(t *testing.T) {
	client, err := database.NewRedisClient(&config.Config{})
	assert.NoError(t, err)
	assert.Nil(t, client)
}
