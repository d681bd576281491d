package testhelpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodgram/backend/internal/models"
)

func TestDatabaseSetup(t *testing.T) {
	db := SetupTestDB(t)

	author := CreateUser(t, db, "author")
	salt := CreateIngredient(t, db, "Salt", "g")
	tag := CreateTag(t, db, "breakfast")
	recipe := CreateRecipe(t, db, author, "Omelette", []Amount{{salt, 3}}, tag)
	require.NotZero(t, recipe.ID)

	require.NoError(t, db.Create(&models.Favorite{UserID: author.ID, RecipeID: recipe.ID}).Error)

	err := db.Create(&models.Favorite{UserID: author.ID, RecipeID: recipe.ID}).Error
	assert.Error(t, err, "duplicate favorite must violate the unique index")
}

func TestForeignKeysEnforced(t *testing.T) {
	db := SetupTestDB(t)

	err := db.Create(&models.Composition{RecipeID: 999, IngredientID: 999, Amount: 1}).Error
	assert.Error(t, err)
}

func TestPostgresMigrations(t *testing.T) {
	db := SetupPostgresDB(t)

	author := CreateUser(t, db, "pgauthor")
	salt := CreateIngredient(t, db, "Salt", "g")
	recipe := CreateRecipe(t, db, author, "Soup", []Amount{{salt, 5}})

	require.NoError(t, db.Delete(&models.Recipe{}, recipe.ID).Error)

	var count int64
	require.NoError(t, db.Model(&models.Composition{}).Where("recipe_id = ?", recipe.ID).Count(&count).Error)
	assert.Zero(t, count)

	err := db.Create(&models.Follow{UserID: author.ID, AuthorID: author.ID}).Error
	assert.Error(t, err, "self-follow must violate the check constraint")
}
