package testhelpers

import (
	"fmt"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/models"
)

// TestPassword is the password of every user CreateUser makes.
const TestPassword = "s3cret-pass"

// CreateUser inserts a user named username with TestPassword.
func CreateUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		FirstName:    "First " + username,
		LastName:     "Last " + username,
		PasswordHash: string(hash),
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return user
}

// CreateIngredient inserts a catalog ingredient.
func CreateIngredient(t *testing.T, db *gorm.DB, name, unit string) *models.Ingredient {
	t.Helper()
	ing := &models.Ingredient{Name: name, MeasurementUnit: unit}
	if err := db.Create(ing).Error; err != nil {
		t.Fatalf("failed to create ingredient: %v", err)
	}
	return ing
}

// CreateTag inserts a tag with the given slug.
func CreateTag(t *testing.T, db *gorm.DB, slug string) *models.Tag {
	t.Helper()
	tag := &models.Tag{Name: "Tag " + slug, Color: "#E26C2D", Slug: slug}
	if err := db.Create(tag).Error; err != nil {
		t.Fatalf("failed to create tag: %v", err)
	}
	return tag
}

// Amount pairs an ingredient with its amount for CreateRecipe.
type Amount struct {
	Ingredient *models.Ingredient
	Amount     int
}

// CreateRecipe inserts a recipe by author with the given ingredients and tags.
// Recipes created later get later publication dates.
func CreateRecipe(t *testing.T, db *gorm.DB, author *models.User, name string, items []Amount, tags ...*models.Tag) *models.Recipe {
	t.Helper()
	var last models.Recipe
	pub := time.Now().UTC()
	if err := db.Order("pub_date DESC").Limit(1).Find(&last).Error; err == nil && last.ID != 0 && !pub.After(last.PubDate) {
		pub = last.PubDate.Add(time.Second)
	}

	recipe := &models.Recipe{
		Name:        name,
		Text:        fmt.Sprintf("How to cook %s", name),
		Image:       "/media/recipes/images/" + name + ".png",
		CookingTime: 10,
		PubDate:     pub,
		AuthorID:    author.ID,
	}
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(recipe).Error; err != nil {
			return err
		}
		for _, item := range items {
			if err := tx.Create(&models.Composition{RecipeID: recipe.ID, IngredientID: item.Ingredient.ID, Amount: item.Amount}).Error; err != nil {
				return err
			}
		}
		for _, tag := range tags {
			if err := tx.Create(&models.TagList{RecipeID: recipe.ID, TagID: tag.ID}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("failed to create recipe: %v", err)
	}
	return recipe
}
