package service

import (
	"context"

	"github.com/pageza/foodgram/backend/internal/metrics"
	"github.com/pageza/foodgram/backend/internal/models"
	"gorm.io/gorm"
)

// RecipeList names a per-user recipe list.
type RecipeList string

const (
	FavoriteList RecipeList = "favorite"
	CartList     RecipeList = "shopping_cart"
)

func (l RecipeList) model() interface{} {
	if l == CartList {
		return &models.ShoppingCart{}
	}
	return &models.Favorite{}
}

func (l RecipeList) row(userID, recipeID uint) interface{} {
	if l == CartList {
		return &models.ShoppingCart{UserID: userID, RecipeID: recipeID}
	}
	return &models.Favorite{UserID: userID, RecipeID: recipeID}
}

func (l RecipeList) presentMsg() string {
	if l == CartList {
		return MsgAlreadyInCart
	}
	return MsgAlreadyFavorited
}

func (l RecipeList) absentMsg() string {
	if l == CartList {
		return MsgNotInCart
	}
	return MsgNotFavorited
}

// ListService adds recipes to and removes them from favorites and the
// shopping cart.
type ListService struct {
	db *gorm.DB
}

func NewListService(db *gorm.DB) *ListService {
	return &ListService{db: db}
}

// Add puts recipeID on the user's list and returns the recipe.
func (s *ListService) Add(ctx context.Context, list RecipeList, userID, recipeID uint) (recipe *models.Recipe, err error) {
	defer func() { metrics.RecordToggle(string(list), "add", err) }()

	db := s.db.WithContext(ctx)
	recipe = &models.Recipe{}
	if err := db.First(recipe, recipeID).Error; err != nil {
		return nil, notFound(err)
	}

	var count int64
	if err := db.Model(list.model()).Where("user_id = ? AND recipe_id = ?", userID, recipeID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, &ConflictError{Message: list.presentMsg()}
	}

	if err := db.Create(list.row(userID, recipeID)).Error; err != nil {
		if isDuplicateKey(err) {
			return nil, &ConflictError{Message: list.presentMsg()}
		}
		return nil, err
	}
	return recipe, nil
}

// Remove takes recipeID off the user's list.
func (s *ListService) Remove(ctx context.Context, list RecipeList, userID, recipeID uint) (err error) {
	defer func() { metrics.RecordToggle(string(list), "remove", err) }()

	db := s.db.WithContext(ctx)
	var count int64
	if err := db.Model(&models.Recipe{}).Where("id = ?", recipeID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrNotFound
	}

	res := db.Where("user_id = ? AND recipe_id = ?", userID, recipeID).Delete(list.model())
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return &ConflictError{Message: list.absentMsg(), Missing: true}
	}
	return nil
}
