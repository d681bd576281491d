package service

import (
	"context"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/types"
)

// IAuthService defines the interface for token operations
type IAuthService interface {
	Login(ctx context.Context, req types.LoginRequest) (string, error)
	ValidateToken(ctx context.Context, token string) (*types.TokenClaims, error)
	Logout(ctx context.Context, claims *types.TokenClaims) error
}

// IUserService defines the interface for accounts and subscriptions
type IUserService interface {
	Register(ctx context.Context, req types.RegisterRequest) (*models.User, error)
	GetUser(ctx context.Context, id uint) (*models.User, error)
	ListUsers(ctx context.Context, search string, page Page) ([]models.User, int64, error)
	SetPassword(ctx context.Context, userID uint, req types.SetPasswordRequest) error
	SubscribedTo(ctx context.Context, viewerID uint, authorIDs []uint) (map[uint]bool, error)
	Subscribe(ctx context.Context, userID, authorID uint) (*models.User, error)
	Unsubscribe(ctx context.Context, userID, authorID uint) error
	Subscriptions(ctx context.Context, userID uint, page Page) ([]models.User, int64, error)
	RecipesByAuthors(ctx context.Context, authorIDs []uint, limit *int) (map[uint]*AuthorRecipes, error)
}

// ICatalogService defines the interface for ingredient and tag lookups
type ICatalogService interface {
	ListIngredients(ctx context.Context, search string) ([]models.Ingredient, error)
	GetIngredient(ctx context.Context, id uint) (*models.Ingredient, error)
	ListTags(ctx context.Context) ([]models.Tag, error)
	GetTag(ctx context.Context, id uint) (*models.Tag, error)
}

// IRecipeService defines the interface for recipe operations
type IRecipeService interface {
	GetRecipe(ctx context.Context, id uint) (*models.Recipe, error)
	ListRecipes(ctx context.Context, viewerID uint, filter RecipeFilter, page Page) ([]models.Recipe, int64, error)
	Flags(ctx context.Context, viewerID uint, recipeIDs []uint) (*RecipeFlags, error)
	CreateRecipe(ctx context.Context, authorID uint, req types.RecipeRequest, upload []byte) (*models.Recipe, error)
	UpdateRecipe(ctx context.Context, userID, recipeID uint, req types.RecipeRequest, upload []byte) (*models.Recipe, error)
	DeleteRecipe(ctx context.Context, userID, recipeID uint) error
}

// IListService defines the interface for favorites and shopping carts
type IListService interface {
	Add(ctx context.Context, list RecipeList, userID, recipeID uint) (*models.Recipe, error)
	Remove(ctx context.Context, list RecipeList, userID, recipeID uint) error
}

// IShoppingListService defines the interface for shopping list aggregation
type IShoppingListService interface {
	Aggregate(ctx context.Context, userID uint) ([]ShoppingItem, error)
}

var (
	_ IAuthService         = (*AuthService)(nil)
	_ IUserService         = (*UserService)(nil)
	_ ICatalogService      = (*CatalogService)(nil)
	_ IRecipeService       = (*RecipeService)(nil)
	_ IListService         = (*ListService)(nil)
	_ IShoppingListService = (*ShoppingListService)(nil)
)
