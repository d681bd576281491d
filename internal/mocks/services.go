// Package mocks holds testify mocks of the service interfaces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/types"
)

// MockAuthService is a mock implementation of service.IAuthService
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Login(ctx context.Context, req types.LoginRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func (m *MockAuthService) ValidateToken(ctx context.Context, token string) (*types.TokenClaims, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.TokenClaims), args.Error(1)
}

func (m *MockAuthService) Logout(ctx context.Context, claims *types.TokenClaims) error {
	args := m.Called(ctx, claims)
	return args.Error(0)
}

// MockUserService is a mock implementation of service.IUserService
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Register(ctx context.Context, req types.RegisterRequest) (*models.User, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) ListUsers(ctx context.Context, search string, page service.Page) ([]models.User, int64, error) {
	args := m.Called(ctx, search, page)
	return args.Get(0).([]models.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserService) SetPassword(ctx context.Context, userID uint, req types.SetPasswordRequest) error {
	args := m.Called(ctx, userID, req)
	return args.Error(0)
}

func (m *MockUserService) SubscribedTo(ctx context.Context, viewerID uint, authorIDs []uint) (map[uint]bool, error) {
	args := m.Called(ctx, viewerID, authorIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uint]bool), args.Error(1)
}

func (m *MockUserService) Subscribe(ctx context.Context, userID, authorID uint) (*models.User, error) {
	args := m.Called(ctx, userID, authorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) Unsubscribe(ctx context.Context, userID, authorID uint) error {
	args := m.Called(ctx, userID, authorID)
	return args.Error(0)
}

func (m *MockUserService) Subscriptions(ctx context.Context, userID uint, page service.Page) ([]models.User, int64, error) {
	args := m.Called(ctx, userID, page)
	return args.Get(0).([]models.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserService) RecipesByAuthors(ctx context.Context, authorIDs []uint, limit *int) (map[uint]*service.AuthorRecipes, error) {
	args := m.Called(ctx, authorIDs, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uint]*service.AuthorRecipes), args.Error(1)
}

// MockRecipeService is a mock implementation of service.IRecipeService
type MockRecipeService struct {
	mock.Mock
}

func (m *MockRecipeService) GetRecipe(ctx context.Context, id uint) (*models.Recipe, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Recipe), args.Error(1)
}

func (m *MockRecipeService) ListRecipes(ctx context.Context, viewerID uint, filter service.RecipeFilter, page service.Page) ([]models.Recipe, int64, error) {
	args := m.Called(ctx, viewerID, filter, page)
	return args.Get(0).([]models.Recipe), args.Get(1).(int64), args.Error(2)
}

func (m *MockRecipeService) Flags(ctx context.Context, viewerID uint, recipeIDs []uint) (*service.RecipeFlags, error) {
	args := m.Called(ctx, viewerID, recipeIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.RecipeFlags), args.Error(1)
}

func (m *MockRecipeService) CreateRecipe(ctx context.Context, authorID uint, req types.RecipeRequest, upload []byte) (*models.Recipe, error) {
	args := m.Called(ctx, authorID, req, upload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Recipe), args.Error(1)
}

func (m *MockRecipeService) UpdateRecipe(ctx context.Context, userID, recipeID uint, req types.RecipeRequest, upload []byte) (*models.Recipe, error) {
	args := m.Called(ctx, userID, recipeID, req, upload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Recipe), args.Error(1)
}

func (m *MockRecipeService) DeleteRecipe(ctx context.Context, userID, recipeID uint) error {
	args := m.Called(ctx, userID, recipeID)
	return args.Error(0)
}

// MockListService is a mock implementation of service.IListService
type MockListService struct {
	mock.Mock
}

func (m *MockListService) Add(ctx context.Context, list service.RecipeList, userID, recipeID uint) (*models.Recipe, error) {
	args := m.Called(ctx, list, userID, recipeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Recipe), args.Error(1)
}

func (m *MockListService) Remove(ctx context.Context, list service.RecipeList, userID, recipeID uint) error {
	args := m.Called(ctx, list, userID, recipeID)
	return args.Error(0)
}

var (
	_ service.IAuthService   = (*MockAuthService)(nil)
	_ service.IUserService   = (*MockUserService)(nil)
	_ service.IRecipeService = (*MockRecipeService)(nil)
	_ service.IListService   = (*MockListService)(nil)
)
