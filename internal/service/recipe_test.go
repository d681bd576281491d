package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
	"github.com/pageza/foodgram/backend/internal/types"
)

type recipeFixture struct {
	db     *gorm.DB
	svc    *service.RecipeService
	author *models.User
	other  *models.User
	salt   *models.Ingredient
	flour  *models.Ingredient
	lunch  *models.Tag
	dinner *models.Tag
}

func setupRecipes(t *testing.T) *recipeFixture {
	db := testhelpers.SetupTestDB(t)
	return &recipeFixture{
		db:     db,
		svc:    newRecipeService(t, db),
		author: testhelpers.CreateUser(t, db, "author"),
		other:  testhelpers.CreateUser(t, db, "other"),
		salt:   testhelpers.CreateIngredient(t, db, "Salt", "g"),
		flour:  testhelpers.CreateIngredient(t, db, "Flour", "g"),
		lunch:  testhelpers.CreateTag(t, db, "lunch"),
		dinner: testhelpers.CreateTag(t, db, "dinner"),
	}
}

func (f *recipeFixture) request() types.RecipeRequest {
	return types.RecipeRequest{
		Name:        "Bread",
		Text:        "Mix and bake.",
		CookingTime: 60,
		Image:       pngDataURI,
		Ingredients: []types.IngredientAmount{{ID: f.flour.ID, Amount: 500}, {ID: f.salt.ID, Amount: 5}},
		Tags:        []uint{f.lunch.ID},
	}
}

func (f *recipeFixture) count(t *testing.T, model interface{}) int64 {
	var n int64
	require.NoError(t, f.db.Model(model).Count(&n).Error)
	return n
}

func TestCreateRecipe(t *testing.T) {
	f := setupRecipes(t)

	recipe, err := f.svc.CreateRecipe(context.Background(), f.author.ID, f.request(), nil)
	require.NoError(t, err)

	assert.Equal(t, "Bread", recipe.Name)
	assert.Equal(t, f.author.ID, recipe.AuthorID)
	require.NotNil(t, recipe.Author)
	assert.Equal(t, "author", recipe.Author.Username)
	assert.Contains(t, recipe.Image, "/media/recipes/images/")
	assert.True(t, len(recipe.Image) > len("/media/recipes/images/"))
	require.Len(t, recipe.Compositions, 2)
	assert.Equal(t, "Flour", recipe.Compositions[0].Ingredient.Name)
	assert.Equal(t, 500, recipe.Compositions[0].Amount)
	require.Len(t, recipe.TagLists, 1)
	assert.Equal(t, "lunch", recipe.TagLists[0].Tag.Slug)
}

func TestCreateRecipeDuplicateIngredientsPersistsNothing(t *testing.T) {
	f := setupRecipes(t)
	req := f.request()
	req.Ingredients = []types.IngredientAmount{{ID: f.salt.ID, Amount: 1}, {ID: f.salt.ID, Amount: 2}}

	_, err := f.svc.CreateRecipe(context.Background(), f.author.ID, req, nil)
	assert.Contains(t, validationFields(t, err), "ingredients")

	assert.Zero(t, f.count(t, &models.Recipe{}))
	assert.Zero(t, f.count(t, &models.Composition{}))
}

func TestCreateRecipeValidation(t *testing.T) {
	f := setupRecipes(t)

	tests := []struct {
		name    string
		mutate  func(*types.RecipeRequest)
		field   string
		message string
	}{
		{"zero amount", func(r *types.RecipeRequest) {
			r.Ingredients = []types.IngredientAmount{{ID: f.salt.ID, Amount: 0}}
		}, "ingredients", "Количество ингредиента должно быть не меньше 1."},
		{"no ingredients", func(r *types.RecipeRequest) { r.Ingredients = nil }, "ingredients", ""},
		{"unknown ingredient", func(r *types.RecipeRequest) {
			r.Ingredients = []types.IngredientAmount{{ID: 4242, Amount: 1}}
		}, "ingredients", "Ингредиента с id 4242 не существует."},
		{"duplicate tags", func(r *types.RecipeRequest) { r.Tags = []uint{f.lunch.ID, f.lunch.ID} }, "tags", "Теги не должны повторяться."},
		{"unknown tag", func(r *types.RecipeRequest) { r.Tags = []uint{777} }, "tags", "Тега с id 777 не существует."},
		{"no tags", func(r *types.RecipeRequest) { r.Tags = nil }, "tags", ""},
		{"zero cooking time", func(r *types.RecipeRequest) { r.CookingTime = 0 }, "cooking_time", "Время приготовления должно быть не меньше 1."},
		{"negative cooking time", func(r *types.RecipeRequest) { r.CookingTime = -5 }, "cooking_time", "Время приготовления должно быть не меньше 1."},
		{"missing name", func(r *types.RecipeRequest) { r.Name = "" }, "name", ""},
		{"bad image", func(r *types.RecipeRequest) { r.Image = "data:image/png;base64,!!!" }, "image", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := f.request()
			tt.mutate(&req)
			_, err := f.svc.CreateRecipe(context.Background(), f.author.ID, req, nil)
			fields := validationFields(t, err)
			require.Contains(t, fields, tt.field)
			if tt.message != "" {
				assert.Contains(t, fields[tt.field], tt.message)
			}
		})
	}
	assert.Zero(t, f.count(t, &models.Recipe{}))
}

func TestCreateRecipeWithoutImage(t *testing.T) {
	f := setupRecipes(t)
	req := f.request()
	req.Image = ""

	recipe, err := f.svc.CreateRecipe(context.Background(), f.author.ID, req, nil)
	require.NoError(t, err)
	assert.Empty(t, recipe.Image)
}

func TestUpdateRecipeReplacesChildren(t *testing.T) {
	f := setupRecipes(t)
	ctx := context.Background()
	created, err := f.svc.CreateRecipe(ctx, f.author.ID, f.request(), nil)
	require.NoError(t, err)

	req := f.request()
	req.Name = "Salted bread"
	req.Image = ""
	req.Ingredients = []types.IngredientAmount{{ID: f.salt.ID, Amount: 10}}
	req.Tags = []uint{f.dinner.ID, f.lunch.ID}

	updated, err := f.svc.UpdateRecipe(ctx, f.author.ID, created.ID, req, nil)
	require.NoError(t, err)
	assert.Equal(t, "Salted bread", updated.Name)
	assert.Equal(t, created.Image, updated.Image, "image is kept when none is sent")
	require.Len(t, updated.Compositions, 1)
	assert.Equal(t, 10, updated.Compositions[0].Amount)
	assert.Len(t, updated.TagLists, 2)
	assert.EqualValues(t, 1, f.count(t, &models.Composition{}))
}

func TestUpdateRecipePermissions(t *testing.T) {
	f := setupRecipes(t)
	ctx := context.Background()
	created, err := f.svc.CreateRecipe(ctx, f.author.ID, f.request(), nil)
	require.NoError(t, err)

	_, err = f.svc.UpdateRecipe(ctx, f.other.ID, created.ID, f.request(), nil)
	assert.ErrorIs(t, err, service.ErrForbidden)

	_, err = f.svc.UpdateRecipe(ctx, f.author.ID, 9999, f.request(), nil)
	assert.ErrorIs(t, err, service.ErrNotFound)

	// Invalid payload from a non-owner is still a permission error.
	bad := f.request()
	bad.Ingredients = nil
	_, err = f.svc.UpdateRecipe(ctx, f.other.ID, created.ID, bad, nil)
	assert.ErrorIs(t, err, service.ErrForbidden)
}

func TestDeleteRecipeCascades(t *testing.T) {
	f := setupRecipes(t)
	ctx := context.Background()
	recipe, err := f.svc.CreateRecipe(ctx, f.author.ID, f.request(), nil)
	require.NoError(t, err)

	lists := service.NewListService(f.db)
	_, err = lists.Add(ctx, service.FavoriteList, f.other.ID, recipe.ID)
	require.NoError(t, err)
	_, err = lists.Add(ctx, service.CartList, f.other.ID, recipe.ID)
	require.NoError(t, err)

	assert.ErrorIs(t, f.svc.DeleteRecipe(ctx, f.other.ID, recipe.ID), service.ErrForbidden)
	require.NoError(t, f.svc.DeleteRecipe(ctx, f.author.ID, recipe.ID))

	for _, m := range []interface{}{&models.Recipe{}, &models.Composition{}, &models.TagList{}, &models.Favorite{}, &models.ShoppingCart{}} {
		assert.Zero(t, f.count(t, m), "%T rows left", m)
	}
	assert.ErrorIs(t, f.svc.DeleteRecipe(ctx, f.author.ID, recipe.ID), service.ErrNotFound)
}

func TestListRecipesFilters(t *testing.T) {
	f := setupRecipes(t)
	ctx := context.Background()
	one := testhelpers.Amount{Ingredient: f.salt, Amount: 1}
	r1 := testhelpers.CreateRecipe(t, f.db, f.author, "r1", []testhelpers.Amount{one}, f.lunch)
	r2 := testhelpers.CreateRecipe(t, f.db, f.other, "r2", []testhelpers.Amount{one}, f.dinner)
	r3 := testhelpers.CreateRecipe(t, f.db, f.author, "r3", []testhelpers.Amount{one}, f.lunch, f.dinner)

	lists := service.NewListService(f.db)
	_, err := lists.Add(ctx, service.FavoriteList, f.other.ID, r1.ID)
	require.NoError(t, err)
	_, err = lists.Add(ctx, service.CartList, f.other.ID, r2.ID)
	require.NoError(t, err)

	page := service.Page{Number: 1, Size: 10}
	names := func(filter service.RecipeFilter, viewer uint) []string {
		recipes, total, err := f.svc.ListRecipes(ctx, viewer, filter, page)
		require.NoError(t, err)
		assert.EqualValues(t, len(recipes), total)
		out := make([]string, len(recipes))
		for i, r := range recipes {
			out[i] = r.Name
		}
		return out
	}

	assert.Equal(t, []string{"r3", "r2", "r1"}, names(service.RecipeFilter{}, 0))
	assert.Equal(t, []string{"r3", "r1"}, names(service.RecipeFilter{AuthorID: f.author.ID}, 0))
	assert.Equal(t, []string{"r3", "r2"}, names(service.RecipeFilter{TagSlugs: []string{"dinner"}}, 0))
	assert.Equal(t, []string{"r3", "r2", "r1"}, names(service.RecipeFilter{TagSlugs: []string{"dinner", "lunch"}}, 0))
	assert.Equal(t, []string{"r1"}, names(service.RecipeFilter{Favorited: true}, f.other.ID))
	assert.Equal(t, []string{"r2"}, names(service.RecipeFilter{InCart: true}, f.other.ID))
	assert.Empty(t, names(service.RecipeFilter{Favorited: true}, 0))

	flags, err := f.svc.Flags(ctx, f.other.ID, []uint{r1.ID, r2.ID, r3.ID})
	require.NoError(t, err)
	assert.True(t, flags.Favorited[r1.ID])
	assert.False(t, flags.Favorited[r2.ID])
	assert.True(t, flags.InCart[r2.ID])

	anon, err := f.svc.Flags(ctx, 0, []uint{r1.ID})
	require.NoError(t, err)
	assert.Empty(t, anon.Favorited)
	assert.Empty(t, anon.InCart)
}

func TestListRecipesPaging(t *testing.T) {
	f := setupRecipes(t)
	one := testhelpers.Amount{Ingredient: f.salt, Amount: 1}
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		testhelpers.CreateRecipe(t, f.db, f.author, name, []testhelpers.Amount{one})
	}

	recipes, total, err := f.svc.ListRecipes(context.Background(), 0, service.RecipeFilter{}, service.Page{Number: 2, Size: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 5, total)
	require.Len(t, recipes, 2)
	assert.Equal(t, "c", recipes[0].Name)
	assert.Equal(t, "b", recipes[1].Name)
}
