package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
)

func TestListAddRemove(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	author := testhelpers.CreateUser(t, db, "author")
	reader := testhelpers.CreateUser(t, db, "reader")
	salt := testhelpers.CreateIngredient(t, db, "Salt", "g")
	recipe := testhelpers.CreateRecipe(t, db, author, "Soup", []testhelpers.Amount{{Ingredient: salt, Amount: 1}})
	lists := service.NewListService(db)
	ctx := context.Background()

	tests := []struct {
		list    service.RecipeList
		present string
		absent  string
	}{
		{service.FavoriteList, service.MsgAlreadyFavorited, service.MsgNotFavorited},
		{service.CartList, service.MsgAlreadyInCart, service.MsgNotInCart},
	}
	for _, tt := range tests {
		t.Run(string(tt.list), func(t *testing.T) {
			added, err := lists.Add(ctx, tt.list, reader.ID, recipe.ID)
			require.NoError(t, err)
			assert.Equal(t, recipe.ID, added.ID)
			assert.Equal(t, "Soup", added.Name)

			var conflict *service.ConflictError
			_, err = lists.Add(ctx, tt.list, reader.ID, recipe.ID)
			require.ErrorAs(t, err, &conflict)
			assert.Equal(t, tt.present, conflict.Message)
			assert.NotErrorIs(t, err, service.ErrNotFound)

			require.NoError(t, lists.Remove(ctx, tt.list, reader.ID, recipe.ID))

			err = lists.Remove(ctx, tt.list, reader.ID, recipe.ID)
			require.ErrorAs(t, err, &conflict)
			assert.Equal(t, tt.absent, conflict.Message)
			assert.ErrorIs(t, err, service.ErrNotFound)
		})
	}
}

func TestListUnknownRecipe(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	reader := testhelpers.CreateUser(t, db, "reader")
	lists := service.NewListService(db)
	ctx := context.Background()

	_, err := lists.Add(ctx, service.FavoriteList, reader.ID, 404)
	assert.ErrorIs(t, err, service.ErrNotFound)

	err = lists.Remove(ctx, service.CartList, reader.ID, 404)
	assert.ErrorIs(t, err, service.ErrNotFound)
	var conflict *service.ConflictError
	assert.False(t, errors.As(err, &conflict))
}
