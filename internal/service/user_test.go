package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
	"github.com/pageza/foodgram/backend/internal/types"
)

func validRegistration() types.RegisterRequest {
	return types.RegisterRequest{
		Email:     "vasya@example.com",
		Username:  "vasya.pupkin",
		FirstName: "Вася",
		LastName:  "Пупкин",
		Password:  "Qwerty123",
	}
}

func TestRegister(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	users := service.NewUserService(db)
	ctx := context.Background()

	user, err := users.Register(ctx, validRegistration())
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.NotEqual(t, "Qwerty123", user.PasswordHash)

	_, err = users.Register(ctx, validRegistration())
	fields := validationFields(t, err)
	assert.Contains(t, fields, "username")
	assert.Contains(t, fields, "email")
}

func TestRegisterValidation(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	users := service.NewUserService(db)

	tests := []struct {
		name   string
		mutate func(*types.RegisterRequest)
		field  string
	}{
		{"missing email", func(r *types.RegisterRequest) { r.Email = "" }, "email"},
		{"bad email", func(r *types.RegisterRequest) { r.Email = "not-an-email" }, "email"},
		{"bad username", func(r *types.RegisterRequest) { r.Username = "with space" }, "username"},
		{"missing first name", func(r *types.RegisterRequest) { r.FirstName = "" }, "first_name"},
		{"short password", func(r *types.RegisterRequest) { r.Password = "short" }, "password"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRegistration()
			tt.mutate(&req)
			_, err := users.Register(context.Background(), req)
			assert.Contains(t, validationFields(t, err), tt.field)
		})
	}
}

func TestSetPassword(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	user := testhelpers.CreateUser(t, db, "cook")
	users := service.NewUserService(db)
	ctx := context.Background()

	err := users.SetPassword(ctx, user.ID, types.SetPasswordRequest{CurrentPassword: "wrong", NewPassword: "new-password-1"})
	assert.Contains(t, validationFields(t, err), "current_password")

	err = users.SetPassword(ctx, user.ID, types.SetPasswordRequest{CurrentPassword: testhelpers.TestPassword, NewPassword: "new-password-1"})
	require.NoError(t, err)

	auth := service.NewAuthService(db, "secret", 0, nil)
	_, err = auth.Login(ctx, types.LoginRequest{Email: user.Email, Password: "new-password-1"})
	assert.NoError(t, err)
}

func TestListUsersSearchAndPaging(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	for _, name := range []string{"alice", "bob", "alina", "carol"} {
		testhelpers.CreateUser(t, db, name)
	}
	users := service.NewUserService(db)
	ctx := context.Background()

	page, total, err := users.ListUsers(ctx, "", service.Page{Number: 2, Size: 3})
	require.NoError(t, err)
	assert.EqualValues(t, 4, total)
	require.Len(t, page, 1)
	assert.Equal(t, "carol", page[0].Username)

	found, total, err := users.ListUsers(ctx, "ALI", service.Page{Number: 1, Size: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, found, 2)
}

func TestFollowRules(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	a := testhelpers.CreateUser(t, db, "a")
	b := testhelpers.CreateUser(t, db, "b")
	c := testhelpers.CreateUser(t, db, "c")
	users := service.NewUserService(db)
	ctx := context.Background()

	author, err := users.Subscribe(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, b.ID, author.ID)

	var conflict *service.ConflictError
	_, err = users.Subscribe(ctx, a.ID, b.ID)
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, service.MsgSubscribeFailed, conflict.Message)

	_, err = users.Subscribe(ctx, a.ID, a.ID)
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, service.MsgSubscribeFailed, conflict.Message)

	_, err = users.Subscribe(ctx, a.ID, 9999)
	assert.ErrorIs(t, err, service.ErrNotFound)

	err = users.Unsubscribe(ctx, a.ID, c.ID)
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, service.MsgUnsubscribeFailed, conflict.Message)
	assert.ErrorIs(t, err, service.ErrNotFound)

	subs, err := users.SubscribedTo(ctx, a.ID, []uint{b.ID, c.ID})
	require.NoError(t, err)
	assert.True(t, subs[b.ID])
	assert.False(t, subs[c.ID])

	require.NoError(t, users.Unsubscribe(ctx, a.ID, b.ID))
	err = users.Unsubscribe(ctx, a.ID, b.ID)
	assert.ErrorAs(t, err, &conflict)
}

func TestSubscriptionsWithRecipes(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	reader := testhelpers.CreateUser(t, db, "reader")
	author := testhelpers.CreateUser(t, db, "author")
	quiet := testhelpers.CreateUser(t, db, "quiet")
	salt := testhelpers.CreateIngredient(t, db, "Salt", "g")
	for _, name := range []string{"first", "second", "third"} {
		testhelpers.CreateRecipe(t, db, author, name, []testhelpers.Amount{{Ingredient: salt, Amount: 1}})
	}
	users := service.NewUserService(db)
	ctx := context.Background()

	_, err := users.Subscribe(ctx, reader.ID, author.ID)
	require.NoError(t, err)
	_, err = users.Subscribe(ctx, reader.ID, quiet.ID)
	require.NoError(t, err)

	subs, total, err := users.Subscriptions(ctx, reader.ID, service.Page{Number: 1, Size: 6})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, subs, 2)
	assert.Equal(t, author.ID, subs[0].ID)
	assert.Equal(t, "author", subs[0].Username)

	limit := 2
	byAuthor, err := users.RecipesByAuthors(ctx, []uint{author.ID, quiet.ID}, &limit)
	require.NoError(t, err)
	assert.EqualValues(t, 3, byAuthor[author.ID].Count)
	require.Len(t, byAuthor[author.ID].Recipes, 2)
	assert.Equal(t, "third", byAuthor[author.ID].Recipes[0].Name)
	assert.EqualValues(t, 0, byAuthor[quiet.ID].Count)

	all, err := users.RecipesByAuthors(ctx, []uint{author.ID}, nil)
	require.NoError(t, err)
	assert.Len(t, all[author.ID].Recipes, 3)
}
