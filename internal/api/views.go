package api

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/service"
)

type operation string

const (
	opUserCreate     operation = "user.create"
	opUserList       operation = "user.list"
	opUserRetrieve   operation = "user.retrieve"
	opUserMe         operation = "user.me"
	opSubscribe      operation = "user.subscribe"
	opSubscriptions  operation = "user.subscriptions"
	opRecipeList     operation = "recipe.list"
	opRecipeRetrieve operation = "recipe.retrieve"
	opRecipeWrite    operation = "recipe.write"
	opListAdd        operation = "recipe.list_add"
)

type role int

const (
	roleAnonymous role = iota
	roleAuthenticated
)

type view int

const (
	viewUserCreated view = iota
	viewUser
	viewSubscription
	viewRecipe
	viewRecipeShort
)

type viewKey struct {
	op   operation
	role role
}

// views selects the response shape of every operation per caller role.
// Anonymous callers never see viewer flags set.
var views = map[viewKey]view{
	{opUserCreate, roleAnonymous}:         viewUserCreated,
	{opUserCreate, roleAuthenticated}:     viewUserCreated,
	{opUserList, roleAnonymous}:           viewUser,
	{opUserList, roleAuthenticated}:       viewUser,
	{opUserRetrieve, roleAnonymous}:       viewUser,
	{opUserRetrieve, roleAuthenticated}:   viewUser,
	{opUserMe, roleAuthenticated}:         viewUser,
	{opSubscribe, roleAuthenticated}:      viewSubscription,
	{opSubscriptions, roleAuthenticated}:  viewSubscription,
	{opRecipeList, roleAnonymous}:         viewRecipe,
	{opRecipeList, roleAuthenticated}:     viewRecipe,
	{opRecipeRetrieve, roleAnonymous}:     viewRecipe,
	{opRecipeRetrieve, roleAuthenticated}: viewRecipe,
	{opRecipeWrite, roleAuthenticated}:    viewRecipe,
	{opListAdd, roleAuthenticated}:        viewRecipeShort,
}

// viewFor returns the shape for op and whether viewer flags are computed.
func viewFor(op operation, r role) (view, bool) {
	v, ok := views[viewKey{op, r}]
	if !ok {
		v = views[viewKey{op, roleAuthenticated}]
	}
	return v, r == roleAuthenticated
}

// UserCreatedView is returned by registration.
type UserCreatedView struct {
	Email     string `json:"email"`
	ID        uint   `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// UserView is the public profile of a user.
type UserView struct {
	Email        string `json:"email"`
	ID           uint   `json:"id"`
	Username     string `json:"username"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	IsSubscribed bool   `json:"is_subscribed"`
}

// ShortRecipeView is the compact recipe shape.
type ShortRecipeView struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	CookingTime int    `json:"cooking_time"`
}

// SubscriptionView is a followed author with their newest recipes.
type SubscriptionView struct {
	UserView
	Recipes      []ShortRecipeView `json:"recipes"`
	RecipesCount int64             `json:"recipes_count"`
}

type TagView struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
	Slug  string `json:"slug"`
}

type IngredientView struct {
	ID              uint   `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
}

type RecipeIngredientView struct {
	ID              uint   `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int    `json:"amount"`
}

// RecipeView is the full read shape of a recipe.
type RecipeView struct {
	ID               uint                   `json:"id"`
	Tags             []TagView              `json:"tags"`
	Author           UserView               `json:"author"`
	Ingredients      []RecipeIngredientView `json:"ingredients"`
	IsFavorited      bool                   `json:"is_favorited"`
	IsInShoppingCart bool                   `json:"is_in_shopping_cart"`
	Name             string                 `json:"name"`
	Image            string                 `json:"image"`
	Text             string                 `json:"text"`
	CookingTime      int                    `json:"cooking_time"`
}

func callerRole(c *gin.Context) (uint, role) {
	if id, ok := middleware.UserID(c); ok {
		return id, roleAuthenticated
	}
	return 0, roleAnonymous
}

func tagView(t models.Tag) TagView {
	return TagView{ID: t.ID, Name: t.Name, Color: t.Color, Slug: t.Slug}
}

func ingredientView(i models.Ingredient) IngredientView {
	return IngredientView{ID: i.ID, Name: i.Name, MeasurementUnit: i.MeasurementUnit}
}

func userCreatedView(u *models.User) UserCreatedView {
	return UserCreatedView{Email: u.Email, ID: u.ID, Username: u.Username, FirstName: u.FirstName, LastName: u.LastName}
}

func userView(u *models.User, subscribed bool) UserView {
	return UserView{
		Email:        u.Email,
		ID:           u.ID,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		IsSubscribed: subscribed,
	}
}

// presenter turns models into views for one request.
type presenter struct {
	c       *gin.Context
	users   service.IUserService
	recipes service.IRecipeService
	viewer  uint
	role    role
}

func newPresenter(c *gin.Context, users service.IUserService, recipes service.IRecipeService) *presenter {
	viewer, r := callerRole(c)
	return &presenter{c: c, users: users, recipes: recipes, viewer: viewer, role: r}
}

func (p *presenter) ctx() context.Context {
	return p.c.Request.Context()
}

func (p *presenter) subscribed(annotate bool, ids []uint) (map[uint]bool, error) {
	if !annotate {
		return map[uint]bool{}, nil
	}
	return p.users.SubscribedTo(p.ctx(), p.viewer, ids)
}

func (p *presenter) shortRecipe(r *models.Recipe) ShortRecipeView {
	return ShortRecipeView{ID: r.ID, Name: r.Name, Image: absoluteURL(p.c, r.Image), CookingTime: r.CookingTime}
}

// Users renders users in the shape op calls for.
func (p *presenter) Users(op operation, users []models.User) ([]UserView, error) {
	_, annotate := viewFor(op, p.role)
	ids := make([]uint, len(users))
	for i := range users {
		ids[i] = users[i].ID
	}
	subs, err := p.subscribed(annotate, ids)
	if err != nil {
		return nil, err
	}
	out := make([]UserView, len(users))
	for i := range users {
		out[i] = userView(&users[i], subs[users[i].ID])
	}
	return out, nil
}

// Subscriptions renders followed authors with up to limit recipes each.
func (p *presenter) Subscriptions(op operation, authors []models.User, limit *int) ([]SubscriptionView, error) {
	base, err := p.Users(op, authors)
	if err != nil {
		return nil, err
	}
	ids := make([]uint, len(authors))
	for i := range authors {
		ids[i] = authors[i].ID
	}
	byAuthor, err := p.users.RecipesByAuthors(p.ctx(), ids, limit)
	if err != nil {
		return nil, err
	}

	out := make([]SubscriptionView, len(authors))
	for i := range authors {
		sv := SubscriptionView{UserView: base[i], Recipes: []ShortRecipeView{}}
		if ar, ok := byAuthor[authors[i].ID]; ok {
			sv.RecipesCount = ar.Count
			for j := range ar.Recipes {
				sv.Recipes = append(sv.Recipes, p.shortRecipe(&ar.Recipes[j]))
			}
		}
		out[i] = sv
	}
	return out, nil
}

// Recipes renders recipes with tags, author and ingredients.
func (p *presenter) Recipes(op operation, recipes []models.Recipe) ([]RecipeView, error) {
	_, annotate := viewFor(op, p.role)
	ids := make([]uint, len(recipes))
	authorIDs := make([]uint, 0, len(recipes))
	for i := range recipes {
		ids[i] = recipes[i].ID
		authorIDs = append(authorIDs, recipes[i].AuthorID)
	}

	flags := &service.RecipeFlags{Favorited: map[uint]bool{}, InCart: map[uint]bool{}}
	if annotate {
		var err error
		if flags, err = p.recipes.Flags(p.ctx(), p.viewer, ids); err != nil {
			return nil, err
		}
	}
	subs, err := p.subscribed(annotate, authorIDs)
	if err != nil {
		return nil, err
	}

	out := make([]RecipeView, len(recipes))
	for i := range recipes {
		r := &recipes[i]
		rv := RecipeView{
			ID:               r.ID,
			Tags:             make([]TagView, 0, len(r.TagLists)),
			Ingredients:      make([]RecipeIngredientView, 0, len(r.Compositions)),
			IsFavorited:      flags.Favorited[r.ID],
			IsInShoppingCart: flags.InCart[r.ID],
			Name:             r.Name,
			Image:            absoluteURL(p.c, r.Image),
			Text:             r.Text,
			CookingTime:      r.CookingTime,
		}
		if r.Author != nil {
			rv.Author = userView(r.Author, subs[r.AuthorID])
		}
		for _, tl := range r.TagLists {
			if tl.Tag != nil {
				rv.Tags = append(rv.Tags, tagView(*tl.Tag))
			}
		}
		for _, comp := range r.Compositions {
			if comp.Ingredient == nil {
				continue
			}
			rv.Ingredients = append(rv.Ingredients, RecipeIngredientView{
				ID:              comp.Ingredient.ID,
				Name:            comp.Ingredient.Name,
				MeasurementUnit: comp.Ingredient.MeasurementUnit,
				Amount:          comp.Amount,
			})
		}
		out[i] = rv
	}
	return out, nil
}

// Recipe renders a single recipe in the shape op calls for.
func (p *presenter) Recipe(op operation, r *models.Recipe) (interface{}, error) {
	v, _ := viewFor(op, p.role)
	if v == viewRecipeShort {
		return p.shortRecipe(r), nil
	}
	out, err := p.Recipes(op, []models.Recipe{*r})
	if err != nil {
		return nil, err
	}
	return out[0], nil
}
