package types

// RegisterRequest is the body of POST /users/.
type RegisterRequest struct {
	Email     string `json:"email"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Password  string `json:"password"`
}

// LoginRequest is the body of POST /auth/token/login/.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SetPasswordRequest is the body of POST /users/set_password/.
type SetPasswordRequest struct {
	NewPassword     string `json:"new_password"`
	CurrentPassword string `json:"current_password"`
}

// IngredientAmount is one ingredient line of a recipe payload.
type IngredientAmount struct {
	ID     uint `json:"id"`
	Amount int  `json:"amount"`
}

// RecipeRequest is the body of recipe create and update. Image is a data URI
// (data:image/<ext>;base64,...) and may be empty on update.
type RecipeRequest struct {
	Ingredients []IngredientAmount `json:"ingredients"`
	Tags        []uint             `json:"tags"`
	Image       string             `json:"image"`
	Name        string             `json:"name"`
	Text        string             `json:"text"`
	CookingTime int                `json:"cooking_time"`
}

// PageQuery holds pagination query parameters.
type PageQuery struct {
	Page  int `form:"page" binding:"omitempty,min=1"`
	Limit int `form:"limit" binding:"omitempty,min=1,max=100"`
}

// UserListQuery holds the query parameters of GET /users/.
type UserListQuery struct {
	PageQuery
	Search string `form:"search" binding:"max=150"`
}

// SubscriptionQuery holds the query parameters of the subscription endpoints.
type SubscriptionQuery struct {
	PageQuery
	RecipesLimit *int `form:"recipes_limit" binding:"omitempty,min=0"`
}

// RecipeListQuery holds the query parameters of GET /recipes/.
type RecipeListQuery struct {
	PageQuery
	Author           uint     `form:"author"`
	Tags             []string `form:"tags"`
	IsFavorited      *int     `form:"is_favorited" binding:"omitempty,oneof=0 1"`
	IsInShoppingCart *int     `form:"is_in_shopping_cart" binding:"omitempty,oneof=0 1"`
}

// IngredientQuery holds the query parameters of GET /ingredients/.
type IngredientQuery struct {
	Search string `form:"search"`
	Name   string `form:"name"`
}
