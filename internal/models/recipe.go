package models

import (
	"time"
)

// Recipe is owned by its author. Child rows (compositions, tag links,
// favorites and cart entries) are removed by the database when it is deleted.
type Recipe struct {
	ID           uint          `gorm:"primarykey" json:"id"`
	Name         string        `gorm:"size:200;not null" json:"name"`
	Text         string        `gorm:"type:text;not null" json:"text"`
	Image        string        `gorm:"size:255" json:"image"`
	CookingTime  int           `gorm:"not null" json:"cooking_time"`
	PubDate      time.Time     `gorm:"not null;index" json:"pub_date"`
	AuthorID     uint          `gorm:"not null;index" json:"author_id"`
	Author       *User         `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Compositions []Composition `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"-"`
	TagLists     []TagList     `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"-"`
}

// Composition is an ingredient line of a recipe with its amount.
type Composition struct {
	ID           uint        `gorm:"primarykey" json:"id"`
	RecipeID     uint        `gorm:"not null;uniqueIndex:idx_composition_recipe_ingredient" json:"recipe_id"`
	IngredientID uint        `gorm:"not null;uniqueIndex:idx_composition_recipe_ingredient;index" json:"ingredient_id"`
	Ingredient   *Ingredient `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Amount       int         `gorm:"not null" json:"amount"`
}

// TagList links a recipe to a tag.
type TagList struct {
	ID       uint `gorm:"primarykey" json:"id"`
	RecipeID uint `gorm:"not null;uniqueIndex:idx_taglist_recipe_tag" json:"recipe_id"`
	TagID    uint `gorm:"not null;uniqueIndex:idx_taglist_recipe_tag;index" json:"tag_id"`
	Tag      *Tag `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

// Favorite marks a recipe as a user's favorite.
type Favorite struct {
	ID       uint    `gorm:"primarykey" json:"id"`
	UserID   uint    `gorm:"not null;uniqueIndex:idx_favorite_user_recipe" json:"user_id"`
	User     *User   `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	RecipeID uint    `gorm:"not null;uniqueIndex:idx_favorite_user_recipe;index" json:"recipe_id"`
	Recipe   *Recipe `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

// ShoppingCart holds a recipe in a user's cart.
type ShoppingCart struct {
	ID       uint    `gorm:"primarykey" json:"id"`
	UserID   uint    `gorm:"not null;uniqueIndex:idx_cart_user_recipe" json:"user_id"`
	User     *User   `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	RecipeID uint    `gorm:"not null;uniqueIndex:idx_cart_user_recipe;index" json:"recipe_id"`
	Recipe   *Recipe `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

// AllModels lists every model in dependency order for auto-migration.
func AllModels() []interface{} {
	return []interface{}{
		&User{},
		&Follow{},
		&Ingredient{},
		&Tag{},
		&Recipe{},
		&Composition{},
		&TagList{},
		&Favorite{},
		&ShoppingCart{},
	}
}
