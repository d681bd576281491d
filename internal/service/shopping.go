package service

import (
	"context"
	"fmt"

	"github.com/pageza/foodgram/backend/internal/models"
	"gorm.io/gorm"
)

// ShoppingItem is one aggregated line of a shopping list.
type ShoppingItem struct {
	Name   string
	Unit   string
	Amount int64
}

// Line renders the item as "<name> (<unit>) — [<amount>]".
func (i ShoppingItem) Line() string {
	return fmt.Sprintf("%s (%s) — [%d]", i.Name, i.Unit, i.Amount)
}

// ShoppingListService aggregates the ingredients of a user's cart.
type ShoppingListService struct {
	db *gorm.DB
}

func NewShoppingListService(db *gorm.DB) *ShoppingListService {
	return &ShoppingListService{db: db}
}

// Aggregate sums ingredient amounts over every recipe in the user's cart,
// grouped by ingredient name and unit and ordered by name.
func (s *ShoppingListService) Aggregate(ctx context.Context, userID uint) ([]ShoppingItem, error) {
	var rows []struct {
		Name            string
		MeasurementUnit string
		Amount          int64
	}
	err := s.db.WithContext(ctx).
		Model(&models.Composition{}).
		Select("ingredients.name AS name, ingredients.measurement_unit AS measurement_unit, SUM(compositions.amount) AS amount").
		Joins("JOIN ingredients ON ingredients.id = compositions.ingredient_id").
		Joins("JOIN shopping_carts ON shopping_carts.recipe_id = compositions.recipe_id").
		Where("shopping_carts.user_id = ?", userID).
		Group("ingredients.name, ingredients.measurement_unit").
		Order("ingredients.name, ingredients.measurement_unit").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	items := make([]ShoppingItem, 0, len(rows))
	for _, r := range rows {
		items = append(items, ShoppingItem{Name: r.Name, Unit: r.MeasurementUnit, Amount: r.Amount})
	}
	return items, nil
}
