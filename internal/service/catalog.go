package service

import (
	"context"
	"strings"

	"github.com/pageza/foodgram/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CatalogService serves the read-only ingredient and tag catalogs.
type CatalogService struct {
	db *gorm.DB
}

func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

// ListIngredients returns ingredients ordered by name. With a search term it
// keeps names containing the term, case-insensitively, and lists names that
// start with it first.
func (s *CatalogService) ListIngredients(ctx context.Context, search string) ([]models.Ingredient, error) {
	q := s.db.WithContext(ctx).Model(&models.Ingredient{})

	if search = strings.ToLower(strings.TrimSpace(search)); search != "" {
		q = q.Where("LOWER(name) LIKE ?", "%"+search+"%").
			Order(clause.OrderBy{Expression: clause.Expr{
				SQL:                "CASE WHEN LOWER(name) LIKE ? THEN 0 ELSE 1 END",
				Vars:               []interface{}{search + "%"},
				WithoutParentheses: true,
			}})
	}

	var ingredients []models.Ingredient
	err := q.Order("name").Order("id").Find(&ingredients).Error
	return ingredients, err
}

// GetIngredient loads an ingredient by id.
func (s *CatalogService) GetIngredient(ctx context.Context, id uint) (*models.Ingredient, error) {
	var ingredient models.Ingredient
	if err := s.db.WithContext(ctx).First(&ingredient, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &ingredient, nil
}

// ListTags returns all tags ordered by name.
func (s *CatalogService) ListTags(ctx context.Context) ([]models.Tag, error) {
	var tags []models.Tag
	err := s.db.WithContext(ctx).Order("name").Order("id").Find(&tags).Error
	return tags, err
}

// GetTag loads a tag by id.
func (s *CatalogService) GetTag(ctx context.Context, id uint) (*models.Tag, error) {
	var tag models.Tag
	if err := s.db.WithContext(ctx).First(&tag, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &tag, nil
}

// ImportIngredients inserts each row unless an ingredient with the same name
// and unit exists. It returns the number of rows created.
func (s *CatalogService) ImportIngredients(ctx context.Context, rows []models.Ingredient) (int, error) {
	created := 0
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, row := range rows {
			var count int64
			err := tx.Model(&models.Ingredient{}).
				Where("name = ? AND measurement_unit = ?", row.Name, row.MeasurementUnit).
				Count(&count).Error
			if err != nil {
				return err
			}
			if count > 0 {
				continue
			}
			ingredient := models.Ingredient{Name: row.Name, MeasurementUnit: row.MeasurementUnit}
			if err := tx.Create(&ingredient).Error; err != nil {
				return err
			}
			created++
		}
		return nil
	})
	return created, err
}
