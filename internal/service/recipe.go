package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/pageza/foodgram/backend/internal/metrics"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/types"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RecipeRules holds the configurable minimums recipes are validated against.
type RecipeRules struct {
	MinAmount      int
	MinCookingTime int
}

// RecipeFilter narrows recipe listings. Favorited and InCart restrict the
// result to the viewer's rows.
type RecipeFilter struct {
	AuthorID  uint
	TagSlugs  []string
	Favorited bool
	InCart    bool
}

// RecipeFlags tells, per recipe id, whether the viewer favorited it or has it
// in the shopping cart.
type RecipeFlags struct {
	Favorited map[uint]bool
	InCart    map[uint]bool
}

// RecipeService handles recipe operations
type RecipeService struct {
	db     *gorm.DB
	images *ImageService
	rules  RecipeRules
}

// NewRecipeService creates a new RecipeService instance
func NewRecipeService(db *gorm.DB, images *ImageService, rules RecipeRules) *RecipeService {
	if rules.MinAmount < 1 {
		rules.MinAmount = 1
	}
	if rules.MinCookingTime < 1 {
		rules.MinCookingTime = 1
	}
	return &RecipeService{
		db:     db,
		images: images,
		rules:  rules,
	}
}

func (s *RecipeService) withDetails(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Author").
		Preload("TagLists", func(db *gorm.DB) *gorm.DB { return db.Order("tag_lists.id") }).
		Preload("TagLists.Tag").
		Preload("Compositions", func(db *gorm.DB) *gorm.DB { return db.Order("compositions.id") }).
		Preload("Compositions.Ingredient")
}

// GetRecipe loads a recipe with its author, tags and ingredients.
func (s *RecipeService) GetRecipe(ctx context.Context, id uint) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := s.withDetails(s.db.WithContext(ctx)).First(&recipe, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &recipe, nil
}

// ListRecipes returns a page of recipes, newest first.
func (s *RecipeService) ListRecipes(ctx context.Context, viewerID uint, filter RecipeFilter, page Page) ([]models.Recipe, int64, error) {
	if viewerID == 0 && (filter.Favorited || filter.InCart) {
		return []models.Recipe{}, 0, nil
	}

	db := s.db.WithContext(ctx)
	q := db.Model(&models.Recipe{})
	if filter.AuthorID != 0 {
		q = q.Where("recipes.author_id = ?", filter.AuthorID)
	}
	if len(filter.TagSlugs) > 0 {
		q = q.Where("recipes.id IN (?)", db.Table("tag_lists").
			Select("tag_lists.recipe_id").
			Joins("JOIN tags ON tags.id = tag_lists.tag_id").
			Where("tags.slug IN ?", filter.TagSlugs))
	}
	if filter.Favorited {
		q = q.Where("recipes.id IN (?)", db.Model(&models.Favorite{}).Select("recipe_id").Where("user_id = ?", viewerID))
	}
	if filter.InCart {
		q = q.Where("recipes.id IN (?)", db.Model(&models.ShoppingCart{}).Select("recipe_id").Where("user_id = ?", viewerID))
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var recipes []models.Recipe
	err := s.withDetails(q).
		Order("recipes.pub_date DESC").Order("recipes.id DESC").
		Offset(page.Offset()).Limit(page.Size).
		Find(&recipes).Error
	return recipes, total, err
}

// Flags reports the viewer's favorite and cart state for recipeIDs.
// Anonymous viewers get empty maps.
func (s *RecipeService) Flags(ctx context.Context, viewerID uint, recipeIDs []uint) (*RecipeFlags, error) {
	flags := &RecipeFlags{Favorited: map[uint]bool{}, InCart: map[uint]bool{}}
	if viewerID == 0 || len(recipeIDs) == 0 {
		return flags, nil
	}

	db := s.db.WithContext(ctx)
	var ids []uint
	if err := db.Model(&models.Favorite{}).
		Where("user_id = ? AND recipe_id IN ?", viewerID, recipeIDs).
		Pluck("recipe_id", &ids).Error; err != nil {
		return nil, err
	}
	for _, id := range ids {
		flags.Favorited[id] = true
	}

	ids = nil
	if err := db.Model(&models.ShoppingCart{}).
		Where("user_id = ? AND recipe_id IN ?", viewerID, recipeIDs).
		Pluck("recipe_id", &ids).Error; err != nil {
		return nil, err
	}
	for _, id := range ids {
		flags.InCart[id] = true
	}
	return flags, nil
}

// CreateRecipe validates req and writes the recipe with its ingredient and
// tag rows in one transaction. upload carries multipart image bytes and takes
// precedence over a data URI in req.Image.
func (s *RecipeService) CreateRecipe(ctx context.Context, authorID uint, req types.RecipeRequest, upload []byte) (*models.Recipe, error) {
	if err := s.validate(ctx, &req); err != nil {
		return nil, err
	}

	image, err := s.storeImage(ctx, req.Image, upload)
	if err != nil {
		return nil, err
	}

	recipe := &models.Recipe{
		Name:        strings.TrimSpace(req.Name),
		Text:        req.Text,
		Image:       image,
		CookingTime: req.CookingTime,
		PubDate:     time.Now().UTC(),
		AuthorID:    authorID,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(recipe).Error; err != nil {
			return err
		}
		return s.writeChildren(tx, recipe.ID, req)
	})
	if err != nil {
		s.images.Remove(ctx, image)
		return nil, err
	}

	metrics.RecipesCreatedTotal.Inc()
	return s.GetRecipe(ctx, recipe.ID)
}

// UpdateRecipe replaces the recipe fields and its ingredient and tag rows.
// Only the author may update. The image is kept unless a new one is given.
func (s *RecipeService) UpdateRecipe(ctx context.Context, userID, recipeID uint, req types.RecipeRequest, upload []byte) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, recipeID).Error; err != nil {
		return nil, notFound(err)
	}
	if recipe.AuthorID != userID {
		return nil, ErrForbidden
	}

	if err := s.validate(ctx, &req); err != nil {
		return nil, err
	}

	oldImage := recipe.Image
	image, err := s.storeImage(ctx, req.Image, upload)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"name":         strings.TrimSpace(req.Name),
		"text":         req.Text,
		"cooking_time": req.CookingTime,
	}
	if image != "" {
		updates["image"] = image
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Recipe{}).Where("id = ?", recipeID).Updates(updates).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipeID).Delete(&models.Composition{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipeID).Delete(&models.TagList{}).Error; err != nil {
			return err
		}
		return s.writeChildren(tx, recipeID, req)
	})
	if err != nil {
		s.images.Remove(ctx, image)
		return nil, err
	}

	if image != "" && oldImage != image {
		s.images.Remove(ctx, oldImage)
	}
	return s.GetRecipe(ctx, recipeID)
}

// DeleteRecipe deletes a recipe owned by userID. Child rows go with it
// through the schema's cascade rules.
func (s *RecipeService) DeleteRecipe(ctx context.Context, userID, recipeID uint) error {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, recipeID).Error; err != nil {
		return notFound(err)
	}
	if recipe.AuthorID != userID {
		return ErrForbidden
	}

	if err := s.db.WithContext(ctx).Delete(&models.Recipe{}, recipeID).Error; err != nil {
		return err
	}
	s.images.Remove(ctx, recipe.Image)
	return nil
}

func (s *RecipeService) writeChildren(tx *gorm.DB, recipeID uint, req types.RecipeRequest) error {
	compositions := make([]models.Composition, 0, len(req.Ingredients))
	for _, item := range req.Ingredients {
		compositions = append(compositions, models.Composition{
			RecipeID:     recipeID,
			IngredientID: item.ID,
			Amount:       item.Amount,
		})
	}
	if err := tx.Omit(clause.Associations).Create(&compositions).Error; err != nil {
		return err
	}

	tagLists := make([]models.TagList, 0, len(req.Tags))
	for _, tagID := range req.Tags {
		tagLists = append(tagLists, models.TagList{RecipeID: recipeID, TagID: tagID})
	}
	return tx.Omit(clause.Associations).Create(&tagLists).Error
}

func (s *RecipeService) storeImage(ctx context.Context, dataURI string, upload []byte) (string, error) {
	switch {
	case len(upload) > 0:
		return s.images.SaveBytes(ctx, upload)
	case strings.TrimSpace(dataURI) != "":
		return s.images.SaveDataURI(ctx, dataURI)
	default:
		return "", nil
	}
}

// validate checks the payload shape first and the referenced rows after.
func (s *RecipeService) validate(ctx context.Context, req *types.RecipeRequest) error {
	err := validation.ValidateStruct(req,
		validation.Field(&req.Name, validation.Required.Error(msgRequired), maxLen(200)),
		validation.Field(&req.Text, validation.Required.Error(msgRequired)),
		validation.Field(&req.CookingTime,
			atLeast(s.rules.MinCookingTime, "Время приготовления должно быть не меньше %d."),
		),
		validation.Field(&req.Ingredients,
			validation.Required.Error("Нужен хотя бы один ингредиент."),
			validation.By(s.checkIngredientLines),
		),
		validation.Field(&req.Tags,
			validation.Required.Error("Нужен хотя бы один тег."),
			validation.By(checkUniqueTags),
		),
	)
	if err != nil {
		return fromValidation(err)
	}

	verr := &ValidationError{}
	ingredientIDs := make([]uint, 0, len(req.Ingredients))
	for _, item := range req.Ingredients {
		ingredientIDs = append(ingredientIDs, item.ID)
	}
	missing, err := s.missingIDs(ctx, &models.Ingredient{}, ingredientIDs)
	if err != nil {
		return err
	}
	for _, id := range missing {
		verr.Add("ingredients", fmt.Sprintf("Ингредиента с id %d не существует.", id))
	}

	missing, err = s.missingIDs(ctx, &models.Tag{}, req.Tags)
	if err != nil {
		return err
	}
	for _, id := range missing {
		verr.Add("tags", fmt.Sprintf("Тега с id %d не существует.", id))
	}

	if len(verr.Fields) > 0 {
		return verr
	}
	return nil
}

func (s *RecipeService) checkIngredientLines(value interface{}) error {
	items, _ := value.([]types.IngredientAmount)
	seen := make(map[uint]bool, len(items))
	for _, item := range items {
		if item.ID == 0 {
			return validation.NewError("ingredient_id", "Укажите id ингредиента.")
		}
		if seen[item.ID] {
			return validation.NewError("ingredient_duplicate", "Ингредиенты не должны повторяться.")
		}
		seen[item.ID] = true
		if item.Amount < s.rules.MinAmount {
			return validation.NewError("ingredient_amount",
				fmt.Sprintf("Количество ингредиента должно быть не меньше %d.", s.rules.MinAmount))
		}
	}
	return nil
}

func checkUniqueTags(value interface{}) error {
	ids, _ := value.([]uint)
	seen := make(map[uint]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			return validation.NewError("tag_duplicate", "Теги не должны повторяться.")
		}
		seen[id] = true
	}
	return nil
}

// missingIDs returns the ids that have no row in model's table.
func (s *RecipeService) missingIDs(ctx context.Context, model interface{}, ids []uint) ([]uint, error) {
	var found []uint
	if err := s.db.WithContext(ctx).Model(model).Where("id IN ?", ids).Pluck("id", &found).Error; err != nil {
		return nil, err
	}
	exists := make(map[uint]bool, len(found))
	for _, id := range found {
		exists[id] = true
	}
	var missing []uint
	for _, id := range ids {
		if !exists[id] {
			missing = append(missing, id)
		}
	}
	return missing, nil
}
