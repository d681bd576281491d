package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pageza/foodgram/backend/internal/export"
	"github.com/pageza/foodgram/backend/internal/logging"
	"github.com/pageza/foodgram/backend/internal/metrics"
	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/types"
)

const (
	maxImageUpload = 10 << 20
	// maxRecipeBody leaves room for a base64 data URI of a full-size image
	// plus the rest of the form.
	maxRecipeBody = maxImageUpload*4/3 + 1<<20

	msgImageTooLarge = "Размер изображения не должен превышать 10 МБ."
)

type RecipeHandler struct {
	recipeService   service.IRecipeService
	userService     service.IUserService
	listService     service.IListService
	shoppingService service.IShoppingListService
	authService     service.IAuthService
	exporter        *export.Exporter
	createLimiter   *middleware.RateLimiter
	pageSize        int
}

// RecipeHandlerDeps groups the collaborators of RecipeHandler.
type RecipeHandlerDeps struct {
	Recipes       service.IRecipeService
	Users         service.IUserService
	Lists         service.IListService
	Shopping      service.IShoppingListService
	Auth          service.IAuthService
	Exporter      *export.Exporter
	CreateLimiter *middleware.RateLimiter
	PageSize      int
}

func NewRecipeHandler(deps RecipeHandlerDeps) *RecipeHandler {
	return &RecipeHandler{
		recipeService:   deps.Recipes,
		userService:     deps.Users,
		listService:     deps.Lists,
		shoppingService: deps.Shopping,
		authService:     deps.Auth,
		exporter:        deps.Exporter,
		createLimiter:   deps.CreateLimiter,
		pageSize:        deps.PageSize,
	}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	requireAuth := middleware.RequireAuth(h.authService)
	recipes := router.Group("/recipes")
	recipes.Use(middleware.OptionalAuth(h.authService))
	{
		recipes.GET("/", h.ListRecipes)
		recipes.POST("/", requireAuth, h.createLimiter.RateLimitMiddleware(), h.CreateRecipe)
		recipes.GET("/download_shopping_cart/", h.DownloadShoppingCart)
		recipes.GET("/:id/", h.GetRecipe)
		recipes.PATCH("/:id/", requireAuth, h.UpdateRecipe)
		recipes.DELETE("/:id/", requireAuth, h.DeleteRecipe)
		recipes.POST("/:id/favorite/", requireAuth, h.addTo(service.FavoriteList))
		recipes.DELETE("/:id/favorite/", requireAuth, h.removeFrom(service.FavoriteList))
		recipes.POST("/:id/shopping_cart/", requireAuth, h.addTo(service.CartList))
		recipes.DELETE("/:id/shopping_cart/", requireAuth, h.removeFrom(service.CartList))
	}
}

func (h *RecipeHandler) presenter(c *gin.Context) *presenter {
	return newPresenter(c, h.userService, h.recipeService)
}

// ListRecipes supports ?author=, repeated ?tags=<slug>, ?is_favorited=1 and
// ?is_in_shopping_cart=1.
func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	var q types.RecipeListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}
	viewer, _ := middleware.UserID(c)

	filter := service.RecipeFilter{
		AuthorID:  q.Author,
		TagSlugs:  q.Tags,
		Favorited: q.IsFavorited != nil && *q.IsFavorited == 1,
		InCart:    q.IsInShoppingCart != nil && *q.IsInShoppingCart == 1,
	}
	page := pageFromQuery(q.PageQuery, h.pageSize)

	recipes, total, err := h.recipeService.ListRecipes(c.Request.Context(), viewer, filter, page)
	if err != nil {
		respondError(c, err)
		return
	}
	out, err := h.presenter(c).Recipes(opRecipeList, recipes)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, paginate(c, page, total, out))
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	recipe, err := h.recipeService.GetRecipe(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	out, err := h.presenter(c).Recipe(opRecipeRetrieve, recipe)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// CreateRecipe accepts a JSON body with a data URI image or a multipart form
// with an image file part.
func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	req, upload, err := bindRecipe(c)
	if err != nil {
		bindFailed(c, err)
		return
	}
	userID, _ := middleware.UserID(c)

	recipe, err := h.recipeService.CreateRecipe(c.Request.Context(), userID, req, upload)
	if err != nil {
		respondError(c, err)
		return
	}
	logging.FromContext(c.Request.Context()).Info().
		Uint("recipe_id", recipe.ID).
		Uint("author_id", userID).
		Msg("recipe created")

	out, err := h.presenter(c).Recipe(opRecipeWrite, recipe)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, out)
}

func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	req, upload, err := bindRecipe(c)
	if err != nil {
		bindFailed(c, err)
		return
	}
	userID, _ := middleware.UserID(c)

	recipe, err := h.recipeService.UpdateRecipe(c.Request.Context(), userID, id, req, upload)
	if err != nil {
		respondError(c, err)
		return
	}
	out, err := h.presenter(c).Recipe(opRecipeWrite, recipe)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	userID, _ := middleware.UserID(c)
	if err := h.recipeService.DeleteRecipe(c.Request.Context(), userID, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RecipeHandler) addTo(list service.RecipeList) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}
		userID, _ := middleware.UserID(c)

		recipe, err := h.listService.Add(c.Request.Context(), list, userID, id)
		if err != nil {
			respondError(c, err)
			return
		}
		out, err := h.presenter(c).Recipe(opListAdd, recipe)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, out)
	}
}

func (h *RecipeHandler) removeFrom(list service.RecipeList) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}
		userID, _ := middleware.UserID(c)
		if err := h.listService.Remove(c.Request.Context(), list, userID, id); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// DownloadShoppingCart streams the caller's aggregated shopping list as PDF,
// or as XLSX with ?format=xlsx.
func (h *RecipeHandler) DownloadShoppingCart(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"detail": msgNotAuthorized})
		return
	}
	format, err := export.ParseFormat(c.Query("format"))
	if err != nil {
		badRequest(c, err)
		return
	}

	items, err := h.shoppingService.Aggregate(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	renderer := h.exporter.Renderer(format)
	var buf bytes.Buffer
	if err := renderer.Render(&buf, items); err != nil {
		respondError(c, err)
		return
	}
	metrics.ShoppingListExportsTotal.WithLabelValues(string(format)).Inc()

	c.Header("Content-Disposition", contentDisposition(renderer.Filename()))
	c.Data(http.StatusOK, renderer.ContentType(), buf.Bytes())
}

func contentDisposition(filename string) string {
	return fmt.Sprintf("attachment; filename=\"shopping_list%s\"; filename*=UTF-8''%s",
		extension(filename), url.PathEscape(filename))
}

func extension(filename string) string {
	if i := strings.LastIndexByte(filename, '.'); i >= 0 {
		return filename[i:]
	}
	return ""
}

// bindRecipe reads a recipe payload from JSON or multipart form data.
// Multipart forms carry ingredients and tags as JSON-encoded fields and the
// image as a file part named "image".
func bindRecipe(c *gin.Context) (types.RecipeRequest, []byte, error) {
	var req types.RecipeRequest
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxRecipeBody)
	if !strings.HasPrefix(c.ContentType(), "multipart/") {
		if err := c.ShouldBindJSON(&req); err != nil {
			return req, nil, tooLarge(err)
		}
		return req, nil, nil
	}

	if err := c.Request.ParseMultipartForm(maxImageUpload); err != nil {
		return req, nil, tooLarge(err)
	}
	req.Name = c.PostForm("name")
	req.Text = c.PostForm("text")
	if v := c.PostForm("cooking_time"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return req, nil, fmt.Errorf("cooking_time: %w", err)
		}
		req.CookingTime = n
	}
	if v := c.PostForm("ingredients"); v != "" {
		if err := json.Unmarshal([]byte(v), &req.Ingredients); err != nil {
			return req, nil, fmt.Errorf("ingredients: %w", err)
		}
	}
	tags, err := formTags(c)
	if err != nil {
		return req, nil, err
	}
	req.Tags = tags
	req.Image = c.PostForm("image")

	file, err := c.FormFile("image")
	if err == http.ErrMissingFile {
		return req, nil, nil
	}
	if err != nil {
		return req, nil, err
	}
	if file.Size > maxImageUpload {
		return req, nil, service.NewValidationError("image", msgImageTooLarge)
	}
	f, err := file.Open()
	if err != nil {
		return req, nil, err
	}
	defer f.Close()
	upload, err := io.ReadAll(io.LimitReader(f, maxImageUpload+1))
	if err != nil {
		return req, nil, err
	}
	if len(upload) > maxImageUpload {
		return req, nil, service.NewValidationError("image", msgImageTooLarge)
	}
	return req, upload, nil
}

// tooLarge reports an oversized request body as an image error, the only
// field that can make a recipe payload that big.
func tooLarge(err error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return service.NewValidationError("image", msgImageTooLarge)
	}
	return err
}

func bindFailed(c *gin.Context, err error) {
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		respondError(c, err)
		return
	}
	badRequest(c, err)
}

// formTags accepts tags as a JSON array or as repeated fields.
func formTags(c *gin.Context) ([]uint, error) {
	values := c.PostFormArray("tags")
	if len(values) == 1 && strings.HasPrefix(strings.TrimSpace(values[0]), "[") {
		var tags []uint
		if err := json.Unmarshal([]byte(values[0]), &tags); err != nil {
			return nil, fmt.Errorf("tags: %w", err)
		}
		return tags, nil
	}
	tags := make([]uint, 0, len(values))
	for _, v := range values {
		n, err := strconv.ParseUint(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("tags: %w", err)
		}
		tags = append(tags, uint(n))
	}
	return tags, nil
}
