package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/types"
)

// CatalogHandler serves the read-only ingredient and tag catalogs.
type CatalogHandler struct {
	catalog service.ICatalogService
}

func NewCatalogHandler(catalog service.ICatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

func (h *CatalogHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/ingredients/", h.ListIngredients)
	router.GET("/ingredients/:id/", h.GetIngredient)
	router.GET("/tags/", h.ListTags)
	router.GET("/tags/:id/", h.GetTag)
}

// ListIngredients searches by name; ?name= and ?search= are both accepted.
func (h *CatalogHandler) ListIngredients(c *gin.Context) {
	var q types.IngredientQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}
	search := q.Name
	if search == "" {
		search = q.Search
	}

	items, err := h.catalog.ListIngredients(c.Request.Context(), search)
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]IngredientView, 0, len(items))
	for _, i := range items {
		out = append(out, ingredientView(i))
	}
	c.JSON(http.StatusOK, out)
}

func (h *CatalogHandler) GetIngredient(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	item, err := h.catalog.GetIngredient(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ingredientView(*item))
}

func (h *CatalogHandler) ListTags(c *gin.Context) {
	tags, err := h.catalog.ListTags(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]TagView, 0, len(tags))
	for _, t := range tags {
		out = append(out, tagView(t))
	}
	c.JSON(http.StatusOK, out)
}

func (h *CatalogHandler) GetTag(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	tag, err := h.catalog.GetTag(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tagView(*tag))
}
