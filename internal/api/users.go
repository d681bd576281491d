package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/types"
)

type UserHandler struct {
	userService   service.IUserService
	recipeService service.IRecipeService
	authService   service.IAuthService
	pageSize      int
}

func NewUserHandler(users service.IUserService, recipes service.IRecipeService, auth service.IAuthService, pageSize int) *UserHandler {
	return &UserHandler{
		userService:   users,
		recipeService: recipes,
		authService:   auth,
		pageSize:      pageSize,
	}
}

func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	requireAuth := middleware.RequireAuth(h.authService)
	users := router.Group("/users")
	users.Use(middleware.OptionalAuth(h.authService))
	{
		users.POST("/", h.Register)
		users.GET("/", h.ListUsers)
		users.GET("/me/", requireAuth, h.Me)
		users.POST("/set_password/", requireAuth, h.SetPassword)
		users.GET("/subscriptions/", requireAuth, h.Subscriptions)
		users.GET("/:id/", h.GetUser)
		users.POST("/:id/subscribe/", requireAuth, h.Subscribe)
		users.DELETE("/:id/subscribe/", requireAuth, h.Unsubscribe)
	}
}

func (h *UserHandler) presenter(c *gin.Context) *presenter {
	return newPresenter(c, h.userService, h.recipeService)
}

// Register creates an account.
func (h *UserHandler) Register(c *gin.Context) {
	var req types.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	user, err := h.userService.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, userCreatedView(user))
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	var q types.UserListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}

	page := pageFromQuery(q.PageQuery, h.pageSize)
	users, total, err := h.userService.ListUsers(c.Request.Context(), q.Search, page)
	if err != nil {
		respondError(c, err)
		return
	}
	out, err := h.presenter(c).Users(opUserList, users)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, paginate(c, page, total, out))
}

func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	h.renderUser(c, opUserRetrieve, id)
}

// Me returns the caller's own profile.
func (h *UserHandler) Me(c *gin.Context) {
	id, _ := middleware.UserID(c)
	h.renderUser(c, opUserMe, id)
}

func (h *UserHandler) renderUser(c *gin.Context, op operation, id uint) {
	user, err := h.userService.GetUser(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	out, err := h.presenter(c).Users(op, []models.User{*user})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out[0])
}

func (h *UserHandler) SetPassword(c *gin.Context) {
	var req types.SetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	id, _ := middleware.UserID(c)
	if err := h.userService.SetPassword(c.Request.Context(), id, req); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Subscriptions lists the authors the caller follows.
func (h *UserHandler) Subscriptions(c *gin.Context) {
	var q types.SubscriptionQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}
	id, _ := middleware.UserID(c)

	page := pageFromQuery(q.PageQuery, h.pageSize)
	authors, total, err := h.userService.Subscriptions(c.Request.Context(), id, page)
	if err != nil {
		respondError(c, err)
		return
	}
	out, err := h.presenter(c).Subscriptions(opSubscriptions, authors, q.RecipesLimit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, paginate(c, page, total, out))
}

func (h *UserHandler) Subscribe(c *gin.Context) {
	authorID, ok := pathID(c)
	if !ok {
		return
	}
	var q types.SubscriptionQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}
	id, _ := middleware.UserID(c)

	author, err := h.userService.Subscribe(c.Request.Context(), id, authorID)
	if err != nil {
		respondError(c, err)
		return
	}
	out, err := h.presenter(c).Subscriptions(opSubscribe, []models.User{*author}, q.RecipesLimit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out[0])
}

func (h *UserHandler) Unsubscribe(c *gin.Context) {
	authorID, ok := pathID(c)
	if !ok {
		return
	}
	id, _ := middleware.UserID(c)
	if err := h.userService.Unsubscribe(c.Request.Context(), id, authorID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// pathID parses the :id parameter. A malformed id is reported as 404.
func pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusNotFound, gin.H{"detail": msgNotFound})
		return 0, false
	}
	return uint(id), true
}
