package api

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/export"
	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/storage"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
)

const pngDataURI = "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg=="

func init() {
	gin.SetMode(gin.TestMode)
}

type testEnv struct {
	t      *testing.T
	db     *gorm.DB
	router *gin.Engine
	auth   *service.AuthService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testhelpers.SetupTestDB(t)
	mediaDir := t.TempDir()
	store, err := storage.NewLocalStore(mediaDir, "/media/")
	require.NoError(t, err)

	auth := service.NewAuthService(db, "test-secret", time.Hour, nil)
	router := gin.New()
	router.Use(middleware.RequestLogger(), middleware.Recovery())
	RegisterRoutes(router, Dependencies{
		DB:       db,
		Auth:     auth,
		Users:    service.NewUserService(db),
		Catalog:  service.NewCatalogService(db),
		Recipes:  service.NewRecipeService(db, service.NewImageService(store), service.RecipeRules{MinAmount: 1, MinCookingTime: 1}),
		Lists:    service.NewListService(db),
		Shopping: service.NewShoppingListService(db),
		Exporter: export.NewExporter(""),
		PageSize: 6,
		MediaDir: mediaDir,
		MediaURL: "/media",
	})
	return &testEnv{t: t, db: db, router: router, auth: auth}
}

func (e *testEnv) token(user *models.User) string {
	e.t.Helper()
	token, err := e.auth.GenerateToken(user)
	require.NoError(e.t, err)
	return token
}

func (e *testEnv) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	e.t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(e.t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Token "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func requireStatus(t *testing.T, w *httptest.ResponseRecorder, status int) {
	t.Helper()
	require.Equal(t, status, w.Code, "%s %s", http.StatusText(w.Code), w.Body.String())
}

func onePixelPNG(t *testing.T) []byte {
	t.Helper()
	_, payload, _ := strings.Cut(pngDataURI, ",")
	data, err := base64.StdEncoding.DecodeString(payload)
	require.NoError(t, err)
	return data
}
