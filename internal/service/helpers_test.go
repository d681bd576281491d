package service_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/storage"
)

func newRecipeService(t *testing.T, db *gorm.DB) *service.RecipeService {
	t.Helper()
	store, err := storage.NewLocalStore(t.TempDir(), "/media/")
	require.NoError(t, err)
	return service.NewRecipeService(db, service.NewImageService(store), service.RecipeRules{MinAmount: 1, MinCookingTime: 1})
}

// pngDataURI is a 1x1 transparent PNG.
const pngDataURI = "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg=="

func validationFields(t *testing.T, err error) map[string][]string {
	t.Helper()
	var verr *service.ValidationError
	require.ErrorAs(t, err, &verr)
	return verr.Fields
}
