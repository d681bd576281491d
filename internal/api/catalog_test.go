package api

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodgram/backend/internal/testhelpers"
)

func TestIngredientEndpoints(t *testing.T) {
	env := newTestEnv(t)
	sugar := testhelpers.CreateIngredient(t, env.db, "Sugar", "g")
	testhelpers.CreateIngredient(t, env.db, "Brown sugar", "g")
	testhelpers.CreateIngredient(t, env.db, "Salt", "g")

	names := func(items []IngredientView) []string {
		out := make([]string, 0, len(items))
		for _, i := range items {
			out = append(out, i.Name)
		}
		return out
	}

	w := env.do(http.MethodGet, "/api/v1/ingredients/", "", nil)
	requireStatus(t, w, http.StatusOK)
	assert.Equal(t, []string{"Brown sugar", "Salt", "Sugar"}, names(decode[[]IngredientView](t, w)))

	w = env.do(http.MethodGet, "/api/v1/ingredients/?name=SUG", "", nil)
	requireStatus(t, w, http.StatusOK)
	assert.Equal(t, []string{"Sugar", "Brown sugar"}, names(decode[[]IngredientView](t, w)))

	w = env.do(http.MethodGet, "/api/v1/ingredients/?search=sal", "", nil)
	requireStatus(t, w, http.StatusOK)
	assert.Equal(t, []string{"Salt"}, names(decode[[]IngredientView](t, w)))

	w = env.do(http.MethodGet, "/api/v1/ingredients/?name=zzz", "", nil)
	requireStatus(t, w, http.StatusOK)
	assert.JSONEq(t, "[]", w.Body.String())

	w = env.do(http.MethodGet, fmt.Sprintf("/api/v1/ingredients/%d/", sugar.ID), "", nil)
	requireStatus(t, w, http.StatusOK)
	assert.Equal(t, IngredientView{ID: sugar.ID, Name: "Sugar", MeasurementUnit: "g"}, decode[IngredientView](t, w))

	w = env.do(http.MethodGet, "/api/v1/ingredients/9999/", "", nil)
	requireStatus(t, w, http.StatusNotFound)
}

func TestTagEndpoints(t *testing.T) {
	env := newTestEnv(t)
	lunch := testhelpers.CreateTag(t, env.db, "lunch")
	testhelpers.CreateTag(t, env.db, "breakfast")

	w := env.do(http.MethodGet, "/api/v1/tags/", "", nil)
	requireStatus(t, w, http.StatusOK)
	tags := decode[[]TagView](t, w)
	require.Len(t, tags, 2)
	assert.Equal(t, "breakfast", tags[0].Slug)

	w = env.do(http.MethodGet, fmt.Sprintf("/api/v1/tags/%d/", lunch.ID), "", nil)
	requireStatus(t, w, http.StatusOK)
	assert.Equal(t, TagView{ID: lunch.ID, Name: "Tag lunch", Color: "#E26C2D", Slug: "lunch"}, decode[TagView](t, w))

	w = env.do(http.MethodGet, "/api/v1/tags/9999/", "", nil)
	requireStatus(t, w, http.StatusNotFound)
}
