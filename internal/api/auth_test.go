package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodgram/backend/internal/testhelpers"
)

func TestLoginLogout(t *testing.T) {
	env := newTestEnv(t)
	user := testhelpers.CreateUser(t, env.db, "cook")

	w := env.do(http.MethodPost, "/api/v1/auth/token/login/", "", map[string]string{
		"email":    user.Email,
		"password": testhelpers.TestPassword,
	})
	requireStatus(t, w, http.StatusOK)
	resp := decode[TokenResponse](t, w)
	require.NotEmpty(t, resp.AuthToken)

	w = env.do(http.MethodGet, "/api/v1/users/me/", resp.AuthToken, nil)
	requireStatus(t, w, http.StatusOK)
	assert.Equal(t, "cook", decode[UserView](t, w).Username)

	w = env.do(http.MethodPost, "/api/v1/auth/token/logout/", resp.AuthToken, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestLoginBadCredentials(t *testing.T) {
	env := newTestEnv(t)
	user := testhelpers.CreateUser(t, env.db, "cook")

	w := env.do(http.MethodPost, "/api/v1/auth/token/login/", "", map[string]string{
		"email":    user.Email,
		"password": "wrong",
	})
	requireStatus(t, w, http.StatusBadRequest)
	body := decode[map[string][]string](t, w)
	assert.Equal(t, []string{msgBadCreds}, body["non_field_errors"])
}

func TestLogoutRequiresAuth(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodPost, "/api/v1/auth/token/logout/", "", nil)
	requireStatus(t, w, http.StatusUnauthorized)
	assert.Equal(t, msgUnauthorized, decode[map[string]string](t, w)["detail"])

	w = env.do(http.MethodGet, "/api/v1/users/me/", "garbage", nil)
	requireStatus(t, w, http.StatusUnauthorized)
}
