package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/projecthub/projecthub/internal/dto"
)

func TestAuthHandler_Register(t *testing.T) {
	env := setupTestEnv(t)

	w := env.request(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":     "newuser@example.com",
		"password":  "supersecret",
		"full_name": "New User",
	})

	require.Equal(t, http.StatusCreated, w.Code)

	var response dto.UserDTO
	decodeJSON(t, w, &response)
	require.Equal(t, "newuser@example.com", response.Email)
	require.Equal(t, "New User", response.FullName)
	require.False(t, response.IsSuperuser)
}

func TestAuthHandler_RegisterDuplicateEmail(t *testing.T) {
	env := setupTestEnv(t)
	env.signup(t, "dup@example.com", false)

	w := env.request(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":    "dup@example.com",
		"password": "supersecret",
	})

	require.Equal(t, http.StatusConflict, w.Code)
}

func TestAuthHandler_RegisterShortPassword(t *testing.T) {
	env := setupTestEnv(t)

	w := env.request(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":    "short@example.com",
		"password": "short",
	})

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestAuthHandler_LoginIssuesToken(t *testing.T) {
	env := setupTestEnv(t)
	user, _ := env.signup(t, "existing@example.com", false)

	w := env.request(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "existing@example.com",
		"password": "supersecret",
	})

	require.Equal(t, http.StatusOK, w.Code)

	var response dto.TokenResponse
	decodeJSON(t, w, &response)
	require.Equal(t, "bearer", response.TokenType)
	require.NotEmpty(t, response.AccessToken)

	// The issued token resolves back to the same user
	userID, err := env.tokens.Verify(response.AccessToken)
	require.NoError(t, err)
	require.Equal(t, user.ID, userID)
}

func TestAuthHandler_LoginWrongPassword(t *testing.T) {
	env := setupTestEnv(t)
	env.signup(t, "existing@example.com", false)

	w := env.request(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "existing@example.com",
		"password": "wrongpassword",
	})

	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_LoginInactiveUser(t *testing.T) {
	env := setupTestEnv(t)
	user, _ := env.signup(t, "inactive@example.com", false)
	require.NoError(t, env.db.Model(user).Update("is_active", false).Error)

	w := env.request(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "inactive@example.com",
		"password": "supersecret",
	})

	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_GetCurrentUser(t *testing.T) {
	env := setupTestEnv(t)
	user, token := env.signup(t, "me@example.com", false)

	w := env.request(t, http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var response dto.UserDTO
	decodeJSON(t, w, &response)
	require.Equal(t, user.ID, response.ID)
	require.Equal(t, user.Email, response.Email)
}

func TestAuthHandler_MeRequiresToken(t *testing.T) {
	env := setupTestEnv(t)

	w := env.request(t, http.MethodGet, "/api/auth/me", "", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.request(t, http.MethodGet, "/api/auth/me", "not-a-token", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_ChangePassword(t *testing.T) {
	env := setupTestEnv(t)
	_, token := env.signup(t, "pw@example.com", false)

	w := env.request(t, http.MethodPost, "/api/auth/me/password", token, map[string]string{
		"current_password": "supersecret",
		"new_password":     "anothersecret",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = env.request(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "pw@example.com",
		"password": "anothersecret",
	})
	require.Equal(t, http.StatusOK, w.Code)
}
