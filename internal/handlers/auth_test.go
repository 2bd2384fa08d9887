package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/crusher0311/maddenco-dvi-dashboard/internal/dto"
	"github.com/crusher0311/maddenco-dvi-dashboard/internal/models"
	"github.com/crusher0311/maddenco-dvi-dashboard/internal/services"
	"github.com/stretchr/testify/require"
)

func registerUser(t *testing.T, env *testEnv, username, org string) {
	t.Helper()
	_, err := env.authService.Register(services.RegisterInput{
		Username: username,
		Password: "supersecret",
		Org:      org,
	})
	require.NoError(t, err)
}

func TestAuthHandler_Register(t *testing.T) {
	env := setupTestEnv(t)

	body, err := json.Marshal(map[string]string{
		"username": "newuser",
		"password": "supersecret",
		"org":      "Acme",
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var response dto.UserDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, "newuser", response.Username)
	require.Equal(t, models.RoleUser, response.Role)
	require.Equal(t, "Acme", response.Org)
}

func TestAuthHandler_RegisterDuplicate(t *testing.T) {
	env := setupTestEnv(t)
	registerUser(t, env, "existing", "Acme")

	body, err := json.Marshal(map[string]string{
		"username": "existing",
		"password": "supersecret",
		"org":      "Acme",
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusConflict, w.Code)
}

func TestAuthHandler_LoginAndMe(t *testing.T) {
	env := setupTestEnv(t)
	registerUser(t, env, "alice", "Acme")

	cookies := env.login(t, "alice", "supersecret")

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	w := env.do(req, cookies)

	require.Equal(t, http.StatusOK, w.Code)

	var response dto.UserDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, "alice", response.Username)
	require.Equal(t, "Acme", response.Org)
}

func TestAuthHandler_LoginBadPassword(t *testing.T) {
	env := setupTestEnv(t)
	registerUser(t, env, "alice", "Acme")

	body, err := json.Marshal(map[string]string{
		"username": "alice",
		"password": "wrong-password",
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_MeRequiresSession(t *testing.T) {
	env := setupTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_Logout(t *testing.T) {
	env := setupTestEnv(t)
	registerUser(t, env, "alice", "Acme")
	cookies := env.login(t, "alice", "supersecret")

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	w := env.do(req, cookies)
	require.Equal(t, http.StatusOK, w.Code)

	// The cleared cookie must no longer authenticate.
	req = httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	w2 := env.do(req, w.Result().Cookies())
	require.Equal(t, http.StatusUnauthorized, w2.Code)
}

func TestAuthHandler_UpdateProfileRename(t *testing.T) {
	env := setupTestEnv(t)
	registerUser(t, env, "alice", "Acme")
	cookies := env.login(t, "alice", "supersecret")

	body, err := json.Marshal(map[string]string{"username": "alice2"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPut, "/api/auth/profile", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := env.do(req, cookies)
	require.Equal(t, http.StatusOK, w.Code)

	var response dto.UserDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, "alice2", response.Username)

	// The refreshed session carries the new username.
	req = httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	w2 := env.do(req, w.Result().Cookies())
	require.Equal(t, http.StatusOK, w2.Code)

	require.NoError(t, json.Unmarshal(w2.Body.Bytes(), &response))
	require.Equal(t, "alice2", response.Username)
}

func TestAuthHandler_DeleteAccount(t *testing.T) {
	env := setupTestEnv(t)
	registerUser(t, env, "alice", "Acme")
	cookies := env.login(t, "alice", "supersecret")

	req := httptest.NewRequest(http.MethodDelete, "/api/auth/account", nil)
	w := env.do(req, cookies)
	require.Equal(t, http.StatusOK, w.Code)

	_, err := env.authService.GetUser("alice")
	require.ErrorIs(t, err, services.ErrUserNotFound)
}
