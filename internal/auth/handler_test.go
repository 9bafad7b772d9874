package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gamevault/pkg/database"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.Open(database.Config{Path: filepath.Join(t.TempDir(), "test.db")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.Migrate(db))

	repo := NewRepo(db)
	handler := NewHandler(repo, testTokenService())

	router := gin.New()
	handler.RegisterRoutes(router.Group("/auth"))

	// a protected probe route, the way the games routes are mounted
	protected := router.Group("/probe")
	protected.Use(AuthMiddleware(handler.Tokens, repo))
	protected.GET("", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user": MustGetClaims(c).Username})
	})

	return router
}

func doPost(router *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	b, _ := json.Marshal(body)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &m))
	return m
}

func register(t *testing.T, router *gin.Engine) map[string]any {
	t.Helper()
	w := doPost(router, "/auth/register", gin.H{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "correct horse",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	return decode(t, w)
}

func TestRegisterLoginRefresh(t *testing.T) {
	router := newTestRouter(t)

	res := register(t, router)
	assert.NotEmpty(t, res["access_token"])
	assert.NotEmpty(t, res["refresh_token"])

	// duplicate username rejected
	w := doPost(router, "/auth/register", gin.H{
		"username": "alice",
		"email":    "other@example.com",
		"password": "correct horse",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	// login by username
	w = doPost(router, "/auth/login", gin.H{"username": "alice", "password": "correct horse"})
	require.Equal(t, http.StatusOK, w.Code)
	login := decode(t, w)

	// refresh mints a new pair
	w = doPost(router, "/auth/refresh", gin.H{"refresh_token": login["refresh_token"]})
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, decode(t, w)["access_token"])

	// an access token is not a refresh token
	w = doPost(router, "/auth/refresh", gin.H{"refresh_token": login["access_token"]})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoginRejectsBadPassword(t *testing.T) {
	router := newTestRouter(t)
	register(t, router)

	w := doPost(router, "/auth/login", gin.H{"username": "alice", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doPost(router, "/auth/login", gin.H{"username": "nobody", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMiddlewareGatesRoutes(t *testing.T) {
	router := newTestRouter(t)
	res := register(t, router)
	token := res["access_token"].(string)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "alice")
}

func TestLogoutInvalidatesTokens(t *testing.T) {
	router := newTestRouter(t)
	res := register(t, router)
	token := res["access_token"].(string)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	// the old access token no longer passes the version check
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// and the refresh token is version-checked too
	w = doPost(router, "/auth/refresh", gin.H{"refresh_token": res["refresh_token"]})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
