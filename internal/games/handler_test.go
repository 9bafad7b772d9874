package games

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gamevault/internal/cache"
	"gamevault/internal/rawg"
	"gamevault/pkg/models"
)

func newTestRouter(t *testing.T, provider Provider) (*gin.Engine, *Repo) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := newTestRepo(t)
	svc := NewService(repo, cache.NewMemory(), provider)

	router := gin.New()
	NewHandler(svc).RegisterRoutes(router.Group("/games"))
	return router, repo
}

func doGet(router *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	router.ServeHTTP(w, req)
	return w
}

func TestSearchRequiresTitle(t *testing.T) {
	router, _ := newTestRouter(t, new(MockProvider))

	w := doGet(router, "/games/search")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doGet(router, "/games/search?title=%20%20")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSearchStatusMapping(t *testing.T) {
	provider := new(MockProvider)
	provider.On("Search", "Nothing").Return([]rawg.Candidate{}, nil).Once()
	provider.On("Search", "Broken").Return(nil, fmt.Errorf("boom")).Once()

	router, _ := newTestRouter(t, provider)

	w := doGet(router, "/games/search?title=Nothing")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doGet(router, "/games/search?title=Broken")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestSearchReturnsGame(t *testing.T) {
	provider := new(MockProvider)
	provider.On("Search", "Celeste").Return([]rawg.Candidate{candidate("Celeste", "PC")}, nil).Once()

	router, _ := newTestRouter(t, provider)

	w := doGet(router, "/games/search?title=Celeste")
	require.Equal(t, http.StatusOK, w.Code)

	var g models.Game
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &g))
	assert.Equal(t, "Celeste", g.Title)
	assert.Equal(t, "PC", g.Platforms)
}

func TestListDefaultsAndEnvelope(t *testing.T) {
	router, repo := newTestRouter(t, new(MockProvider))
	seedGames(t, repo, 21)

	w := doGet(router, "/games")
	require.Equal(t, http.StatusOK, w.Code)

	var res ListResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, 1, res.Page)
	assert.Equal(t, 10, res.Limit)
	assert.Equal(t, 21, res.Total)
	assert.Equal(t, 3, res.TotalPages)
	assert.Len(t, res.Games, 10)
}

func TestListClampsBadPagination(t *testing.T) {
	router, repo := newTestRouter(t, new(MockProvider))
	require.NoError(t, repo.Insert(context.Background(), &models.Game{Title: "Solo"}))

	w := doGet(router, "/games?page=-3&limit=0")
	require.Equal(t, http.StatusOK, w.Code)

	var res ListResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, 1, res.Page)
	assert.Equal(t, 10, res.Limit)
	assert.Len(t, res.Games, 1)
}

func TestListEmptyEnvelope(t *testing.T) {
	router, _ := newTestRouter(t, new(MockProvider))

	w := doGet(router, "/games?name=nope")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"games":[]`)
	assert.Contains(t, w.Body.String(), `"totalPages":0`)
}
