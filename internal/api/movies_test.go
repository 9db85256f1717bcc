package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"movieclub-backend/internal/domain"
)

func TestToggleRecommendation(t *testing.T) {
	env := newTestEnv()

	req := httptest.NewRequest("POST", "/api/movies/1/recommend?memberId=alice", nil)
	rec := env.do(req)

	require.Equal(t, http.StatusOK, rec.Code)

	var result domain.RecommendationResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, int64(1), result.MovieID)
	assert.Equal(t, 1, result.RecommendationCount)
	assert.True(t, result.Recommended)
	assert.Contains(t, result.Message, "추가")

	// Second toggle by the same member undoes the first.
	rec = env.do(httptest.NewRequest("POST", "/api/movies/1/recommend?memberId=alice", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, 0, result.RecommendationCount)
	assert.False(t, result.Recommended)
	assert.Contains(t, result.Message, "취소")
}

func TestToggleRecommendationMovieNotFound(t *testing.T) {
	env := newTestEnv()

	rec := env.do(httptest.NewRequest("POST", "/api/movies/9999/recommend?memberId=alice", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)

	var errResp domain.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
	assert.Equal(t, "MOVIE_NOT_FOUND", errResp.Code)
	assert.Equal(t, "/api/movies/9999/recommend", errResp.Path)
}

func TestToggleRecommendationDuplicateRace(t *testing.T) {
	env := newTestEnv()
	env.recs.forceDuplicate = true

	rec := env.do(httptest.NewRequest("POST", "/api/movies/1/recommend?memberId=alice", nil))
	require.Equal(t, http.StatusConflict, rec.Code)

	var errResp domain.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
	assert.Equal(t, "DUPLICATE_RECOMMENDATION", errResp.Code)
}

func TestToggleRecommendationRequiresMemberID(t *testing.T) {
	env := newTestEnv()

	rec := env.do(httptest.NewRequest("POST", "/api/movies/1/recommend", nil))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var errResp domain.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
	assert.Equal(t, "MISSING_PARAMETER", errResp.Code)
}

func TestToggleRecommendationUsesSessionIdentity(t *testing.T) {
	env := newTestEnv()

	token, err := env.sessions.Issue("bob")
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/api/movies/1/recommend", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := env.do(req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "bob", env.recs.lastMemberID)
}

func TestCheckRecommendation(t *testing.T) {
	env := newTestEnv()
	env.recs.ledger[1]["alice"] = true

	rec := env.do(httptest.NewRequest("GET", "/api/movies/1/recommend/check?memberId=alice", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "true", strings.TrimSpace(rec.Body.String()))

	rec = env.do(httptest.NewRequest("GET", "/api/movies/1/recommend/check?memberId=carol", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "false", strings.TrimSpace(rec.Body.String()))

	// Anonymous check is always false.
	rec = env.do(httptest.NewRequest("GET", "/api/movies/1/recommend/check", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "false", strings.TrimSpace(rec.Body.String()))
}

func TestCreateMovie(t *testing.T) {
	env := newTestEnv()

	body := `{"title":"Decision to Leave","genre":"Mystery"}`
	req := httptest.NewRequest("POST", "/api/movies", strings.NewReader(body))
	rec := env.do(req)
	require.Equal(t, http.StatusCreated, rec.Code)

	var movie domain.MovieResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &movie))
	assert.Equal(t, "Decision to Leave", movie.Title)
	assert.Equal(t, 0, movie.RecommendationCount)
}

func TestCreateMovieDuplicateTitle(t *testing.T) {
	env := newTestEnv()

	body := `{"title":"Oldboy"}`
	rec := env.do(httptest.NewRequest("POST", "/api/movies", strings.NewReader(body)))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var errResp domain.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
	assert.Equal(t, "INVALID_ARGUMENT", errResp.Code)
}

func TestCreateMovieValidation(t *testing.T) {
	env := newTestEnv()

	rec := env.do(httptest.NewRequest("POST", "/api/movies", strings.NewReader(`{"genre":"Drama"}`)))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var errResp domain.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
	assert.Equal(t, "VALIDATION_ERROR", errResp.Code)
}

func TestGetMovieBadID(t *testing.T) {
	env := newTestEnv()

	rec := env.do(httptest.NewRequest("GET", "/api/movies/abc", nil))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var errResp domain.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
	assert.Equal(t, "TYPE_MISMATCH", errResp.Code)
}

func TestListMoviesPageEnvelope(t *testing.T) {
	env := newTestEnv()

	rec := env.do(httptest.NewRequest("GET", "/api/movies?page=0&size=10", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var page domain.MoviePage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Equal(t, int64(2), page.TotalElements)
	assert.Equal(t, 1, page.TotalPages)
	assert.Len(t, page.Content, 2)
}

func TestSearchRequiresKeyword(t *testing.T) {
	env := newTestEnv()

	rec := env.do(httptest.NewRequest("GET", "/api/movies/search", nil))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPageRequestParsing(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/movies?page=2&size=25&sort=title&direction=asc", nil)
	pr := pageRequest(req)
	assert.Equal(t, 2, pr.Page)
	assert.Equal(t, 25, pr.Size)
	assert.Equal(t, "title", pr.Sort)
	assert.Equal(t, "asc", pr.Direction)
	assert.Equal(t, 50, pr.Offset())

	// Defaults, clamping, junk input.
	req = httptest.NewRequest("GET", "/api/movies?page=-3&size=9999&sort=&direction=", nil)
	pr = pageRequest(req)
	assert.Equal(t, 0, pr.Page)
	assert.Equal(t, 100, pr.Size)
	assert.Equal(t, "createdAt", pr.Sort)
	assert.Equal(t, "desc", pr.Direction)
}
