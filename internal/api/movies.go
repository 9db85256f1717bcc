package api

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"movieclub-backend/internal/domain"
)

func pageRequest(r *http.Request) domain.PageRequest {
	q := r.URL.Query()

	page, err := strconv.Atoi(q.Get("page"))
	if err != nil || page < 0 {
		page = 0
	}
	size, err := strconv.Atoi(q.Get("size"))
	if err != nil || size <= 0 {
		size = 10
	}
	if size > 100 {
		size = 100
	}

	sort := q.Get("sort")
	if sort == "" {
		sort = "createdAt"
	}
	direction := q.Get("direction")
	if direction == "" {
		direction = "desc"
	}

	return domain.PageRequest{Page: page, Size: size, Sort: sort, Direction: direction}
}

func movieID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	return id, err == nil
}

func (h *Handler) CreateMovie(w http.ResponseWriter, r *http.Request) {
	var req domain.MovieCreateRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	movie, err := h.movies.Create(r.Context(), req)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, movie)
}

func (h *Handler) GetMovie(w http.ResponseWriter, r *http.Request) {
	id, ok := movieID(r)
	if !ok {
		h.respondError(w, r, http.StatusBadRequest, "TYPE_MISMATCH", "영화 ID는 숫자여야 합니다.")
		return
	}

	movie, err := h.movies.Get(r.Context(), id, h.callerMemberID(r))
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, movie)
}

func (h *Handler) ListMovies(w http.ResponseWriter, r *http.Request) {
	page, err := h.movies.List(r.Context(), pageRequest(r), h.callerMemberID(r))
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, page)
}

func (h *Handler) ListMoviesByGenre(w http.ResponseWriter, r *http.Request) {
	genre := mux.Vars(r)["genre"]

	page, err := h.movies.ListByGenre(r.Context(), genre, pageRequest(r), h.callerMemberID(r))
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, page)
}

func (h *Handler) SearchMovies(w http.ResponseWriter, r *http.Request) {
	keyword := r.URL.Query().Get("keyword")
	if keyword == "" {
		h.respondError(w, r, http.StatusBadRequest, "MISSING_PARAMETER", "필수 파라미터 누락: keyword")
		return
	}

	page, err := h.movies.Search(r.Context(), keyword, pageRequest(r), h.callerMemberID(r))
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, page)
}

func (h *Handler) RecommendedMovies(w http.ResponseWriter, r *http.Request) {
	page, err := h.movies.Recommended(r.Context(), pageRequest(r), h.callerMemberID(r))
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, page)
}

func (h *Handler) TopRecommendedMovies(w http.ResponseWriter, r *http.Request) {
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = 5
	}

	movies, err := h.movies.TopRecommended(r.Context(), limit, h.callerMemberID(r))
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, movies)
}

func (h *Handler) ListGenres(w http.ResponseWriter, r *http.Request) {
	genres, err := h.movies.Genres(r.Context())
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	if genres == nil {
		genres = []string{}
	}
	h.respondJSON(w, http.StatusOK, genres)
}

// ToggleRecommendation flips the caller's recommendation for a movie. The
// member identity comes from the memberId query parameter, falling back to
// the login session.
func (h *Handler) ToggleRecommendation(w http.ResponseWriter, r *http.Request) {
	id, ok := movieID(r)
	if !ok {
		h.respondError(w, r, http.StatusBadRequest, "TYPE_MISMATCH", "영화 ID는 숫자여야 합니다.")
		return
	}

	memberID := h.callerMemberID(r)
	if memberID == "" {
		h.respondError(w, r, http.StatusBadRequest, "MISSING_PARAMETER", "필수 파라미터 누락: memberId")
		return
	}

	result, err := h.recs.Toggle(r.Context(), id, memberID)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, result)
}

func (h *Handler) CheckRecommendation(w http.ResponseWriter, r *http.Request) {
	id, ok := movieID(r)
	if !ok {
		h.respondError(w, r, http.StatusBadRequest, "TYPE_MISMATCH", "영화 ID는 숫자여야 합니다.")
		return
	}

	recommended, err := h.recs.IsRecommended(r.Context(), id, h.callerMemberID(r))
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, recommended)
}
