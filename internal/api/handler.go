package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"movieclub-backend/internal/auth"
	"movieclub-backend/internal/domain"
	"movieclub-backend/internal/service"
	"movieclub-backend/internal/store"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "movieclub_http_requests_total",
		Help: "Total HTTP requests processed, labeled by status code",
	}, []string{"method", "endpoint", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "movieclub_http_request_duration_seconds",
		Help:    "Latency distribution of HTTP requests",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	}, []string{"method", "endpoint"})
)

// MovieCatalog is the catalog surface the movie handlers depend on.
type MovieCatalog interface {
	Create(ctx context.Context, req domain.MovieCreateRequest) (*domain.MovieResponse, error)
	Get(ctx context.Context, id int64, memberID string) (*domain.MovieResponse, error)
	List(ctx context.Context, req domain.PageRequest, memberID string) (*domain.MoviePage, error)
	ListByGenre(ctx context.Context, genre string, req domain.PageRequest, memberID string) (*domain.MoviePage, error)
	Search(ctx context.Context, keyword string, req domain.PageRequest, memberID string) (*domain.MoviePage, error)
	Recommended(ctx context.Context, req domain.PageRequest, memberID string) (*domain.MoviePage, error)
	TopRecommended(ctx context.Context, limit int, memberID string) ([]domain.MovieResponse, error)
	Genres(ctx context.Context) ([]string, error)
}

// Recommender is the toggle/check surface of the recommendation service.
type Recommender interface {
	Toggle(ctx context.Context, movieID int64, memberID string) (*domain.RecommendationResult, error)
	IsRecommended(ctx context.Context, movieID int64, memberID string) (bool, error)
}

// MemberAccounts is the membership surface the member handlers depend on.
type MemberAccounts interface {
	Signup(ctx context.Context, req domain.SignupRequest) error
	Login(ctx context.Context, id, password string) (*domain.MemberResponse, error)
	Get(ctx context.Context, id string) (*domain.MemberResponse, error)
	List(ctx context.Context) ([]domain.MemberResponse, error)
	Update(ctx context.Context, id string, req domain.MemberUpdateRequest) (*domain.MemberResponse, error)
	ChangePassword(ctx context.Context, id string, req domain.PasswordChangeRequest) error
	DeleteAccount(ctx context.Context, id, password string) error
	IDAvailable(ctx context.Context, id string) (bool, error)
}

// ImageStore persists uploaded poster images.
type ImageStore interface {
	SaveImage(r io.Reader, contentType, kind string, size int64) (string, error)
}

type Handler struct {
	movies   MovieCatalog
	recs     Recommender
	members  MemberAccounts
	uploads  ImageStore
	sessions *auth.Sessions
	validate *validator.Validate
	log      *zap.Logger
}

func NewHandler(movies MovieCatalog, recs Recommender, members MemberAccounts, uploads ImageStore, sessions *auth.Sessions, log *zap.Logger) *Handler {
	return &Handler{
		movies:   movies,
		recs:     recs,
		members:  members,
		uploads:  uploads,
		sessions: sessions,
		validate: validator.New(),
		log:      log,
	}
}

func (h *Handler) respondJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if payload != nil {
		json.NewEncoder(w).Encode(payload)
	}
}

func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, code int, errCode, message string) {
	h.respondJSON(w, code, domain.ErrorResponse{
		Code:      errCode,
		Message:   message,
		Path:      r.URL.Path,
		Timestamp: time.Now(),
	})
}

// decodeAndValidate reads the JSON body into dst and runs struct validation.
// A false return means the error response has already been written.
func (h *Handler) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.respondError(w, r, http.StatusBadRequest, "INVALID_ARGUMENT", "잘못된 요청 본문입니다.")
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		h.respondError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "입력값 검증에 실패했습니다: "+err.Error())
		return false
	}
	return true
}

// respondServiceError maps service and storage errors onto the HTTP error
// taxonomy. Anything unrecognized is a 500 with the detail kept in the log.
func (h *Handler) respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, store.ErrMovieNotFound):
		h.respondError(w, r, http.StatusNotFound, "MOVIE_NOT_FOUND", "영화를 찾을 수 없습니다.")
	case errors.Is(err, store.ErrDuplicateRecommendation):
		h.respondError(w, r, http.StatusConflict, "DUPLICATE_RECOMMENDATION", "이미 추천한 영화입니다.")
	case errors.Is(err, store.ErrDuplicateTitle):
		h.respondError(w, r, http.StatusBadRequest, "INVALID_ARGUMENT", "동일한 제목의 영화가 이미 존재합니다.")
	case errors.Is(err, store.ErrMemberNotFound):
		h.respondError(w, r, http.StatusNotFound, "MEMBER_NOT_FOUND", "회원을 찾을 수 없습니다.")
	case errors.Is(err, store.ErrDuplicateMember):
		h.respondError(w, r, http.StatusConflict, "DUPLICATE_MEMBER", "이미 사용 중인 아이디입니다.")
	case errors.Is(err, service.ErrMemberIDRequired):
		h.respondError(w, r, http.StatusBadRequest, "MISSING_PARAMETER", "필수 파라미터 누락: memberId")
	case errors.Is(err, service.ErrLoginFailed):
		h.respondError(w, r, http.StatusUnauthorized, "LOGIN_FAILED", "아이디 또는 비밀번호가 틀렸습니다.")
	case errors.Is(err, service.ErrInvalidPassword):
		h.respondError(w, r, http.StatusBadRequest, "INVALID_PASSWORD", "비밀번호가 일치하지 않습니다.")
	case errors.Is(err, service.ErrPasswordMismatch):
		h.respondError(w, r, http.StatusBadRequest, "PASSWORD_MISMATCH", "새 비밀번호가 일치하지 않습니다.")
	case errors.Is(err, service.ErrUploadTooLarge):
		h.respondError(w, r, http.StatusRequestEntityTooLarge, "FILE_SIZE_EXCEEDED", "파일 크기가 너무 큽니다. 최대 5MB까지 업로드 가능합니다.")
	case errors.Is(err, service.ErrUnsupportedType):
		h.respondError(w, r, http.StatusBadRequest, "UNSUPPORTED_FILE_TYPE", "지원되지 않는 파일 형식입니다. JPG, PNG, GIF, WEBP 형식만 업로드 가능합니다.")
	case errors.Is(err, service.ErrEmptyUpload):
		h.respondError(w, r, http.StatusBadRequest, "MULTIPART_ERROR", "업로드할 파일이 없습니다.")
	case store.IsIntegrityViolation(err):
		h.respondError(w, r, http.StatusConflict, "DATA_INTEGRITY_VIOLATION", "데이터 무결성 위반: 중복된 데이터가 존재하거나 참조 무결성이 깨졌습니다.")
	default:
		h.log.Error("unhandled service error", zap.String("path", r.URL.Path), zap.Error(err))
		h.respondError(w, r, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "서버 내부 오류가 발생했습니다.")
	}
}

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
