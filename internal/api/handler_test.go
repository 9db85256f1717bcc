package api

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"movieclub-backend/internal/auth"
	"movieclub-backend/internal/domain"
	"movieclub-backend/internal/service"
	"movieclub-backend/internal/store"
)

// fakeCatalog serves a fixed movie set without a database.
type fakeCatalog struct {
	movies map[int64]domain.Movie
}

func (f *fakeCatalog) Create(_ context.Context, req domain.MovieCreateRequest) (*domain.MovieResponse, error) {
	for _, m := range f.movies {
		if m.Title == req.Title {
			return nil, store.ErrDuplicateTitle
		}
	}
	id := int64(len(f.movies) + 1)
	m := domain.Movie{ID: id, Title: req.Title, Genre: req.Genre, CreatedAt: time.Now()}
	f.movies[id] = m
	resp := domain.MovieResponseFrom(m, false)
	return &resp, nil
}

func (f *fakeCatalog) Get(_ context.Context, id int64, memberID string) (*domain.MovieResponse, error) {
	m, ok := f.movies[id]
	if !ok {
		return nil, store.ErrMovieNotFound
	}
	resp := domain.MovieResponseFrom(m, false)
	return &resp, nil
}

func (f *fakeCatalog) List(_ context.Context, req domain.PageRequest, memberID string) (*domain.MoviePage, error) {
	var content []domain.MovieResponse
	for _, m := range f.movies {
		content = append(content, domain.MovieResponseFrom(m, false))
	}
	return domain.NewMoviePage(content, req, int64(len(content))), nil
}

func (f *fakeCatalog) ListByGenre(ctx context.Context, genre string, req domain.PageRequest, memberID string) (*domain.MoviePage, error) {
	return f.List(ctx, req, memberID)
}

func (f *fakeCatalog) Search(ctx context.Context, keyword string, req domain.PageRequest, memberID string) (*domain.MoviePage, error) {
	return f.List(ctx, req, memberID)
}

func (f *fakeCatalog) Recommended(ctx context.Context, req domain.PageRequest, memberID string) (*domain.MoviePage, error) {
	return f.List(ctx, req, memberID)
}

func (f *fakeCatalog) TopRecommended(_ context.Context, limit int, memberID string) ([]domain.MovieResponse, error) {
	return []domain.MovieResponse{}, nil
}

func (f *fakeCatalog) Genres(_ context.Context) ([]string, error) {
	return []string{"Drama", "Thriller"}, nil
}

// fakeRecommender keeps the ledger as a map and the counters alongside it,
// mirroring the real toggle semantics.
type fakeRecommender struct {
	movies map[int64]bool
	ledger map[int64]map[string]bool
	// forceDuplicate simulates a lost check-then-act race on insert.
	forceDuplicate bool
	lastMemberID   string
}

func newFakeRecommender(movieIDs ...int64) *fakeRecommender {
	f := &fakeRecommender{movies: map[int64]bool{}, ledger: map[int64]map[string]bool{}}
	for _, id := range movieIDs {
		f.movies[id] = true
		f.ledger[id] = map[string]bool{}
	}
	return f
}

func (f *fakeRecommender) Toggle(_ context.Context, movieID int64, memberID string) (*domain.RecommendationResult, error) {
	f.lastMemberID = memberID
	if !f.movies[movieID] {
		return nil, store.ErrMovieNotFound
	}
	if f.ledger[movieID][memberID] {
		delete(f.ledger[movieID], memberID)
		return domain.RecommendationRemoved(movieID, len(f.ledger[movieID])), nil
	}
	if f.forceDuplicate {
		return nil, store.ErrDuplicateRecommendation
	}
	f.ledger[movieID][memberID] = true
	return domain.RecommendationAdded(movieID, len(f.ledger[movieID])), nil
}

func (f *fakeRecommender) IsRecommended(_ context.Context, movieID int64, memberID string) (bool, error) {
	if memberID == "" {
		return false, nil
	}
	return f.ledger[movieID][memberID], nil
}

// fakeMembers implements MemberAccounts over a map keyed by member ID.
type fakeMembers struct {
	members   map[string]domain.Member
	passwords map[string]string
}

func newFakeMembers() *fakeMembers {
	return &fakeMembers{members: map[string]domain.Member{}, passwords: map[string]string{}}
}

func (f *fakeMembers) Signup(_ context.Context, req domain.SignupRequest) error {
	if _, ok := f.members[req.ID]; ok {
		return store.ErrDuplicateMember
	}
	f.members[req.ID] = domain.Member{ID: req.ID, Name: req.Name, Birth: req.Birth, Email: req.Email}
	f.passwords[req.ID] = req.Password
	return nil
}

func (f *fakeMembers) Login(_ context.Context, id, password string) (*domain.MemberResponse, error) {
	if f.passwords[id] != password || password == "" {
		return nil, service.ErrLoginFailed
	}
	resp := domain.MemberResponseFrom(f.members[id])
	return &resp, nil
}

func (f *fakeMembers) Get(_ context.Context, id string) (*domain.MemberResponse, error) {
	m, ok := f.members[id]
	if !ok {
		return nil, store.ErrMemberNotFound
	}
	resp := domain.MemberResponseFrom(m)
	return &resp, nil
}

func (f *fakeMembers) List(_ context.Context) ([]domain.MemberResponse, error) {
	var out []domain.MemberResponse
	for _, m := range f.members {
		out = append(out, domain.MemberResponseFrom(m))
	}
	return out, nil
}

func (f *fakeMembers) Update(_ context.Context, id string, req domain.MemberUpdateRequest) (*domain.MemberResponse, error) {
	m, ok := f.members[id]
	if !ok {
		return nil, store.ErrMemberNotFound
	}
	m.Name, m.Birth, m.Email = req.Name, req.Birth, req.Email
	f.members[id] = m
	resp := domain.MemberResponseFrom(m)
	return &resp, nil
}

func (f *fakeMembers) ChangePassword(_ context.Context, id string, req domain.PasswordChangeRequest) error {
	if f.passwords[id] != req.CurrentPassword {
		return service.ErrInvalidPassword
	}
	f.passwords[id] = req.NewPassword
	return nil
}

func (f *fakeMembers) DeleteAccount(_ context.Context, id, password string) error {
	if _, ok := f.members[id]; !ok {
		return store.ErrMemberNotFound
	}
	if f.passwords[id] != password {
		return service.ErrInvalidPassword
	}
	delete(f.members, id)
	delete(f.passwords, id)
	return nil
}

func (f *fakeMembers) IDAvailable(_ context.Context, id string) (bool, error) {
	_, taken := f.members[id]
	return !taken, nil
}

type fakeUploads struct {
	lastKind string
}

func (f *fakeUploads) SaveImage(r io.Reader, contentType, kind string, size int64) (string, error) {
	f.lastKind = kind
	return "/uploads/" + kind + "/fixed.png", nil
}

type testEnv struct {
	handler  *Handler
	router   *mux.Router
	catalog  *fakeCatalog
	recs     *fakeRecommender
	members  *fakeMembers
	uploads  *fakeUploads
	sessions *auth.Sessions
}

func newTestEnv() *testEnv {
	catalog := &fakeCatalog{movies: map[int64]domain.Movie{
		1: {ID: 1, Title: "Oldboy", Genre: "Thriller"},
		2: {ID: 2, Title: "Burning", Genre: "Drama"},
	}}
	recs := newFakeRecommender(1, 2)
	members := newFakeMembers()
	uploads := &fakeUploads{}
	sessions := auth.NewSessions("test-secret", time.Hour)
	h := NewHandler(catalog, recs, members, uploads, sessions, zap.NewNop())

	r := mux.NewRouter()
	r.HandleFunc("/health", h.HealthCheck).Methods("GET")

	m := r.PathPrefix("/api/movies").Subrouter()
	m.HandleFunc("", h.CreateMovie).Methods("POST")
	m.HandleFunc("", h.ListMovies).Methods("GET")
	m.HandleFunc("/genres", h.ListGenres).Methods("GET")
	m.HandleFunc("/genre/{genre}", h.ListMoviesByGenre).Methods("GET")
	m.HandleFunc("/search", h.SearchMovies).Methods("GET")
	m.HandleFunc("/recommended", h.RecommendedMovies).Methods("GET")
	m.HandleFunc("/top-recommended", h.TopRecommendedMovies).Methods("GET")
	m.HandleFunc("/{id}", h.GetMovie).Methods("GET")
	m.HandleFunc("/{id}/recommend", h.ToggleRecommendation).Methods("POST")
	m.HandleFunc("/{id}/recommend/check", h.CheckRecommendation).Methods("GET")

	mm := r.PathPrefix("/api/member").Subrouter()
	mm.HandleFunc("/save", h.Signup).Methods("POST")
	mm.HandleFunc("/login", h.Login).Methods("POST")
	mm.HandleFunc("/logout", h.Logout).Methods("GET")
	mm.HandleFunc("/check-session", h.CheckSession).Methods("GET")
	mm.HandleFunc("/me", h.Me).Methods("GET")
	mm.HandleFunc("/all", h.ListMembers).Methods("GET")
	mm.HandleFunc("/update", h.UpdateMember).Methods("POST")
	mm.HandleFunc("/change-password", h.ChangePassword).Methods("POST")
	mm.HandleFunc("/id-check", h.IDCheck).Methods("POST")
	mm.HandleFunc("/delete/{id}", h.DeleteMember).Methods("DELETE")
	mm.HandleFunc("/{id}", h.GetMember).Methods("GET")

	r.HandleFunc("/api/upload/image", h.UploadImage).Methods("POST")

	return &testEnv{handler: h, router: r, catalog: catalog, recs: recs, members: members, uploads: uploads, sessions: sessions}
}

func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}
