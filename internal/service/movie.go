package service

import (
	"context"

	"go.uber.org/zap"

	"movieclub-backend/internal/domain"
	"movieclub-backend/internal/store"
)

// MovieService is the read/create surface of the catalog. Every listing is
// decorated with the caller's recommendation state; memberID may be empty
// for anonymous callers, in which case the flag is false everywhere.
type MovieService struct {
	store *store.Store
	recs  *RecommendationService
	log   *zap.Logger
}

func NewMovieService(s *store.Store, recs *RecommendationService, log *zap.Logger) *MovieService {
	return &MovieService{store: s, recs: recs, log: log}
}

func (s *MovieService) Create(ctx context.Context, req domain.MovieCreateRequest) (*domain.MovieResponse, error) {
	movie, err := s.store.CreateMovie(ctx, req)
	if err != nil {
		return nil, err
	}
	s.log.Info("movie created", zap.Int64("id", movie.ID), zap.String("title", movie.Title))
	resp := domain.MovieResponseFrom(*movie, false)
	return &resp, nil
}

func (s *MovieService) Get(ctx context.Context, id int64, memberID string) (*domain.MovieResponse, error) {
	movie, err := s.store.GetMovie(ctx, id)
	if err != nil {
		return nil, err
	}
	recommended, err := s.recs.IsRecommended(ctx, id, memberID)
	if err != nil {
		return nil, err
	}
	resp := domain.MovieResponseFrom(*movie, recommended)
	return &resp, nil
}

func (s *MovieService) List(ctx context.Context, req domain.PageRequest, memberID string) (*domain.MoviePage, error) {
	movies, total, err := s.store.ListMovies(ctx, req)
	if err != nil {
		return nil, err
	}
	return s.page(ctx, movies, req, total, memberID)
}

func (s *MovieService) ListByGenre(ctx context.Context, genre string, req domain.PageRequest, memberID string) (*domain.MoviePage, error) {
	movies, total, err := s.store.ListMoviesByGenre(ctx, genre, req)
	if err != nil {
		return nil, err
	}
	return s.page(ctx, movies, req, total, memberID)
}

func (s *MovieService) Search(ctx context.Context, keyword string, req domain.PageRequest, memberID string) (*domain.MoviePage, error) {
	movies, total, err := s.store.SearchMovies(ctx, keyword, req)
	if err != nil {
		return nil, err
	}
	return s.page(ctx, movies, req, total, memberID)
}

func (s *MovieService) Recommended(ctx context.Context, req domain.PageRequest, memberID string) (*domain.MoviePage, error) {
	movies, total, err := s.store.ListMoviesByRecommendation(ctx, req)
	if err != nil {
		return nil, err
	}
	return s.page(ctx, movies, req, total, memberID)
}

func (s *MovieService) TopRecommended(ctx context.Context, limit int, memberID string) ([]domain.MovieResponse, error) {
	if limit <= 0 {
		limit = 5
	}
	movies, err := s.store.TopMovies(ctx, limit)
	if err != nil {
		return nil, err
	}
	return s.decorate(ctx, movies, memberID)
}

func (s *MovieService) Genres(ctx context.Context) ([]string, error) {
	return s.store.DistinctGenres(ctx)
}

func (s *MovieService) page(ctx context.Context, movies []domain.Movie, req domain.PageRequest, total int64, memberID string) (*domain.MoviePage, error) {
	content, err := s.decorate(ctx, movies, memberID)
	if err != nil {
		return nil, err
	}
	return domain.NewMoviePage(content, req, total), nil
}

// decorate attaches the per-caller recommendation flag with a single
// batched ledger lookup for the whole slice.
func (s *MovieService) decorate(ctx context.Context, movies []domain.Movie, memberID string) ([]domain.MovieResponse, error) {
	ids := make([]int64, len(movies))
	for i, m := range movies {
		ids[i] = m.ID
	}
	recommended, err := s.recs.RecommendedSet(ctx, ids, memberID)
	if err != nil {
		return nil, err
	}

	responses := make([]domain.MovieResponse, len(movies))
	for i, m := range movies {
		responses[i] = domain.MovieResponseFrom(m, recommended[m.ID])
	}
	return responses, nil
}
