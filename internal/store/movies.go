package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"movieclub-backend/internal/domain"
)

const movieColumns = "id, title, genre, release_date, description, poster_url, recommendation_count, created_at, updated_at"

// sortColumns maps the API sort names onto real columns. Anything not in
// the map falls back to created_at.
var sortColumns = map[string]string{
	"title":               "title",
	"genre":               "genre",
	"releaseDate":         "release_date",
	"recommendationCount": "recommendation_count",
	"createdAt":           "created_at",
}

func orderClause(req domain.PageRequest) string {
	col, ok := sortColumns[req.Sort]
	if !ok {
		col = "created_at"
	}
	dir := "DESC"
	if strings.EqualFold(req.Direction, "asc") {
		dir = "ASC"
	}
	return fmt.Sprintf("ORDER BY %s %s", col, dir)
}

func scanMovie(row pgx.Row) (*domain.Movie, error) {
	var m domain.Movie
	err := row.Scan(&m.ID, &m.Title, &m.Genre, &m.ReleaseDate, &m.Description,
		&m.PosterURL, &m.RecommendationCount, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *Store) collectMovies(ctx context.Context, query string, args ...interface{}) ([]domain.Movie, error) {
	rows, err := s.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var movies []domain.Movie
	for rows.Next() {
		m, err := scanMovie(rows)
		if err != nil {
			return nil, err
		}
		movies = append(movies, *m)
	}
	return movies, rows.Err()
}

// CreateMovie inserts a catalog entry with a zero recommendation count.
// Title uniqueness is case-insensitive, enforced by the functional index.
func (s *Store) CreateMovie(ctx context.Context, req domain.MovieCreateRequest) (*domain.Movie, error) {
	row := s.Pool.QueryRow(ctx,
		"INSERT INTO movies (title, genre, release_date, description, poster_url) VALUES ($1, $2, $3, $4, $5) RETURNING "+movieColumns,
		req.Title, req.Genre, req.ReleaseDate, req.Description, req.PosterURL)
	movie, err := scanMovie(row)
	if err != nil {
		if IsUniqueViolation(err) {
			return nil, ErrDuplicateTitle
		}
		return nil, fmt.Errorf("movie insert failed: %w", err)
	}
	return movie, nil
}

// GetMovie retrieves a single movie by ID.
func (s *Store) GetMovie(ctx context.Context, id int64) (*domain.Movie, error) {
	row := s.Pool.QueryRow(ctx, "SELECT "+movieColumns+" FROM movies WHERE id = $1", id)
	movie, err := scanMovie(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMovieNotFound
		}
		return nil, err
	}
	return movie, nil
}

// ListMovies returns one page of the catalog plus the total row count.
func (s *Store) ListMovies(ctx context.Context, req domain.PageRequest) ([]domain.Movie, int64, error) {
	var total int64
	if err := s.Pool.QueryRow(ctx, "SELECT COUNT(*) FROM movies").Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf("SELECT %s FROM movies %s LIMIT $1 OFFSET $2", movieColumns, orderClause(req))
	movies, err := s.collectMovies(ctx, query, req.Size, req.Offset())
	return movies, total, err
}

// ListMoviesByGenre pages over movies whose genre contains the given
// fragment, case-insensitively.
func (s *Store) ListMoviesByGenre(ctx context.Context, genre string, req domain.PageRequest) ([]domain.Movie, int64, error) {
	pattern := "%" + genre + "%"

	var total int64
	if err := s.Pool.QueryRow(ctx, "SELECT COUNT(*) FROM movies WHERE genre ILIKE $1", pattern).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf("SELECT %s FROM movies WHERE genre ILIKE $1 %s LIMIT $2 OFFSET $3", movieColumns, orderClause(req))
	movies, err := s.collectMovies(ctx, query, pattern, req.Size, req.Offset())
	return movies, total, err
}

// SearchMovies pages over movies whose title or genre contains the keyword.
func (s *Store) SearchMovies(ctx context.Context, keyword string, req domain.PageRequest) ([]domain.Movie, int64, error) {
	pattern := "%" + keyword + "%"

	var total int64
	if err := s.Pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM movies WHERE title ILIKE $1 OR genre ILIKE $1", pattern).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf("SELECT %s FROM movies WHERE title ILIKE $1 OR genre ILIKE $1 %s LIMIT $2 OFFSET $3",
		movieColumns, orderClause(req))
	movies, err := s.collectMovies(ctx, query, pattern, req.Size, req.Offset())
	return movies, total, err
}

// ListMoviesByRecommendation pages over the catalog ordered by
// recommendation count, most recommended first.
func (s *Store) ListMoviesByRecommendation(ctx context.Context, req domain.PageRequest) ([]domain.Movie, int64, error) {
	var total int64
	if err := s.Pool.QueryRow(ctx, "SELECT COUNT(*) FROM movies").Scan(&total); err != nil {
		return nil, 0, err
	}

	query := "SELECT " + movieColumns + " FROM movies ORDER BY recommendation_count DESC, created_at DESC LIMIT $1 OFFSET $2"
	movies, err := s.collectMovies(ctx, query, req.Size, req.Offset())
	return movies, total, err
}

// TopMovies returns the limit most recommended movies, newest first on ties.
func (s *Store) TopMovies(ctx context.Context, limit int) ([]domain.Movie, error) {
	query := "SELECT " + movieColumns + " FROM movies ORDER BY recommendation_count DESC, created_at DESC LIMIT $1"
	return s.collectMovies(ctx, query, limit)
}

// DistinctGenres lists every non-empty genre value once, sorted.
func (s *Store) DistinctGenres(ctx context.Context) ([]string, error) {
	rows, err := s.Pool.Query(ctx, "SELECT DISTINCT genre FROM movies WHERE genre <> '' ORDER BY genre")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var genres []string
	for rows.Next() {
		var g string
		if err := rows.Scan(&g); err != nil {
			return nil, err
		}
		genres = append(genres, g)
	}
	return genres, rows.Err()
}
