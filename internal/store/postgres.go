package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrMovieNotFound           = errors.New("movie not found")
	ErrMemberNotFound          = errors.New("member not found")
	ErrDuplicateTitle          = errors.New("movie title already exists")
	ErrDuplicateMember         = errors.New("member id already exists")
	ErrDuplicateRecommendation = errors.New("recommendation already exists")
	ErrIntegrity               = errors.New("data integrity violation")
)

const schema = `
CREATE TABLE IF NOT EXISTS members (
	id VARCHAR(50) PRIMARY KEY,
	name VARCHAR(100) NOT NULL DEFAULT '',
	birth VARCHAR(20) NOT NULL DEFAULT '',
	email VARCHAR(255) NOT NULL DEFAULT '',
	password VARCHAR(100) NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS movies (
	id BIGSERIAL PRIMARY KEY,
	title VARCHAR(255) NOT NULL,
	genre VARCHAR(100) NOT NULL DEFAULT '',
	release_date VARCHAR(20) NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	poster_url VARCHAR(500) NOT NULL DEFAULT '',
	recommendation_count INT NOT NULL DEFAULT 0 CHECK (recommendation_count >= 0),
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE UNIQUE INDEX IF NOT EXISTS uniq_movies_title ON movies (LOWER(title));
CREATE INDEX IF NOT EXISTS idx_movies_genre ON movies (genre);
CREATE INDEX IF NOT EXISTS idx_movies_recommendation_count ON movies (recommendation_count DESC);

CREATE TABLE IF NOT EXISTS movie_recommendations (
	id BIGSERIAL PRIMARY KEY,
	movie_id BIGINT NOT NULL REFERENCES movies(id),
	member_id VARCHAR(50) NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	CONSTRAINT uniq_recommendation UNIQUE (movie_id, member_id)
);

CREATE INDEX IF NOT EXISTS idx_recommendations_member ON movie_recommendations (member_id);
`

type Store struct {
	Pool *pgxpool.Pool
}

func NewStore(connString string) (*Store, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("unable to parse database config: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	if err := pool.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	return &Store{Pool: pool}, nil
}

func (s *Store) Close() {
	s.Pool.Close()
}

// EnsureSchema creates the tables and indexes if they do not exist yet.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.Pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("schema setup failed: %w", err)
	}
	return nil
}

// IsUniqueViolation reports whether err is a Postgres unique constraint
// violation (SQLSTATE 23505).
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// IsIntegrityViolation reports whether err belongs to SQLSTATE class 23
// (integrity constraint violations), unique violations included.
func IsIntegrityViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && len(pgErr.Code) >= 2 && pgErr.Code[:2] == "23"
}
