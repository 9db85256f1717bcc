package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"movieclub-backend/internal/domain"
)

func TestOrderClause(t *testing.T) {
	cases := []struct {
		name string
		req  domain.PageRequest
		want string
	}{
		{"default sort", domain.PageRequest{Sort: "createdAt", Direction: "desc"}, "ORDER BY created_at DESC"},
		{"title asc", domain.PageRequest{Sort: "title", Direction: "asc"}, "ORDER BY title ASC"},
		{"camel case column", domain.PageRequest{Sort: "recommendationCount", Direction: "desc"}, "ORDER BY recommendation_count DESC"},
		{"case insensitive direction", domain.PageRequest{Sort: "genre", Direction: "ASC"}, "ORDER BY genre ASC"},
		{"unknown sort falls back", domain.PageRequest{Sort: "id; DROP TABLE movies", Direction: "asc"}, "ORDER BY created_at ASC"},
		{"unknown direction falls back", domain.PageRequest{Sort: "title", Direction: "sideways"}, "ORDER BY title DESC"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, orderClause(tc.req))
		})
	}
}

func TestIsUniqueViolation(t *testing.T) {
	unique := &pgconn.PgError{Code: "23505"}
	assert.True(t, IsUniqueViolation(unique))
	assert.True(t, IsUniqueViolation(fmt.Errorf("insert failed: %w", unique)))

	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, IsUniqueViolation(errors.New("plain error")))
	assert.False(t, IsUniqueViolation(nil))
}

func TestIsIntegrityViolation(t *testing.T) {
	assert.True(t, IsIntegrityViolation(&pgconn.PgError{Code: "23505"}))
	assert.True(t, IsIntegrityViolation(&pgconn.PgError{Code: "23503"}))
	assert.True(t, IsIntegrityViolation(&pgconn.PgError{Code: "23514"}))

	assert.False(t, IsIntegrityViolation(&pgconn.PgError{Code: "42703"}))
	assert.False(t, IsIntegrityViolation(errors.New("plain error")))
	assert.False(t, IsIntegrityViolation(nil))
}
