package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"movieclub-backend/internal/domain"
)

const memberColumns = "id, name, birth, email, password, created_at"

func scanMember(row pgx.Row) (*domain.Member, error) {
	var m domain.Member
	err := row.Scan(&m.ID, &m.Name, &m.Birth, &m.Email, &m.Password, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// CreateMember inserts a new member. The password must already be hashed.
func (s *Store) CreateMember(ctx context.Context, m domain.Member) error {
	_, err := s.Pool.Exec(ctx,
		"INSERT INTO members (id, name, birth, email, password) VALUES ($1, $2, $3, $4, $5)",
		m.ID, m.Name, m.Birth, m.Email, m.Password)
	if err != nil {
		if IsUniqueViolation(err) {
			return ErrDuplicateMember
		}
		return fmt.Errorf("member insert failed: %w", err)
	}
	return nil
}

// GetMember retrieves a member including the password hash.
func (s *Store) GetMember(ctx context.Context, id string) (*domain.Member, error) {
	row := s.Pool.QueryRow(ctx, "SELECT "+memberColumns+" FROM members WHERE id = $1", id)
	member, err := scanMember(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}
	return member, nil
}

// MemberExists reports whether a member ID is taken.
func (s *Store) MemberExists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := s.Pool.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM members WHERE id = $1)", id).Scan(&exists)
	return exists, err
}

// ListMembers returns every member, oldest first.
func (s *Store) ListMembers(ctx context.Context) ([]domain.Member, error) {
	rows, err := s.Pool.Query(ctx, "SELECT "+memberColumns+" FROM members ORDER BY created_at")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []domain.Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		members = append(members, *m)
	}
	return members, rows.Err()
}

// UpdateMember overwrites the profile fields of a member.
func (s *Store) UpdateMember(ctx context.Context, id string, req domain.MemberUpdateRequest) (*domain.Member, error) {
	row := s.Pool.QueryRow(ctx,
		"UPDATE members SET name = $1, birth = $2, email = $3 WHERE id = $4 RETURNING "+memberColumns,
		req.Name, req.Birth, req.Email, id)
	member, err := scanMember(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}
	return member, nil
}

// UpdatePassword replaces a member's password hash.
func (s *Store) UpdatePassword(ctx context.Context, id string, hashed string) error {
	tag, err := s.Pool.Exec(ctx, "UPDATE members SET password = $1 WHERE id = $2", hashed, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrMemberNotFound
	}
	return nil
}

// DeleteMemberAccount removes a member together with every recommendation
// the member made, decrementing the affected movie counters in the same
// transaction so the ledger/counter invariant survives account deletion.
func (s *Store) DeleteMemberAccount(ctx context.Context, id string) error {
	tx, err := s.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("tx begin failed: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`UPDATE movies SET recommendation_count = GREATEST(recommendation_count - 1, 0), updated_at = now()
		 WHERE id IN (SELECT movie_id FROM movie_recommendations WHERE member_id = $1)`, id)
	if err != nil {
		return fmt.Errorf("counter rollback failed: %w", err)
	}

	_, err = tx.Exec(ctx, "DELETE FROM movie_recommendations WHERE member_id = $1", id)
	if err != nil {
		return fmt.Errorf("recommendation cleanup failed: %w", err)
	}

	tag, err := tx.Exec(ctx, "DELETE FROM members WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("member delete failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrMemberNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("tx commit failed: %w", err)
	}
	return nil
}
