package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"movieclub-backend/internal/domain"
	"movieclub-backend/internal/store"
)

var ErrMemberIDRequired = errors.New("member id is required")

// RecommendationService is the only writer of the recommendation ledger and
// the movie counter. Toggle runs both writes in one transaction so either
// both persist or neither does.
type RecommendationService struct {
	store *store.Store
	log   *zap.Logger
}

func NewRecommendationService(s *store.Store, log *zap.Logger) *RecommendationService {
	return &RecommendationService{store: s, log: log}
}

// Toggle flips memberID's recommendation state for movieID and returns the
// durable counter value after the write.
//
// The movie row is locked for the duration of the transaction, which
// serializes concurrent toggles on the same movie and makes the counter
// update a read-modify-write against the committed value. The composite
// unique constraint on (movie_id, member_id) backstops the check-then-act
// window: a concurrent insert of the same pair surfaces as
// store.ErrDuplicateRecommendation, never as a double increment.
func (s *RecommendationService) Toggle(ctx context.Context, movieID int64, memberID string) (*domain.RecommendationResult, error) {
	if memberID == "" {
		return nil, ErrMemberIDRequired
	}

	tx, err := s.store.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("tx begin failed: %w", err)
	}
	defer tx.Rollback(ctx)

	// 1. Lock the movie row.
	var count int
	err = tx.QueryRow(ctx, "SELECT recommendation_count FROM movies WHERE id = $1 FOR UPDATE", movieID).Scan(&count)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrMovieNotFound
		}
		return nil, fmt.Errorf("movie lock acquisition failed: %w", err)
	}

	// 2. Check the ledger for an existing row.
	var recID int64
	err = tx.QueryRow(ctx,
		"SELECT id FROM movie_recommendations WHERE movie_id = $1 AND member_id = $2",
		movieID, memberID).Scan(&recID)

	switch {
	case err == nil:
		// 3. Present: remove and decrement, floored at zero.
		if _, err := tx.Exec(ctx, "DELETE FROM movie_recommendations WHERE id = $1", recID); err != nil {
			return nil, fmt.Errorf("recommendation delete failed: %w", err)
		}
		err = tx.QueryRow(ctx,
			`UPDATE movies SET recommendation_count = GREATEST(recommendation_count - 1, 0), updated_at = now()
			 WHERE id = $1 RETURNING recommendation_count`, movieID).Scan(&count)
		if err != nil {
			return nil, fmt.Errorf("counter decrement failed: %w", err)
		}

		if err := tx.Commit(ctx); err != nil {
			return nil, fmt.Errorf("tx commit failed: %w", err)
		}
		s.log.Info("recommendation removed",
			zap.Int64("movie_id", movieID), zap.String("member_id", memberID), zap.Int("count", count))
		return domain.RecommendationRemoved(movieID, count), nil

	case errors.Is(err, pgx.ErrNoRows):
		// 4. Absent: insert and increment.
		_, err = tx.Exec(ctx,
			"INSERT INTO movie_recommendations (movie_id, member_id) VALUES ($1, $2)", movieID, memberID)
		if err != nil {
			if store.IsUniqueViolation(err) {
				return nil, store.ErrDuplicateRecommendation
			}
			return nil, fmt.Errorf("recommendation insert failed: %w", err)
		}
		err = tx.QueryRow(ctx,
			`UPDATE movies SET recommendation_count = recommendation_count + 1, updated_at = now()
			 WHERE id = $1 RETURNING recommendation_count`, movieID).Scan(&count)
		if err != nil {
			return nil, fmt.Errorf("counter increment failed: %w", err)
		}

		if err := tx.Commit(ctx); err != nil {
			return nil, fmt.Errorf("tx commit failed: %w", err)
		}
		s.log.Info("recommendation added",
			zap.Int64("movie_id", movieID), zap.String("member_id", memberID), zap.Int("count", count))
		return domain.RecommendationAdded(movieID, count), nil

	default:
		return nil, fmt.Errorf("recommendation lookup failed: %w", err)
	}
}

// IsRecommended reports whether memberID has recommended movieID. An empty
// memberID means an anonymous caller: the answer is false and the ledger is
// not queried.
func (s *RecommendationService) IsRecommended(ctx context.Context, movieID int64, memberID string) (bool, error) {
	if memberID == "" {
		return false, nil
	}
	return s.store.RecommendationExists(ctx, movieID, memberID)
}

// RecommendedSet returns the subset of movieIDs recommended by memberID.
// Empty memberID short-circuits to an empty set without touching the store.
func (s *RecommendationService) RecommendedSet(ctx context.Context, movieIDs []int64, memberID string) (map[int64]bool, error) {
	if memberID == "" {
		return map[int64]bool{}, nil
	}
	return s.store.RecommendedMovieIDs(ctx, memberID, movieIDs)
}
