package store

import "context"

// RecommendationExists reports whether the ledger holds a row for the
// (movie, member) pair.
func (s *Store) RecommendationExists(ctx context.Context, movieID int64, memberID string) (bool, error) {
	var exists bool
	err := s.Pool.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM movie_recommendations WHERE movie_id = $1 AND member_id = $2)",
		movieID, memberID).Scan(&exists)
	return exists, err
}

// RecommendedMovieIDs returns, out of the given movie IDs, the subset the
// member has recommended. One query per page instead of one per movie.
func (s *Store) RecommendedMovieIDs(ctx context.Context, memberID string, movieIDs []int64) (map[int64]bool, error) {
	recommended := make(map[int64]bool, len(movieIDs))
	if len(movieIDs) == 0 {
		return recommended, nil
	}

	rows, err := s.Pool.Query(ctx,
		"SELECT movie_id FROM movie_recommendations WHERE member_id = $1 AND movie_id = ANY($2)",
		memberID, movieIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		recommended[id] = true
	}
	return recommended, rows.Err()
}

// CountRecommendations returns the ledger cardinality for a movie. This is
// the source of truth the denormalized movie counter must agree with.
func (s *Store) CountRecommendations(ctx context.Context, movieID int64) (int64, error) {
	var count int64
	err := s.Pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM movie_recommendations WHERE movie_id = $1", movieID).Scan(&count)
	return count, err
}
