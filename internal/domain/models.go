package domain

import "time"

// Member represents a registered account. The ID is a user-chosen string
// key, not a database-generated number.
type Member struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Birth     string    `json:"birth"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// Movie is a catalog entry. RecommendationCount is denormalized: it mirrors
// the number of Recommendation rows for this movie and is maintained by the
// recommendation service inside the same transaction as the ledger write.
type Movie struct {
	ID                  int64     `json:"id"`
	Title               string    `json:"title"`
	Genre               string    `json:"genre"`
	ReleaseDate         string    `json:"releaseDate"`
	Description         string    `json:"description"`
	PosterURL           string    `json:"posterUrl"`
	RecommendationCount int       `json:"recommendationCount"`
	CreatedAt           time.Time `json:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt"`
}

// Recommendation is one row of the ledger: member X recommends movie Y.
// The (MovieID, MemberID) pair is unique. Rows are inserted and deleted,
// never updated.
type Recommendation struct {
	ID        int64     `json:"id"`
	MovieID   int64     `json:"movieId"`
	MemberID  string    `json:"memberId"`
	CreatedAt time.Time `json:"createdAt"`
}

// RecommendationResult is what a toggle reports back: the durable count
// after the write and whether the caller now recommends the movie.
type RecommendationResult struct {
	MovieID             int64  `json:"movieId"`
	RecommendationCount int    `json:"recommendationCount"`
	Recommended         bool   `json:"recommended"`
	Message             string `json:"message"`
}

// RecommendationAdded builds the result for a toggle that inserted a row.
func RecommendationAdded(movieID int64, count int) *RecommendationResult {
	return &RecommendationResult{
		MovieID:             movieID,
		RecommendationCount: count,
		Recommended:         true,
		Message:             "영화 추천이 추가되었습니다.",
	}
}

// RecommendationRemoved builds the result for a toggle that deleted a row.
func RecommendationRemoved(movieID int64, count int) *RecommendationResult {
	return &RecommendationResult{
		MovieID:             movieID,
		RecommendationCount: count,
		Recommended:         false,
		Message:             "영화 추천이 취소되었습니다.",
	}
}
