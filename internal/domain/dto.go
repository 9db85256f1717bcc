package domain

import "time"

// MovieCreateRequest is the payload for catalog insertion.
type MovieCreateRequest struct {
	Title       string `json:"title" validate:"required,max=255"`
	Genre       string `json:"genre" validate:"max=100"`
	ReleaseDate string `json:"releaseDate" validate:"max=20"`
	Description string `json:"description"`
	PosterURL   string `json:"posterUrl" validate:"max=500"`
}

// MovieResponse is a Movie plus the per-caller recommendation flag used by
// every listing endpoint. The flag defaults to false for anonymous callers.
type MovieResponse struct {
	ID                       int64     `json:"id"`
	Title                    string    `json:"title"`
	Genre                    string    `json:"genre"`
	ReleaseDate              string    `json:"releaseDate"`
	Description              string    `json:"description"`
	PosterURL                string    `json:"posterUrl"`
	RecommendationCount      int       `json:"recommendationCount"`
	RecommendedByCurrentUser bool      `json:"recommendedByCurrentUser"`
	CreatedAt                time.Time `json:"createdAt"`
}

// MovieResponseFrom maps a Movie to its response shape.
func MovieResponseFrom(m Movie, recommended bool) MovieResponse {
	return MovieResponse{
		ID:                       m.ID,
		Title:                    m.Title,
		Genre:                    m.Genre,
		ReleaseDate:              m.ReleaseDate,
		Description:              m.Description,
		PosterURL:                m.PosterURL,
		RecommendationCount:      m.RecommendationCount,
		RecommendedByCurrentUser: recommended,
		CreatedAt:                m.CreatedAt,
	}
}

// PageRequest carries pagination and sorting parameters. Page is zero-based.
type PageRequest struct {
	Page      int
	Size      int
	Sort      string
	Direction string
}

// Offset returns the row offset for the requested page.
func (p PageRequest) Offset() int { return p.Page * p.Size }

// MoviePage is one page of catalog results.
type MoviePage struct {
	Content       []MovieResponse `json:"content"`
	Page          int             `json:"page"`
	Size          int             `json:"size"`
	TotalElements int64           `json:"totalElements"`
	TotalPages    int             `json:"totalPages"`
}

// NewMoviePage computes the page envelope from a result slice and total count.
func NewMoviePage(content []MovieResponse, req PageRequest, total int64) *MoviePage {
	pages := 0
	if req.Size > 0 {
		pages = int((total + int64(req.Size) - 1) / int64(req.Size))
	}
	if content == nil {
		content = []MovieResponse{}
	}
	return &MoviePage{
		Content:       content,
		Page:          req.Page,
		Size:          req.Size,
		TotalElements: total,
		TotalPages:    pages,
	}
}

// SignupRequest is the payload for member registration.
type SignupRequest struct {
	ID       string `json:"id" validate:"required,max=50"`
	Password string `json:"password" validate:"required,min=4"`
	Name     string `json:"name" validate:"max=100"`
	Birth    string `json:"birth" validate:"max=20"`
	Email    string `json:"email" validate:"omitempty,email"`
}

// LoginRequest is the payload for member login.
type LoginRequest struct {
	ID       string `json:"id" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// MemberUpdateRequest is the payload for profile updates.
type MemberUpdateRequest struct {
	Name  string `json:"name" validate:"required,max=100"`
	Birth string `json:"birth" validate:"required,max=20"`
	Email string `json:"email" validate:"omitempty,email"`
}

// PasswordChangeRequest carries the three fields of a password change.
type PasswordChangeRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=4"`
	ConfirmPassword string `json:"confirmPassword" validate:"required"`
}

// DeleteAccountRequest confirms account deletion with the member's password.
type DeleteAccountRequest struct {
	Password string `json:"password" validate:"required"`
}

// MemberResponse is the public view of a member.
type MemberResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Birth string `json:"birth"`
	Email string `json:"email"`
}

// MemberResponseFrom strips the credential fields off a Member.
func MemberResponseFrom(m Member) MemberResponse {
	return MemberResponse{ID: m.ID, Name: m.Name, Birth: m.Birth, Email: m.Email}
}

// ErrorResponse is the canonical error body: a machine-readable code, a
// human-readable message, the request path and a timestamp.
type ErrorResponse struct {
	Code      string    `json:"code"`
	Message   string    `json:"message"`
	Path      string    `json:"path"`
	Timestamp time.Time `json:"timestamp"`
}
