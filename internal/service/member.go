package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"movieclub-backend/internal/auth"
	"movieclub-backend/internal/domain"
	"movieclub-backend/internal/store"
)

var (
	ErrLoginFailed      = errors.New("id or password incorrect")
	ErrInvalidPassword  = errors.New("password does not match")
	ErrPasswordMismatch = errors.New("new password confirmation does not match")
)

// MemberService handles signup, login and profile maintenance. Passwords
// are stored as bcrypt hashes and never leave this package.
type MemberService struct {
	store *store.Store
	log   *zap.Logger
}

func NewMemberService(s *store.Store, log *zap.Logger) *MemberService {
	return &MemberService{store: s, log: log}
}

func (s *MemberService) Signup(ctx context.Context, req domain.SignupRequest) error {
	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		return err
	}

	member := domain.Member{
		ID:       req.ID,
		Name:     req.Name,
		Birth:    req.Birth,
		Email:    req.Email,
		Password: hashed,
	}
	if err := s.store.CreateMember(ctx, member); err != nil {
		return err
	}
	s.log.Info("member registered", zap.String("member_id", req.ID))
	return nil
}

// Login verifies credentials and returns the member's public profile.
// Unknown IDs and wrong passwords both map to ErrLoginFailed.
func (s *MemberService) Login(ctx context.Context, id, password string) (*domain.MemberResponse, error) {
	member, err := s.store.GetMember(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrMemberNotFound) {
			return nil, ErrLoginFailed
		}
		return nil, err
	}
	if !auth.CheckPassword(member.Password, password) {
		return nil, ErrLoginFailed
	}
	resp := domain.MemberResponseFrom(*member)
	return &resp, nil
}

func (s *MemberService) Get(ctx context.Context, id string) (*domain.MemberResponse, error) {
	member, err := s.store.GetMember(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := domain.MemberResponseFrom(*member)
	return &resp, nil
}

func (s *MemberService) List(ctx context.Context) ([]domain.MemberResponse, error) {
	members, err := s.store.ListMembers(ctx)
	if err != nil {
		return nil, err
	}
	responses := make([]domain.MemberResponse, len(members))
	for i, m := range members {
		responses[i] = domain.MemberResponseFrom(m)
	}
	return responses, nil
}

func (s *MemberService) Update(ctx context.Context, id string, req domain.MemberUpdateRequest) (*domain.MemberResponse, error) {
	member, err := s.store.UpdateMember(ctx, id, req)
	if err != nil {
		return nil, err
	}
	s.log.Info("member updated", zap.String("member_id", id))
	resp := domain.MemberResponseFrom(*member)
	return &resp, nil
}

func (s *MemberService) ChangePassword(ctx context.Context, id string, req domain.PasswordChangeRequest) error {
	if req.NewPassword != req.ConfirmPassword {
		return ErrPasswordMismatch
	}

	member, err := s.store.GetMember(ctx, id)
	if err != nil {
		return err
	}
	if !auth.CheckPassword(member.Password, req.CurrentPassword) {
		return ErrInvalidPassword
	}

	hashed, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	if err := s.store.UpdatePassword(ctx, id, hashed); err != nil {
		return err
	}
	s.log.Info("password changed", zap.String("member_id", id))
	return nil
}

// DeleteAccount removes a member after confirming their password. The
// member's recommendations and the affected movie counters go with them.
func (s *MemberService) DeleteAccount(ctx context.Context, id, password string) error {
	member, err := s.store.GetMember(ctx, id)
	if err != nil {
		return err
	}
	if !auth.CheckPassword(member.Password, password) {
		return ErrInvalidPassword
	}

	if err := s.store.DeleteMemberAccount(ctx, id); err != nil {
		return err
	}
	s.log.Info("member deleted", zap.String("member_id", id))
	return nil
}

// IDAvailable reports whether a member ID is free to register.
func (s *MemberService) IDAvailable(ctx context.Context, id string) (bool, error) {
	exists, err := s.store.MemberExists(ctx, id)
	if err != nil {
		return false, err
	}
	return !exists, nil
}
