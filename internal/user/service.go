// AngelaMos | 2026
// service.go

package user

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/propsunday/classifieds-api/internal/auth"
	"github.com/propsunday/classifieds-api/internal/core"
)

// Service owns accounts. It is the auth package's UserProvider and serves
// the profile endpoints.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

var _ auth.UserProvider = (*Service)(nil)

func (s *Service) GetByID(ctx context.Context, id string) (*auth.UserInfo, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return u.credentials(), nil
}

func (s *Service) GetByEmail(ctx context.Context, email string) (*auth.UserInfo, error) {
	u, err := s.repo.GetByEmail(ctx, strings.ToLower(email))
	if err != nil {
		return nil, err
	}
	return u.credentials(), nil
}

func (s *Service) Create(
	ctx context.Context,
	email, passwordHash string,
	fullName *string,
) (*auth.UserInfo, error) {
	u := &User{
		ID:           uuid.New().String(),
		Email:        strings.ToLower(email),
		PasswordHash: passwordHash,
		FullName:     fullName,
		Role:         RoleUser,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u.credentials(), nil
}

func (s *Service) IncrementTokenVersion(ctx context.Context, userID string) error {
	return s.repo.IncrementTokenVersion(ctx, userID)
}

func (s *Service) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	return s.repo.UpdatePassword(ctx, userID, passwordHash)
}

func (s *Service) Profile(ctx context.Context, userID string) (*User, error) {
	if userID == "" {
		return nil, fmt.Errorf("profile: %w", core.ErrUnauthorized)
	}
	return s.repo.GetByID(ctx, userID)
}

func (s *Service) UpdateProfile(
	ctx context.Context,
	userID string,
	update ProfileUpdate,
) (*User, error) {
	u, err := s.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if update.FullName != nil {
		u.FullName = nil
		if name := strings.TrimSpace(*update.FullName); name != "" {
			u.FullName = &name
		}
	}

	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}
