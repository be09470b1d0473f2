// AngelaMos | 2026
// service.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/propsunday/classifieds-api/internal/core"
	"github.com/propsunday/classifieds-api/internal/middleware"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenReuse         = errors.New("token reuse detected")
	ErrEmailExists        = errors.New("email already exists")
)

// UserProvider is the account store the auth flows read and write. The
// user package implements it.
type UserProvider interface {
	GetByEmail(ctx context.Context, email string) (*UserInfo, error)
	GetByID(ctx context.Context, id string) (*UserInfo, error)
	Create(ctx context.Context, email, passwordHash string, fullName *string) (*UserInfo, error)
	IncrementTokenVersion(ctx context.Context, userID string) error
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
}

// Client identifies the device a session was opened from.
type Client struct {
	UserAgent string
	IPAddress string
}

type Service struct {
	repo      Repository
	tokens    *TokenIssuer
	users     UserProvider
	blacklist Blacklist
}

func NewService(
	repo Repository,
	tokens *TokenIssuer,
	users UserProvider,
	blacklist Blacklist,
) *Service {
	return &Service{
		repo:      repo,
		tokens:    tokens,
		users:     users,
		blacklist: blacklist,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *Service) Login(ctx context.Context, req LoginRequest, client Client) (*AuthResult, error) {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(req.Email))
	if errors.Is(err, core.ErrNotFound) {
		// Unknown emails still pay for a hash so timing does not leak
		// which addresses are registered.
		_, _, _ = core.VerifyPasswordTimingSafe(req.Password, nil) //nolint:errcheck // timing only
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	valid, rehash, err := core.VerifyPasswordTimingSafe(req.Password, &user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	if !valid {
		return nil, ErrInvalidCredentials
	}

	if rehash != "" {
		if err := s.users.UpdatePassword(ctx, user.ID, rehash); err != nil {
			slog.WarnContext(ctx, "password rehash failed", "user_id", user.ID, "error", err)
		}
	}

	return s.openSession(ctx, user, client)
}

func (s *Service) Register(ctx context.Context, req RegisterRequest, client Client) (*AuthResult, error) {
	hash, err := core.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	var fullName *string
	if req.FullName != nil {
		if name := strings.TrimSpace(*req.FullName); name != "" {
			fullName = &name
		}
	}

	user, err := s.users.Create(ctx, normalizeEmail(req.Email), hash, fullName)
	if errors.Is(err, core.ErrDuplicateKey) {
		return nil, ErrEmailExists
	}
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	return s.openSession(ctx, user, client)
}

// Refresh exchanges a refresh token for a new token pair in the same
// family. Presenting a token that was already exchanged revokes the family.
func (s *Service) Refresh(ctx context.Context, refreshToken string, client Client) (*AuthResult, error) {
	current, err := s.repo.FindByHash(ctx, core.HashToken(refreshToken))
	if errors.Is(err, core.ErrNotFound) {
		return nil, fmt.Errorf("refresh: %w", core.ErrTokenInvalid)
	}
	if err != nil {
		return nil, fmt.Errorf("refresh: %w", err)
	}

	switch {
	case current.IsUsed:
		s.revokeFamily(ctx, current.FamilyID)
		return nil, ErrTokenReuse
	case current.IsRevoked():
		return nil, fmt.Errorf("refresh: %w", core.ErrTokenRevoked)
	case current.IsExpired():
		return nil, fmt.Errorf("refresh: %w", core.ErrTokenExpired)
	}

	user, err := s.users.GetByID(ctx, current.UserID)
	if err != nil {
		return nil, fmt.Errorf("refresh: %w", err)
	}

	access, err := s.tokens.IssueAccess(user)
	if err != nil {
		return nil, err
	}
	plain, next, err := s.tokens.MintRefresh(user.ID, current.FamilyID, client.UserAgent, client.IPAddress)
	if err != nil {
		return nil, err
	}

	// Rotate only succeeds for the request that consumes current; a
	// concurrent exchange of the same token loses and is treated as reuse.
	if err := s.repo.Rotate(ctx, current.ID, next); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			s.revokeFamily(ctx, current.FamilyID)
			return nil, ErrTokenReuse
		}
		return nil, fmt.Errorf("refresh: %w", err)
	}

	return newAuthResult(user, access, plain), nil
}

// Logout ends the caller's current session: the presented refresh token,
// if any, is revoked and the access token is blacklisted until it expires.
func (s *Service) Logout(ctx context.Context, caller *middleware.Principal, refreshToken string) error {
	if refreshToken != "" {
		stored, err := s.repo.FindByHash(ctx, core.HashToken(refreshToken))
		switch {
		case errors.Is(err, core.ErrNotFound):
		case err != nil:
			return fmt.Errorf("logout: %w", err)
		case stored.UserID != caller.UserID:
			return fmt.Errorf("logout: %w", core.ErrForbidden)
		default:
			if err := s.repo.RevokeByID(ctx, stored.ID); err != nil && !errors.Is(err, core.ErrNotFound) {
				return fmt.Errorf("logout: %w", err)
			}
		}
	}

	if err := s.blacklist.Revoke(ctx, caller.TokenID, caller.ExpiresAt); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

// LogoutAll signs the user out everywhere. Bumping the token version
// invalidates access tokens that were never blacklisted individually.
func (s *Service) LogoutAll(ctx context.Context, userID string) error {
	if err := s.repo.RevokeAllForUser(ctx, userID); err != nil {
		return fmt.Errorf("logout all: %w", err)
	}
	if err := s.users.IncrementTokenVersion(ctx, userID); err != nil {
		return fmt.Errorf("logout all: %w", err)
	}
	return nil
}

// VerifyAccessToken implements middleware.TokenVerifier. The role on the
// returned principal comes from the users table, so promotions and
// demotions apply without waiting for the token to expire.
func (s *Service) VerifyAccessToken(ctx context.Context, token string) (*middleware.Principal, error) {
	principal, err := s.tokens.Parse(token)
	if err != nil {
		return nil, err
	}

	revoked, err := s.blacklist.IsRevoked(ctx, principal.TokenID)
	if err != nil {
		return nil, fmt.Errorf("verify token: %w", err)
	}
	if revoked {
		return nil, fmt.Errorf("verify token: %w", core.ErrTokenRevoked)
	}

	user, err := s.users.GetByID(ctx, principal.UserID)
	if errors.Is(err, core.ErrNotFound) {
		return nil, fmt.Errorf("verify token: %w", core.ErrTokenInvalid)
	}
	if err != nil {
		return nil, fmt.Errorf("verify token: %w", err)
	}
	if principal.TokenVersion < user.TokenVersion {
		return nil, fmt.Errorf("verify token: %w", core.ErrTokenRevoked)
	}

	principal.Role = user.Role
	return principal, nil
}

func (s *Service) GetCurrentUser(ctx context.Context, userID string) (*UserResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := toUserResponse(user)
	return &resp, nil
}

// openSession starts a new refresh-token family for a fresh login.
func (s *Service) openSession(ctx context.Context, user *UserInfo, client Client) (*AuthResult, error) {
	access, err := s.tokens.IssueAccess(user)
	if err != nil {
		return nil, err
	}
	plain, refresh, err := s.tokens.MintRefresh(user.ID, "", client.UserAgent, client.IPAddress)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, refresh); err != nil {
		return nil, fmt.Errorf("open session: %w", err)
	}
	return newAuthResult(user, access, plain), nil
}

func (s *Service) revokeFamily(ctx context.Context, familyID string) {
	if err := s.repo.RevokeByFamilyID(ctx, familyID); err != nil {
		slog.ErrorContext(ctx, "revoke token family failed", "family_id", familyID, "error", err)
	}
}
