// AngelaMos | 2026
// dto.go

package auth

import (
	"time"

	"github.com/propsunday/classifieds-api/internal/core"
)

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=1,max=128"`
}

type RegisterRequest struct {
	Email    string  `json:"email"     validate:"required,email,max=255"`
	Password string  `json:"password"  validate:"required,min=8,max=128"`
	FullName *string `json:"full_name" validate:"omitempty,max=100"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FullName  *string   `json:"full_name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// AuthResult is what a successful register, login or refresh hands back.
type AuthResult struct {
	User         UserResponse
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

func (a *AuthResult) payload() core.Payload {
	return core.Payload{
		"user":          a.User,
		"token":         a.AccessToken,
		"refresh_token": a.RefreshToken,
		"token_type":    "Bearer",
		"expires_at":    a.ExpiresAt,
	}
}

func newAuthResult(user *UserInfo, access *AccessToken, refreshToken string) *AuthResult {
	return &AuthResult{
		User:         toUserResponse(user),
		AccessToken:  access.Value,
		RefreshToken: refreshToken,
		ExpiresAt:    access.ExpiresAt,
	}
}

func toUserResponse(u *UserInfo) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		FullName:  u.FullName,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}
