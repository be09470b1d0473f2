// AngelaMos | 2026
// entity.go

package user

import (
	"time"

	"github.com/propsunday/classifieds-api/internal/auth"
)

// RoleUser is assigned at registration. Promotion happens on the admin
// surface.
const RoleUser = "user"

// User is an account that posts listings. Sellers and admins share the
// table and differ only by role.
type User struct {
	ID           string    `db:"id"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	FullName     *string   `db:"full_name"`
	Role         string    `db:"role"`
	TokenVersion int       `db:"token_version"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func (u *User) credentials() *auth.UserInfo {
	return &auth.UserInfo{
		ID:           u.ID,
		Email:        u.Email,
		FullName:     u.FullName,
		PasswordHash: u.PasswordHash,
		Role:         u.Role,
		TokenVersion: u.TokenVersion,
		CreatedAt:    u.CreatedAt,
	}
}

func (u *User) profile() Profile {
	return Profile{
		ID:          u.ID,
		Email:       u.Email,
		FullName:    u.FullName,
		Role:        u.Role,
		MemberSince: u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}
