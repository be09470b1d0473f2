// AngelaMos | 2026
// dto.go

package user

import (
	"time"
)

// ProfileUpdate changes the display name shown on a seller's listings. A
// blank name clears it.
type ProfileUpdate struct {
	FullName *string `json:"full_name,omitempty" validate:"omitempty,max=100"`
}

type Profile struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	FullName    *string   `json:"full_name"`
	Role        string    `json:"role"`
	MemberSince time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
