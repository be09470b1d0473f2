// AngelaMos | 2026
// repository.go

package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/propsunday/classifieds-api/internal/core"
)

// Repository persists refresh tokens. Rotation chains share a family id so
// a replayed token can revoke every descendant at once.
type Repository interface {
	Create(ctx context.Context, token *RefreshToken) error
	Rotate(ctx context.Context, usedID string, next *RefreshToken) error
	FindByHash(ctx context.Context, tokenHash string) (*RefreshToken, error)
	RevokeByID(ctx context.Context, id string) error
	RevokeByFamilyID(ctx context.Context, familyID string) error
	RevokeAllForUser(ctx context.Context, userID string) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const tokenColumns = `id, user_id, token_hash, family_id, expires_at, created_at,
		is_used, used_at, revoked_at, replaced_by_id, user_agent, ip_address`

func (r *repository) Create(ctx context.Context, token *RefreshToken) error {
	query := `
		INSERT INTO refresh_tokens (
			id, user_id, token_hash, family_id, expires_at, user_agent, ip_address
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`

	err := r.db.GetContext(ctx, &token.CreatedAt, query, tokenArgs(token)...)
	if err != nil {
		return fmt.Errorf("create refresh token: %w", err)
	}

	return nil
}

// Rotate consumes usedID and stores next in one statement. Only one of
// two concurrent refreshes with the same token can win; the loser gets
// ErrNotFound and is treated as a replay.
func (r *repository) Rotate(
	ctx context.Context,
	usedID string,
	next *RefreshToken,
) error {
	query := `
		WITH consumed AS (
			UPDATE refresh_tokens
			SET is_used = TRUE, used_at = NOW(), replaced_by_id = $1
			WHERE id = $8 AND is_used = FALSE AND revoked_at IS NULL
			RETURNING id
		)
		INSERT INTO refresh_tokens (
			id, user_id, token_hash, family_id, expires_at, user_agent, ip_address
		)
		SELECT $1, $2, $3, $4, $5, $6, $7 FROM consumed
		RETURNING created_at`

	args := append(tokenArgs(next), usedID)
	err := r.db.GetContext(ctx, &next.CreatedAt, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("rotate refresh token: %w", core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("rotate refresh token: %w", err)
	}

	return nil
}

func (r *repository) FindByHash(
	ctx context.Context,
	tokenHash string,
) (*RefreshToken, error) {
	query := `SELECT ` + tokenColumns + ` FROM refresh_tokens WHERE token_hash = $1`

	var token RefreshToken
	err := r.db.GetContext(ctx, &token, query, tokenHash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("find refresh token: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find refresh token: %w", err)
	}

	return &token, nil
}

func (r *repository) RevokeByID(ctx context.Context, id string) error {
	n, err := r.revokeWhere(ctx, "id", id)
	if err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("revoke refresh token: %w", core.ErrNotFound)
	}
	return nil
}

func (r *repository) RevokeByFamilyID(ctx context.Context, familyID string) error {
	if _, err := r.revokeWhere(ctx, "family_id", familyID); err != nil {
		return fmt.Errorf("revoke token family: %w", err)
	}
	return nil
}

func (r *repository) RevokeAllForUser(ctx context.Context, userID string) error {
	if _, err := r.revokeWhere(ctx, "user_id", userID); err != nil {
		return fmt.Errorf("revoke all user tokens: %w", err)
	}
	return nil
}

// revokeWhere stamps revoked_at on live tokens matching column. column is
// always a constant from this file.
func (r *repository) revokeWhere(
	ctx context.Context,
	column, value string,
) (int64, error) {
	query := `
		UPDATE refresh_tokens
		SET revoked_at = NOW()
		WHERE ` + column + ` = $1 AND revoked_at IS NULL`

	result, err := r.db.ExecContext(ctx, query, value)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func tokenArgs(t *RefreshToken) []any {
	return []any{
		t.ID,
		t.UserID,
		t.TokenHash,
		t.FamilyID,
		t.ExpiresAt,
		t.UserAgent,
		t.IPAddress,
	}
}
