// AngelaMos | 2026
// auth.go

package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/propsunday/classifieds-api/internal/core"
)

// RoleAdmin is the only role with access to the admin surface.
const RoleAdmin = "admin"

type principalKey struct{}

// Principal is the caller a verified access token speaks for. Role is
// refreshed from the users table on every verification.
type Principal struct {
	UserID       string
	Role         string
	TokenVersion int
	TokenID      string
	ExpiresAt    time.Time
}

func (p *Principal) IsAdmin() bool {
	return p != nil && p.Role == RoleAdmin
}

type TokenVerifier interface {
	VerifyAccessToken(ctx context.Context, token string) (*Principal, error)
}

// Authenticator rejects requests without a valid bearer token and attaches
// the resulting Principal to the request context.
func Authenticator(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				core.JSONError(w, core.UnauthorizedError("Authentication required"))
				return
			}

			principal, err := verifier.VerifyAccessToken(r.Context(), token)
			if err != nil {
				core.JSONError(w, tokenError(err))
				return
			}

			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
		})
	}
}

// RequireAdmin must run after Authenticator.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal := PrincipalFrom(r.Context())
		switch {
		case principal == nil:
			core.JSONError(w, core.UnauthorizedError("Authentication required"))
		case !principal.IsAdmin():
			core.JSONError(w, core.ForbiddenError("Insufficient permissions"))
		default:
			next.ServeHTTP(w, r)
		}
	})
}

func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

func PrincipalFrom(ctx context.Context) *Principal {
	p, _ := ctx.Value(principalKey{}).(*Principal)
	return p
}

// GetUserID returns the authenticated user's id, or "" on public routes.
func GetUserID(ctx context.Context) string {
	if p := PrincipalFrom(ctx); p != nil {
		return p.UserID
	}
	return ""
}

func bearerToken(r *http.Request) (string, bool) {
	scheme, token, found := strings.Cut(r.Header.Get("Authorization"), " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func tokenError(err error) error {
	switch {
	case core.IsAppError(err):
		return err
	case errors.Is(err, core.ErrTokenExpired):
		return core.TokenExpiredError()
	case errors.Is(err, core.ErrTokenRevoked):
		return core.TokenRevokedError()
	default:
		return core.TokenInvalidError()
	}
}
