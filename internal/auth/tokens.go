// AngelaMos | 2026
// tokens.go

package auth

import (
	"crypto"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/lestrrat-go/jwx/v3/jwt"

	"github.com/propsunday/classifieds-api/internal/config"
	"github.com/propsunday/classifieds-api/internal/core"
	"github.com/propsunday/classifieds-api/internal/middleware"
)

const (
	claimRole    = "role"
	claimVersion = "ver"
	claimKind    = "kind"
	kindAccess   = "access"

	keyIDLength = 16
)

// TokenIssuer signs ES256 access tokens for sellers and admins, mints the
// opaque refresh tokens that back their sessions, and publishes the
// verification key as a JWK Set.
type TokenIssuer struct {
	signingKey jwk.Key
	verifyKey  jwk.Key
	keySet     jwk.Set
	keyID      string
	issuer     string
	audience   string
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewTokenIssuer(cfg config.JWTConfig) (*TokenIssuer, error) {
	pemBytes, err := os.ReadFile(cfg.PrivateKeyPath)
	if err != nil {
		return nil, fmt.Errorf("read signing key: %w", err)
	}
	return newTokenIssuer(pemBytes, cfg)
}

func newTokenIssuer(pemBytes []byte, cfg config.JWTConfig) (*TokenIssuer, error) {
	key, err := jwk.ParseKey(pemBytes, jwk.WithPEM(true))
	if err != nil {
		return nil, fmt.Errorf("parse signing key: %w", err)
	}

	// The key id is derived from the key itself so it survives restarts
	// and every replica publishes the same JWKS.
	thumb, err := key.Thumbprint(crypto.SHA256)
	if err != nil {
		return nil, fmt.Errorf("thumbprint signing key: %w", err)
	}
	keyID := base64.RawURLEncoding.EncodeToString(thumb)[:keyIDLength]

	if err := key.Set(jwk.KeyIDKey, keyID); err != nil {
		return nil, fmt.Errorf("set key id: %w", err)
	}
	if err := key.Set(jwk.AlgorithmKey, jwa.ES256()); err != nil {
		return nil, fmt.Errorf("set key algorithm: %w", err)
	}

	verifyKey, err := key.PublicKey()
	if err != nil {
		return nil, fmt.Errorf("derive verification key: %w", err)
	}
	if err := verifyKey.Set(jwk.KeyUsageKey, "sig"); err != nil {
		return nil, fmt.Errorf("set key usage: %w", err)
	}

	keySet := jwk.NewSet()
	if err := keySet.AddKey(verifyKey); err != nil {
		return nil, fmt.Errorf("build key set: %w", err)
	}

	return &TokenIssuer{
		signingKey: key,
		verifyKey:  verifyKey,
		keySet:     keySet,
		keyID:      keyID,
		issuer:     cfg.Issuer,
		audience:   cfg.Audience,
		accessTTL:  cfg.AccessTokenExpire,
		refreshTTL: cfg.RefreshTokenExpire,
		now:        time.Now,
	}, nil
}

func (t *TokenIssuer) KeyID() string {
	return t.keyID
}

// AccessToken is a signed JWT plus the id and expiry a logout needs to
// blacklist it.
type AccessToken struct {
	Value     string
	ID        string
	ExpiresAt time.Time
}

func (t *TokenIssuer) IssueAccess(user *UserInfo) (*AccessToken, error) {
	now := t.now()
	expiresAt := now.Add(t.accessTTL)
	id := uuid.New().String()

	token, err := jwt.NewBuilder().
		JwtID(id).
		Issuer(t.issuer).
		Audience([]string{t.audience}).
		Subject(user.ID).
		IssuedAt(now).
		NotBefore(now).
		Expiration(expiresAt).
		Claim(claimRole, user.Role).
		Claim(claimVersion, user.TokenVersion).
		Claim(claimKind, kindAccess).
		Build()
	if err != nil {
		return nil, fmt.Errorf("build access token: %w", err)
	}

	signed, err := jwt.Sign(token, jwt.WithKey(jwa.ES256(), t.signingKey))
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	return &AccessToken{
		Value:     string(signed),
		ID:        id,
		ExpiresAt: expiresAt.Truncate(time.Second),
	}, nil
}

// Parse verifies signature, issuer, audience and lifetime and returns the
// principal the token was issued for. Blacklist and token-version checks
// happen in Service.VerifyAccessToken.
func (t *TokenIssuer) Parse(raw string) (*middleware.Principal, error) {
	token, err := jwt.Parse([]byte(raw),
		jwt.WithKey(jwa.ES256(), t.verifyKey),
		jwt.WithValidate(false),
	)
	if err != nil {
		return nil, fmt.Errorf("parse access token: %w", core.ErrTokenInvalid)
	}

	exp, ok := token.Expiration()
	if !ok {
		return nil, fmt.Errorf("access token without exp: %w", core.ErrTokenInvalid)
	}
	if !t.now().Before(exp) {
		return nil, fmt.Errorf("access token: %w", core.ErrTokenExpired)
	}

	err = jwt.Validate(token,
		jwt.WithIssuer(t.issuer),
		jwt.WithAudience(t.audience),
	)
	if err != nil {
		return nil, fmt.Errorf("validate access token: %w", core.ErrTokenInvalid)
	}

	var (
		kind    string
		role    string
		version float64
	)
	subject, hasSubject := token.Subject()
	id, hasID := token.JwtID()
	if token.Get(claimKind, &kind) != nil || kind != kindAccess ||
		token.Get(claimRole, &role) != nil ||
		token.Get(claimVersion, &version) != nil ||
		!hasSubject || subject == "" || !hasID || id == "" {
		return nil, fmt.Errorf("access token claims: %w", core.ErrTokenInvalid)
	}

	return &middleware.Principal{
		UserID:       subject,
		Role:         role,
		TokenVersion: int(version),
		TokenID:      id,
		ExpiresAt:    exp,
	}, nil
}

// MintRefresh creates the next refresh token of a session family. An empty
// familyID starts a new family. Only the hash is stored; the plain value
// goes to the client once.
func (t *TokenIssuer) MintRefresh(
	userID, familyID, userAgent, ipAddress string,
) (string, *RefreshToken, error) {
	plain, err := core.GenerateRefreshToken()
	if err != nil {
		return "", nil, fmt.Errorf("generate refresh token: %w", err)
	}
	if familyID == "" {
		familyID = uuid.New().String()
	}

	return plain, &RefreshToken{
		ID:        uuid.New().String(),
		UserID:    userID,
		TokenHash: core.HashToken(plain),
		FamilyID:  familyID,
		ExpiresAt: t.now().Add(t.refreshTTL),
		UserAgent: userAgent,
		IPAddress: ipAddress,
	}, nil
}

// ServeJWKS publishes the verification key for other services and the
// frontend.
func (t *TokenIssuer) ServeJWKS(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	_ = json.NewEncoder(w).Encode(t.keySet) //nolint:errcheck // client went away
}
