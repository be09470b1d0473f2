// AngelaMos | 2026
// core_test.go

package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propsunday/classifieds-api/internal/config"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery")
	require.NoError(t, err)
	assert.Contains(t, hash, "$argon2id$")

	ok, err := VerifyPassword("correct horse battery", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword("wrong", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyPasswordTimingSafe(t *testing.T) {
	t.Run("nil hash never validates", func(t *testing.T) {
		ok, rehash, err := VerifyPasswordTimingSafe("anything", nil)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Empty(t, rehash)
	})

	t.Run("outdated params trigger rehash", func(t *testing.T) {
		weak := Argon2Params{Memory: 8 * 1024, Time: 1, Threads: 1, KeyLen: 32}
		hash, err := weak.Hash("secret-password")
		require.NoError(t, err)

		ok, rehash, err := VerifyPasswordTimingSafe("secret-password", &hash)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.NotEmpty(t, rehash)
	})

	t.Run("current params need no rehash", func(t *testing.T) {
		hash, err := HashPassword("secret-password")
		require.NoError(t, err)

		ok, rehash, err := VerifyPasswordTimingSafe("secret-password", &hash)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Empty(t, rehash)
	})
}

func TestHashTokenIsStable(t *testing.T) {
	assert.Equal(t, HashToken("abc"), HashToken("abc"))
	assert.NotEqual(t, HashToken("abc"), HashToken("abd"))
	assert.Len(t, HashToken("abc"), 64)
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2025-05-01T10:30:00Z", time.Date(2025, 5, 1, 10, 30, 0, 0, time.UTC)},
		{"2025-05-01T12:30:00+02:00", time.Date(2025, 5, 1, 10, 30, 0, 0, time.UTC)},
		{"2025-05-01T10:30:00", time.Date(2025, 5, 1, 10, 30, 0, 0, time.UTC)},
		{"2025-05-01T10:30", time.Date(2025, 5, 1, 10, 30, 0, 0, time.UTC)},
		{"2025-05-01", time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)},
		{"2025-05-01T10:30:00.123456789Z", time.Date(2025, 5, 1, 10, 30, 0, 123456000, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTimestamp(tt.in)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s", got)
		})
	}

	for _, bad := range []string{"", "yesterday", "2025-13-01", "01/05/2025"} {
		_, err := ParseTimestamp(bad)
		assert.ErrorIs(t, err, ErrInvalidInput, bad)
	}
}

func TestJSONErrorEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	JSONError(rec, fmt.Errorf("wrapped: %w", NotFoundError("listing")))

	assert.Equal(t, http.StatusNotFound, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Listing not found", body["message"])
	assert.Equal(t, "NOT_FOUND", body["error"].(map[string]any)["code"])
}

func TestUnknownErrorIsInternal(t *testing.T) {
	rec := httptest.NewRecorder()
	JSONError(rec, errors.New("db exploded"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "exploded")
}

func TestOKCarriesMessageAndPayload(t *testing.T) {
	rec := httptest.NewRecorder()
	OK(rec, "Listing found", Payload{"listing": map[string]string{"id": "1"}})

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Listing found", body["message"])
	assert.Equal(t, true, body["success"])
	assert.Contains(t, body, "listing")
}

func TestFormatValidationError(t *testing.T) {
	type req struct {
		Email    string  `validate:"required,email"`
		FullName string  `validate:"max=3"`
		Price    float64 `validate:"gt=0"`
	}

	err := validator.New().Struct(req{Email: "nope", FullName: "toolong", Price: 0})
	msg := FormatValidationError(err)

	assert.Contains(t, msg, "email must be a valid email address")
	assert.Contains(t, msg, "full_name must be at most 3 characters")
	assert.Contains(t, msg, "price must be greater than 0")
}

func TestFormatValidationErrorAcronymsAndURL(t *testing.T) {
	type req struct {
		MainImageURL string  `validate:"url"`
		Latitude     float64 `validate:"lte=90"`
	}

	msg := FormatValidationError(validator.New().Struct(req{MainImageURL: "not a url", Latitude: 91}))

	assert.Contains(t, msg, "main_image_url must be a valid URL")
	assert.Contains(t, msg, "latitude must be at most 90")
}

func TestSampleRate(t *testing.T) {
	assert.Equal(t, 0.5, SampleRate(0.5))
	assert.Equal(t, 1.0, SampleRate(1))
	assert.Equal(t, defaultSampleRate, SampleRate(0))
	assert.Equal(t, defaultSampleRate, SampleRate(2))
}

func TestTraceIDWithoutSpan(t *testing.T) {
	assert.Empty(t, TraceIDFromContext(httptest.NewRequest(http.MethodGet, "/", nil).Context()))
}

func TestPostgresErrorClassification(t *testing.T) {
	wrap := func(code string) error {
		return fmt.Errorf("create listing: %w", &pgconn.PgError{Code: code})
	}

	assert.True(t, IsDuplicateKeyError(wrap("23505")))
	assert.False(t, IsDuplicateKeyError(wrap("23514")))

	assert.True(t, IsConstraintViolation(wrap("23514")))
	assert.True(t, IsConstraintViolation(wrap("22003")))
	assert.False(t, IsConstraintViolation(wrap("23505")))
	assert.False(t, IsConstraintViolation(errors.New("connection reset")))
}

func TestRedisOptions(t *testing.T) {
	opts, err := redisOptions(config.RedisConfig{
		URL:          "redis://:secret@cache:6380/2",
		PoolSize:     12,
		MinIdleConns: 3,
	})
	require.NoError(t, err)
	assert.Equal(t, "cache:6380", opts.Addr)
	assert.Equal(t, 2, opts.DB)
	assert.Equal(t, "secret", opts.Password)
	assert.Equal(t, 12, opts.PoolSize)
	assert.Equal(t, 3, opts.MinIdleConns)
	assert.Equal(t, redisClientName, opts.ClientName)

	opts, err = redisOptions(config.RedisConfig{URL: "redis://cache:6379/0"})
	require.NoError(t, err)
	assert.Zero(t, opts.PoolSize, "go-redis applies its own default at NewClient")

	_, err = redisOptions(config.RedisConfig{URL: "http://cache"})
	assert.Error(t, err)
}
