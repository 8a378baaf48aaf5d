package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/termwise/termwise-api/internal/config"
)

const testSecret = "test-secret-that-is-long-enough-for-testing"

// newTestVerifier builds a verifier with a fixed clock for predictable
// expiry checks.
func newTestVerifier(secret string, now time.Time) *hmacTokenVerifier {
	return &hmacTokenVerifier{
		signingKey: []byte(secret),
		timeFunc:   func() time.Time { return now },
		clockSkew:  2 * time.Minute,
	}
}

// mintToken signs a token the way the external identity provider does.
func mintToken(t *testing.T, secret string, method jwt.SigningMethod, userID uuid.UUID, issuedAt, expiresAt time.Time) string {
	t.Helper()

	claims := jwtCustomClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.NewString(),
		},
	}
	token, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestNewTokenVerifier(t *testing.T) {
	t.Parallel()

	t.Run("accepts a sufficiently long secret", func(t *testing.T) {
		t.Parallel()
		verifier, err := NewTokenVerifier(config.AuthConfig{JWTSecret: testSecret})
		require.NoError(t, err)
		assert.NotNil(t, verifier)
	})

	t.Run("rejects a short secret", func(t *testing.T) {
		t.Parallel()
		_, err := NewTokenVerifier(config.AuthConfig{JWTSecret: "too-short"})
		assert.Error(t, err)
	})
}

func TestValidateToken(t *testing.T) {
	t.Parallel()

	fixedTime := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	userID := uuid.New()

	t.Run("valid token", func(t *testing.T) {
		t.Parallel()
		verifier := newTestVerifier(testSecret, fixedTime)
		token := mintToken(t, testSecret, jwt.SigningMethodHS256, userID,
			fixedTime, fixedTime.Add(time.Hour))

		claims, err := verifier.ValidateToken(context.Background(), token)
		require.NoError(t, err)

		assert.Equal(t, userID, claims.UserID)
		assert.Equal(t, userID.String(), claims.Subject)
		assert.Equal(t, fixedTime.Unix(), claims.IssuedAt.Unix())
		assert.Equal(t, fixedTime.Add(time.Hour).Unix(), claims.ExpiresAt.Unix())
		assert.NotEmpty(t, claims.ID)
	})

	t.Run("expired token", func(t *testing.T) {
		t.Parallel()
		verifier := newTestVerifier(testSecret, fixedTime)
		token := mintToken(t, testSecret, jwt.SigningMethodHS256, userID,
			fixedTime.Add(-2*time.Hour), fixedTime.Add(-time.Hour))

		_, err := verifier.ValidateToken(context.Background(), token)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("expired within clock skew is accepted", func(t *testing.T) {
		t.Parallel()
		verifier := newTestVerifier(testSecret, fixedTime)
		token := mintToken(t, testSecret, jwt.SigningMethodHS256, userID,
			fixedTime.Add(-time.Hour), fixedTime.Add(-time.Minute))

		_, err := verifier.ValidateToken(context.Background(), token)
		assert.NoError(t, err)
	})

	t.Run("token issued for the future", func(t *testing.T) {
		t.Parallel()
		verifier := newTestVerifier(testSecret, fixedTime)

		claims := jwtCustomClaims{
			UserID: userID,
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   userID.String(),
				NotBefore: jwt.NewNumericDate(fixedTime.Add(time.Hour)),
				ExpiresAt: jwt.NewNumericDate(fixedTime.Add(2 * time.Hour)),
			},
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
		require.NoError(t, err)

		_, err = verifier.ValidateToken(context.Background(), token)
		assert.ErrorIs(t, err, ErrTokenNotYetValid)
	})

	t.Run("wrong signing secret", func(t *testing.T) {
		t.Parallel()
		verifier := newTestVerifier(testSecret, fixedTime)
		token := mintToken(t, "wrong-secret-that-is-long-enough-for-testing",
			jwt.SigningMethodHS256, userID, fixedTime, fixedTime.Add(time.Hour))

		_, err := verifier.ValidateToken(context.Background(), token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("disallowed signing method", func(t *testing.T) {
		t.Parallel()
		verifier := newTestVerifier(testSecret, fixedTime)
		token := mintToken(t, testSecret, jwt.SigningMethodHS512, userID,
			fixedTime, fixedTime.Add(time.Hour))

		_, err := verifier.ValidateToken(context.Background(), token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("malformed token", func(t *testing.T) {
		t.Parallel()
		verifier := newTestVerifier(testSecret, fixedTime)

		_, err := verifier.ValidateToken(context.Background(), "not.a.jwt")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("missing user ID claim", func(t *testing.T) {
		t.Parallel()
		verifier := newTestVerifier(testSecret, fixedTime)
		token := mintToken(t, testSecret, jwt.SigningMethodHS256, uuid.Nil,
			fixedTime, fixedTime.Add(time.Hour))

		_, err := verifier.ValidateToken(context.Background(), token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
