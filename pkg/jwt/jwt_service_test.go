package jwt

import (
	"MatSmart-Lager/domain"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "super-secret-jwt-token-with-at-least-32-characters"

func TestGenerateAndReadToken(t *testing.T) {
	svc := NewJWTServiceWithSecret(testSecret)
	token := svc.GenerateTokenUser("7f0c2a1e-5d1b-4b8f-9c1e-2f4b1a6d8e90", "emma@example.com")
	require.NotEmpty(t, token)

	id, email, err := svc.GetUserIDByToken(token)
	require.NoError(t, err)
	assert.Equal(t, "7f0c2a1e-5d1b-4b8f-9c1e-2f4b1a6d8e90", id)
	assert.Equal(t, "emma@example.com", email)
}

func TestSupabaseShapedToken(t *testing.T) {
	claims := jwt.MapClaims{
		"sub":   "user-42",
		"email": "david@example.com",
		"role":  "authenticated",
		"aud":   "authenticated",
		"exp":   time.Now().Add(time.Hour).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	id, email, err := NewJWTServiceWithSecret(testSecret).GetUserIDByToken(signed)
	require.NoError(t, err)
	assert.Equal(t, "user-42", id)
	assert.Equal(t, "david@example.com", email)
}

func TestRejectsBadTokens(t *testing.T) {
	svc := NewJWTServiceWithSecret(testSecret)

	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user-42",
		"exp": time.Now().Add(-time.Minute).Unix(),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)
	_, _, err = svc.GetUserIDByToken(expired)
	assert.ErrorIs(t, err, domain.ErrTokenExpired)

	foreign := NewJWTServiceWithSecret("another-secret").GenerateTokenUser("user-42", "")
	_, _, err = svc.GetUserIDByToken(foreign)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)

	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)
	_, _, err = svc.GetUserIDByToken(noSubject)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)

	_, _, err = svc.GetUserIDByToken("not-a-token")
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestTokenOutsideAuthenticatedAudienceIsRejected(t *testing.T) {
	svc := NewJWTServiceWithSecret(testSecret)
	for name, aud := range map[string]any{
		"anon":    "anon",
		"missing": nil,
		"list":    []string{"service_role"},
	} {
		t.Run(name, func(t *testing.T) {
			claims := jwt.MapClaims{
				"sub": "user-42",
				"exp": time.Now().Add(time.Hour).Unix(),
			}
			if aud != nil {
				claims["aud"] = aud
			}
			signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
			require.NoError(t, err)

			_, _, err = svc.GetUserIDByToken(signed)
			assert.ErrorIs(t, err, domain.ErrTokenInvalid)
		})
	}
}
