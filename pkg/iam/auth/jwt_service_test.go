package auth

import (
	"testing"
	"time"

	"github.com/Abraxas-365/confidant/pkg/config"
	"github.com/Abraxas-365/confidant/pkg/errx"
	"github.com/Abraxas-365/confidant/pkg/iam"
	"github.com/Abraxas-365/confidant/pkg/kernel"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTService() *JWTService {
	return NewJWTServiceFromConfig(&config.JWTConfig{
		SecretKey:      "test-secret-key",
		AccessTokenTTL: 15 * time.Minute,
		Issuer:         "confidant",
		Audience:       []string{"confidant-api"},
	})
}

// signToken firma claims arbitrarios con el secreto del servicio de prueba
func signToken(t *testing.T, claims JWTClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("test-secret-key"))
	require.NoError(t, err)
	return signed
}

func assertInvalidToken(t *testing.T, err error) {
	t.Helper()
	var e *errx.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, string(iam.CodeInvalidToken), e.Code)
}

func TestValidateAccessTokenRoundtrip(t *testing.T) {
	svc := newTestJWTService()
	userID := kernel.NewUserID("user-1")

	token, err := svc.GenerateAccessToken(userID, "user@example.com", "Nura")
	require.NoError(t, err)

	claims, err := svc.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "user@example.com", claims.Email)
	assert.Equal(t, "Nura", claims.Name)
	assert.True(t, claims.ExpiresAt.After(time.Now()))
}

func TestValidateAccessTokenRejectsMissingExpiration(t *testing.T) {
	svc := newTestJWTService()
	// correctly signed but minted without exp: rejected, never a panic
	token := signToken(t, JWTClaims{
		UserID: kernel.NewUserID("user-1"),
		Email:  "user@example.com",
	})

	_, err := svc.ValidateAccessToken(token)

	assertInvalidToken(t, err)
}

func TestValidateAccessTokenToleratesMissingIssuedAt(t *testing.T) {
	svc := newTestJWTService()
	token := signToken(t, JWTClaims{
		UserID: kernel.NewUserID("user-1"),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	claims, err := svc.ValidateAccessToken(token)

	require.NoError(t, err)
	assert.True(t, claims.IssuedAt.IsZero())
	assert.False(t, claims.ExpiresAt.IsZero())
}

func TestValidateAccessTokenRejectsExpired(t *testing.T) {
	svc := newTestJWTService()
	token := signToken(t, JWTClaims{
		UserID: kernel.NewUserID("user-1"),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	})

	_, err := svc.ValidateAccessToken(token)

	assertInvalidToken(t, err)
}

func TestValidateAccessTokenRejectsWrongSecret(t *testing.T) {
	svc := newTestJWTService()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, JWTClaims{
		UserID: kernel.NewUserID("user-1"),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := token.SignedString([]byte("another-secret"))
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(signed)

	assertInvalidToken(t, err)
}
