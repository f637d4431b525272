package auth

import (
	"testing"
	"time"

	"insightlens/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTokenConfig() *config.Config {
	cfg := &config.Config{}
	cfg.SecretKey.Session = "test_session_secret_key_very_long_for_testing"

	return cfg
}

func TestJWTService_GenerateAndValidateSessionToken(t *testing.T) {
	tokenService, err := NewJWTService(newTestTokenConfig())
	require.NoError(t, err)
	require.NotNil(t, tokenService)

	userID := uuid.New()

	token, err := tokenService.GenerateSessionToken(userID)
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := tokenService.ValidateSessionToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "session", claims.Type)
}

func TestJWTService_InvalidToken(t *testing.T) {
	tokenService, err := NewJWTService(newTestTokenConfig())
	require.NoError(t, err)

	claims, err := tokenService.ValidateSessionToken("clearly-not-a-jwt-token-format")
	assert.Error(t, err)
	assert.Nil(t, claims)
}

func TestJWTService_WrongSecret(t *testing.T) {
	tokenService, err := NewJWTService(newTestTokenConfig())
	require.NoError(t, err)

	otherCfg := &config.Config{}
	otherCfg.SecretKey.Session = "a_completely_different_secret_key_here"
	otherService, err := NewJWTService(otherCfg)
	require.NoError(t, err)

	token, err := tokenService.GenerateSessionToken(uuid.New())
	require.NoError(t, err)

	claims, err := otherService.ValidateSessionToken(token)
	assert.Error(t, err)
	assert.Nil(t, claims)
}

func TestJWTService_ExpiredToken(t *testing.T) {
	cfg := newTestTokenConfig()
	tokenService, err := NewJWTService(cfg)
	require.NoError(t, err)

	// Sign a token whose lifetime already ended, with the same secret and
	// claim shape the service uses.
	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  uuid.New().String(),
		"iat":  time.Now().Add(-time.Hour).Unix(),
		"exp":  time.Now().Add(-time.Minute).Unix(),
		"type": "session",
	})
	signed, err := expired.SignedString([]byte(cfg.SecretKey.Session))
	require.NoError(t, err)

	claims, err := tokenService.ValidateSessionToken(signed)
	assert.Error(t, err)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
	assert.Nil(t, claims)
}

func TestJWTService_EmptySecret(t *testing.T) {
	cfg := &config.Config{}

	tokenService, err := NewJWTService(cfg)
	assert.Error(t, err)
	assert.Nil(t, tokenService)
	assert.Contains(t, err.Error(), "session secret must be provided")
}

func TestJWTService_TokenDurations(t *testing.T) {
	cfg := newTestTokenConfig()
	cfg.Auth = &config.AuthConfig{
		SessionTokenTTL: 45 * time.Minute,
		ResetTokenTTL:   2 * time.Hour,
	}

	tokenService, err := NewJWTService(cfg)
	require.NoError(t, err)

	assert.Equal(t, 45*time.Minute, tokenService.SessionTokenDuration())
	assert.Equal(t, 2*time.Hour, tokenService.ResetTokenDuration())
}

func TestJWTService_DefaultDurations(t *testing.T) {
	tokenService, err := NewJWTService(newTestTokenConfig())
	require.NoError(t, err)

	assert.Equal(t, 30*time.Minute, tokenService.SessionTokenDuration())
	assert.Equal(t, time.Hour, tokenService.ResetTokenDuration())
}

func TestJWTService_ResetTokens(t *testing.T) {
	tokenService, err := NewJWTService(newTestTokenConfig())
	require.NoError(t, err)

	raw, hash, err := tokenService.GenerateResetToken()
	require.NoError(t, err)
	assert.NotEmpty(t, raw)
	assert.NotEmpty(t, hash)
	assert.NotEqual(t, raw, hash)

	// The hash must be reproducible from the raw token.
	assert.Equal(t, hash, tokenService.HashResetToken(raw))

	// Two tokens must never collide.
	raw2, hash2, err := tokenService.GenerateResetToken()
	require.NoError(t, err)
	assert.NotEqual(t, raw, raw2)
	assert.NotEqual(t, hash, hash2)
}
