package auth

import (
	"testing"

	"dernek-backend/internal/config"
	"dernek-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testJWTManager(secret string) *JWTManager {
	cfg := &config.Config{}
	cfg.JWT.Secret = secret
	cfg.JWT.ExpirationHours = 1
	cfg.JWT.Issuer = "dernek-backend"
	return NewJWTManager(cfg)
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("gizli-parola")
	require.NoError(t, err)
	assert.NotEqual(t, "gizli-parola", hash)

	assert.True(t, VerifyPassword(hash, "gizli-parola"))
	assert.False(t, VerifyPassword(hash, "yanlis-parola"))
}

func TestTokenRoundTrip(t *testing.T) {
	m := testJWTManager("test-secret")
	member := &models.Member{ID: 7, Email: "ali@example.com", Role: models.RoleAdmin}

	token, err := m.GenerateToken(member)
	require.NoError(t, err)

	claims, err := m.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, 7, claims.MemberID)
	assert.Equal(t, "ali@example.com", claims.Email)
	assert.Equal(t, models.RoleAdmin, claims.Role)
}

func TestTokenRejectsWrongSecret(t *testing.T) {
	member := &models.Member{ID: 7, Email: "ali@example.com", Role: models.RoleAdmin}

	token, err := testJWTManager("secret-a").GenerateToken(member)
	require.NoError(t, err)

	_, err = testJWTManager("secret-b").ValidateToken(token)
	assert.Error(t, err)
}

func TestTempTokenIsNotASessionToken(t *testing.T) {
	m := testJWTManager("test-secret")
	member := &models.Member{ID: 7, Email: "ali@example.com", Role: models.RoleAdmin}

	tempToken, err := m.GenerateTempToken(member)
	require.NoError(t, err)

	claims, err := m.ValidateTempToken(tempToken)
	require.NoError(t, err)
	assert.Equal(t, 7, claims.MemberID)

	// A full session token must not pass temp validation and vice versa
	sessionToken, err := m.GenerateToken(member)
	require.NoError(t, err)
	_, err = m.ValidateTempToken(sessionToken)
	assert.Error(t, err)
}
