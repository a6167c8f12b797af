// internal/pkg/auth/auth_test.go
package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/restaurant-backend/internal/config"
	"golang.org/x/crypto/bcrypt"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.App.Name = "test"
	cfg.JWT.Secret = "test-secret-at-least-32-characters-long"
	cfg.JWT.AccessTokenExpiry = time.Hour
	cfg.JWT.RefreshTokenExpiry = 24 * time.Hour
	cfg.Security.BcryptCost = bcrypt.MinCost
	return cfg
}

func TestAccessTokenRoundTrip(t *testing.T) {
	m := NewJWTManager(testConfig())

	token, err := m.GenerateAccessToken(42, "chef@example.com", true)
	require.NoError(t, err)

	claims, err := m.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "chef@example.com", claims.Email)
	assert.True(t, claims.IsAdmin)
}

func TestTokenTypesAreNotInterchangeable(t *testing.T) {
	m := NewJWTManager(testConfig())

	refresh, err := m.GenerateRefreshToken(42, "chef@example.com")
	require.NoError(t, err)

	_, err = m.ValidateAccessToken(refresh)
	assert.Error(t, err)

	access, err := m.GenerateAccessToken(42, "chef@example.com", false)
	require.NoError(t, err)

	_, err = m.ValidateRefreshToken(access)
	assert.Error(t, err)
}

func TestTamperedTokenRejected(t *testing.T) {
	m := NewJWTManager(testConfig())

	token, err := m.GenerateAccessToken(42, "chef@example.com", false)
	require.NoError(t, err)

	_, err = m.ValidateToken(token + "x")
	assert.Error(t, err)
}

func TestExtractTokenFromHeader(t *testing.T) {
	assert.Equal(t, "abc", ExtractTokenFromHeader("Bearer abc"))
	assert.Equal(t, "", ExtractTokenFromHeader("abc"))
	assert.Equal(t, "", ExtractTokenFromHeader(""))
	assert.Equal(t, "", ExtractTokenFromHeader("Bearer "))
}

func TestPasswordHashing(t *testing.T) {
	p := NewPasswordManager(testConfig())

	hash, err := p.HashPassword("Sup3rSecret")
	require.NoError(t, err)
	assert.NoError(t, p.VerifyPassword("Sup3rSecret", hash))
	assert.Error(t, p.VerifyPassword("wrong", hash))
}

func TestPasswordValidation(t *testing.T) {
	p := NewPasswordManager(testConfig())

	assert.Error(t, p.ValidatePassword("short"))
	assert.Error(t, p.ValidatePassword("nouppercase1"))
	assert.Error(t, p.ValidatePassword("NOLOWERCASE1"))
	assert.Error(t, p.ValidatePassword("NoNumbersHere"))
	assert.NoError(t, p.ValidatePassword("Sup3rSecret"))
}
