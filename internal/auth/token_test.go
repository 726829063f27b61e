package auth

import (
	"strings"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", 60)
	principal := domain.Principal{ID: 7, Email: "ana@example.com", EmployeeID: 301, Role: domain.RoleSupervisor}

	token, exp, err := tm.GenerateToken(principal)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, principal, claims.Principal())
	assert.Equal(t, "7", claims.Subject)
}

func TestParseTokenWrongSecret(t *testing.T) {
	token, _, err := NewTokenManager("one", 60).GenerateToken(domain.Principal{ID: 1, Role: domain.RoleUser})
	require.NoError(t, err)

	_, err = NewTokenManager("two", 60).ParseToken(token)
	assert.Error(t, err)
}

func TestParseTokenExpired(t *testing.T) {
	tm := NewTokenManager("secret", 60)
	claims := &Claims{
		ID:   1,
		Role: domain.RoleUser,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = tm.ParseToken(token)
	assert.Error(t, err)
}

func TestParseTokenUnknownRole(t *testing.T) {
	claims := &Claims{ID: 1, Role: domain.Role("root")}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = NewTokenManager("secret", 60).ParseToken(token)
	assert.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("SecurePass123!", 4)
	require.NoError(t, err)
	assert.NotEqual(t, "SecurePass123!", hash)

	assert.NoError(t, ComparePassword(hash, "SecurePass123!"))
	assert.Error(t, ComparePassword(hash, "wrong-pass"))
}

func TestPasswordMismatchClassification(t *testing.T) {
	hash, err := HashPassword("SecurePass123!", 4)
	require.NoError(t, err)

	assert.True(t, IsMismatch(ComparePassword(hash, "nope")))
	assert.False(t, IsMismatch(ComparePassword("not-a-hash", "nope")))
}

func TestHashPasswordRejectsLongInput(t *testing.T) {
	_, err := HashPassword(strings.Repeat("a", 80), 4)
	assert.ErrorIs(t, err, ErrPasswordTooLong)
}
