package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blognest/internal/model"
)

const testSecret = "test-secret"

func TestResetToken_RoundTrip(t *testing.T) {
	svc := NewResetTokenService(testSecret, 1800)

	token, err := svc.Issue(42)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), userID)
}

func TestResetToken_Expired(t *testing.T) {
	svc := NewResetTokenService(testSecret, 1800)

	token, err := svc.IssueWithTTL(42, 0)
	require.NoError(t, err)

	// With a zero TTL the token is already past its expiry.
	_, err = svc.Verify(token)
	assert.ErrorIs(t, err, model.ErrInvalidResetToken)
}

func TestResetToken_Tampered(t *testing.T) {
	svc := NewResetTokenService(testSecret, 1800)

	token, err := svc.Issue(42)
	require.NoError(t, err)

	// Flip one bit in the middle of the token
	raw := []byte(token)
	raw[len(raw)/2] ^= 0x01

	_, err = svc.Verify(string(raw))
	assert.ErrorIs(t, err, model.ErrInvalidResetToken)
}

func TestResetToken_WrongSecret(t *testing.T) {
	issuer := NewResetTokenService(testSecret, 1800)
	verifier := NewResetTokenService("another-secret", 1800)

	token, err := issuer.Issue(42)
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.ErrorIs(t, err, model.ErrInvalidResetToken)
}

func TestResetToken_RejectsSessionTokens(t *testing.T) {
	svc := NewResetTokenService(testSecret, 1800)

	// A session token signed with the same secret must not pass: it carries
	// the session subject, not password_reset.
	claims := jwt.MapClaims{
		"sub":     model.SessionTokenSubject,
		"user_id": int64(42),
		"exp":     time.Now().Add(time.Hour).Unix(),
		"iat":     time.Now().Unix(),
	}
	sessionToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = svc.Verify(sessionToken)
	assert.ErrorIs(t, err, model.ErrInvalidResetToken)
}

func TestResetToken_Garbage(t *testing.T) {
	svc := NewResetTokenService(testSecret, 1800)

	for _, token := range []string{"", "not-a-token", "a.b.c"} {
		_, err := svc.Verify(token)
		assert.ErrorIs(t, err, model.ErrInvalidResetToken, "token %q", token)
	}
}
