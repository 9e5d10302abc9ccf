package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"blognest/internal/model"
)

const resetTokenSubject = "password_reset"

// resetTokenClaims are the JWT claims carried by a password-reset token.
// The subject pins the token to this single purpose so a session token can
// never be replayed as a reset token or vice versa.
type resetTokenClaims struct {
	UserID int64 `json:"user_id"`
	jwt.RegisteredClaims
}

// ResetTokenService mints and verifies the signed, expiring tokens mailed
// out by the password-recovery flow. Tokens are stateless: no server-side
// record is kept, so a token stays verifiable until its expiry.
type ResetTokenService struct {
	secret     []byte
	defaultTTL time.Duration
}

func NewResetTokenService(secret string, defaultTTLSeconds int) *ResetTokenService {
	return &ResetTokenService{
		secret:     []byte(secret),
		defaultTTL: time.Duration(defaultTTLSeconds) * time.Second,
	}
}

// Issue produces a token binding userID with the configured expiry.
func (s *ResetTokenService) Issue(userID int64) (string, error) {
	return s.IssueWithTTL(userID, s.defaultTTL)
}

// IssueWithTTL produces a token binding userID with an explicit expiry.
func (s *ResetTokenService) IssueWithTTL(userID int64, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &resetTokenClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   resetTokenSubject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify checks signature, purpose, and expiry. Every failure collapses to
// ErrInvalidResetToken; callers never learn why a token was rejected.
func (s *ResetTokenService) Verify(tokenString string) (int64, error) {
	token, err := jwt.ParseWithClaims(tokenString, &resetTokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		return 0, model.ErrInvalidResetToken
	}

	claims, ok := token.Claims.(*resetTokenClaims)
	if !ok || !token.Valid {
		return 0, model.ErrInvalidResetToken
	}

	if claims.Subject != resetTokenSubject || claims.UserID == 0 {
		return 0, model.ErrInvalidResetToken
	}

	return claims.UserID, nil
}
