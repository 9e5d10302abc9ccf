package service

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"blognest/internal/config"
	"blognest/internal/model"
)

// SessionService issues the signed tokens that identify a logged-in user.
// Sessions are stateless: the token itself carries the user id and expiry,
// signed with the server secret. There is no session table, so logout is a
// client-side operation (the cookie is cleared).
type SessionService struct {
	config *config.Config
}

func NewSessionService(cfg *config.Config) *SessionService {
	return &SessionService{config: cfg}
}

// Issue creates a session token for userID. With remember set the token
// lives for the long "remember me" window, otherwise for a single day and
// the cookie is dropped when the browser closes.
func (s *SessionService) Issue(userID int64, remember bool) (token string, expiresIn int, err error) {
	expiresIn = s.config.SessionMaxAge
	if remember {
		expiresIn = s.config.RememberMaxAge
	}

	claims := jwt.MapClaims{
		"sub":     model.SessionTokenSubject,
		"user_id": userID,
		"exp":     time.Now().Add(time.Duration(expiresIn) * time.Second).Unix(),
		"iat":     time.Now().Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	token, err = t.SignedString([]byte(s.config.JWTSecret))
	if err != nil {
		return "", 0, fmt.Errorf("sign session token: %w", err)
	}
	return token, expiresIn, nil
}
