package model

import (
	"errors"
	"time"
)

// User represents a registered account.
type User struct {
	ID             int64     `db:"id" json:"id"`
	Username       string    `db:"username" json:"username"`
	Email          string    `db:"email" json:"email"`
	PasswordHashed string    `db:"password_hashed" json:"-"` // "-" hides from JSON output
	AvatarURL      *string   `db:"avatar_url" json:"avatar_url"`
	AvatarKey      *string   `db:"avatar_key" json:"-"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// UserSummary is the author representation embedded in post responses.
type UserSummary struct {
	ID        int64   `db:"id" json:"id"`
	Username  string  `db:"username" json:"username"`
	AvatarURL *string `db:"avatar_url" json:"avatar_url"`
}

// RegisterRequest represents the data needed to register a new user
type RegisterRequest struct {
	Username        string  `json:"username"`
	Email           string  `json:"email"`
	Password        string  `json:"password"`
	ConfirmPassword string  `json:"confirm_password"`
	AvatarURL       *string `json:"-"`
	AvatarKey       *string `json:"-"`
}

// LoginRequest represents the data needed to log in
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Remember bool   `json:"remember"`
}

// LoginResponse is returned after successful login
type LoginResponse struct {
	User         *User  `json:"user"`
	SessionToken string `json:"session_token"`
	ExpiresIn    int    `json:"expires_in"` // Seconds until the session token expires
}

// UpdateAccountRequest carries profile changes for PUT /account.
type UpdateAccountRequest struct {
	Username  string  `json:"username"`
	Email     string  `json:"email"`
	AvatarURL *string `json:"-"`
	AvatarKey *string `json:"-"`
}

// ResetRequest asks for a password-reset email.
type ResetRequest struct {
	Email string `json:"email"`
}

// ResetPasswordRequest carries the new password for the reset-confirm step.
type ResetPasswordRequest struct {
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// Username length limits enforced at validation time; the column is VARCHAR(20).
const (
	MinUsernameLength = 2
	MaxUsernameLength = 20
	MaxEmailLength    = 120
	MinPasswordLength = 6
)

var (
	// ErrUserNotFound is returned when a user cannot be found
	ErrUserNotFound = errors.New("user not found")

	// ErrUsernameTaken is returned when the username uniqueness constraint fires
	ErrUsernameTaken = errors.New("username already taken")

	// ErrEmailTaken is returned when the email uniqueness constraint fires
	ErrEmailTaken = errors.New("email already taken")

	// ErrInvalidCredentials is returned when login credentials are incorrect
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidResetToken is returned for malformed, tampered, or expired reset tokens
	ErrInvalidResetToken = errors.New("invalid or expired reset token")
)

// Token API error codes (used in HTTP responses)
const (
	CodeTokenExpired = "TOKEN_EXPIRED"
	CodeTokenInvalid = "TOKEN_INVALID"
)

// SessionTokenSubject is the sub claim stamped on login session tokens.
// Reset tokens carry their own subject, so neither kind of token can be
// presented in place of the other.
const SessionTokenSubject = "session"
