// Package validate holds the explicit per-field input checks. Each function
// returns a list of FieldError values; an empty list means the input is valid.
package validate

import (
	"net/mail"
	"strings"
	"unicode/utf8"

	"blognest/internal/model"
)

// FieldError describes a single invalid field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func username(errs []FieldError, value string) []FieldError {
	value = strings.TrimSpace(value)
	if value == "" {
		return append(errs, FieldError{Field: "username", Message: "Username is required"})
	}
	if n := utf8.RuneCountInString(value); n < model.MinUsernameLength || n > model.MaxUsernameLength {
		return append(errs, FieldError{Field: "username", Message: "Username must be between 2 and 20 characters"})
	}
	return errs
}

func email(errs []FieldError, value string) []FieldError {
	value = strings.TrimSpace(value)
	if value == "" {
		return append(errs, FieldError{Field: "email", Message: "Email is required"})
	}
	if len(value) > model.MaxEmailLength {
		return append(errs, FieldError{Field: "email", Message: "Email is too long"})
	}
	if _, err := mail.ParseAddress(value); err != nil {
		return append(errs, FieldError{Field: "email", Message: "Email address is not valid"})
	}
	return errs
}

func password(errs []FieldError, value, confirm string, requireConfirm bool) []FieldError {
	if value == "" {
		return append(errs, FieldError{Field: "password", Message: "Password is required"})
	}
	if len(value) < model.MinPasswordLength {
		errs = append(errs, FieldError{Field: "password", Message: "Password must be at least 6 characters"})
	}
	if (requireConfirm || confirm != "") && confirm != value {
		errs = append(errs, FieldError{Field: "confirm_password", Message: "Passwords do not match"})
	}
	return errs
}

// Registration validates a sign-up request.
func Registration(req *model.RegisterRequest) []FieldError {
	var errs []FieldError
	errs = username(errs, req.Username)
	errs = email(errs, req.Email)
	errs = password(errs, req.Password, req.ConfirmPassword, false)
	return errs
}

// Login validates a login request. Credential correctness is checked later;
// this only rejects obviously empty input.
func Login(req *model.LoginRequest) []FieldError {
	var errs []FieldError
	if strings.TrimSpace(req.Email) == "" {
		errs = append(errs, FieldError{Field: "email", Message: "Email is required"})
	}
	if req.Password == "" {
		errs = append(errs, FieldError{Field: "password", Message: "Password is required"})
	}
	return errs
}

// AccountUpdate validates a profile update.
func AccountUpdate(req *model.UpdateAccountRequest) []FieldError {
	var errs []FieldError
	errs = username(errs, req.Username)
	errs = email(errs, req.Email)
	return errs
}

// Post validates post title and content for create and update.
func Post(title, content string) []FieldError {
	var errs []FieldError
	if strings.TrimSpace(title) == "" {
		errs = append(errs, FieldError{Field: "title", Message: "Title is required"})
	} else if utf8.RuneCountInString(title) > model.MaxPostTitleLength {
		errs = append(errs, FieldError{Field: "title", Message: "Title must be at most 100 characters"})
	}
	if strings.TrimSpace(content) == "" {
		errs = append(errs, FieldError{Field: "content", Message: "Content is required"})
	}
	return errs
}

// ResetRequest validates the email asking for a reset link.
func ResetRequest(req *model.ResetRequest) []FieldError {
	return email(nil, req.Email)
}

// ResetPassword validates the new password in the reset-confirm step.
func ResetPassword(req *model.ResetPasswordRequest) []FieldError {
	return password(nil, req.Password, req.ConfirmPassword, true)
}
