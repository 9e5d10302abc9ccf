package validate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"blognest/internal/model"
)

func fields(errs []FieldError) []string {
	out := make([]string, len(errs))
	for i, e := range errs {
		out[i] = e.Field
	}
	return out
}

func TestRegistration(t *testing.T) {
	tests := []struct {
		name       string
		req        model.RegisterRequest
		wantFields []string
	}{
		{
			name: "valid",
			req:  model.RegisterRequest{Username: "alice", Email: "alice@x.com", Password: "pw1234"},
		},
		{
			name:       "all empty",
			req:        model.RegisterRequest{},
			wantFields: []string{"username", "email", "password"},
		},
		{
			name:       "username too short",
			req:        model.RegisterRequest{Username: "a", Email: "alice@x.com", Password: "pw1234"},
			wantFields: []string{"username"},
		},
		{
			name:       "username too long",
			req:        model.RegisterRequest{Username: strings.Repeat("a", 21), Email: "alice@x.com", Password: "pw1234"},
			wantFields: []string{"username"},
		},
		{
			name:       "bad email",
			req:        model.RegisterRequest{Username: "alice", Email: "not-an-email", Password: "pw1234"},
			wantFields: []string{"email"},
		},
		{
			name:       "short password",
			req:        model.RegisterRequest{Username: "alice", Email: "alice@x.com", Password: "pw"},
			wantFields: []string{"password"},
		},
		{
			name:       "confirm mismatch",
			req:        model.RegisterRequest{Username: "alice", Email: "alice@x.com", Password: "pw1234", ConfirmPassword: "pw5678"},
			wantFields: []string{"confirm_password"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := Registration(&tt.req)
			assert.ElementsMatch(t, tt.wantFields, fields(errs))
		})
	}
}

func TestPost(t *testing.T) {
	assert.Empty(t, Post("Hello", "content"))

	errs := Post("", "")
	assert.ElementsMatch(t, []string{"title", "content"}, fields(errs))

	errs = Post(strings.Repeat("x", model.MaxPostTitleLength+1), "content")
	assert.ElementsMatch(t, []string{"title"}, fields(errs))

	// Exactly at the limit is fine
	assert.Empty(t, Post(strings.Repeat("x", model.MaxPostTitleLength), "content"))
}

func TestLogin(t *testing.T) {
	assert.Empty(t, Login(&model.LoginRequest{Email: "a@x.com", Password: "pw"}))
	errs := Login(&model.LoginRequest{})
	assert.ElementsMatch(t, []string{"email", "password"}, fields(errs))
}

func TestResetPassword(t *testing.T) {
	assert.Empty(t, ResetPassword(&model.ResetPasswordRequest{Password: "pw1234", ConfirmPassword: "pw1234"}))

	// Confirm is mandatory on reset
	errs := ResetPassword(&model.ResetPasswordRequest{Password: "pw1234"})
	assert.ElementsMatch(t, []string{"confirm_password"}, fields(errs))
}
