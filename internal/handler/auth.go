package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"blognest/internal/config"
	"blognest/internal/httputil"
	"blognest/internal/mail"
	"blognest/internal/model"
	"blognest/internal/service"
	"blognest/internal/transport/http/middleware"
	"blognest/internal/validate"
)

// AvatarStore is the part of the media layer the identity endpoints use:
// storing a new avatar and removing a replaced or orphaned one.
type AvatarStore interface {
	UploadAvatar(ctx context.Context, file multipart.File, header *multipart.FileHeader) (*model.UploadResult, error)
	DeleteObject(ctx context.Context, key string) error
}

// AuthHandler groups the identity endpoints: registration, login/logout,
// the current-user account, and password recovery.
type AuthHandler struct {
	userService  *service.UserService
	sessions     *service.SessionService
	resetTokens  *service.ResetTokenService
	mediaService AvatarStore
	mailer       mail.Sender
	config       *config.Config
}

// NewAuthHandler wires dependencies for the identity endpoints.
func NewAuthHandler(
	userService *service.UserService,
	sessions *service.SessionService,
	resetTokens *service.ResetTokenService,
	mediaService AvatarStore,
	mailer mail.Sender,
	cfg *config.Config,
) *AuthHandler {
	return &AuthHandler{
		userService:  userService,
		sessions:     sessions,
		resetTokens:  resetTokens,
		mediaService: mediaService,
		mailer:       mailer,
		config:       cfg,
	}
}

// Register handles multipart sign-up with optional avatar upload and default
// avatar fallback.
// POST /register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.UserIDFromContext(r.Context()); ok {
		httputil.WriteBadRequest(w, "Already logged in")
		return
	}

	maxFormSize := int64(model.MaxAvatarSizeBytes) + 1024*1024 // allow form overhead
	r.Body = http.MaxBytesReader(w, r.Body, maxFormSize)
	if err := r.ParseMultipartForm(maxFormSize); err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			httputil.WriteBadRequest(w, "Content-Type must be multipart/form-data")
			return
		}
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			httputil.WriteBadRequestWithCode(w, model.CodeFileTooLarge, "Avatar exceeds 5MB limit")
			return
		}
		httputil.WriteBadRequest(w, "Invalid form data")
		return
	}

	req := model.RegisterRequest{
		Username:        strings.TrimSpace(r.FormValue("username")),
		Email:           strings.TrimSpace(r.FormValue("email")),
		Password:        r.FormValue("password"),
		ConfirmPassword: r.FormValue("confirm_password"),
	}

	if fieldErrs := validate.Registration(&req); len(fieldErrs) > 0 {
		httputil.WriteValidationErrors(w, fieldErrs)
		return
	}

	avatarURL, avatarKey, ok := h.resolveUploadedAvatar(w, r)
	if !ok {
		return
	}
	uploadedKey := avatarKey
	if avatarURL == nil {
		// No upload: fall back to the shared default avatar.
		if h.config.DefaultAvatarURL != "" {
			avatarURL = &h.config.DefaultAvatarURL
		}
		if h.config.DefaultAvatarKey != "" {
			avatarKey = &h.config.DefaultAvatarKey
		}
	}
	req.AvatarURL = avatarURL
	req.AvatarKey = avatarKey

	user, err := h.userService.Register(r.Context(), &req)
	if err != nil {
		// The insert failed, so the uploaded object has no owning row.
		h.discardUpload(r.Context(), uploadedKey)
		h.writeUserError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, user)
}

// Login verifies credentials and establishes a session.
// POST /login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.UserIDFromContext(r.Context()); ok {
		httputil.WriteBadRequest(w, "Already logged in")
		return
	}

	var req model.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	if fieldErrs := validate.Login(&req); len(fieldErrs) > 0 {
		httputil.WriteValidationErrors(w, fieldErrs)
		return
	}

	user, err := h.userService.Login(r.Context(), &req)
	if err != nil {
		if errors.Is(err, model.ErrInvalidCredentials) {
			// Same message whether the email or the password was wrong
			httputil.WriteUnauthorized(w, "Invalid email or password")
			return
		}
		httputil.WriteInternalError(w, "Failed to login")
		return
	}

	token, expiresIn, err := h.sessions.Issue(user.ID, req.Remember)
	if err != nil {
		httputil.WriteInternalError(w, "Failed to establish session")
		return
	}

	cookie := &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if req.Remember {
		// Without remember the cookie has no MaxAge and dies with the
		// browser session.
		cookie.MaxAge = expiresIn
	}
	http.SetCookie(w, cookie)

	httputil.WriteJSON(w, http.StatusOK, model.LoginResponse{
		User:         user,
		SessionToken: token,
		ExpiresIn:    expiresIn,
	})
}

// Logout clears the session cookie. Sessions are stateless, so there is
// nothing to revoke server-side.
// POST /logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Logged out successfully",
	})
}

// Me returns the currently authenticated user.
// GET /me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	user, err := h.userService.GetByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			httputil.WriteNotFound(w, "User not found")
			return
		}
		httputil.WriteInternalError(w, "Failed to get user")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, user)
}

// UpdateAccount changes username/email and optionally replaces the avatar.
// PUT /account
func (h *AuthHandler) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	maxFormSize := int64(model.MaxAvatarSizeBytes) + 1024*1024
	r.Body = http.MaxBytesReader(w, r.Body, maxFormSize)
	if err := r.ParseMultipartForm(maxFormSize); err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			httputil.WriteBadRequest(w, "Content-Type must be multipart/form-data")
			return
		}
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			httputil.WriteBadRequestWithCode(w, model.CodeFileTooLarge, "Avatar exceeds 5MB limit")
			return
		}
		httputil.WriteBadRequest(w, "Invalid form data")
		return
	}

	req := model.UpdateAccountRequest{
		Username: strings.TrimSpace(r.FormValue("username")),
		Email:    strings.TrimSpace(r.FormValue("email")),
	}

	if fieldErrs := validate.AccountUpdate(&req); len(fieldErrs) > 0 {
		httputil.WriteValidationErrors(w, fieldErrs)
		return
	}

	avatarURL, avatarKey, ok := h.resolveUploadedAvatar(w, r)
	if !ok {
		return
	}
	req.AvatarURL = avatarURL
	req.AvatarKey = avatarKey

	user, oldAvatarKey, err := h.userService.UpdateAccount(r.Context(), userID, &req)
	if err != nil {
		// The row was not updated, so the freshly uploaded object is orphaned.
		h.discardUpload(r.Context(), req.AvatarKey)
		h.writeUserError(w, err)
		return
	}

	// Clean up the replaced avatar object unless it was the shared default.
	if oldAvatarKey != nil && *oldAvatarKey != h.config.DefaultAvatarKey && h.mediaService != nil {
		if err := h.mediaService.DeleteObject(r.Context(), *oldAvatarKey); err != nil {
			logrus.WithError(err).WithField("key", *oldAvatarKey).Warn("failed to delete old avatar")
		}
	}

	httputil.WriteJSON(w, http.StatusOK, user)
}

// RequestPasswordReset mints a reset token and emails the reset link.
// POST /reset_password
func (h *AuthHandler) RequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.UserIDFromContext(r.Context()); ok {
		httputil.WriteBadRequest(w, "Already logged in")
		return
	}

	var req model.ResetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	if fieldErrs := validate.ResetRequest(&req); len(fieldErrs) > 0 {
		httputil.WriteValidationErrors(w, fieldErrs)
		return
	}

	user, err := h.userService.GetByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			httputil.WriteValidationErrors(w, []validate.FieldError{
				{Field: "email", Message: "There is no account with this email"},
			})
			return
		}
		httputil.WriteInternalError(w, "Failed to process reset request")
		return
	}

	token, err := h.resetTokens.Issue(user.ID)
	if err != nil {
		httputil.WriteInternalError(w, "Failed to issue reset token")
		return
	}

	// Fire-and-forget: the token is already issued, a failed send must not
	// undo it. Failures are only logged.
	link := fmt.Sprintf("%s/reset_password/%s", strings.TrimSuffix(h.config.BaseURL, "/"), token)
	email := user.Email
	go func() {
		if err := h.mailer.Send(email, "Password Reset Request", mail.ResetEmailBody(link)); err != nil {
			logrus.WithError(err).Warn("failed to send password reset email")
		}
	}()

	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "An email has been sent with instructions to reset your password",
	})
}

// ConfirmPasswordReset verifies the token and stores the new password.
// POST /reset_password/{token}
func (h *AuthHandler) ConfirmPasswordReset(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.UserIDFromContext(r.Context()); ok {
		httputil.WriteBadRequest(w, "Already logged in")
		return
	}

	token := tokenURLParam(r)
	userID, err := h.resetTokens.Verify(token)
	if err != nil {
		httputil.WriteUnauthorizedWithCode(w, model.CodeTokenInvalid, "Reset token is invalid or expired")
		return
	}

	var req model.ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	if fieldErrs := validate.ResetPassword(&req); len(fieldErrs) > 0 {
		httputil.WriteValidationErrors(w, fieldErrs)
		return
	}

	if err := h.userService.ChangePassword(r.Context(), userID, req.Password); err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			httputil.WriteUnauthorizedWithCode(w, model.CodeTokenInvalid, "Reset token is invalid or expired")
			return
		}
		httputil.WriteInternalError(w, "Failed to reset password")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Your password has been reset. Login to continue",
	})
}

// discardUpload removes an avatar object that ended up with no owning row.
func (h *AuthHandler) discardUpload(ctx context.Context, key *string) {
	if key == nil || h.mediaService == nil {
		return
	}
	if err := h.mediaService.DeleteObject(ctx, *key); err != nil {
		logrus.WithError(err).WithField("key", *key).Warn("failed to delete orphaned avatar")
	}
}

// resolveUploadedAvatar uploads the "avatar" form file when present.
func (h *AuthHandler) resolveUploadedAvatar(w http.ResponseWriter, r *http.Request) (*string, *string, bool) {
	file, header, err := r.FormFile("avatar")
	if err == http.ErrMissingFile {
		return nil, nil, true
	}
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid avatar upload")
		return nil, nil, false
	}
	defer file.Close()

	if h.mediaService == nil {
		httputil.WriteBadRequest(w, "Avatar uploads are not enabled")
		return nil, nil, false
	}

	upload, uploadErr := h.mediaService.UploadAvatar(r.Context(), file, header)
	if uploadErr != nil {
		switch {
		case errors.Is(uploadErr, model.ErrFileTooLarge):
			httputil.WriteBadRequestWithCode(w, model.CodeFileTooLarge, "Avatar exceeds 5MB limit")
		case errors.Is(uploadErr, model.ErrInvalidImageType):
			httputil.WriteBadRequestWithCode(w, model.CodeInvalidImageType, "Unsupported image type. Allowed: jpeg, png, gif, webp")
		default:
			httputil.WriteInternalError(w, "Failed to upload avatar")
		}
		return nil, nil, false
	}
	return &upload.URL, &upload.Key, true
}

// writeUserError maps user-store failures to HTTP responses.
func (h *AuthHandler) writeUserError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, model.ErrUsernameTaken):
		httputil.WriteFieldConflict(w, "username", "Username already taken")
	case errors.Is(err, model.ErrEmailTaken):
		httputil.WriteFieldConflict(w, "email", "Email already taken")
	case errors.Is(err, model.ErrUserNotFound):
		httputil.WriteNotFound(w, "User not found")
	default:
		logrus.WithError(err).Error("user operation failed")
		httputil.WriteInternalError(w, "Something went wrong")
	}
}
