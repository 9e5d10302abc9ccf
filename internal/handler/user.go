package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"blognest/internal/httputil"
	"blognest/internal/model"
	"blognest/internal/service"
)

type UserHandler struct {
	userService *service.UserService
	postService *service.PostService
}

func NewUserHandler(userService *service.UserService, postService *service.PostService) *UserHandler {
	return &UserHandler{
		userService: userService,
		postService: postService,
	}
}

// GetProfile returns a user's public profile.
// GET /users/{username}
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	user, err := h.userService.GetByUsername(r.Context(), username)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			httputil.WriteNotFound(w, "User not found")
			return
		}
		logrus.WithError(err).Error("get profile failed")
		httputil.WriteInternalError(w, "Failed to get profile")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, model.UserSummary{
		ID:        user.ID,
		Username:  user.Username,
		AvatarURL: user.AvatarURL,
	})
}

// GetPosts returns a page of the user's posts, newest first.
// GET /users/{username}/posts
func (h *UserHandler) GetPosts(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	user, err := h.userService.GetByUsername(r.Context(), username)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			httputil.WriteNotFound(w, "User not found")
			return
		}
		logrus.WithError(err).Error("get user failed")
		httputil.WriteInternalError(w, "Failed to get user")
		return
	}

	page, pageSize := pageParams(r)
	listing, err := h.postService.ListByAuthor(r.Context(), user.ID, page, pageSize)
	if err != nil {
		logrus.WithError(err).Error("list user posts failed")
		httputil.WriteInternalError(w, "Failed to list posts")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, listing)
}
