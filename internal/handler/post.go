package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"blognest/internal/httputil"
	"blognest/internal/model"
	"blognest/internal/service"
	"blognest/internal/transport/http/middleware"
	"blognest/internal/validate"
)

type PostHandler struct {
	postService *service.PostService
}

func NewPostHandler(postService *service.PostService) *PostHandler {
	return &PostHandler{postService: postService}
}

// Create handles new-post submission.
// POST /posts
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	var req model.CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	if fieldErrs := validate.Post(req.Title, req.Content); len(fieldErrs) > 0 {
		httputil.WriteValidationErrors(w, fieldErrs)
		return
	}

	post, err := h.postService.Create(r.Context(), userID, req)
	if err != nil {
		logrus.WithError(err).Error("create post failed")
		httputil.WriteInternalError(w, "Failed to create post")
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, post)
}

// GetByID returns a single post, publicly readable.
// GET /posts/{id}
func (h *PostHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	postID, err := idURLParam(r)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid post ID")
		return
	}

	post, err := h.postService.GetByID(r.Context(), postID)
	if err != nil {
		if errors.Is(err, model.ErrPostNotFound) {
			httputil.WriteNotFound(w, "Post not found")
			return
		}
		logrus.WithError(err).Error("get post failed")
		httputil.WriteInternalError(w, "Failed to get post")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, post)
}

// Update rewrites a post owned by the caller.
// PUT /posts/{id}
func (h *PostHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	postID, err := idURLParam(r)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid post ID")
		return
	}

	var req model.UpdatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	if fieldErrs := validate.Post(req.Title, req.Content); len(fieldErrs) > 0 {
		httputil.WriteValidationErrors(w, fieldErrs)
		return
	}

	post, err := h.postService.Update(r.Context(), postID, userID, req)
	if err != nil {
		h.writePostError(w, err, "Failed to update post")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, post)
}

// Delete removes a post owned by the caller.
// DELETE /posts/{id}
func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	postID, err := idURLParam(r)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid post ID")
		return
	}

	if err := h.postService.Delete(r.Context(), postID, userID); err != nil {
		h.writePostError(w, err, "Failed to delete post")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Post deleted",
	})
}

// Feed returns the paginated global listing, newest first.
// GET /posts
func (h *PostHandler) Feed(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pageParams(r)

	listing, err := h.postService.ListAll(r.Context(), page, pageSize)
	if err != nil {
		logrus.WithError(err).Error("list posts failed")
		httputil.WriteInternalError(w, "Failed to list posts")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, listing)
}

func (h *PostHandler) writePostError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, model.ErrPostNotFound):
		httputil.WriteNotFound(w, "Post not found")
	case errors.Is(err, model.ErrNotPostOwner):
		httputil.WriteForbidden(w, "You do not own this post")
	default:
		logrus.WithError(err).Error("post operation failed")
		httputil.WriteInternalError(w, fallback)
	}
}
