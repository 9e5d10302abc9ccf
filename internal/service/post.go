package service

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"blognest/internal/model"
	"blognest/internal/repository"
)

// PostService handles business logic for posts: creation, owner-scoped
// mutation, and the paginated listings.
type PostService struct {
	postRepo repository.PostRepository
}

func NewPostService(postRepo repository.PostRepository) *PostService {
	return &PostService{postRepo: postRepo}
}

// Create stores a new post owned by userID.
func (s *PostService) Create(ctx context.Context, userID int64, req model.CreatePostRequest) (*model.Post, error) {
	post, err := s.postRepo.Create(ctx, userID, req.Title, req.Content)
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}

	logrus.WithFields(logrus.Fields{"post_id": post.ID, "user_id": userID}).Info("post created")
	return post, nil
}

// GetByID retrieves a single post.
func (s *PostService) GetByID(ctx context.Context, postID int64) (*model.Post, error) {
	return s.postRepo.GetByID(ctx, postID)
}

// Update rewrites a post when callerID owns it.
func (s *PostService) Update(ctx context.Context, postID, callerID int64, req model.UpdatePostRequest) (*model.Post, error) {
	post, err := s.postRepo.Update(ctx, postID, callerID, req.Title, req.Content)
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{"post_id": postID, "user_id": callerID}).Info("post updated")
	return post, nil
}

// Delete removes a post when callerID owns it.
func (s *PostService) Delete(ctx context.Context, postID, callerID int64) error {
	if err := s.postRepo.Delete(ctx, postID, callerID); err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{"post_id": postID, "user_id": callerID}).Info("post deleted")
	return nil
}

// clampPage normalizes the 1-indexed page and page size.
func clampPage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = model.DefaultPageSize
	}
	if pageSize > model.MaxPageSize {
		pageSize = model.MaxPageSize
	}
	return page, pageSize
}

// ListByAuthor returns one page of a single author's posts, newest first.
// A page past the end yields an empty list, not an error.
func (s *PostService) ListByAuthor(ctx context.Context, authorID int64, page, pageSize int) (*model.PostListResponse, error) {
	page, pageSize = clampPage(page, pageSize)

	// Fetch one extra row to learn whether another page follows.
	posts, err := s.postRepo.ListByAuthor(ctx, authorID, pageSize+1, (page-1)*pageSize)
	if err != nil {
		return nil, fmt.Errorf("list posts by author: %w", err)
	}

	return pageOf(posts, page, pageSize), nil
}

// ListAll returns one page of the global feed, newest first.
func (s *PostService) ListAll(ctx context.Context, page, pageSize int) (*model.PostListResponse, error) {
	page, pageSize = clampPage(page, pageSize)

	posts, err := s.postRepo.ListAll(ctx, pageSize+1, (page-1)*pageSize)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}

	return pageOf(posts, page, pageSize), nil
}

func pageOf(posts []model.Post, page, pageSize int) *model.PostListResponse {
	hasMore := len(posts) > pageSize
	if hasMore {
		posts = posts[:pageSize]
	}
	if posts == nil {
		posts = []model.Post{}
	}
	return &model.PostListResponse{
		Posts:    posts,
		Page:     page,
		PageSize: pageSize,
		HasMore:  hasMore,
	}
}
