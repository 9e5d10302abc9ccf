package repository

import (
	"context"

	"blognest/internal/model"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
	UpdatePassword(ctx context.Context, userID int64, passwordHashed string) error
}

type PostRepository interface {
	Create(ctx context.Context, userID int64, title, content string) (*model.Post, error)
	GetByID(ctx context.Context, postID int64) (*model.Post, error)
	Update(ctx context.Context, postID, userID int64, title, content string) (*model.Post, error)
	Delete(ctx context.Context, postID, userID int64) error
	// ListByAuthor and ListAll return up to limit posts ordered by
	// created_at DESC, id DESC, skipping offset rows. Callers request one
	// extra row to detect whether more pages exist.
	ListByAuthor(ctx context.Context, userID int64, limit, offset int) ([]model.Post, error)
	ListAll(ctx context.Context, limit, offset int) ([]model.Post, error)
}
