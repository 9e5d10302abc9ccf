package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"blognest/internal/model"
)

type postRepository struct {
	db *sqlx.DB
}

func NewPostRepository(db *sqlx.DB) PostRepository {
	return &postRepository{db: db}
}

// Create inserts a new post. The creation timestamp is set by the database
// so clients cannot supply their own.
func (r *postRepository) Create(ctx context.Context, userID int64, title, content string) (*model.Post, error) {
	query := `
		INSERT INTO posts (user_id, title, content)
		VALUES ($1, $2, $3)
		RETURNING id, user_id, title, content, created_at, updated_at
	`

	var post model.Post
	err := r.db.GetContext(ctx, &post, query, userID, title, content)
	if err != nil {
		return nil, fmt.Errorf("insert post: %w", err)
	}

	return &post, nil
}

// GetByID retrieves a single post with its author summary.
func (r *postRepository) GetByID(ctx context.Context, postID int64) (*model.Post, error) {
	query := `
		SELECT p.id, p.user_id, p.title, p.content, p.created_at, p.updated_at,
		       u.id AS "author.id", u.username AS "author.username", u.avatar_url AS "author.avatar_url"
		FROM posts p
		JOIN users u ON u.id = p.user_id
		WHERE p.id = $1
	`

	var row struct {
		model.Post
		Author model.UserSummary `db:"author"`
	}
	err := r.db.GetContext(ctx, &row, query, postID)
	if err == sql.ErrNoRows {
		return nil, model.ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get post: %w", err)
	}

	post := row.Post
	post.Author = &row.Author
	return &post, nil
}

// Update rewrites title and content when the caller owns the post. Ownership
// is checked in the same statement; zero affected rows then means either a
// missing post or a different owner, distinguished afterwards.
func (r *postRepository) Update(ctx context.Context, postID, userID int64, title, content string) (*model.Post, error) {
	query := `
		UPDATE posts
		SET title = $1, content = $2, updated_at = NOW()
		WHERE id = $3 AND user_id = $4
		RETURNING id, user_id, title, content, created_at, updated_at
	`

	var post model.Post
	err := r.db.GetContext(ctx, &post, query, title, content, postID, userID)
	if err == sql.ErrNoRows {
		return nil, r.ownershipError(ctx, postID)
	}
	if err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}

	return &post, nil
}

// Delete removes a post owned by userID.
func (r *postRepository) Delete(ctx context.Context, postID, userID int64) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM posts WHERE id = $1 AND user_id = $2`,
		postID, userID,
	)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return r.ownershipError(ctx, postID)
	}

	return nil
}

// ownershipError reports whether a failed owner-scoped mutation hit a missing
// post or someone else's post.
func (r *postRepository) ownershipError(ctx context.Context, postID int64) error {
	var exists bool
	if err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS(SELECT 1 FROM posts WHERE id = $1)`, postID); err != nil {
		return fmt.Errorf("check post existence: %w", err)
	}
	if exists {
		return model.ErrNotPostOwner
	}
	return model.ErrPostNotFound
}

const listColumns = `
	p.id, p.user_id, p.title, p.content, p.created_at, p.updated_at,
	u.id AS "author.id", u.username AS "author.username", u.avatar_url AS "author.avatar_url"
`

// ListByAuthor returns one author's posts, newest first. Ties on created_at
// break by id descending so ordering is total.
func (r *postRepository) ListByAuthor(ctx context.Context, userID int64, limit, offset int) ([]model.Post, error) {
	query := `
		SELECT ` + listColumns + `
		FROM posts p
		JOIN users u ON u.id = p.user_id
		WHERE p.user_id = $1
		ORDER BY p.created_at DESC, p.id DESC
		LIMIT $2 OFFSET $3
	`
	return r.list(ctx, query, userID, limit, offset)
}

// ListAll returns the global feed, newest first.
func (r *postRepository) ListAll(ctx context.Context, limit, offset int) ([]model.Post, error) {
	query := `
		SELECT ` + listColumns + `
		FROM posts p
		JOIN users u ON u.id = p.user_id
		ORDER BY p.created_at DESC, p.id DESC
		LIMIT $1 OFFSET $2
	`
	return r.list(ctx, query, limit, offset)
}

func (r *postRepository) list(ctx context.Context, query string, args ...interface{}) ([]model.Post, error) {
	var rows []struct {
		model.Post
		Author model.UserSummary `db:"author"`
	}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}

	posts := make([]model.Post, len(rows))
	for i := range rows {
		posts[i] = rows[i].Post
		author := rows[i].Author
		posts[i].Author = &author
	}
	return posts, nil
}
