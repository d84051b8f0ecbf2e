package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/blog-platform/internal/model"
)

const postColumns = "p.id,p.title,p.content,p.author_id,p.created_at,p.updated_at,u.email,u.role"

// PostRepo provides access to the 'posts' table. Reads join the users table
// so responses can embed a sanitized author view in one round trip.
type PostRepo struct{ DB *sql.DB }

func NewPostRepo(db *sql.DB) *PostRepo { return &PostRepo{DB: db} }

// Create inserts a post and returns its ID.
func (r *PostRepo) Create(ctx context.Context, title, content string, authorID uint64) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO posts (title, content, author_id) VALUES (?,?,?)",
		title, content, authorID)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByID fetches a single post with its author joined in.
func (r *PostRepo) GetByID(ctx context.Context, id uint64) (model.Post, error) {
	var p model.Post
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+postColumns+" FROM posts p JOIN users u ON u.id=p.author_id WHERE p.id=? LIMIT 1",
		id).Scan(&p.ID, &p.Title, &p.Content, &p.AuthorID, &p.CreatedAt, &p.UpdatedAt, &p.AuthorEmail, &p.AuthorRole)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Post{}, ErrNotFound
	}
	return p, err
}

// List returns one page of posts ordered newest first along with the total
// number of posts. page is 1-based.
func (r *PostRepo) List(ctx context.Context, page, limit int) ([]model.Post, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	offset := (page - 1) * limit

	var total int
	if err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM posts").Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+postColumns+" FROM posts p JOIN users u ON u.id=p.author_id ORDER BY p.created_at DESC LIMIT ? OFFSET ?",
		limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []model.Post
	for rows.Next() {
		var p model.Post
		if err := rows.Scan(&p.ID, &p.Title, &p.Content, &p.AuthorID, &p.CreatedAt, &p.UpdatedAt, &p.AuthorEmail, &p.AuthorRole); err != nil {
			return nil, 0, err
		}
		out = append(out, p)
	}
	return out, total, rows.Err()
}

// Update overwrites title and content of an existing post. The ownership
// decision happens in the handler before this is called.
func (r *PostRepo) Update(ctx context.Context, id uint64, title, content string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE posts SET title=?, content=? WHERE id=?",
		title, content, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// RowsAffected is also 0 when the values did not change; re-check
		// existence so a no-op update is not reported as missing.
		var exists int
		if err := r.DB.QueryRowContext(ctx, "SELECT 1 FROM posts WHERE id=? LIMIT 1", id).Scan(&exists); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotFound
			}
			return err
		}
	}
	return nil
}

// Delete removes a post by id.
func (r *PostRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM posts WHERE id=?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
