package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/blog-platform/internal/middleware"
	"github.com/iliyamo/blog-platform/internal/model"
	"github.com/iliyamo/blog-platform/internal/policy"
	"github.com/iliyamo/blog-platform/internal/queue"
	"github.com/iliyamo/blog-platform/internal/repository"
	queue_publisher "github.com/iliyamo/blog-platform/internal/service"
)

// PostStore is the subset of the post repository the handler needs.
// *repository.PostRepo satisfies it; tests plug in an in-memory fake.
type PostStore interface {
	Create(ctx context.Context, title, content string, authorID uint64) (uint64, error)
	GetByID(ctx context.Context, id uint64) (model.Post, error)
	List(ctx context.Context, page, limit int) ([]model.Post, int, error)
	Update(ctx context.Context, id uint64, title, content string) error
	Delete(ctx context.Context, id uint64) error
}

// PostHandler bundles dependencies for the post endpoints.
type PostHandler struct {
	Posts PostStore
}

func NewPostHandler(p PostStore) *PostHandler { return &PostHandler{Posts: p} }

// ----- DTOs -----

type createPostReq struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// updatePostReq uses pointers so a PATCH can change one field and leave the
// other untouched.
type updatePostReq struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

// authorView is the sanitized author embedded in post responses.
type authorView struct {
	ID    uint64 `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type postView struct {
	ID        uint64     `json:"id"`
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	Author    authorView `json:"author"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

type postListResp struct {
	Posts []postView `json:"posts"`
	Total int        `json:"total"`
}

func toPostView(p model.Post) postView {
	return postView{
		ID:      p.ID,
		Title:   p.Title,
		Content: p.Content,
		Author: authorView{
			ID:    p.AuthorID,
			Email: p.AuthorEmail,
			Role:  p.AuthorRole,
		},
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// postID parses the :id route parameter.
func postID(c echo.Context) (uint64, error) {
	return strconv.ParseUint(c.Param("id"), 10, 64)
}

// Create stores a new post authored by the caller.
func (h *PostHandler) Create(c echo.Context) error {
	claims := middleware.ClaimsFrom(c)
	if claims == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req createPostReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Title = strings.TrimSpace(req.Title)
	req.Content = strings.TrimSpace(req.Content)
	if req.Title == "" || req.Content == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title/content required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	id, err := h.Posts.Create(ctx, req.Title, req.Content, claims.UserID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create post failed"})
	}
	p, err := h.Posts.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load post failed"})
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := queue_publisher.PublishPostPublished(ctx, queue.PostPublishedEvent{
			PostID:      id,
			AuthorID:    claims.UserID,
			Title:       req.Title,
			PublishedAt: time.Now().UTC(),
		}); err != nil {
			log.Printf("post create: publish event failed: %v", err)
		}
	}()

	return c.JSON(http.StatusCreated, toPostView(p))
}

// List returns one page of posts, newest first, with the total count.
// Public endpoint; responses are served from the Redis cache when fresh.
func (h *PostHandler) List(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	posts, total, err := h.Posts.List(ctx, page, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	views := make([]postView, 0, len(posts))
	for _, p := range posts {
		views = append(views, toPostView(p))
	}
	return c.JSON(http.StatusOK, postListResp{Posts: views, Total: total})
}

// Get returns a single post. Public endpoint.
func (h *PostHandler) Get(c echo.Context) error {
	id, err := postID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid post id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	p, err := h.Posts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Post not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, toPostView(p))
}

// Update partially updates a post. Allowed for the author or an admin; the
// decision is an explicit policy call before any mutation.
func (h *PostHandler) Update(c echo.Context) error {
	claims := middleware.ClaimsFrom(c)
	if claims == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := postID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid post id"})
	}

	var req updatePostReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	p, err := h.Posts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Post not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	if err := policy.RequireOwnerOrRole(claims, p.AuthorID, model.RoleAdmin); err != nil {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "You can only update your own posts"})
	}

	if req.Title != nil {
		p.Title = strings.TrimSpace(*req.Title)
	}
	if req.Content != nil {
		p.Content = strings.TrimSpace(*req.Content)
	}
	if p.Title == "" || p.Content == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title/content required"})
	}

	if err := h.Posts.Update(ctx, id, p.Title, p.Content); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update post failed"})
	}
	updated, err := h.Posts.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load post failed"})
	}
	return c.JSON(http.StatusOK, toPostView(updated))
}

// Delete removes a post. Allowed for the author or an admin.
func (h *PostHandler) Delete(c echo.Context) error {
	claims := middleware.ClaimsFrom(c)
	if claims == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := postID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid post id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	p, err := h.Posts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Post not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	if err := policy.RequireOwnerOrRole(claims, p.AuthorID, model.RoleAdmin); err != nil {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "You can only delete your own posts"})
	}

	if err := h.Posts.Delete(ctx, id); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete post failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
