package handlers

import (
	"net/http"

	"github.com/anonto42/nano-feed/backend/internal/models"
	"github.com/anonto42/nano-feed/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// PostHandler handles HTTP requests related to posts
type PostHandler struct {
	postRepository repositories.PostRepository
	userRepository repositories.UserRepository
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(postRepo repositories.PostRepository, userRepo repositories.UserRepository) *PostHandler {
	return &PostHandler{
		postRepository: postRepo,
		userRepository: userRepo,
	}
}

// RegisterPostRoutes registers post-related routes
func (h *PostHandler) RegisterPostRoutes(g *echo.Group) {
	g.POST("/posts", h.CreatePost)
	g.GET("/posts/:id", h.GetPost)
	g.PUT("/posts/:id", h.UpdatePost)
	g.DELETE("/posts/:id", h.DeletePost)
}

// CreatePost creates a new post authored by the caller
func (h *PostHandler) CreatePost(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}

	var req models.CreatePostRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	user, err := h.userRepository.FindByID(ctx, userID)
	if err != nil {
		if models.IsNotFound(err) {
			return echo.NewHTTPError(http.StatusUnauthorized, "Authenticated user no longer exists")
		}
		return toHTTPError(err)
	}

	post, err := h.postRepository.Create(ctx, user.AsAuthor(), req.Title, req.Content, req.Image)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, post)
}

// GetPost retrieves a post by ID
func (h *PostHandler) GetPost(c echo.Context) error {
	post, err := h.postRepository.FindByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, post)
}

// UpdatePost edits the title and content of a post owned by the caller
func (h *PostHandler) UpdatePost(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}

	var req models.UpdatePostRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	postID := c.Param("id")
	existing, err := h.postRepository.FindByID(ctx, postID)
	if err != nil {
		return toHTTPError(err)
	}
	if existing.UserID != userID {
		return echo.NewHTTPError(http.StatusForbidden, "You can only edit your own posts")
	}

	post, err := h.postRepository.Update(ctx, postID, req.Title, req.Content)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, post)
}

// DeletePost removes a post owned by the caller. Deleting an unknown id
// succeeds without doing anything.
func (h *PostHandler) DeletePost(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	postID := c.Param("id")
	existing, err := h.postRepository.FindByID(ctx, postID)
	if err != nil {
		if models.IsNotFound(err) {
			return c.NoContent(http.StatusNoContent)
		}
		return toHTTPError(err)
	}
	if existing.UserID != userID {
		return echo.NewHTTPError(http.StatusForbidden, "You can only delete your own posts")
	}

	if err := h.postRepository.Delete(ctx, postID); err != nil {
		return toHTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
