package handlers

import (
	"net/http"

	"github.com/anonto42/nano-feed/backend/internal/feed"
	"github.com/anonto42/nano-feed/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// FeedHandler serves the filtered, sorted post list and the dashboard stats
type FeedHandler struct {
	postRepository repositories.PostRepository
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(postRepo repositories.PostRepository) *FeedHandler {
	return &FeedHandler{postRepository: postRepo}
}

// RegisterFeedRoutes registers feed-related routes
func (h *FeedHandler) RegisterFeedRoutes(g *echo.Group) {
	g.GET("/posts", h.GetFeed)
	g.GET("/stats", h.GetStats)
}

// GetFeed returns the posts matching ?search= ordered by ?sort=
// (latest, oldest or most-liked). An empty sort means latest.
func (h *FeedHandler) GetFeed(c echo.Context) error {
	mode := feed.SortLatest
	if raw := c.QueryParam("sort"); raw != "" {
		mode = feed.ParseSortMode(raw)
	}

	posts := h.postRepository.FindAll(c.Request().Context())
	return c.JSON(http.StatusOK, feed.Query(posts, c.QueryParam("search"), mode))
}

// GetStats returns the totals for the feed and for the authenticated user
func (h *FeedHandler) GetStats(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}
	posts := h.postRepository.FindAll(c.Request().Context())
	return c.JSON(http.StatusOK, feed.ComputeStats(posts, userID))
}
