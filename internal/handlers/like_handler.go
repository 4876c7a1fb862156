package handlers

import (
	"net/http"

	"github.com/anonto42/nano-feed/backend/internal/feed"
	"github.com/anonto42/nano-feed/backend/internal/models"
	"github.com/labstack/echo/v4"
)

// LikeHandler handles HTTP requests that toggle likes and reactions
type LikeHandler struct {
	reactor *feed.Reactor
}

// NewLikeHandler creates a new LikeHandler
func NewLikeHandler(reactor *feed.Reactor) *LikeHandler {
	return &LikeHandler{reactor: reactor}
}

// RegisterLikeRoutes registers like-related routes
func (h *LikeHandler) RegisterLikeRoutes(g *echo.Group) {
	g.POST("/posts/:id/like", h.ToggleLike)
	g.POST("/posts/:id/reactions", h.ToggleReaction)
}

// ToggleLike flips the like on a post
func (h *LikeHandler) ToggleLike(c echo.Context) error {
	post, err := h.reactor.ToggleLike(c.Request().Context(), c.Param("id"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, post)
}

// ToggleReaction sets, switches or removes the emoji reaction on a post
func (h *LikeHandler) ToggleReaction(c echo.Context) error {
	var req models.ReactRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	post, err := h.reactor.ToggleReaction(c.Request().Context(), c.Param("id"), models.ReactionKey(req.Reaction))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, post)
}
