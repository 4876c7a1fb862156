package handlers

import (
	"errors"
	"net/http"

	"github.com/anonto42/nano-feed/backend/internal/middleware"
	"github.com/anonto42/nano-feed/backend/internal/models"
	"github.com/labstack/echo/v4"
)

// toHTTPError maps core errors onto status codes. Anything unrecognised is a 500.
func toHTTPError(err error) error {
	var (
		ve *models.ValidationError
		nf *models.NotFoundError
	)
	switch {
	case errors.As(err, &ve):
		return echo.NewHTTPError(http.StatusBadRequest, ve.Error())
	case errors.As(err, &nf):
		return echo.NewHTTPError(http.StatusNotFound, nf.Error())
	case errors.Is(err, models.ErrInvalidCredentials):
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	case errors.Is(err, models.ErrEmailTaken):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

// bindAndValidate decodes the request body into req and runs the registered
// echo validator over it.
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(req); err != nil {
		return err
	}
	return nil
}

// getUserIDFromContext returns the user id from the JWT claims.
func getUserIDFromContext(c echo.Context) (string, error) {
	claims := middleware.ClaimsFrom(c)
	if claims == nil || claims.UserID == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	return claims.UserID, nil
}
