package middleware

import (
	"context"
	"net/http"

	"github.com/anonto42/nano-feed/backend/internal/models"
	"github.com/anonto42/nano-feed/backend/pkg/firebase"
	"github.com/labstack/echo/v4"
)

// ExternalUsers resolves an externally verified identity to a local user.
type ExternalUsers interface {
	UpsertExternal(ctx context.Context, name, email string) (*models.User, error)
}

// FirebaseAuthMiddleware creates an Echo middleware that accepts a Firebase ID
// token as the bearer token and stores the matching local user's claims.
func FirebaseAuthMiddleware(verifier firebase.TokenVerifier, users ExternalUsers) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			idToken, err := bearerToken(c)
			if err != nil {
				return err
			}

			ctx := c.Request().Context()
			identity, err := verifier.Verify(ctx, idToken)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired ID token")
			}
			user, err := users.UpsertExternal(ctx, identity.Name, identity.Email)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Unable to resolve Firebase user")
			}

			c.Set(ClaimsKey, &models.JwtCustomClaims{UserID: user.ID, Email: user.Email})
			return next(c)
		}
	}
}
