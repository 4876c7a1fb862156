package handlers

import (
	"net/http"
	"time"

	"github.com/anonto42/nano-feed/backend/internal/models"
	"github.com/anonto42/nano-feed/backend/internal/repositories"
	"github.com/anonto42/nano-feed/backend/pkg/firebase"
	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	userRepository repositories.UserRepository
	verifier       firebase.TokenVerifier
	jwtSecret      string
	tokenTTL       time.Duration
	logger         *zap.Logger
}

// NewAuthHandler creates a new AuthHandler. verifier may be nil, in which case
// the firebase-login route is not registered.
func NewAuthHandler(userRepo repositories.UserRepository, verifier firebase.TokenVerifier, jwtSecret string, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		userRepository: userRepo,
		verifier:       verifier,
		jwtSecret:      jwtSecret,
		tokenTTL:       72 * time.Hour,
		logger:         logger,
	}
}

// RegisterAuthRoutes registers authentication-related routes
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group) {
	g.POST("/signup", h.Signup)
	g.POST("/signin", h.SignIn)
	if h.verifier != nil {
		g.POST("/firebase-login", h.FirebaseLogin)
	}
}

type authResponse struct {
	Token string             `json:"token"`
	User  models.UserCompact `json:"user"`
}

// Signup handles local user registration with email and password
func (h *AuthHandler) Signup(c echo.Context) error {
	var req models.SignupRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.userRepository.Signup(c.Request().Context(), req.Name, req.Email, req.Password)
	if err != nil {
		return toHTTPError(err)
	}
	return h.respondWithToken(c, http.StatusCreated, user)
}

// SignIn handles local user authentication with email and password
func (h *AuthHandler) SignIn(c echo.Context) error {
	var req models.SigninRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.userRepository.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return toHTTPError(err)
	}
	return h.respondWithToken(c, http.StatusOK, user)
}

// FirebaseLoginRequest defines the request body for Firebase login
type FirebaseLoginRequest struct {
	IDToken string `json:"idToken" validate:"required"`
}

// FirebaseLogin verifies a Firebase ID token and issues a local JWT
func (h *AuthHandler) FirebaseLogin(c echo.Context) error {
	var req FirebaseLoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	identity, err := h.verifier.Verify(c.Request().Context(), req.IDToken)
	if err != nil {
		h.logger.Warn("firebase token rejected", zap.Error(err))
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid Firebase ID token")
	}

	user, err := h.userRepository.UpsertExternal(c.Request().Context(), identity.Name, identity.Email)
	if err != nil {
		return toHTTPError(err)
	}
	return h.respondWithToken(c, http.StatusOK, user)
}

func (h *AuthHandler) respondWithToken(c echo.Context, status int, user *models.User) error {
	token, err := h.generateJWT(user)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate token")
	}
	return c.JSON(status, authResponse{Token: token, User: user.ToCompact()})
}

// generateJWT generates a JWT token for a given user
func (h *AuthHandler) generateJWT(user *models.User) (string, error) {
	now := time.Now()
	claims := &models.JwtCustomClaims{
		UserID: user.ID,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(h.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.jwtSecret))
}
