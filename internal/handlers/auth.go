// Package handlers provides the HTTP API handlers for the Startup Setu backend.
package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"github.com/startupsetu/setu/internal/accounts"
	"github.com/startupsetu/setu/internal/auth"
)

// AuthOptions configures token issuing and the login rate limit.
type AuthOptions struct {
	JWTSecret  string
	ExpiresIn  time.Duration
	LoginRate  float64
	LoginBurst int
}

// AuthHandler serves /api/auth/login and issues JWTs.
type AuthHandler struct {
	accountService *accounts.Service
	opts           AuthOptions
	logger         *slog.Logger
}

// LoginResponse is the success body: the user, their active agents and a bearer token.
type LoginResponse struct {
	UserID        string          `json:"userId"`
	Email         string          `json:"email"`
	Subscriptions map[string]bool `json:"subscriptions"`
	AccessToken   string          `json:"access_token"`
	TokenType     string          `json:"token_type"`
	ExpiresAt     string          `json:"expires_at"`
}

// NewAuthHandler creates an auth handler with account service and JWT config.
func NewAuthHandler(log *slog.Logger, accountService *accounts.Service, opts AuthOptions) *AuthHandler {
	return &AuthHandler{
		accountService: accountService,
		opts:           opts,
		logger:         log.With(slog.String("handler", "auth")),
	}
}

// Register mounts POST /api/auth/login behind a per-IP rate limiter.
func (h *AuthHandler) Register(e *echo.Echo) {
	e.POST("/api/auth/login", h.Login, h.rateLimiter())
}

func (h *AuthHandler) rateLimiter() echo.MiddlewareFunc {
	if h.opts.LoginRate <= 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	burst := h.opts.LoginBurst
	if burst <= 0 {
		burst = 1
	}
	store := middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(h.opts.LoginRate),
		Burst:     burst,
		ExpiresIn: 3 * time.Minute,
	})
	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusForbidden, "forbidden").SetInternal(err)
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			h.logger.Warn("login rate limited", slog.String("remote_ip", identifier))
			return echo.NewHTTPError(http.StatusTooManyRequests, "Too many login attempts. Please try again later.")
		},
	})
}

// Login godoc
// @Summary Login or sign up
// @Description Sign in with email and password, or create the account when isSignup is set
// @Tags auth
// @Param payload body accounts.LoginRequest true "Login request"
// @Success 200 {object} LoginResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 429 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/auth/login [post].
func (h *AuthHandler) Login(c echo.Context) error {
	if h.accountService == nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Authentication failed")
	}
	if strings.TrimSpace(h.opts.JWTSecret) == "" || h.opts.ExpiresIn <= 0 {
		return echo.NewHTTPError(http.StatusInternalServerError, "Authentication failed")
	}

	var req accounts.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	result, err := h.accountService.Login(c.Request().Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, accounts.ErrInvalidEmail):
			return echo.NewHTTPError(http.StatusBadRequest, "Valid email address required")
		case errors.Is(err, accounts.ErrWeakPassword):
			return echo.NewHTTPError(http.StatusBadRequest, "Password must be at least 6 characters")
		case errors.Is(err, accounts.ErrPasswordTooLong):
			return echo.NewHTTPError(http.StatusBadRequest, "Password must be at most 72 bytes")
		case errors.Is(err, accounts.ErrEmailTaken):
			return echo.NewHTTPError(http.StatusConflict, "Email already registered. Please login instead.")
		case errors.Is(err, accounts.ErrInvalidCredentials):
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid email or password")
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, "Authentication failed").SetInternal(err)
		}
	}

	token, expiresAt, err := auth.GenerateToken(result.UserID, result.Email, h.opts.JWTSecret, h.opts.ExpiresIn)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Authentication failed").SetInternal(err)
	}

	return c.JSON(http.StatusOK, LoginResponse{
		UserID:        result.UserID,
		Email:         result.Email,
		Subscriptions: result.Subscriptions,
		AccessToken:   token,
		TokenType:     "Bearer",
		ExpiresAt:     expiresAt.Format(time.RFC3339),
	})
}
