// Package auth issues and verifies the HS256 bearer tokens used by the chat API.
package auth

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

const contextKey = "user"

// ErrNoUser is returned when the request carries no verified token.
var ErrNoUser = errors.New("auth: no authenticated user")

// Claims is the token payload. Subject carries the user ID.
type Claims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// GenerateToken signs a token for userID that expires after expiresIn.
func GenerateToken(userID, email, secret string, expiresIn time.Duration) (string, time.Time, error) {
	if strings.TrimSpace(userID) == "" {
		return "", time.Time{}, errors.New("auth: user id is required")
	}
	if strings.TrimSpace(secret) == "" {
		return "", time.Time{}, errors.New("auth: jwt secret is required")
	}
	if expiresIn <= 0 {
		return "", time.Time{}, errors.New("auth: expiry must be positive")
	}
	now := time.Now()
	expiresAt := now.Add(expiresIn)
	claims := Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// JWTMiddleware verifies bearer tokens on every request the skipper does not exempt.
func JWTMiddleware(secret string, skipper middleware.Skipper) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		Skipper:       skipper,
		SigningKey:    []byte(secret),
		SigningMethod: echojwt.AlgorithmHS256,
		ContextKey:    contextKey,
		NewClaimsFunc: func(echo.Context) jwt.Claims {
			return new(Claims)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized").SetInternal(err)
		},
	})
}

// UserIDFromContext returns the subject of the verified token.
func UserIDFromContext(c echo.Context) (string, error) {
	token, ok := c.Get(contextKey).(*jwt.Token)
	if !ok || token == nil {
		return "", ErrNoUser
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || strings.TrimSpace(claims.Subject) == "" {
		return "", ErrNoUser
	}
	return claims.Subject, nil
}
