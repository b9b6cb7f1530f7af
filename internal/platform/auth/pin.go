// Package auth implements the practice's shared-PIN session gate. A single
// PIN unlocks the whole system; a successful login is exchanged for a signed
// session token presented on subsequent requests. This is deliberately not a
// per-user authorization system — the practice runs one shared terminal.
package auth

import (
	"crypto/subtle"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

type Claims struct {
	jwt.RegisteredClaims
}

// Gate issues and validates session tokens for the shared practice PIN.
type Gate struct {
	pin        string
	signingKey []byte
	ttl        time.Duration
	devMode    bool
}

func NewGate(pin, sessionSecret string, ttl time.Duration, devMode bool) *Gate {
	return &Gate{
		pin:        pin,
		signingKey: []byte(sessionSecret),
		ttl:        ttl,
		devMode:    devMode,
	}
}

// CheckPIN compares the presented PIN against the configured one in
// constant time.
func (g *Gate) CheckPIN(presented string) bool {
	if g.pin == "" {
		return g.devMode
	}
	return subtle.ConstantTimeCompare([]byte(presented), []byte(g.pin)) == 1
}

// IssueToken creates a signed session token for an unlocked terminal.
func (g *Gate) IssueToken(now time.Time) (string, error) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "practice-terminal",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(g.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(g.signingKey)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

// ValidateToken parses and verifies a session token.
func (g *Gate) ValidateToken(tokenStr string) error {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return g.signingKey, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return fmt.Errorf("validate session token: %w", err)
	}
	return nil
}

// LoginRequest is the body of POST /api/login.
type LoginRequest struct {
	PIN string `json:"pin"`
}

// LoginHandler exchanges the practice PIN for a session token.
func (g *Gate) LoginHandler(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if !g.CheckPIN(req.PIN) {
		return echo.NewHTTPError(http.StatusUnauthorized, "incorrect PIN")
	}
	token, err := g.IssueToken(time.Now())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "could not create session")
	}
	return c.JSON(http.StatusOK, map[string]string{"token": token})
}

// Middleware rejects requests without a valid session token. In dev mode
// with no PIN configured the gate is open.
func (g *Gate) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if g.devMode && g.pin == "" {
				return next(c)
			}

			header := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing session token")
			}
			if err := g.ValidateToken(strings.TrimPrefix(header, "Bearer ")); err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired session")
			}
			return next(c)
		}
	}
}
