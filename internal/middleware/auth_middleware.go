package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/umuhuza/umuhuza_api/internal/models"
	"github.com/umuhuza/umuhuza_api/internal/utils"
)

const (
	userKey   = "user"
	claimsKey = "claims"
)

// Authenticator resolves a bearer token to the session user.
type Authenticator interface {
	Authenticate(ctx context.Context, raw string) (*models.User, *utils.Claims, error)
}

// AuthMiddleware attaches the session user to the request.
type AuthMiddleware struct {
	auth        Authenticator
	rateLimiter *InvalidAuthRateLimiter
}

// NewAuthMiddleware constructs a new AuthMiddleware.
func NewAuthMiddleware(auth Authenticator, limiter *InvalidAuthRateLimiter) *AuthMiddleware {
	return &AuthMiddleware{auth: auth, rateLimiter: limiter}
}

// Optional resolves the session user when a valid token is sent. Anonymous
// and invalid tokens both continue as a guest.
func (m *AuthMiddleware) Optional() gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, ok := bearerToken(c); ok {
			if err := m.attach(c, token); err != nil {
				log.Debug().Err(err).Msg("Ignoring invalid session token")
			}
		}
		c.Next()
	}
}

// Require rejects guests with a login prompt that returns to the current page.
func (m *AuthMiddleware) Require() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			utils.LoginRequired(c, ReturnPath(c))
			c.Abort()
			return
		}
		if err := m.attach(c, token); err != nil {
			m.handleAuthError(c, err)
			return
		}
		c.Next()
	}
}

// RequireAdmin must run after Require.
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !CurrentUser(c).IsAdmin() {
			utils.Error(c, http.StatusForbidden, utils.ErrForbidden.Error(), "Admin access required")
			c.Abort()
			return
		}
		c.Next()
	}
}

func (m *AuthMiddleware) attach(c *gin.Context, token string) error {
	user, claims, err := m.auth.Authenticate(c.Request.Context(), token)
	if err != nil {
		return err
	}
	c.Set(userKey, user)
	c.Set(claimsKey, claims)
	c.Set("user_id", user.ID)
	return nil
}

func (m *AuthMiddleware) handleAuthError(c *gin.Context, err error) {
	// Apply rate limit for invalid auth attempts
	if m.rateLimiter != nil && !m.rateLimiter.Allow(c.ClientIP()) {
		utils.Error(c, http.StatusTooManyRequests, "TOO_MANY_REQUESTS", "Too many invalid authentication attempts")
		c.Abort()
		return
	}

	switch {
	case errors.Is(err, utils.ErrAccountInactive):
		utils.Error(c, http.StatusForbidden, utils.ErrAccountInactive.Error(), "Account is not active")
	case errors.Is(err, utils.ErrInvalidToken):
		utils.Error(c, http.StatusUnauthorized, utils.ErrInvalidToken.Error(), "Invalid or expired token")
	default:
		log.Error().Err(err).Msg("Failed to authenticate request")
		utils.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
	}
	c.Abort()
}

func bearerToken(c *gin.Context) (string, bool) {
	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}

// ReturnPath prefers the page the client says the user was on, as long as it
// is a path on this origin.
func ReturnPath(c *gin.Context) string {
	p := c.GetHeader("X-Return-Path")
	if strings.HasPrefix(p, "/") && !strings.HasPrefix(p, "//") && !strings.HasPrefix(p, "/\\") {
		return p
	}
	return c.Request.URL.RequestURI()
}

// CurrentUser returns the session user, or nil for guests.
func CurrentUser(c *gin.Context) *models.User {
	v, ok := c.Get(userKey)
	if !ok {
		return nil
	}
	user, _ := v.(*models.User)
	return user
}

// CurrentClaims returns the claims of the session token, or nil for guests.
func CurrentClaims(c *gin.Context) *utils.Claims {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*utils.Claims)
	return claims
}
