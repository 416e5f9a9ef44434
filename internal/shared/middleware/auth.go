package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"storefront-backend/internal/shared/response"
	"storefront-backend/pkg/jwt"
)

// Context keys set by the auth middleware.
const (
	ContextUserID   = "userID"
	ContextUserName = "userName"
	ContextRole     = "role"
)

// AuthMiddleware verifies the bearer token minted by the identity provider
// and puts the caller's identity on the request context.
func AuthMiddleware(manager *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := parseBearer(c, manager)
		if !ok {
			response.Unauthorized(c, "missing or invalid bearer token")
			c.Abort()
			return
		}

		userID, err := uuid.Parse(claims.UserID)
		if err != nil {
			response.Unauthorized(c, "invalid user id in token")
			c.Abort()
			return
		}

		c.Set(ContextUserID, userID)
		c.Set(ContextUserName, claims.Name)
		c.Set(ContextRole, claims.Role)
		c.Next()
	}
}

// OptionalAuthMiddleware sets the identity if a valid token is present and
// lets the request through either way. Read endpoints that treat an absent
// identity as "empty cart" use this.
func OptionalAuthMiddleware(manager *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, ok := parseBearer(c, manager); ok {
			if userID, err := uuid.Parse(claims.UserID); err == nil {
				c.Set(ContextUserID, userID)
				c.Set(ContextUserName, claims.Name)
				c.Set(ContextRole, claims.Role)
			}
		}
		c.Next()
	}
}

// UserIDFromContext returns the authenticated user, or uuid.Nil when the
// request carried no identity.
func UserIDFromContext(c *gin.Context) uuid.UUID {
	if v, exists := c.Get(ContextUserID); exists {
		if id, ok := v.(uuid.UUID); ok {
			return id
		}
	}
	return uuid.Nil
}

// UserNameFromContext returns the display name from the token, or "".
func UserNameFromContext(c *gin.Context) string {
	if v, exists := c.Get(ContextUserName); exists {
		if name, ok := v.(string); ok {
			return name
		}
	}
	return ""
}

func parseBearer(c *gin.Context, manager *jwt.Manager) (*jwt.Claims, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil, false
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, false
	}

	claims, err := manager.ValidateToken(parts[1])
	if err != nil {
		return nil, false
	}
	return claims, true
}
