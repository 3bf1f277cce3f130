package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/healthymeal/backend/internal/types"
)

// Context keys populated by AuthMiddleware.
const (
	ContextUserID = "user_id"
	ContextClaims = "token_claims"
)

// TokenValidator verifies a bearer token and returns its claims.
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (*types.TokenClaims, error)
}

// AuthMiddleware validates the Authorization header and stores the
// caller's identity in the request context.
func AuthMiddleware(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": gin.H{
				"code":    "missing_token",
				"message": "Authentication required. Please provide a valid token.",
			}})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": gin.H{
				"code":    "invalid_token",
				"message": "Invalid authorization header format.",
			}})
			c.Abort()
			return
		}

		claims, err := validator.ValidateToken(c.Request.Context(), parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": gin.H{
				"code":    "invalid_token",
				"message": "Invalid authentication token.",
			}})
			c.Abort()
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextClaims, claims)
		c.Next()
	}
}

// UserID extracts the authenticated user's ID from the context.
func UserID(c *gin.Context) (uuid.UUID, bool) {
	val, exists := c.Get(ContextUserID)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := val.(uuid.UUID)
	return id, ok
}

// Claims extracts the full token claims from the context.
func Claims(c *gin.Context) (*types.TokenClaims, bool) {
	val, exists := c.Get(ContextClaims)
	if !exists {
		return nil, false
	}
	claims, ok := val.(*types.TokenClaims)
	return claims, ok
}
