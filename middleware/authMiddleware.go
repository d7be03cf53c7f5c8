package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"pathfinder/models"
	"pathfinder/store"
	"pathfinder/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Context keys set by the authentication middlewares.
const (
	WebUserKey = "webUser"
	OwnerIDKey = "ownerID"
	DemoKey    = "demo"
)

type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (string, error)
}

// bearerToken reads the token from the "token" cookie or the Authorization header.
func bearerToken(c *gin.Context) (string, bool) {
	if token, err := c.Cookie("token"); err == nil && token != "" {
		return token, true
	}
	authHeader := c.GetHeader("Authorization")
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// AuthMiddleware verifies the bearer token with the auth server and requires
// an active webusers row for the resolved id.
func AuthMiddleware(verifier TokenVerifier, users store.WebUserStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization token not provided"})
			return
		}

		userID, err := verifier.VerifyToken(c.Request.Context(), token)
		if err != nil {
			utils.Log.Debug("token verification failed", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization token"})
			return
		}

		user, err := users.FindActiveWebUser(c.Request.Context(), userID)
		if err != nil {
			if !errors.Is(err, store.ErrNotFound) {
				utils.Log.Error("webuser lookup failed", zap.String("user_id", userID), zap.Error(err))
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization token"})
			return
		}

		c.Set(WebUserKey, user)
		c.Set(OwnerIDKey, user.ID)
		c.Next()
	}
}

// DemoSessionMiddleware accepts the HS256 tokens issued for demo sessions.
func DemoSessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization token not provided"})
			return
		}

		claims, err := utils.ValidateToken(token)
		if err != nil || claims.Role != utils.DemoRole {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization token"})
			return
		}

		c.Set(OwnerIDKey, claims.ID)
		c.Set(DemoKey, true)
		c.Next()
	}
}

// CurrentWebUser returns the user stored by AuthMiddleware.
func CurrentWebUser(c *gin.Context) (models.WebUser, bool) {
	v, ok := c.Get(WebUserKey)
	if !ok {
		return models.WebUser{}, false
	}
	user, ok := v.(models.WebUser)
	return user, ok
}
