// internal/middleware/auth.go
package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/museum-backend/internal/i18n"
	"github.com/javajoker/museum-backend/internal/utils"
)

func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		lang := utils.GetLangFromContext(c)

		token, ok := bearerToken(c)
		if !ok {
			utils.UnauthorizedResponse(c, "")
			c.Abort()
			return
		}

		claims, err := utils.ValidateJWT(token)
		if err != nil {
			utils.UnauthorizedResponse(c, i18n.T(lang, i18n.KeyAuthInvalidToken))
			c.Abort()
			return
		}

		setClaims(c, claims)
		c.Next()
	}
}

// AccountChecker reports whether a token holder may still act as staff.
type AccountChecker interface {
	IsActiveStaff(userID uint) (bool, error)
}

// StaffRequired must run after AuthRequired. Besides the token claim it asks
// accounts whether the user is still an active staff member, so disabling an
// account takes effect before its tokens expire.
func StaffRequired(accounts AccountChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		lang := utils.GetLangFromContext(c)

		if !utils.IsStaff(c) {
			utils.ForbiddenResponse(c, "")
			c.Abort()
			return
		}

		userID, _ := utils.GetUserIDFromContext(c)
		active, err := accounts.IsActiveStaff(userID)
		if err != nil {
			logrus.WithError(err).WithField("user_id", userID).Error("Failed to check staff account")
			utils.InternalErrorResponse(c, "")
			c.Abort()
			return
		}
		if !active {
			utils.ForbiddenResponse(c, i18n.T(lang, i18n.KeyAuthInactive))
			c.Abort()
			return
		}

		c.Next()
	}
}

// OptionalAuth identifies the caller when a valid token is present and lets
// anonymous requests through untouched.
func OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			c.Next()
			return
		}

		claims, err := utils.ValidateJWT(token)
		if err != nil {
			c.Next()
			return
		}

		// Set user info in context if token is valid
		setClaims(c, claims)
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}

	// Extract token from "Bearer <token>"
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func setClaims(c *gin.Context, claims *utils.JWTClaims) {
	c.Set("user_id", claims.UserID)
	c.Set("username", claims.Username)
	c.Set("is_staff", claims.IsStaff)
}
