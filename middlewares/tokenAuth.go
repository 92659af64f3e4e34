package middlewares

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ececomak/Dental-Appointment/models"
	"github.com/ececomak/Dental-Appointment/utils"
)

// contextKey defines a custom context key type to store principal details.
type contextKey string

const (
	principalEmailKey contextKey = "principalEmail"
	principalRoleKey  contextKey = "principalRole"
)

// TokenAuthMiddleware validates the access token and adds the authenticated
// principal (email and role) to the request context. The token is read from
// the accessToken cookie, falling back to the accessToken query parameter.
func TokenAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie("accessToken")
		if err != nil || token == "" {
			token = c.DefaultQuery("accessToken", "")
		}
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing access token"})
			c.Abort()
			return
		}

		claims, err := utils.ValidateToken(token, models.RolePatient, models.RoleDentist)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		ctx := context.WithValue(c.Request.Context(), principalEmailKey, claims.Email)
		ctx = context.WithValue(ctx, principalRoleKey, claims.Role)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// RoleAuthMiddleware restricts access to principals with the specified role.
func RoleAuthMiddleware(requiredRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, err := ExtractPrincipalRole(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Principal role not found in context"})
			c.Abort()
			return
		}

		if role != requiredRole {
			c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden: insufficient privileges"})
			c.Abort()
			return
		}

		c.Next()
	}
}

// ExtractPrincipalEmail retrieves the authenticated principal's email from the context.
func ExtractPrincipalEmail(ctx context.Context) (string, error) {
	email, ok := ctx.Value(principalEmailKey).(string)
	if !ok {
		return "", errors.New("principal email not found in context")
	}
	return email, nil
}

// ExtractPrincipalRole retrieves the authenticated principal's role from the context.
func ExtractPrincipalRole(ctx context.Context) (string, error) {
	role, ok := ctx.Value(principalRoleKey).(string)
	if !ok {
		return "", errors.New("principal role not found in context")
	}
	return role, nil
}
