// Package middleware holds the authentication and authorization gates for
// the API routes.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"camsapi/models"
	"camsapi/pkg/logger"
	"camsapi/pkg/token"
	"camsapi/repository"
)

const (
	claimsKey = "auth_claims"
	rolesKey  = "auth_roles"
)

// RoleSource resolves the currently active role names of a user. Implemented
// by the user role repository; queried per request so revocations and role
// deactivations take effect immediately.
type RoleSource interface {
	ActiveRoleNames(userID uint) ([]string, error)
}

// SecurityRecorder is implemented by the log service so the middleware does
// not depend on the services package.
type SecurityRecorder interface {
	RecordSecurity(eventType string, userID uint, username, ip, userAgent, details string)
}

type roleSourceFunc func(userID uint) ([]string, error)

func (f roleSourceFunc) ActiveRoleNames(userID uint) ([]string, error) { return f(userID) }

// RoleSourceFromRepo adapts the user role repository to RoleSource.
func RoleSourceFromRepo(repo repository.UserRoleRepository) RoleSource {
	return roleSourceFunc(func(userID uint) ([]string, error) {
		return repo.GetActiveRoleNames(nil, userID)
	})
}

// RequireAuth rejects requests without a valid bearer token. Runs before any
// role check: an unauthenticated request is answered 401 without touching
// the database.
func RequireAuth(tokens *token.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "authorization header required"})
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "authorization header must be a bearer token"})
			return
		}

		claims, err := tokens.ParseAccessToken(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "invalid or expired token"})
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

// ClaimsFrom returns the token claims stored by RequireAuth.
func ClaimsFrom(c *gin.Context) (*token.Claims, bool) {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*token.Claims)
	return claims, ok
}

// Authorize reports whether any granted role satisfies the requirement.
// A user with at least one of the required roles passes.
func Authorize(granted []string, required ...string) bool {
	for _, need := range required {
		for _, have := range granted {
			if have == need {
				return true
			}
		}
	}
	return false
}

// RequireRoles allows the request through when the user holds at least one
// of the named roles. Roles are re-read from the database on every request;
// the role list inside the token is informational only.
func RequireRoles(roles RoleSource, security SecurityRecorder, required ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := ClaimsFrom(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "authentication required"})
			return
		}

		granted, err := roles.ActiveRoleNames(claims.UserID)
		if err != nil {
			logger.Errorf("Failed to load roles for user %d: %v", claims.UserID, err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
			return
		}

		if !Authorize(granted, required...) {
			if security != nil {
				security.RecordSecurity(models.SecurityEventAccessDenied, claims.UserID, claims.Username,
					c.ClientIP(), c.Request.UserAgent(),
					"required role(s): "+strings.Join(required, ", "))
			}
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "insufficient permissions"})
			return
		}

		c.Set(rolesKey, granted)
		c.Next()
	}
}

// RolesFrom returns the active role names loaded by RequireRoles.
func RolesFrom(c *gin.Context) []string {
	v, ok := c.Get(rolesKey)
	if !ok {
		return nil
	}
	roles, _ := v.([]string)
	return roles
}
