package controllers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"camsapi/middleware"
	"camsapi/models"
	"camsapi/pkg/token"
	"camsapi/repository"
	"camsapi/services"
	"camsapi/utils"
)

var (
	tokens  *token.Manager
	roleSrc middleware.RoleSource
	logSrv  services.LogService
)

// Init wires the shared middleware dependencies. Must run after the database
// connection is established and before route registration.
func Init(t *token.Manager) {
	tokens = t
	roleSrc = middleware.RoleSourceFromRepo(repository.NewUserRoleRepository())
	logSrv = services.NewLogService()
}

// RequireAuthMiddleware returns the bearer token gate shared by all secured
// route groups.
func RequireAuthMiddleware() gin.HandlerFunc {
	return middleware.RequireAuth(tokens)
}

func requireAuth() gin.HandlerFunc {
	return RequireAuthMiddleware()
}

func requireRoles(names ...string) gin.HandlerFunc {
	return middleware.RequireRoles(roleSrc, logSrv, names...)
}

func anyRole() gin.HandlerFunc {
	return requireRoles(models.RoleAdmin, models.RoleManager, models.RoleViewer)
}

func managerOrAdmin() gin.HandlerFunc {
	return requireRoles(models.RoleAdmin, models.RoleManager)
}

func adminOnly() gin.HandlerFunc {
	return requireRoles(models.RoleAdmin)
}

// pathID parses a positive integer path parameter. On failure it writes the
// error response and returns false.
func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		utils.ErrorResponse(c, utils.NewValidationError([]string{name + " must be a positive integer"}))
		return 0, false
	}
	return uint(id), true
}

func actorFrom(c *gin.Context) services.Actor {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		return services.Actor{IP: c.ClientIP()}
	}
	return services.Actor{UserID: claims.UserID, Username: claims.Username, IP: c.ClientIP()}
}

func clientInfo(c *gin.Context) services.ClientInfo {
	return services.ClientInfo{IP: c.ClientIP(), UserAgent: c.Request.UserAgent()}
}

// isAdmin reflects the roles RequireRoles loaded for this request, so it is
// always as fresh as the gate itself.
func isAdmin(c *gin.Context) bool {
	for _, name := range middleware.RolesFrom(c) {
		if name == models.RoleAdmin {
			return true
		}
	}
	return false
}
