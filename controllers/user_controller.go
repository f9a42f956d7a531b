package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"camsapi/pkg/logger"
	"camsapi/services"
	"camsapi/services/dto"
	"camsapi/utils"
)

var userSrv services.UserService

// SetUserService initializes the user service instance.
// Used for dependency injection in tests to provide mock implementations.
func SetUserService(s services.UserService) {
	userSrv = s
}

// ListUsers returns a paginated user list
// @Summary List users
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param page_size query int false "Page size (max 100)"
// @Success 200 {object} map[string]interface{} "Users with pagination"
// @Failure 403 {object} map[string]interface{} "Insufficient permissions"
// @Router /api/users [get]
func listUsers(c *gin.Context) {
	p := utils.ParsePageParams(c)
	users, total, err := userSrv.List(c.Request.Context(), p.Offset(), p.PageSize)
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	utils.JSONResponse(c, http.StatusOK, gin.H{
		"data":       users,
		"pagination": utils.NewPagination(total, p),
	})
}

// GetUser returns one user
// @Summary Get user by ID
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} dto.UserResponse "User"
// @Failure 404 {object} map[string]interface{} "User not found"
// @Router /api/users/{id} [get]
func getUser(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	user, err := userSrv.Get(c.Request.Context(), id)
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	utils.JSONResponse(c, http.StatusOK, user)
}

// CreateUser creates a user
// @Summary Create user
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param user body dto.UserCreateRequest true "User details"
// @Success 201 {object} dto.UserResponse "Created user"
// @Failure 400 {object} map[string]interface{} "Validation error"
// @Router /api/users [post]
func createUser(c *gin.Context) {
	var req dto.UserCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BindError(c, err)
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.ErrorResponse(c, err)
		return
	}

	user, err := userSrv.Create(c.Request.Context(), req, actorFrom(c))
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	logger.Infof("Created user %s with ID %d", user.Username, user.ID)
	utils.JSONResponse(c, http.StatusCreated, user)
}

// UpdateUser updates a user's profile fields
// @Summary Update user
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param user body dto.UserUpdateRequest true "Profile fields"
// @Success 200 {object} dto.UserResponse "Updated user"
// @Failure 404 {object} map[string]interface{} "User not found"
// @Router /api/users/{id} [put]
func updateUser(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.UserUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BindError(c, err)
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.ErrorResponse(c, err)
		return
	}

	user, err := userSrv.Update(c.Request.Context(), id, req, actorFrom(c))
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	utils.JSONResponse(c, http.StatusOK, user)
}

// DeleteUser removes a user
// @Summary Delete user
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} map[string]interface{} "Deleted"
// @Failure 400 {object} map[string]interface{} "Cannot delete own account"
// @Failure 404 {object} map[string]interface{} "User not found"
// @Router /api/users/{id} [delete]
func deleteUser(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := userSrv.Delete(c.Request.Context(), id, actorFrom(c)); err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	utils.JSONResponse(c, http.StatusOK, gin.H{"message": "user deleted"})
}

// GetProfile returns the caller's own account
// @Summary Get own profile
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.UserResponse "Profile"
// @Router /api/users/me [get]
func getProfile(c *gin.Context) {
	actor := actorFrom(c)
	user, err := userSrv.Get(c.Request.Context(), actor.UserID)
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	utils.JSONResponse(c, http.StatusOK, user)
}

// ChangeOwnPassword changes the caller's password
// @Summary Change own password
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param passwords body dto.ChangePasswordRequest true "Current and new password"
// @Success 200 {object} map[string]interface{} "Password changed"
// @Failure 400 {object} map[string]interface{} "Wrong current password or policy violation"
// @Router /api/users/me/password [put]
func changeOwnPassword(c *gin.Context) {
	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BindError(c, err)
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.ErrorResponse(c, err)
		return
	}

	actor := actorFrom(c)
	if err := userSrv.ChangePassword(c.Request.Context(), actor.UserID, req, actor); err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	utils.JSONResponse(c, http.StatusOK, gin.H{"message": "password changed"})
}

// AssignRole attaches a role to a user
// @Summary Assign role to user
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param role body dto.AssignRoleRequest true "Role ID"
// @Success 200 {object} map[string]interface{} "Role assigned"
// @Failure 400 {object} map[string]interface{} "User already holds role"
// @Failure 404 {object} map[string]interface{} "User or role not found"
// @Router /api/users/{id}/roles [post]
func assignRole(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.AssignRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BindError(c, err)
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.ErrorResponse(c, err)
		return
	}

	if err := userSrv.AssignRole(c.Request.Context(), id, req.RoleID, actorFrom(c)); err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	logger.Infof("Assigned role %d to user %d", req.RoleID, id)
	utils.JSONResponse(c, http.StatusOK, gin.H{"message": "role assigned"})
}

// RevokeRole detaches a role from a user
// @Summary Revoke role from user
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param roleId path int true "Role ID"
// @Success 200 {object} map[string]interface{} "Role revoked"
// @Failure 404 {object} map[string]interface{} "Assignment not found"
// @Router /api/users/{id}/roles/{roleId} [delete]
func revokeRole(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	roleID, ok := pathID(c, "roleId")
	if !ok {
		return
	}

	if err := userSrv.RevokeRole(c.Request.Context(), id, roleID, actorFrom(c)); err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	utils.JSONResponse(c, http.StatusOK, gin.H{"message": "role revoked"})
}

// RegisterUserRoutes registers user management routes
func RegisterUserRoutes(rg *gin.RouterGroup) {
	if userSrv == nil {
		userSrv = services.NewUserService()
	}

	users := rg.Group("/users")
	{
		users.GET("/me", getProfile)
		users.PUT("/me/password", changeOwnPassword)

		admin := users.Group("", adminOnly())
		{
			admin.GET("", listUsers)
			admin.POST("", createUser)
			admin.GET("/:id", getUser)
			admin.PUT("/:id", updateUser)
			admin.DELETE("/:id", deleteUser)
			admin.POST("/:id/roles", assignRole)
			admin.DELETE("/:id/roles/:roleId", revokeRole)
		}
	}
}
