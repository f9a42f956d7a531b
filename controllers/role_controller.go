package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"camsapi/pkg/logger"
	"camsapi/services"
	"camsapi/services/dto"
	"camsapi/utils"
)

var roleSrvCtl services.RoleService

// SetRoleService initializes the role service instance.
// Used for dependency injection in tests to provide mock implementations.
func SetRoleService(s services.RoleService) {
	roleSrvCtl = s
}

// ListRoles returns a paginated role list
// @Summary List roles
// @Tags Roles
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param page_size query int false "Page size (max 100)"
// @Success 200 {object} map[string]interface{} "Roles with pagination"
// @Router /api/roles [get]
func listRoles(c *gin.Context) {
	p := utils.ParsePageParams(c)
	roles, total, err := roleSrvCtl.List(c.Request.Context(), p.Offset(), p.PageSize)
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	utils.JSONResponse(c, http.StatusOK, gin.H{
		"data":       roles,
		"pagination": utils.NewPagination(total, p),
	})
}

// GetRole returns one role
// @Summary Get role by ID
// @Tags Roles
// @Produce json
// @Security BearerAuth
// @Param id path int true "Role ID"
// @Success 200 {object} dto.RoleResponse "Role"
// @Failure 404 {object} map[string]interface{} "Role not found"
// @Router /api/roles/{id} [get]
func getRole(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	role, err := roleSrvCtl.Get(c.Request.Context(), id)
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	utils.JSONResponse(c, http.StatusOK, role)
}

// CreateRole creates a custom role
// @Summary Create role
// @Tags Roles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param role body dto.RoleRequest true "Role details"
// @Success 201 {object} dto.RoleResponse "Created role"
// @Failure 400 {object} map[string]interface{} "Validation error or duplicate name"
// @Router /api/roles [post]
func createRole(c *gin.Context) {
	var req dto.RoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BindError(c, err)
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.ErrorResponse(c, err)
		return
	}

	role, err := roleSrvCtl.Create(c.Request.Context(), req, actorFrom(c))
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	logger.Infof("Created role %s with ID %d", role.Name, role.ID)
	utils.JSONResponse(c, http.StatusCreated, role)
}

// UpdateRole updates a role
// @Summary Update role
// @Tags Roles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Role ID"
// @Param role body dto.RoleRequest true "Role details"
// @Success 200 {object} dto.RoleResponse "Updated role"
// @Failure 400 {object} map[string]interface{} "System role cannot be renamed or deactivated"
// @Failure 404 {object} map[string]interface{} "Role not found"
// @Router /api/roles/{id} [put]
func updateRole(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.RoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BindError(c, err)
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.ErrorResponse(c, err)
		return
	}

	role, err := roleSrvCtl.Update(c.Request.Context(), id, req, actorFrom(c))
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	utils.JSONResponse(c, http.StatusOK, role)
}

// DeleteRole removes a custom role
// @Summary Delete role
// @Tags Roles
// @Produce json
// @Security BearerAuth
// @Param id path int true "Role ID"
// @Success 200 {object} map[string]interface{} "Deleted"
// @Failure 400 {object} map[string]interface{} "System role cannot be deleted"
// @Failure 404 {object} map[string]interface{} "Role not found"
// @Router /api/roles/{id} [delete]
func deleteRole(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := roleSrvCtl.Delete(c.Request.Context(), id, actorFrom(c)); err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	utils.JSONResponse(c, http.StatusOK, gin.H{"message": "role deleted"})
}

// RegisterRoleRoutes registers role management routes
func RegisterRoleRoutes(rg *gin.RouterGroup) {
	if roleSrvCtl == nil {
		roleSrvCtl = services.NewRoleService()
	}

	roles := rg.Group("/roles", adminOnly())
	{
		roles.GET("", listRoles)
		roles.POST("", createRole)
		roles.GET("/:id", getRole)
		roles.PUT("/:id", updateRole)
		roles.DELETE("/:id", deleteRole)
	}
}
