package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"camsapi/pkg/logger"
	"camsapi/services"
	"camsapi/services/dto"
	"camsapi/utils"
)

var connSrv services.ConnectionService

// SetConnectionService initializes the connection service instance.
// Used for dependency injection in tests to provide mock implementations.
func SetConnectionService(s services.ConnectionService) {
	connSrv = s
}

// ListConnections returns the connections of an application
// @Summary List connections of an application
// @Tags Connections
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Success 200 {array} dto.ConnectionResponse "Connections, secrets masked"
// @Failure 404 {object} map[string]interface{} "Application not found"
// @Router /api/applications/{id}/connections [get]
func listConnections(c *gin.Context) {
	appID, ok := pathID(c, "id")
	if !ok {
		return
	}
	conns, err := connSrv.ListByApplication(c.Request.Context(), appID, actorFrom(c), isAdmin(c))
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	utils.JSONResponse(c, http.StatusOK, conns)
}

// CreateConnection registers a connection under an application
// @Summary Create connection
// @Tags Connections
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Param connection body dto.ConnectionCreateRequest true "Connection details"
// @Success 201 {object} dto.ConnectionResponse "Created connection, secrets masked"
// @Failure 400 {object} map[string]interface{} "Validation error"
// @Failure 404 {object} map[string]interface{} "Application not found"
// @Router /api/applications/{id}/connections [post]
func createConnection(c *gin.Context) {
	appID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.ConnectionCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BindError(c, err)
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.ErrorResponse(c, err)
		return
	}

	conn, err := connSrv.Create(c.Request.Context(), appID, req, actorFrom(c), isAdmin(c))
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	logger.Infof("Created connection %s with ID %d under application %d", conn.Name, conn.ID, appID)
	utils.JSONResponse(c, http.StatusCreated, conn)
}

// GetConnection returns one connection
// @Summary Get connection by ID
// @Tags Connections
// @Produce json
// @Security BearerAuth
// @Param id path int true "Connection ID"
// @Success 200 {object} dto.ConnectionResponse "Connection, secrets masked"
// @Failure 404 {object} map[string]interface{} "Connection not found"
// @Router /api/connections/{id} [get]
func getConnection(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	conn, err := connSrv.Get(c.Request.Context(), id, actorFrom(c), isAdmin(c))
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	utils.JSONResponse(c, http.StatusOK, conn)
}

// UpdateConnection updates a connection
// @Summary Update connection
// @Description Updates a connection. Empty secret fields keep the stored values.
// @Tags Connections
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Connection ID"
// @Param connection body dto.ConnectionUpdateRequest true "Connection details"
// @Success 200 {object} dto.ConnectionResponse "Updated connection, secrets masked"
// @Failure 400 {object} map[string]interface{} "Validation error"
// @Failure 404 {object} map[string]interface{} "Connection not found"
// @Router /api/connections/{id} [put]
func updateConnection(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.ConnectionUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BindError(c, err)
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.ErrorResponse(c, err)
		return
	}

	conn, err := connSrv.Update(c.Request.Context(), id, req, actorFrom(c), isAdmin(c))
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	utils.JSONResponse(c, http.StatusOK, conn)
}

// DeleteConnection removes a connection
// @Summary Delete connection
// @Tags Connections
// @Produce json
// @Security BearerAuth
// @Param id path int true "Connection ID"
// @Success 200 {object} map[string]interface{} "Deleted"
// @Failure 404 {object} map[string]interface{} "Connection not found"
// @Router /api/connections/{id} [delete]
func deleteConnection(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := connSrv.Delete(c.Request.Context(), id, actorFrom(c), isAdmin(c)); err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	utils.JSONResponse(c, http.StatusOK, gin.H{"message": "connection deleted"})
}

// TestConnection probes a connection immediately
// @Summary Test connection
// @Description Probes the external system and records status, message, duration and test time
// @Tags Connections
// @Produce json
// @Security BearerAuth
// @Param id path int true "Connection ID"
// @Success 200 {object} dto.ConnectionResponse "Connection with fresh test result"
// @Failure 404 {object} map[string]interface{} "Connection not found"
// @Router /api/connections/{id}/test [post]
func testConnection(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	logger.Infof("Testing connection %d", id)
	conn, err := connSrv.Test(c.Request.Context(), id, actorFrom(c), isAdmin(c))
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	logger.Infof("Connection %d tested: %s", id, conn.Status)
	utils.JSONResponse(c, http.StatusOK, conn)
}

// RegisterConnectionRoutes registers the flat connection routes.
func RegisterConnectionRoutes(rg *gin.RouterGroup) {
	if connSrv == nil {
		connSrv = services.NewConnectionService()
	}

	conns := rg.Group("/connections")
	{
		conns.GET("/:id", anyRole(), getConnection)
		conns.PUT("/:id", managerOrAdmin(), updateConnection)
		conns.DELETE("/:id", managerOrAdmin(), deleteConnection)
		conns.POST("/:id/test", managerOrAdmin(), testConnection)
	}
}
