package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"camsapi/pkg/logger"
	"camsapi/services"
	"camsapi/services/dto"
	"camsapi/utils"
)

var appSrv services.ApplicationService

// SetApplicationService initializes the application service instance.
// Used for dependency injection in tests to provide mock implementations.
func SetApplicationService(s services.ApplicationService) {
	appSrv = s
}

// ListApplications returns the caller's applications, or all for admins
// @Summary List applications
// @Tags Applications
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param page_size query int false "Page size (max 100)"
// @Success 200 {object} map[string]interface{} "Applications with pagination"
// @Router /api/applications [get]
func listApplications(c *gin.Context) {
	p := utils.ParsePageParams(c)
	apps, total, err := appSrv.List(c.Request.Context(), actorFrom(c), isAdmin(c), p.Offset(), p.PageSize)
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	utils.JSONResponse(c, http.StatusOK, gin.H{
		"data":       apps,
		"pagination": utils.NewPagination(total, p),
	})
}

// GetApplication returns one application with its connection count
// @Summary Get application by ID
// @Tags Applications
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Success 200 {object} dto.ApplicationResponse "Application"
// @Failure 404 {object} map[string]interface{} "Application not found"
// @Router /api/applications/{id} [get]
func getApplication(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	app, err := appSrv.Get(c.Request.Context(), id, actorFrom(c), isAdmin(c))
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	utils.JSONResponse(c, http.StatusOK, app)
}

// CreateApplication registers an application owned by the caller
// @Summary Create application
// @Tags Applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param application body dto.ApplicationCreateRequest true "Application details"
// @Success 201 {object} dto.ApplicationResponse "Created application"
// @Failure 400 {object} map[string]interface{} "Validation error or duplicate name"
// @Router /api/applications [post]
func createApplication(c *gin.Context) {
	var req dto.ApplicationCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BindError(c, err)
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.ErrorResponse(c, err)
		return
	}

	app, err := appSrv.Create(c.Request.Context(), req, actorFrom(c))
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	logger.Infof("Created application %s with ID %d", app.Name, app.ID)
	utils.JSONResponse(c, http.StatusCreated, app)
}

// UpdateApplication updates an application
// @Summary Update application
// @Tags Applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Param application body dto.ApplicationUpdateRequest true "Application details"
// @Success 200 {object} dto.ApplicationResponse "Updated application"
// @Failure 404 {object} map[string]interface{} "Application not found"
// @Router /api/applications/{id} [put]
func updateApplication(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.ApplicationUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BindError(c, err)
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.ErrorResponse(c, err)
		return
	}

	app, err := appSrv.Update(c.Request.Context(), id, req, actorFrom(c), isAdmin(c))
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	utils.JSONResponse(c, http.StatusOK, app)
}

// DeleteApplication removes an application with its connections and schedule
// @Summary Delete application
// @Tags Applications
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Success 200 {object} map[string]interface{} "Deleted"
// @Failure 404 {object} map[string]interface{} "Application not found"
// @Router /api/applications/{id} [delete]
func deleteApplication(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := appSrv.Delete(c.Request.Context(), id, actorFrom(c), isAdmin(c)); err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	logger.Infof("Deleted application %d", id)
	utils.JSONResponse(c, http.StatusOK, gin.H{"message": "application deleted"})
}

// RegisterApplicationRoutes registers application routes together with the
// nested connection and schedule routes.
func RegisterApplicationRoutes(rg *gin.RouterGroup) {
	if appSrv == nil {
		appSrv = services.NewApplicationService()
	}
	if connSrv == nil {
		connSrv = services.NewConnectionService()
	}
	if scheduleSrv == nil {
		scheduleSrv = services.NewScheduleService()
	}

	apps := rg.Group("/applications")
	{
		apps.GET("", anyRole(), listApplications)
		apps.GET("/:id", anyRole(), getApplication)
		apps.POST("", managerOrAdmin(), createApplication)
		apps.PUT("/:id", managerOrAdmin(), updateApplication)
		apps.DELETE("/:id", managerOrAdmin(), deleteApplication)

		apps.GET("/:id/connections", anyRole(), listConnections)
		apps.POST("/:id/connections", managerOrAdmin(), createConnection)

		apps.GET("/:id/schedule", anyRole(), getSchedule)
		apps.PUT("/:id/schedule", managerOrAdmin(), upsertSchedule)
		apps.DELETE("/:id/schedule", managerOrAdmin(), deleteSchedule)
	}
}
