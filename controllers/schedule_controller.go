package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"camsapi/pkg/logger"
	"camsapi/services"
	"camsapi/services/dto"
	"camsapi/utils"
)

var scheduleSrv services.ScheduleService

// SetScheduleService initializes the schedule service instance.
// Used for dependency injection in tests to provide mock implementations.
func SetScheduleService(s services.ScheduleService) {
	scheduleSrv = s
}

// GetSchedule returns the connection test schedule of an application
// @Summary Get schedule
// @Tags Schedules
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Success 200 {object} dto.ScheduleResponse "Schedule"
// @Failure 404 {object} map[string]interface{} "Application or schedule not found"
// @Router /api/applications/{id}/schedule [get]
func getSchedule(c *gin.Context) {
	appID, ok := pathID(c, "id")
	if !ok {
		return
	}
	schedule, err := scheduleSrv.Get(c.Request.Context(), appID, actorFrom(c), isAdmin(c))
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	utils.JSONResponse(c, http.StatusOK, schedule)
}

// UpsertSchedule creates or replaces the schedule of an application
// @Summary Create or update schedule
// @Description Validates the 5-field cron expression and computes the next run time
// @Tags Schedules
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Param schedule body dto.ScheduleRequest true "Cron expression and enabled flag"
// @Success 200 {object} dto.ScheduleResponse "Schedule with next run time"
// @Failure 400 {object} map[string]interface{} "Invalid cron expression"
// @Failure 404 {object} map[string]interface{} "Application not found"
// @Router /api/applications/{id}/schedule [put]
func upsertSchedule(c *gin.Context) {
	appID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.ScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BindError(c, err)
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.ErrorResponse(c, err)
		return
	}

	schedule, err := scheduleSrv.Upsert(c.Request.Context(), appID, req, actorFrom(c), isAdmin(c))
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	logger.Infof("Schedule for application %d set to %q (enabled=%v)", appID, req.CronExpression, req.Enabled)
	utils.JSONResponse(c, http.StatusOK, schedule)
}

// DeleteSchedule removes the schedule of an application
// @Summary Delete schedule
// @Tags Schedules
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Success 200 {object} map[string]interface{} "Deleted"
// @Failure 404 {object} map[string]interface{} "Application or schedule not found"
// @Router /api/applications/{id}/schedule [delete]
func deleteSchedule(c *gin.Context) {
	appID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := scheduleSrv.Delete(c.Request.Context(), appID, actorFrom(c), isAdmin(c)); err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	utils.JSONResponse(c, http.StatusOK, gin.H{"message": "schedule deleted"})
}
