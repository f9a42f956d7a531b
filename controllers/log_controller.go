package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"camsapi/pkg/logger"
	"camsapi/repository"
	"camsapi/services"
	"camsapi/utils"
)

var logQuerySrv services.LogService

// SetLogService initializes the log service instance.
// Used for dependency injection in tests to provide mock implementations.
func SetLogService(s services.LogService) {
	logQuerySrv = s
}

func parseLogFilter(c *gin.Context) (repository.LogFilter, error) {
	var f repository.LogFilter

	if v := c.Query("user_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return f, utils.NewValidationError([]string{"user_id must be a positive integer"})
		}
		f.UserID = uint(id)
	}
	f.Match = c.Query("match")

	var errs []string
	if v := c.Query("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			errs = append(errs, "from must be an RFC3339 timestamp")
		} else {
			f.From = t
		}
	}
	if v := c.Query("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			errs = append(errs, "to must be an RFC3339 timestamp")
		} else {
			f.To = t
		}
	}
	if len(errs) > 0 {
		return f, utils.NewValidationError(errs)
	}
	return f, nil
}

// ListAuditLogs returns paginated audit entries
// @Summary List audit logs
// @Tags Logs
// @Produce json
// @Security BearerAuth
// @Param user_id query int false "Filter by acting user"
// @Param match query string false "Filter by action"
// @Param from query string false "RFC3339 lower bound"
// @Param to query string false "RFC3339 upper bound"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size (max 100)"
// @Success 200 {object} map[string]interface{} "Entries with pagination"
// @Router /api/logs/audit [get]
func listAuditLogs(c *gin.Context) {
	f, err := parseLogFilter(c)
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	p := utils.ParsePageParams(c)
	entries, total, err := logQuerySrv.ListAudit(f, p.Offset(), p.PageSize)
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	utils.JSONResponse(c, http.StatusOK, gin.H{
		"data":       entries,
		"pagination": utils.NewPagination(total, p),
	})
}

// ListSecurityLogs returns paginated security events
// @Summary List security logs
// @Tags Logs
// @Produce json
// @Security BearerAuth
// @Param user_id query int false "Filter by user"
// @Param match query string false "Filter by event type"
// @Param from query string false "RFC3339 lower bound"
// @Param to query string false "RFC3339 upper bound"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size (max 100)"
// @Success 200 {object} map[string]interface{} "Entries with pagination"
// @Router /api/logs/security [get]
func listSecurityLogs(c *gin.Context) {
	f, err := parseLogFilter(c)
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	p := utils.ParsePageParams(c)
	entries, total, err := logQuerySrv.ListSecurity(f, p.Offset(), p.PageSize)
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	utils.JSONResponse(c, http.StatusOK, gin.H{
		"data":       entries,
		"pagination": utils.NewPagination(total, p),
	})
}

// ListSystemLogs returns paginated system entries
// @Summary List system logs
// @Tags Logs
// @Produce json
// @Security BearerAuth
// @Param match query string false "Filter by level"
// @Param from query string false "RFC3339 lower bound"
// @Param to query string false "RFC3339 upper bound"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size (max 100)"
// @Success 200 {object} map[string]interface{} "Entries with pagination"
// @Router /api/logs/system [get]
func listSystemLogs(c *gin.Context) {
	f, err := parseLogFilter(c)
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	p := utils.ParsePageParams(c)
	entries, total, err := logQuerySrv.ListSystem(f, p.Offset(), p.PageSize)
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	utils.JSONResponse(c, http.StatusOK, gin.H{
		"data":       entries,
		"pagination": utils.NewPagination(total, p),
	})
}

// ListPerformanceLogs returns paginated request timings
// @Summary List performance logs
// @Tags Logs
// @Produce json
// @Security BearerAuth
// @Param from query string false "RFC3339 lower bound"
// @Param to query string false "RFC3339 upper bound"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size (max 100)"
// @Success 200 {object} map[string]interface{} "Entries with pagination"
// @Router /api/logs/performance [get]
func listPerformanceLogs(c *gin.Context) {
	f, err := parseLogFilter(c)
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	p := utils.ParsePageParams(c)
	entries, total, err := logQuerySrv.ListPerformance(f, p.Offset(), p.PageSize)
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	utils.JSONResponse(c, http.StatusOK, gin.H{
		"data":       entries,
		"pagination": utils.NewPagination(total, p),
	})
}

// PruneLogs deletes entries older than a cutoff
// @Summary Prune a log table
// @Description Deletes entries of the named log type older than the before timestamp
// @Tags Logs
// @Produce json
// @Security BearerAuth
// @Param type path string true "Log type" Enums(audit, security, system, performance)
// @Param before query string true "RFC3339 cutoff"
// @Success 200 {object} map[string]interface{} "Number of deleted entries"
// @Failure 400 {object} map[string]interface{} "Unknown log type or bad cutoff"
// @Router /api/logs/{type} [delete]
func pruneLogs(c *gin.Context) {
	logType := c.Param("type")
	switch logType {
	case "audit", "security", "system", "performance":
	default:
		utils.ErrorResponse(c, utils.NewValidationError([]string{"unknown log type " + logType}))
		return
	}

	cutoff, err := time.Parse(time.RFC3339, c.Query("before"))
	if err != nil {
		utils.ErrorResponse(c, utils.NewValidationError([]string{"before must be an RFC3339 timestamp"}))
		return
	}

	deleted, err := logQuerySrv.Prune(logType, cutoff)
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	logger.Infof("Pruned %d %s log entries older than %v", deleted, logType, cutoff)
	utils.JSONResponse(c, http.StatusOK, gin.H{"deleted": deleted})
}

// RegisterLogRoutes registers log query and retention routes
func RegisterLogRoutes(rg *gin.RouterGroup) {
	if logQuerySrv == nil {
		logQuerySrv = services.NewLogService()
	}

	logs := rg.Group("/logs", adminOnly())
	{
		logs.GET("/audit", listAuditLogs)
		logs.GET("/security", listSecurityLogs)
		logs.GET("/system", listSystemLogs)
		logs.GET("/performance", listPerformanceLogs)
		logs.DELETE("/:type", pruneLogs)
	}
}
