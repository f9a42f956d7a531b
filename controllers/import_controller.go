package controllers

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"camsapi/pkg/logger"
	"camsapi/services/importer"
	"camsapi/utils"
)

var importSrv importer.Service

// SetImportService initializes the import service instance.
// Used for dependency injection in tests to provide mock implementations.
func SetImportService(s importer.Service) {
	importSrv = s
}

// importPayload pulls the rows out of the request: either an uploaded file
// (multipart field "file") or the raw body. The format follows the file
// extension or the Content-Type.
func importPayload(c *gin.Context) ([]byte, string, error) {
	contentType := c.ContentType()

	if strings.HasPrefix(contentType, "multipart/") {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			return nil, "", utils.NewValidationError([]string{"multipart upload requires a \"file\" field"})
		}
		f, err := fileHeader.Open()
		if err != nil {
			return nil, "", err
		}
		defer f.Close()
		data, err := io.ReadAll(f)
		if err != nil {
			return nil, "", err
		}
		format := importer.FormatJSON
		if strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".csv") {
			format = importer.FormatCSV
		}
		return data, format, nil
	}

	data, err := c.GetRawData()
	if err != nil {
		return nil, "", err
	}
	format := importer.FormatJSON
	if strings.Contains(contentType, "csv") {
		format = importer.FormatCSV
	}
	return data, format, nil
}

// StartImport launches a bulk import job
// @Summary Start bulk import
// @Description Accepts a JSON array or CSV payload and imports rows as a background job
// @Tags Import
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param entity path string true "Entity" Enums(users, roles, applications)
// @Success 202 {object} importer.Job "Pending import job"
// @Failure 400 {object} map[string]interface{} "Unparseable payload or row limit exceeded"
// @Router /api/import/{entity} [post]
func startImport(c *gin.Context) {
	entity := c.Param("entity")

	data, format, err := importPayload(c)
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}

	job, err := importSrv.Start(entity, format, data, actorFrom(c))
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	logger.Infof("Started %s import job %s with %d rows", entity, job.ID, job.Total)
	utils.JSONResponse(c, http.StatusAccepted, job)
}

// GetImportJob returns the state of one import job
// @Summary Get import job
// @Tags Import
// @Produce json
// @Security BearerAuth
// @Param id path string true "Job ID"
// @Success 200 {object} importer.Job "Job state with per-row errors"
// @Failure 404 {object} map[string]interface{} "Job not found"
// @Router /api/import/jobs/{id} [get]
func getImportJob(c *gin.Context) {
	job, err := importSrv.Get(c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	utils.JSONResponse(c, http.StatusOK, job)
}

// ListImportJobs returns import jobs, newest first
// @Summary List import jobs
// @Tags Import
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param page_size query int false "Page size (max 100)"
// @Success 200 {object} map[string]interface{} "Jobs with pagination"
// @Router /api/import/jobs [get]
func listImportJobs(c *gin.Context) {
	p := utils.ParsePageParams(c)
	jobs, total := importSrv.List(p.Offset(), p.PageSize)
	utils.JSONResponse(c, http.StatusOK, gin.H{
		"data":       jobs,
		"pagination": utils.NewPagination(int64(total), p),
	})
}

// RegisterImportRoutes registers bulk import routes
func RegisterImportRoutes(rg *gin.RouterGroup) {
	if importSrv == nil {
		importSrv = importer.Get()
	}

	imp := rg.Group("/import", adminOnly())
	{
		imp.GET("/jobs", listImportJobs)
		imp.GET("/jobs/:id", getImportJob)
		imp.POST("/:entity", startImport)
	}
}
