package utils

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"camsapi/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

// JSONResponse sends a JSON response with the specified HTTP status code.
func JSONResponse(c *gin.Context, status int, data interface{}) {
	c.JSON(status, data)
}

// ErrorResponse logs the error and translates it into the standard envelope:
// validation and business rule violations map to 400, missing resources to
// 404, everything else to 500.
func ErrorResponse(c *gin.Context, err error) {
	var (
		ve *ValidationError
		nf *NotFoundError
		br *BusinessRuleError
		fe validator.ValidationErrors
	)

	switch {
	case errors.As(err, &fe):
		messages := make([]string, 0, len(fe))
		for _, f := range fe {
			messages = append(messages, fmt.Sprintf("%s failed %s validation", strings.ToLower(f.Field()), f.Tag()))
		}
		logger.Warnf("Validation failed on %s %s: %v", c.Request.Method, c.Request.URL.Path, messages)
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "validation failed",
			"errors":  messages,
		})
	case errors.As(err, &ve):
		logger.Warnf("Validation failed on %s %s: %v", c.Request.Method, c.Request.URL.Path, ve.Messages)
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "validation failed",
			"errors":  ve.Messages,
		})
	case errors.As(err, &nf):
		logger.Warnf("Resource not found on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusNotFound, gin.H{
			"message": nf.Error(),
		})
	case errors.Is(err, gorm.ErrRecordNotFound):
		logger.Warnf("Record not found on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusNotFound, gin.H{
			"message": "record not found",
		})
	case errors.As(err, &br):
		logger.Warnf("Business rule violation on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusBadRequest, gin.H{
			"message": br.Message,
		})
	default:
		logger.Errorf("Internal error on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "internal server error",
		})
	}
}

// BindError sends a 400 for malformed request bodies.
func BindError(c *gin.Context, err error) {
	logger.Warnf("Malformed request on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	c.JSON(http.StatusBadRequest, gin.H{
		"message": "invalid request body",
		"errors":  []string{err.Error()},
	})
}
