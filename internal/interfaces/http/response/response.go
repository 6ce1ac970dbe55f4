package response

import (
	"errors"

	"github.com/gin-gonic/gin"
	apperrors "buffzone.backend/internal/domain/errors"
)

// Success sends a success response
func Success(c *gin.Context, status int, data interface{}) {
	c.JSON(status, data)
}

// Error sends an error response derived from the error's type
func Error(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		appErr = apperrors.InternalError(err)
	}

	c.JSON(appErr.Status, gin.H{
		"code":    appErr.Code,
		"message": appErr.Message,
	})
}

// AbortError sends an error response and aborts the handler chain
func AbortError(c *gin.Context, err error) {
	Error(c, err)
	c.Abort()
}
