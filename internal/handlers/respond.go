package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	apperrors "github.com/sceu/clinic/pkg/errors"
	"github.com/sceu/clinic/pkg/logger"
)

// writeError renders err as the uniform JSON error body. An AppError carries
// its own status code and client-facing message; anything else becomes a 500
// with the detail kept out of the response.
func writeError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		appErr = apperrors.Internal(err)
	}
	if appErr.Code >= 500 {
		logger.Error("request failed", "path", c.FullPath(), "error", err)
	}
	c.JSON(appErr.Code, gin.H{"error": appErr.Message})
}
