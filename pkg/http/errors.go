package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"liyu1981.xyz/device-health-service/pkg/common"
	"liyu1981.xyz/device-health-service/pkg/health"
)

// StatusFor maps service errors to HTTP status codes. Unknown errors are 500.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, health.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, health.ErrCustomerNotFound),
		errors.Is(err, health.ErrAlertNotFound):
		return http.StatusNotFound
	case errors.Is(err, health.ErrNoActiveLoyaltyCard),
		errors.Is(err, health.ErrServiceDisabled),
		errors.Is(err, health.ErrPlatformDisabled):
		return http.StatusForbidden
	case errors.Is(err, health.ErrAlertNotActionable):
		return http.StatusConflict
	case errors.Is(err, health.ErrAlertExpired):
		return http.StatusGone
	}
	return http.StatusInternalServerError
}

func writeError(c *gin.Context, err error) {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		common.GetLoggerWith(common.LoggerNameRestfulServer).Error("Request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
	}

	body := gin.H{"error": err.Error()}
	if reason := health.Reason(err); reason != "" {
		body["reason"] = reason
	}
	c.JSON(status, body)
}
