package http

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"liyu1981.xyz/device-health-service/pkg/common"
	"liyu1981.xyz/device-health-service/pkg/health"

	z "github.com/Oudwins/zog"
	"github.com/Oudwins/zog/zhttp"
)

const claimsKey = "centro_claims"

// RequireCentroAdmin accepts a bearer token whose centro_id claim matches the
// centro in the path.
func (rs *RestfulServer) RequireCentroAdmin() gin.HandlerFunc {
	logger := common.GetLoggerWith(common.LoggerNameRestfulServer)

	return func(c *gin.Context) {
		if rs.Auth == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "admin authentication is not configured"})
			return
		}

		token, found := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !found || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		claims, err := rs.Auth.Verify(token)
		if err != nil {
			logger.Info("Rejected admin token", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		if claims.CentroID != c.Param("centro_id") {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "token is not valid for this centro"})
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

func (rs *RestfulServer) GetSettings(c *gin.Context) {
	settings, err := rs.Health.Settings.ResolveSettings(c.Request.Context(), c.Param("centro_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

// PutSettings applies the fields present in the body on top of the current
// settings and stores the result.
func (rs *RestfulServer) PutSettings(c *gin.Context) {
	centroID := c.Param("centro_id")

	settings, err := rs.Health.Settings.ResolveSettings(c.Request.Context(), centroID)
	if err != nil {
		writeError(c, err)
		return
	}

	if err := c.ShouldBindJSON(&settings); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	stored, err := rs.Health.Settings.UpsertSettings(c.Request.Context(), centroID, settings)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, stored)
}

func (rs *RestfulServer) PostCustomer(c *gin.Context) {
	var req health.EnrollCustomerRequest
	if err := health.EnrollCustomerRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	enrollment, err := rs.Health.Access.EnrollCustomer(c.Request.Context(), c.Param("centro_id"), &req)
	if err != nil {
		writeError(c, err)
		return
	}

	status := http.StatusOK
	if enrollment.CardIssued {
		status = http.StatusCreated
	}
	c.JSON(status, enrollment)
}

func (rs *RestfulServer) GetAlerts(c *gin.Context) {
	alerts, err := rs.Health.Alert.ListCentroAlerts(c.Request.Context(), c.Param("centro_id"), c.Query("status"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, alerts)
}

func (rs *RestfulServer) PostAlertReview(c *gin.Context) {
	var req health.ReviewAlertRequest
	if err := health.ReviewAlertRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	alert, err := rs.Health.Alert.ReviewAlert(c.Request.Context(), c.Param("centro_id"), c.Param("alert_id"), &req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":           true,
		"action":            req.Action,
		"alert_id":          alert.ID,
		"customer_notified": req.Action == health.ReviewActionConfirm,
		"alert":             alert,
	})
}

// PostAlertsAnalyze re-checks stored logs of the centro. An empty body checks
// the latest log of every customer seen in the last day.
func (rs *RestfulServer) PostAlertsAnalyze(c *gin.Context) {
	var req health.AnalyzeAlertsRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := rs.Health.Alert.AnalyzeAlerts(c.Request.Context(), c.Param("centro_id"), &req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type LimiterRequest struct {
	Rate  float64 `json:"rate"`
	Burst int     `json:"burst"`
}

var limiterRequestSchema = z.Struct(z.Shape{
	"rate":  z.Float64().GT(0).Required(),
	"burst": z.Int().GT(0).Required(),
})

func (rs *RestfulServer) PostLimiter(c *gin.Context) {
	customerEmail := c.Param("customer_email")

	var req LimiterRequest
	if err := limiterRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	rs.SetLimiter(customerEmail, req.Rate, req.Burst)

	c.Status(http.StatusOK)
}
