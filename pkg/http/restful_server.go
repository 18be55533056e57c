package http

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
	"liyu1981.xyz/device-health-service/pkg/auth"
	"liyu1981.xyz/device-health-service/pkg/health"
)

type RestfulServer struct {
	Server           *gin.Engine
	Health           *health.Health
	RateLimiterStore *health.RateLimiterStore
	Auth             *auth.Authenticator
}

func (rs *RestfulServer) GetLimiter(customerEmail string) *rate.Limiter {
	if rs.RateLimiterStore == nil {
		return nil
	} else {
		return rs.RateLimiterStore.GetLimiter(customerEmail)
	}
}

func (rs *RestfulServer) CheckCustomerLimiter(customerEmail string) bool {
	limiter := rs.GetLimiter(customerEmail)
	if limiter == nil {
		return true
	}
	return limiter.Allow()
}

func (rs *RestfulServer) SetLimiter(customerEmail string, customerRate float64, customerBurst int) {
	if rs.RateLimiterStore == nil {
		return
	}
	rs.RateLimiterStore.SetLimiter(customerEmail, rate.Limit(customerRate), customerBurst)
}

func (rs *RestfulServer) Setup() {
	rs.Server.GET("/healthz", rs.HealthCheck)

	v1 := rs.Server.Group("/v1")
	{
		v1.POST("/device-health", rs.PostDeviceHealth)

		centri := v1.Group("/centri/:centro_id", rs.RequireCentroAdmin())
		{
			centri.GET("/settings", rs.GetSettings)
			centri.PUT("/settings", rs.PutSettings)
			centri.POST("/customers", rs.PostCustomer)
			centri.GET("/alerts", rs.GetAlerts)
			centri.POST("/alerts/analyze", rs.PostAlertsAnalyze)
			centri.POST("/alerts/:alert_id/review", rs.PostAlertReview)
			centri.POST("/limiter/:customer_email", rs.PostLimiter)
		}
	}
}
