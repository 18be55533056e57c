package grpc

import (
	"golang.org/x/time/rate"

	"liyu1981.xyz/device-health-service/pkg/health"
)

type DeviceHealthServer struct {
	Health           *health.Health
	RateLimiterStore *health.RateLimiterStore
}

var _ DeviceHealthServiceServer = (*DeviceHealthServer)(nil)

func (s *DeviceHealthServer) GetLimiter(customerEmail string) *rate.Limiter {
	if s.RateLimiterStore == nil {
		return nil
	} else {
		return s.RateLimiterStore.GetLimiter(customerEmail)
	}
}

func (s *DeviceHealthServer) CheckCustomerLimiter(customerEmail string) bool {
	limiter := s.GetLimiter(customerEmail)
	if limiter == nil {
		return true
	}
	return limiter.Allow()
}
