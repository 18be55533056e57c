package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"liyu1981.xyz/device-health-service/pkg/common"
)

const customerEmailField = "customer_email"

// CreateRateLimitInterceptor limits the listed methods per customer_email.
func (s *DeviceHealthServer) CreateRateLimitInterceptor(targetMethods []string) grpc.UnaryServerInterceptor {
	targetMethodMap := common.Reducer(targetMethods,
		func(m map[string]bool, method string) map[string]bool {
			m[method] = true
			return m
		},
		map[string]bool{},
	)

	return func(
		ctx context.Context,
		req any,
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (any, error) {
		if _, ok := targetMethodMap[info.FullMethod]; ok {
			if r, ok := req.(*structpb.Struct); ok {
				customerEmail := r.GetFields()[customerEmailField].GetStringValue()
				if !s.CheckCustomerLimiter(customerEmail) {
					return nil, status.Errorf(codes.ResourceExhausted, "rate limit exceeded")
				}
			}
		}

		return handler(ctx, req)
	}
}

// AllMethods lists every unary method of the service.
func AllMethods() []string {
	return []string{
		LogHealthFullMethodName,
		SubmitQuizFullMethodName,
		GetHealthHistoryFullMethodName,
		VerifyAccessFullMethodName,
		AcceptAlertFullMethodName,
	}
}
