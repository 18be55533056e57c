package grpc

import (
	"context"
	"encoding/json"
	"errors"

	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
	"liyu1981.xyz/device-health-service/pkg/common"
	"liyu1981.xyz/device-health-service/pkg/health"
)

// CodeFor maps service errors to gRPC status codes. Unknown errors are Internal.
func CodeFor(err error) codes.Code {
	switch {
	case errors.Is(err, health.ErrValidation):
		return codes.InvalidArgument
	case errors.Is(err, health.ErrCustomerNotFound),
		errors.Is(err, health.ErrAlertNotFound):
		return codes.NotFound
	case errors.Is(err, health.ErrNoActiveLoyaltyCard),
		errors.Is(err, health.ErrServiceDisabled),
		errors.Is(err, health.ErrPlatformDisabled):
		return codes.PermissionDenied
	case errors.Is(err, health.ErrAlertNotActionable),
		errors.Is(err, health.ErrAlertExpired):
		return codes.FailedPrecondition
	}
	return codes.Internal
}

func toStatus(method string, err error) error {
	code := CodeFor(err)
	if code == codes.Internal {
		common.GetLoggerWith(common.LoggerNameGrpcServer).Error("Request failed",
			zap.String("method", method),
			zap.Error(err),
		)
	}
	return status.Error(code, err.Error())
}

// DecodeStruct fills v from the JSON form of in.
func DecodeStruct(in *structpb.Struct, v any) error {
	b, err := protojson.Marshal(in)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, v)
}

// EncodeStruct converts v to a Struct through its JSON form.
func EncodeStruct(v any) (*structpb.Struct, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	out := &structpb.Struct{}
	if err := protojson.Unmarshal(b, out); err != nil {
		return nil, err
	}
	return out, nil
}

// serve decodes the request, calls the service and encodes its result.
func serve[Req any, Res any](ctx context.Context, method string, in *structpb.Struct, call func(context.Context, *Req) (Res, error)) (*structpb.Struct, error) {
	var req Req
	if err := DecodeStruct(in, &req); err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "validation error: %v", err)
	}

	res, err := call(ctx, &req)
	if err != nil {
		return nil, toStatus(method, err)
	}

	out, err := EncodeStruct(res)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	return out, nil
}

func (s *DeviceHealthServer) LogHealth(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	return serve(ctx, LogHealthFullMethodName, in, s.Health.Log.LogHealth)
}

func (s *DeviceHealthServer) SubmitQuiz(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	return serve(ctx, SubmitQuizFullMethodName, in, s.Health.Quiz.SubmitQuiz)
}

func (s *DeviceHealthServer) GetHealthHistory(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	return serve(ctx, GetHealthHistoryFullMethodName, in, s.Health.History.GetHealthHistory)
}

func (s *DeviceHealthServer) VerifyAccess(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	return serve(ctx, VerifyAccessFullMethodName, in, s.Health.Access.VerifyAccess)
}

func (s *DeviceHealthServer) AcceptAlert(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	return serve(ctx, AcceptAlertFullMethodName, in, health.AcceptAlertWith(s.Health.Alert))
}
