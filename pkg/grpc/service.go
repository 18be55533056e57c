package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// The service carries google.protobuf.Struct messages shaped like the JSON
// bodies of the HTTP action endpoint, so no generated stubs are needed.

const (
	ServiceName = "devicehealth.v1.DeviceHealthService"

	LogHealthFullMethodName        = "/" + ServiceName + "/LogHealth"
	SubmitQuizFullMethodName       = "/" + ServiceName + "/SubmitQuiz"
	GetHealthHistoryFullMethodName = "/" + ServiceName + "/GetHealthHistory"
	VerifyAccessFullMethodName     = "/" + ServiceName + "/VerifyAccess"
	AcceptAlertFullMethodName      = "/" + ServiceName + "/AcceptAlert"
)

type DeviceHealthServiceServer interface {
	LogHealth(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SubmitQuiz(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetHealthHistory(context.Context, *structpb.Struct) (*structpb.Struct, error)
	VerifyAccess(context.Context, *structpb.Struct) (*structpb.Struct, error)
	AcceptAlert(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryMethod func(srv DeviceHealthServiceServer, ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(fullMethod string, call unaryMethod) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(DeviceHealthServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(DeviceHealthServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var DeviceHealthServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*DeviceHealthServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "LogHealth",
			Handler:    unaryHandler(LogHealthFullMethodName, DeviceHealthServiceServer.LogHealth),
		},
		{
			MethodName: "SubmitQuiz",
			Handler:    unaryHandler(SubmitQuizFullMethodName, DeviceHealthServiceServer.SubmitQuiz),
		},
		{
			MethodName: "GetHealthHistory",
			Handler:    unaryHandler(GetHealthHistoryFullMethodName, DeviceHealthServiceServer.GetHealthHistory),
		},
		{
			MethodName: "VerifyAccess",
			Handler:    unaryHandler(VerifyAccessFullMethodName, DeviceHealthServiceServer.VerifyAccess),
		},
		{
			MethodName: "AcceptAlert",
			Handler:    unaryHandler(AcceptAlertFullMethodName, DeviceHealthServiceServer.AcceptAlert),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "devicehealth/v1/device_health.proto",
}

func RegisterDeviceHealthServiceServer(s grpc.ServiceRegistrar, srv DeviceHealthServiceServer) {
	s.RegisterService(&DeviceHealthServiceDesc, srv)
}

type DeviceHealthServiceClient interface {
	LogHealth(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	SubmitQuiz(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	GetHealthHistory(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	VerifyAccess(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	AcceptAlert(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type deviceHealthServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewDeviceHealthServiceClient(cc grpc.ClientConnInterface) DeviceHealthServiceClient {
	return &deviceHealthServiceClient{cc}
}

func (c *deviceHealthServiceClient) invoke(ctx context.Context, method string, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *deviceHealthServiceClient) LogHealth(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, LogHealthFullMethodName, in, opts...)
}

func (c *deviceHealthServiceClient) SubmitQuiz(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, SubmitQuizFullMethodName, in, opts...)
}

func (c *deviceHealthServiceClient) GetHealthHistory(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, GetHealthHistoryFullMethodName, in, opts...)
}

func (c *deviceHealthServiceClient) VerifyAccess(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, VerifyAccessFullMethodName, in, opts...)
}

func (c *deviceHealthServiceClient) AcceptAlert(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, AcceptAlertFullMethodName, in, opts...)
}
