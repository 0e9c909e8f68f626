package grpcsvc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// ServiceDesc описывает sales.v1.DashboardService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*DashboardServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetDashboardStats", Handler: emptyHandler(MethodGetDashboardStats, DashboardServer.GetDashboardStats)},
		{MethodName: "GetCustomerStats", Handler: stringHandler(MethodGetCustomerStats, DashboardServer.GetCustomerStats)},
		{MethodName: "GetProductStats", Handler: stringHandler(MethodGetProductStats, DashboardServer.GetProductStats)},
		{MethodName: "GetAnalytics", Handler: emptyHandler(MethodGetAnalytics, DashboardServer.GetAnalytics)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "sales/v1/dashboard.proto",
}

// RegisterDashboardServer регистрирует реализацию на сервере.
func RegisterDashboardServer(registrar grpc.ServiceRegistrar, srv DashboardServer) {
	registrar.RegisterService(&ServiceDesc, srv)
}

type emptyMethod func(DashboardServer, context.Context, *emptypb.Empty) (*structpb.Struct, error)

type stringMethod func(DashboardServer, context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)

func emptyHandler(fullMethod string, call emptyMethod) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(emptypb.Empty)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(DashboardServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
			return call(srv.(DashboardServer), ctx, req.(*emptypb.Empty))
		})
	}
}

func stringHandler(fullMethod string, call stringMethod) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(wrapperspb.StringValue)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(DashboardServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
			return call(srv.(DashboardServer), ctx, req.(*wrapperspb.StringValue))
		})
	}
}

// DashboardClient — клиент sales.v1.DashboardService.
type DashboardClient struct {
	cc grpc.ClientConnInterface
}

// NewDashboardClient создаёт клиента поверх соединения.
func NewDashboardClient(cc grpc.ClientConnInterface) *DashboardClient {
	return &DashboardClient{cc: cc}
}

func (c *DashboardClient) GetDashboardStats(ctx context.Context, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, MethodGetDashboardStats, &emptypb.Empty{}, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *DashboardClient) GetCustomerStats(ctx context.Context, customerID string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, MethodGetCustomerStats, wrapperspb.String(customerID), out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *DashboardClient) GetProductStats(ctx context.Context, productID string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, MethodGetProductStats, wrapperspb.String(productID), out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *DashboardClient) GetAnalytics(ctx context.Context, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, MethodGetAnalytics, &emptypb.Empty{}, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
