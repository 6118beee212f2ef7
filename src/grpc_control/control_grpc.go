package grpc_control

import (
	"context"

	"market-dashboard/src/models"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "dashboard.v1.DashboardControl"

const (
	methodGetChart   = "/" + ServiceName + "/GetChart"
	methodClearCache = "/" + ServiceName + "/ClearCache"
	methodGetStatus  = "/" + ServiceName + "/GetStatus"
	methodNavigate   = "/" + ServiceName + "/Navigate"
)

// DashboardControlServer is the server API for the control service.
// Messages are protobuf well-known types so no generated code is needed.
type DashboardControlServer interface {
	GetChart(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ClearCache(context.Context, *emptypb.Empty) (*wrapperspb.Int64Value, error)
	GetStatus(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	Navigate(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// UnimplementedDashboardControlServer can be embedded for forward compatibility.
type UnimplementedDashboardControlServer struct{}

func (UnimplementedDashboardControlServer) GetChart(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method GetChart not implemented")
}
func (UnimplementedDashboardControlServer) ClearCache(context.Context, *emptypb.Empty) (*wrapperspb.Int64Value, error) {
	return nil, status.Error(codes.Unimplemented, "method ClearCache not implemented")
}
func (UnimplementedDashboardControlServer) GetStatus(context.Context, *emptypb.Empty) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method GetStatus not implemented")
}
func (UnimplementedDashboardControlServer) Navigate(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method Navigate not implemented")
}

// -----------------------------------------------------------------------------

func RegisterDashboardControlServer(s grpc.ServiceRegistrar, srv DashboardControlServer) {
	s.RegisterService(&DashboardControl_ServiceDesc, srv)
}

// -----------------------------------------------------------------------------

func unaryHandler[Req any, Resp any](
	fullMethod string,
	call func(DashboardControlServer, context.Context, *Req) (*Resp, error),
) grpc.MethodHandler {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(DashboardControlServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(DashboardControlServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// DashboardControl_ServiceDesc is the grpc.ServiceDesc for the control service.
var DashboardControl_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*DashboardControlServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "GetChart",
			Handler:    unaryHandler(methodGetChart, DashboardControlServer.GetChart),
		},
		{
			MethodName: "ClearCache",
			Handler:    unaryHandler(methodClearCache, DashboardControlServer.ClearCache),
		},
		{
			MethodName: "GetStatus",
			Handler:    unaryHandler(methodGetStatus, DashboardControlServer.GetStatus),
		},
		{
			MethodName: "Navigate",
			Handler:    unaryHandler(methodNavigate, DashboardControlServer.Navigate),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "dashboard/v1/control.proto",
}

// -----------------------------------------------------------------------------
// Client
// -----------------------------------------------------------------------------

type DashboardControlClient struct {
	cc grpc.ClientConnInterface
}

func NewDashboardControlClient(cc grpc.ClientConnInterface) *DashboardControlClient {
	return &DashboardControlClient{cc: cc}
}

func (c *DashboardControlClient) GetChart(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, methodGetChart, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *DashboardControlClient) ClearCache(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*wrapperspb.Int64Value, error) {
	out := new(wrapperspb.Int64Value)
	if err := c.cc.Invoke(ctx, methodClearCache, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *DashboardControlClient) GetStatus(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, methodGetStatus, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *DashboardControlClient) Navigate(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, methodNavigate, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// -----------------------------------------------------------------------------

// FetchChart is a convenience wrapper returning the decoded chart view.
func (c *DashboardControlClient) FetchChart(ctx context.Context, category, symbol, period string) (models.MChartView, error) {
	req, err := structpb.NewStruct(map[string]interface{}{
		"symbol":   symbol,
		"period":   period,
		"category": category,
	})
	if err != nil {
		return models.MChartView{}, err
	}
	resp, err := c.GetChart(ctx, req)
	if err != nil {
		return models.MChartView{}, err
	}
	var view models.MChartView
	err = FromStruct(resp, &view)
	return view, err
}
