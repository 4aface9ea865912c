package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// The service speaks protobuf well-known types only, so it needs no
// generated message code. Records travel as google.protobuf.Struct holding
// the same lowerCamel JSON documents the REST surface returns.

const BatteryFleetServiceName = "batteryfleet.v1.BatteryFleet"

const (
	BatteryFleet_GetBattery_FullMethodName            = "/batteryfleet.v1.BatteryFleet/GetBattery"
	BatteryFleet_ListBatteries_FullMethodName         = "/batteryfleet.v1.BatteryFleet/ListBatteries"
	BatteryFleet_AppendHistory_FullMethodName         = "/batteryfleet.v1.BatteryFleet/AppendHistory"
	BatteryFleet_ListRecommendations_FullMethodName   = "/batteryfleet.v1.BatteryFleet/ListRecommendations"
	BatteryFleet_ResolveRecommendation_FullMethodName = "/batteryfleet.v1.BatteryFleet/ResolveRecommendation"
	BatteryFleet_Tick_FullMethodName                  = "/batteryfleet.v1.BatteryFleet/Tick"
	BatteryFleet_PostLimiter_FullMethodName           = "/batteryfleet.v1.BatteryFleet/PostLimiter"
)

type BatteryFleetServiceServer interface {
	GetBattery(context.Context, *wrapperspb.UInt64Value) (*structpb.Struct, error)
	ListBatteries(context.Context, *emptypb.Empty) (*structpb.ListValue, error)
	// AppendHistory takes {batteryId, timestamp, capacity, healthPercentage, cycleCount}.
	AppendHistory(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListRecommendations(context.Context, *wrapperspb.UInt64Value) (*structpb.ListValue, error)
	// ResolveRecommendation takes {id, resolved}.
	ResolveRecommendation(context.Context, *structpb.Struct) (*structpb.Struct, error)
	// Tick answers with the number of batteries it advanced.
	Tick(context.Context, *emptypb.Empty) (*wrapperspb.UInt32Value, error)
	// PostLimiter takes {batteryId, rate, burst}.
	PostLimiter(context.Context, *structpb.Struct) (*emptypb.Empty, error)
}

func unaryHandler[Req proto.Message, Resp proto.Message](
	fullMethod string,
	newReq func() Req,
	call func(BatteryFleetServiceServer, context.Context, Req) (Resp, error),
) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := newReq()
		if err := dec(in); err != nil {
			return nil, err
		}
		server := srv.(BatteryFleetServiceServer)
		if interceptor == nil {
			return call(server, ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(server, ctx, req.(Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

func newUInt64() *wrapperspb.UInt64Value { return new(wrapperspb.UInt64Value) }
func newEmpty() *emptypb.Empty           { return new(emptypb.Empty) }
func newStruct() *structpb.Struct        { return new(structpb.Struct) }

var BatteryFleet_ServiceDesc = grpc.ServiceDesc{
	ServiceName: BatteryFleetServiceName,
	HandlerType: (*BatteryFleetServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "GetBattery",
			Handler:    unaryHandler(BatteryFleet_GetBattery_FullMethodName, newUInt64, BatteryFleetServiceServer.GetBattery),
		},
		{
			MethodName: "ListBatteries",
			Handler:    unaryHandler(BatteryFleet_ListBatteries_FullMethodName, newEmpty, BatteryFleetServiceServer.ListBatteries),
		},
		{
			MethodName: "AppendHistory",
			Handler:    unaryHandler(BatteryFleet_AppendHistory_FullMethodName, newStruct, BatteryFleetServiceServer.AppendHistory),
		},
		{
			MethodName: "ListRecommendations",
			Handler:    unaryHandler(BatteryFleet_ListRecommendations_FullMethodName, newUInt64, BatteryFleetServiceServer.ListRecommendations),
		},
		{
			MethodName: "ResolveRecommendation",
			Handler:    unaryHandler(BatteryFleet_ResolveRecommendation_FullMethodName, newStruct, BatteryFleetServiceServer.ResolveRecommendation),
		},
		{
			MethodName: "Tick",
			Handler:    unaryHandler(BatteryFleet_Tick_FullMethodName, newEmpty, BatteryFleetServiceServer.Tick),
		},
		{
			MethodName: "PostLimiter",
			Handler:    unaryHandler(BatteryFleet_PostLimiter_FullMethodName, newStruct, BatteryFleetServiceServer.PostLimiter),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "batteryfleet/v1/battery_fleet.proto",
}

func RegisterBatteryFleetServer(s grpc.ServiceRegistrar, srv BatteryFleetServiceServer) {
	s.RegisterService(&BatteryFleet_ServiceDesc, srv)
}

type BatteryFleetClient struct {
	cc grpc.ClientConnInterface
}

func NewBatteryFleetClient(cc grpc.ClientConnInterface) *BatteryFleetClient {
	return &BatteryFleetClient{cc: cc}
}

func invoke[Resp proto.Message](ctx context.Context, cc grpc.ClientConnInterface, method string, in proto.Message, out Resp, opts ...grpc.CallOption) (Resp, error) {
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		var zero Resp
		return zero, err
	}
	return out, nil
}

func (c *BatteryFleetClient) GetBattery(ctx context.Context, in *wrapperspb.UInt64Value, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return invoke(ctx, c.cc, BatteryFleet_GetBattery_FullMethodName, in, new(structpb.Struct), opts...)
}

func (c *BatteryFleetClient) ListBatteries(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.ListValue, error) {
	return invoke(ctx, c.cc, BatteryFleet_ListBatteries_FullMethodName, in, new(structpb.ListValue), opts...)
}

func (c *BatteryFleetClient) AppendHistory(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return invoke(ctx, c.cc, BatteryFleet_AppendHistory_FullMethodName, in, new(structpb.Struct), opts...)
}

func (c *BatteryFleetClient) ListRecommendations(ctx context.Context, in *wrapperspb.UInt64Value, opts ...grpc.CallOption) (*structpb.ListValue, error) {
	return invoke(ctx, c.cc, BatteryFleet_ListRecommendations_FullMethodName, in, new(structpb.ListValue), opts...)
}

func (c *BatteryFleetClient) ResolveRecommendation(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return invoke(ctx, c.cc, BatteryFleet_ResolveRecommendation_FullMethodName, in, new(structpb.Struct), opts...)
}

func (c *BatteryFleetClient) Tick(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*wrapperspb.UInt32Value, error) {
	return invoke(ctx, c.cc, BatteryFleet_Tick_FullMethodName, in, new(wrapperspb.UInt32Value), opts...)
}

func (c *BatteryFleetClient) PostLimiter(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	return invoke(ctx, c.cc, BatteryFleet_PostLimiter_FullMethodName, in, new(emptypb.Empty), opts...)
}
