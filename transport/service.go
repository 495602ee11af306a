package transport

import (
	"context"

	"google.golang.org/grpc"
)

// serviceName is the hand-written equivalent of a protoc-generated
// package.Service path.
const serviceName = "evolusnake.Evolusnake"

// EvolusnakeServer is implemented by the server-side RPC handler; the
// server package's Elite is wrapped by a small adapter satisfying this
// interface rather than implementing it directly, keeping Elite free of
// any transport concern.
type EvolusnakeServer interface {
	GetSeed(context.Context, *GetSeedRequest) (*GetSeedResponse, error)
	Submit(context.Context, *SubmitRequest) (*SubmitResponse, error)
}

// UnimplementedEvolusnakeServer can be embedded by server implementations
// to satisfy EvolusnakeServer for methods they don't override, mirroring
// the forward-compatibility embedding protoc-gen-go-grpc generates.
type UnimplementedEvolusnakeServer struct{}

func (UnimplementedEvolusnakeServer) GetSeed(context.Context, *GetSeedRequest) (*GetSeedResponse, error) {
	return nil, grpcUnimplemented("GetSeed")
}

func (UnimplementedEvolusnakeServer) Submit(context.Context, *SubmitRequest) (*SubmitResponse, error) {
	return nil, grpcUnimplemented("Submit")
}

// EvolusnakeClient is the node-side stub.
type EvolusnakeClient interface {
	GetSeed(ctx context.Context, in *GetSeedRequest, opts ...grpc.CallOption) (*GetSeedResponse, error)
	Submit(ctx context.Context, in *SubmitRequest, opts ...grpc.CallOption) (*SubmitResponse, error)
}

type evolusnakeClient struct {
	cc grpc.ClientConnInterface
}

// NewEvolusnakeClient wraps cc as an EvolusnakeClient. Every call is forced
// onto the json codec via CallContentSubtype, since this module registers
// no protobuf codec.
func NewEvolusnakeClient(cc grpc.ClientConnInterface) EvolusnakeClient {
	return &evolusnakeClient{cc: cc}
}

func (c *evolusnakeClient) GetSeed(ctx context.Context, in *GetSeedRequest, opts ...grpc.CallOption) (*GetSeedResponse, error) {
	out := new(GetSeedResponse)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(codecName)}, opts...)
	if err := c.cc.Invoke(ctx, "/"+serviceName+"/GetSeed", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *evolusnakeClient) Submit(ctx context.Context, in *SubmitRequest, opts ...grpc.CallOption) (*SubmitResponse, error) {
	out := new(SubmitResponse)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(codecName)}, opts...)
	if err := c.cc.Invoke(ctx, "/"+serviceName+"/Submit", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func _Evolusnake_GetSeed_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(GetSeedRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(EvolusnakeServer).GetSeed(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + serviceName + "/GetSeed"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(EvolusnakeServer).GetSeed(ctx, req.(*GetSeedRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _Evolusnake_Submit_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(SubmitRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(EvolusnakeServer).Submit(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + serviceName + "/Submit"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(EvolusnakeServer).Submit(ctx, req.(*SubmitRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// ServiceDesc is the hand-written equivalent of a protoc-gen-go-grpc
// generated grpc.ServiceDesc.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*EvolusnakeServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetSeed", Handler: _Evolusnake_GetSeed_Handler},
		{MethodName: "Submit", Handler: _Evolusnake_Submit_Handler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "evolusnake.proto",
}

// RegisterEvolusnakeServer registers srv on s under ServiceDesc.
func RegisterEvolusnakeServer(s grpc.ServiceRegistrar, srv EvolusnakeServer) {
	s.RegisterService(&ServiceDesc, srv)
}
