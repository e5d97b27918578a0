package nodestore

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// NodeStoreServer is the server API for the permastore.v1.NodeStore service.
//
// We intentionally use protobuf well-known types so this package does not
// require a protoc/codegen toolchain. Requests are structpb.Struct values
// mirroring the store's JSON action shape: uint64 ids travel as decimal
// strings and node data as hex text.
//
// Proto definition: nodestore.proto.
type NodeStoreServer interface {
	Set(context.Context, *structpb.Struct) (*emptypb.Empty, error)
	Del(context.Context, *structpb.Struct) (*emptypb.Empty, error)
	Get(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListNodes(context.Context, *structpb.Struct) (*structpb.Struct, error)
	IsImmutable(context.Context, *wrapperspb.StringValue) (*wrapperspb.BoolValue, error)
	GetUsage(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
}

// UnimplementedNodeStoreServer can be embedded to have forward compatible
// implementations.
type UnimplementedNodeStoreServer struct{}

func (UnimplementedNodeStoreServer) Set(context.Context, *structpb.Struct) (*emptypb.Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method Set not implemented")
}
func (UnimplementedNodeStoreServer) Del(context.Context, *structpb.Struct) (*emptypb.Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method Del not implemented")
}
func (UnimplementedNodeStoreServer) Get(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method Get not implemented")
}
func (UnimplementedNodeStoreServer) ListNodes(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method ListNodes not implemented")
}
func (UnimplementedNodeStoreServer) IsImmutable(context.Context, *wrapperspb.StringValue) (*wrapperspb.BoolValue, error) {
	return nil, status.Error(codes.Unimplemented, "method IsImmutable not implemented")
}
func (UnimplementedNodeStoreServer) GetUsage(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method GetUsage not implemented")
}

// RegisterNodeStoreServer registers the NodeStore service on a gRPC server.
func RegisterNodeStoreServer(s grpc.ServiceRegistrar, srv NodeStoreServer) {
	s.RegisterService(&NodeStore_ServiceDesc, srv)
}

// NodeStoreClient is the client API for the permastore.v1.NodeStore service.
type NodeStoreClient interface {
	Set(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*emptypb.Empty, error)
	Del(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*emptypb.Empty, error)
	Get(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	ListNodes(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	IsImmutable(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*wrapperspb.BoolValue, error)
	GetUsage(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type nodeStoreClient struct{ cc grpc.ClientConnInterface }

// NewNodeStoreClient creates a NodeStore client over a gRPC connection.
func NewNodeStoreClient(cc grpc.ClientConnInterface) NodeStoreClient {
	return &nodeStoreClient{cc: cc}
}

func (c *nodeStoreClient) Set(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	out := new(emptypb.Empty)
	if err := c.cc.Invoke(ctx, "/permastore.v1.NodeStore/Set", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *nodeStoreClient) Del(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	out := new(emptypb.Empty)
	if err := c.cc.Invoke(ctx, "/permastore.v1.NodeStore/Del", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *nodeStoreClient) Get(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, "/permastore.v1.NodeStore/Get", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *nodeStoreClient) ListNodes(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, "/permastore.v1.NodeStore/ListNodes", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *nodeStoreClient) IsImmutable(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*wrapperspb.BoolValue, error) {
	out := new(wrapperspb.BoolValue)
	if err := c.cc.Invoke(ctx, "/permastore.v1.NodeStore/IsImmutable", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *nodeStoreClient) GetUsage(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, "/permastore.v1.NodeStore/GetUsage", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func _NodeStore_Set_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(NodeStoreServer).Set(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/permastore.v1.NodeStore/Set"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(NodeStoreServer).Set(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func _NodeStore_Del_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(NodeStoreServer).Del(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/permastore.v1.NodeStore/Del"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(NodeStoreServer).Del(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func _NodeStore_Get_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(NodeStoreServer).Get(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/permastore.v1.NodeStore/Get"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(NodeStoreServer).Get(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func _NodeStore_ListNodes_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(NodeStoreServer).ListNodes(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/permastore.v1.NodeStore/ListNodes"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(NodeStoreServer).ListNodes(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func _NodeStore_IsImmutable_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(NodeStoreServer).IsImmutable(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/permastore.v1.NodeStore/IsImmutable"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(NodeStoreServer).IsImmutable(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

func _NodeStore_GetUsage_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(NodeStoreServer).GetUsage(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/permastore.v1.NodeStore/GetUsage"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(NodeStoreServer).GetUsage(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

// NodeStore_ServiceDesc is the grpc.ServiceDesc for the NodeStore service.
var NodeStore_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "permastore.v1.NodeStore",
	HandlerType: (*NodeStoreServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Set", Handler: _NodeStore_Set_Handler},
		{MethodName: "Del", Handler: _NodeStore_Del_Handler},
		{MethodName: "Get", Handler: _NodeStore_Get_Handler},
		{MethodName: "ListNodes", Handler: _NodeStore_ListNodes_Handler},
		{MethodName: "IsImmutable", Handler: _NodeStore_IsImmutable_Handler},
		{MethodName: "GetUsage", Handler: _NodeStore_GetUsage_Handler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "nodestore.proto",
}
