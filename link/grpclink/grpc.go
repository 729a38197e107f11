package grpclink

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const serviceName = "xdao.mam.link.v1.LinkStore"

// LinkStoreServer is the server API for the LinkStore gRPC service.
//
// Messages are protobuf well-known types so no protoc step is needed:
// Lookup takes the link string and returns a link record; Update takes the
// 36 link CID bytes followed by the record.
type LinkStoreServer interface {
	Lookup(context.Context, *wrapperspb.StringValue) (*wrapperspb.BytesValue, error)
	Update(context.Context, *wrapperspb.BytesValue) (*emptypb.Empty, error)
}

// UnimplementedLinkStoreServer can be embedded to have forward compatible implementations.
type UnimplementedLinkStoreServer struct{}

func (UnimplementedLinkStoreServer) Lookup(context.Context, *wrapperspb.StringValue) (*wrapperspb.BytesValue, error) {
	return nil, status.Error(codes.Unimplemented, "method Lookup not implemented")
}
func (UnimplementedLinkStoreServer) Update(context.Context, *wrapperspb.BytesValue) (*emptypb.Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method Update not implemented")
}

// RegisterLinkStoreServer registers the LinkStore service on a gRPC server.
func RegisterLinkStoreServer(s grpc.ServiceRegistrar, srv LinkStoreServer) {
	s.RegisterService(&LinkStore_ServiceDesc, srv)
}

// LinkStoreClient is the client API for the LinkStore gRPC service.
type LinkStoreClient interface {
	Lookup(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error)
	Update(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*emptypb.Empty, error)
}

type linkStoreClient struct{ cc grpc.ClientConnInterface }

func NewLinkStoreClient(cc grpc.ClientConnInterface) LinkStoreClient {
	return &linkStoreClient{cc: cc}
}

func (c *linkStoreClient) Lookup(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error) {
	out := new(wrapperspb.BytesValue)
	if err := c.cc.Invoke(ctx, "/"+serviceName+"/Lookup", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *linkStoreClient) Update(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	out := new(emptypb.Empty)
	if err := c.cc.Invoke(ctx, "/"+serviceName+"/Update", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func _LinkStore_Lookup_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(LinkStoreServer).Lookup(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + serviceName + "/Lookup"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(LinkStoreServer).Lookup(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

func _LinkStore_Update_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.BytesValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(LinkStoreServer).Update(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + serviceName + "/Update"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(LinkStoreServer).Update(ctx, req.(*wrapperspb.BytesValue))
	}
	return interceptor(ctx, in, info, handler)
}

// LinkStore_ServiceDesc is the grpc.ServiceDesc for the LinkStore service.
var LinkStore_ServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*LinkStoreServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Lookup", Handler: _LinkStore_Lookup_Handler},
		{MethodName: "Update", Handler: _LinkStore_Update_Handler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "linkstore.proto",
}
