// Package rpc is the lldpd control API: a gRPC service whose messages are
// protobuf well-known types, and adapters between those messages and Go types.
package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	serviceName = "lldpd.API"

	methodGetVersion     = "/" + serviceName + "/GetVersion"
	methodShutdown       = "/" + serviceName + "/Shutdown"
	methodGetInterfaces  = "/" + serviceName + "/GetInterfaces"
	methodGetNeighbors   = "/" + serviceName + "/GetNeighbors"
	methodWatchNeighbors = "/" + serviceName + "/WatchNeighbors"
)

// APIServer is the server API for the lldpd.API service.
type APIServer interface {
	GetVersion(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	Shutdown(context.Context, *emptypb.Empty) (*emptypb.Empty, error)
	GetInterfaces(context.Context, *emptypb.Empty) (*structpb.ListValue, error)
	GetNeighbors(context.Context, *emptypb.Empty) (*structpb.ListValue, error)
	WatchNeighbors(*emptypb.Empty, API_WatchNeighborsServer) error
}

type API_WatchNeighborsServer interface {
	Send(*structpb.Struct) error
	grpc.ServerStream
}

type apiWatchNeighborsServer struct {
	grpc.ServerStream
}

func (x *apiWatchNeighborsServer) Send(m *structpb.Struct) error {
	return x.ServerStream.SendMsg(m)
}

func RegisterAPIServer(s grpc.ServiceRegistrar, srv APIServer) {
	s.RegisterService(&API_ServiceDesc, srv)
}

func unaryHandler[Resp any](method string, call func(APIServer, context.Context, *emptypb.Empty) (Resp, error)) func(interface{}, context.Context, func(interface{}) error, grpc.UnaryServerInterceptor) (interface{}, error) {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(emptypb.Empty)
		if err := dec(in); err != nil {
			return nil, err
		}

		if interceptor == nil {
			return call(srv.(APIServer), ctx, in)
		}

		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: method,
		}

		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(APIServer), ctx, req.(*emptypb.Empty))
		}

		return interceptor(ctx, in, info, handler)
	}
}

func watchNeighborsHandler(srv interface{}, stream grpc.ServerStream) error {
	m := new(emptypb.Empty)
	if err := stream.RecvMsg(m); err != nil {
		return err
	}

	return srv.(APIServer).WatchNeighbors(m, &apiWatchNeighborsServer{stream})
}

var API_ServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*APIServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "GetVersion",
			Handler:    unaryHandler(methodGetVersion, APIServer.GetVersion),
		},
		{
			MethodName: "Shutdown",
			Handler:    unaryHandler(methodShutdown, APIServer.Shutdown),
		},
		{
			MethodName: "GetInterfaces",
			Handler:    unaryHandler(methodGetInterfaces, APIServer.GetInterfaces),
		},
		{
			MethodName: "GetNeighbors",
			Handler:    unaryHandler(methodGetNeighbors, APIServer.GetNeighbors),
		},
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "WatchNeighbors",
			Handler:       watchNeighborsHandler,
			ServerStreams: true,
		},
	},
	Metadata: "lldpd/api",
}

// APIClient is the client API for the lldpd.API service.
type APIClient interface {
	GetVersion(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error)
	Shutdown(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*emptypb.Empty, error)
	GetInterfaces(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.ListValue, error)
	GetNeighbors(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.ListValue, error)
	WatchNeighbors(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (API_WatchNeighborsClient, error)
}

type apiClient struct {
	cc grpc.ClientConnInterface
}

func NewAPIClient(cc grpc.ClientConnInterface) APIClient {
	return &apiClient{cc}
}

func (c *apiClient) GetVersion(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	err := c.cc.Invoke(ctx, methodGetVersion, in, out, opts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *apiClient) Shutdown(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	out := new(emptypb.Empty)
	err := c.cc.Invoke(ctx, methodShutdown, in, out, opts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *apiClient) GetInterfaces(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.ListValue, error) {
	out := new(structpb.ListValue)
	err := c.cc.Invoke(ctx, methodGetInterfaces, in, out, opts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *apiClient) GetNeighbors(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.ListValue, error) {
	out := new(structpb.ListValue)
	err := c.cc.Invoke(ctx, methodGetNeighbors, in, out, opts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *apiClient) WatchNeighbors(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (API_WatchNeighborsClient, error) {
	stream, err := c.cc.NewStream(ctx, &API_ServiceDesc.Streams[0], methodWatchNeighbors, opts...)
	if err != nil {
		return nil, err
	}

	x := &apiWatchNeighborsClient{stream}
	if err := x.ClientStream.SendMsg(in); err != nil {
		return nil, err
	}

	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}

	return x, nil
}

type API_WatchNeighborsClient interface {
	Recv() (*structpb.Struct, error)
	grpc.ClientStream
}

type apiWatchNeighborsClient struct {
	grpc.ClientStream
}

func (x *apiWatchNeighborsClient) Recv() (*structpb.Struct, error) {
	m := new(structpb.Struct)
	if err := x.ClientStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}
