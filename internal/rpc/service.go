// Package rpc serves Φ queries over gRPC. Messages travel as
// google.protobuf.Struct values carrying the JSON forms in messages.go.
package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "phi.v1.PhiService"

const (
	computeClassicalMethod = "/" + ServiceName + "/ComputeClassical"
	computeQuantumMethod   = "/" + ServiceName + "/ComputeQuantum"
)

// #region server-api
// PhiServiceServer is the server API for PhiService.
type PhiServiceServer interface {
	ComputeClassical(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ComputeQuantum(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// RegisterPhiServiceServer registers srv with s.
func RegisterPhiServiceServer(s grpc.ServiceRegistrar, srv PhiServiceServer) {
	s.RegisterService(&PhiServiceDesc, srv)
}

// PhiServiceDesc describes PhiService for grpc.Server.RegisterService.
var PhiServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*PhiServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "ComputeClassical", Handler: computeClassicalHandler},
		{MethodName: "ComputeQuantum", Handler: computeQuantumHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "phi/v1/phi.proto",
}

func computeClassicalHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(PhiServiceServer).ComputeClassical(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: computeClassicalMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(PhiServiceServer).ComputeClassical(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func computeQuantumHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(PhiServiceServer).ComputeQuantum(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: computeQuantumMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(PhiServiceServer).ComputeQuantum(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// #endregion server-api

// #region client-api
// PhiServiceClient is the client API for PhiService.
type PhiServiceClient interface {
	ComputeClassical(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	ComputeQuantum(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type phiServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewPhiServiceClient returns a client stub over cc.
func NewPhiServiceClient(cc grpc.ClientConnInterface) PhiServiceClient {
	return &phiServiceClient{cc: cc}
}

func (c *phiServiceClient) ComputeClassical(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, computeClassicalMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *phiServiceClient) ComputeQuantum(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, computeQuantumMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// #endregion client-api
