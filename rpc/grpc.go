package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// WardenServer is the server API for the Warden gRPC service.
//
// Every method carries a canonical JSON document from the model package
// inside a protobuf BytesValue, so this package does not require a
// protoc/codegen toolchain.
//
// Proto definition: warden.proto.
type WardenServer interface {
	CreateAccount(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error)
	GetAccount(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error)
	AddGuardians(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error)
	RemoveGuardians(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error)
	IsGuardian(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error)
	GuardianParams(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error)
	ProposeTransfer(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error)
	AcceptTransfer(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error)
	Recover(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error)
	Authorize(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error)
	CheckSignature(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error)
	AuthorizeUpgrade(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error)
	ExecuteBatch(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error)
}

// UnimplementedWardenServer can be embedded to have forward compatible implementations.
type UnimplementedWardenServer struct{}

func (UnimplementedWardenServer) CreateAccount(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	return nil, status.Error(codes.Unimplemented, "method CreateAccount not implemented")
}
func (UnimplementedWardenServer) GetAccount(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	return nil, status.Error(codes.Unimplemented, "method GetAccount not implemented")
}
func (UnimplementedWardenServer) AddGuardians(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	return nil, status.Error(codes.Unimplemented, "method AddGuardians not implemented")
}
func (UnimplementedWardenServer) RemoveGuardians(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	return nil, status.Error(codes.Unimplemented, "method RemoveGuardians not implemented")
}
func (UnimplementedWardenServer) IsGuardian(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	return nil, status.Error(codes.Unimplemented, "method IsGuardian not implemented")
}
func (UnimplementedWardenServer) GuardianParams(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	return nil, status.Error(codes.Unimplemented, "method GuardianParams not implemented")
}
func (UnimplementedWardenServer) ProposeTransfer(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	return nil, status.Error(codes.Unimplemented, "method ProposeTransfer not implemented")
}
func (UnimplementedWardenServer) AcceptTransfer(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	return nil, status.Error(codes.Unimplemented, "method AcceptTransfer not implemented")
}
func (UnimplementedWardenServer) Recover(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	return nil, status.Error(codes.Unimplemented, "method Recover not implemented")
}
func (UnimplementedWardenServer) Authorize(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	return nil, status.Error(codes.Unimplemented, "method Authorize not implemented")
}
func (UnimplementedWardenServer) CheckSignature(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	return nil, status.Error(codes.Unimplemented, "method CheckSignature not implemented")
}
func (UnimplementedWardenServer) AuthorizeUpgrade(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	return nil, status.Error(codes.Unimplemented, "method AuthorizeUpgrade not implemented")
}
func (UnimplementedWardenServer) ExecuteBatch(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	return nil, status.Error(codes.Unimplemented, "method ExecuteBatch not implemented")
}

// RegisterWardenServer registers the Warden service on a gRPC server.
func RegisterWardenServer(s grpc.ServiceRegistrar, srv WardenServer) {
	s.RegisterService(&Warden_ServiceDesc, srv)
}

// WardenClient is the client API for the Warden gRPC service.
type WardenClient interface {
	CreateAccount(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error)
	GetAccount(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error)
	AddGuardians(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error)
	RemoveGuardians(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error)
	IsGuardian(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error)
	GuardianParams(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error)
	ProposeTransfer(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error)
	AcceptTransfer(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error)
	Recover(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error)
	Authorize(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error)
	CheckSignature(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error)
	AuthorizeUpgrade(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error)
	ExecuteBatch(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error)
}

type wardenClient struct{ cc grpc.ClientConnInterface }

func NewWardenClient(cc grpc.ClientConnInterface) WardenClient { return &wardenClient{cc: cc} }

func (c *wardenClient) invoke(ctx context.Context, method string, in *wrapperspb.BytesValue, opts []grpc.CallOption) (*wrapperspb.BytesValue, error) {
	out := new(wrapperspb.BytesValue)
	if err := c.cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *wardenClient) CreateAccount(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error) {
	return c.invoke(ctx, "/xdao.warden.v1.Warden/CreateAccount", in, opts)
}

func (c *wardenClient) GetAccount(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error) {
	return c.invoke(ctx, "/xdao.warden.v1.Warden/GetAccount", in, opts)
}

func (c *wardenClient) AddGuardians(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error) {
	return c.invoke(ctx, "/xdao.warden.v1.Warden/AddGuardians", in, opts)
}

func (c *wardenClient) RemoveGuardians(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error) {
	return c.invoke(ctx, "/xdao.warden.v1.Warden/RemoveGuardians", in, opts)
}

func (c *wardenClient) IsGuardian(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error) {
	return c.invoke(ctx, "/xdao.warden.v1.Warden/IsGuardian", in, opts)
}

func (c *wardenClient) GuardianParams(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error) {
	return c.invoke(ctx, "/xdao.warden.v1.Warden/GuardianParams", in, opts)
}

func (c *wardenClient) ProposeTransfer(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error) {
	return c.invoke(ctx, "/xdao.warden.v1.Warden/ProposeTransfer", in, opts)
}

func (c *wardenClient) AcceptTransfer(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error) {
	return c.invoke(ctx, "/xdao.warden.v1.Warden/AcceptTransfer", in, opts)
}

func (c *wardenClient) Recover(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error) {
	return c.invoke(ctx, "/xdao.warden.v1.Warden/Recover", in, opts)
}

func (c *wardenClient) Authorize(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error) {
	return c.invoke(ctx, "/xdao.warden.v1.Warden/Authorize", in, opts)
}

func (c *wardenClient) CheckSignature(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error) {
	return c.invoke(ctx, "/xdao.warden.v1.Warden/CheckSignature", in, opts)
}

func (c *wardenClient) AuthorizeUpgrade(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error) {
	return c.invoke(ctx, "/xdao.warden.v1.Warden/AuthorizeUpgrade", in, opts)
}

func (c *wardenClient) ExecuteBatch(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error) {
	return c.invoke(ctx, "/xdao.warden.v1.Warden/ExecuteBatch", in, opts)
}

// handlerFor adapts one WardenServer method into the grpc.MethodDesc handler
// shape. Every method shares the BytesValue request type, so one adapter
// serves them all.
func handlerFor(method string, call func(WardenServer, context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error)) func(interface{}, context.Context, func(interface{}) error, grpc.UnaryServerInterceptor) (interface{}, error) {
	full := "/xdao.warden.v1.Warden/" + method
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(wrapperspb.BytesValue)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(WardenServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: full}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(WardenServer), ctx, req.(*wrapperspb.BytesValue))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// Warden_ServiceDesc is the grpc.ServiceDesc for the Warden service.
var Warden_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "xdao.warden.v1.Warden",
	HandlerType: (*WardenServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "CreateAccount", Handler: handlerFor("CreateAccount", func(s WardenServer, ctx context.Context, in *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
			return s.CreateAccount(ctx, in)
		})},
		{MethodName: "GetAccount", Handler: handlerFor("GetAccount", func(s WardenServer, ctx context.Context, in *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
			return s.GetAccount(ctx, in)
		})},
		{MethodName: "AddGuardians", Handler: handlerFor("AddGuardians", func(s WardenServer, ctx context.Context, in *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
			return s.AddGuardians(ctx, in)
		})},
		{MethodName: "RemoveGuardians", Handler: handlerFor("RemoveGuardians", func(s WardenServer, ctx context.Context, in *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
			return s.RemoveGuardians(ctx, in)
		})},
		{MethodName: "IsGuardian", Handler: handlerFor("IsGuardian", func(s WardenServer, ctx context.Context, in *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
			return s.IsGuardian(ctx, in)
		})},
		{MethodName: "GuardianParams", Handler: handlerFor("GuardianParams", func(s WardenServer, ctx context.Context, in *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
			return s.GuardianParams(ctx, in)
		})},
		{MethodName: "ProposeTransfer", Handler: handlerFor("ProposeTransfer", func(s WardenServer, ctx context.Context, in *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
			return s.ProposeTransfer(ctx, in)
		})},
		{MethodName: "AcceptTransfer", Handler: handlerFor("AcceptTransfer", func(s WardenServer, ctx context.Context, in *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
			return s.AcceptTransfer(ctx, in)
		})},
		{MethodName: "Recover", Handler: handlerFor("Recover", func(s WardenServer, ctx context.Context, in *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
			return s.Recover(ctx, in)
		})},
		{MethodName: "Authorize", Handler: handlerFor("Authorize", func(s WardenServer, ctx context.Context, in *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
			return s.Authorize(ctx, in)
		})},
		{MethodName: "CheckSignature", Handler: handlerFor("CheckSignature", func(s WardenServer, ctx context.Context, in *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
			return s.CheckSignature(ctx, in)
		})},
		{MethodName: "AuthorizeUpgrade", Handler: handlerFor("AuthorizeUpgrade", func(s WardenServer, ctx context.Context, in *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
			return s.AuthorizeUpgrade(ctx, in)
		})},
		{MethodName: "ExecuteBatch", Handler: handlerFor("ExecuteBatch", func(s WardenServer, ctx context.Context, in *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
			return s.ExecuteBatch(ctx, in)
		})},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "warden.proto",
}
