package server

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully-qualified gRPC service name.
const ServiceName = "purchasing.v1.PurchasingService"

// PurchasingServer is the server API. Requests and responses are free-form
// Structs whose keys follow the purchasing form field names.
type PurchasingServer interface {
	ImportRequest(context.Context, *structpb.Struct) (*structpb.Struct, error)
	RegisterOrder(context.Context, *structpb.Struct) (*structpb.Struct, error)
	UpdateOrder(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetOrder(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DeleteOrder(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Dashboard(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ExportDashboard(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListCompanies(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryCall func(PurchasingServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryMethod(name string, call unaryCall) grpc.MethodDesc {
	fullMethod := "/" + ServiceName + "/" + name
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(PurchasingServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(PurchasingServer), ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// PurchasingServiceDesc describes PurchasingServer for grpc.Server.
var PurchasingServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*PurchasingServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryMethod("ImportRequest", PurchasingServer.ImportRequest),
		unaryMethod("RegisterOrder", PurchasingServer.RegisterOrder),
		unaryMethod("UpdateOrder", PurchasingServer.UpdateOrder),
		unaryMethod("GetOrder", PurchasingServer.GetOrder),
		unaryMethod("DeleteOrder", PurchasingServer.DeleteOrder),
		unaryMethod("Dashboard", PurchasingServer.Dashboard),
		unaryMethod("ExportDashboard", PurchasingServer.ExportDashboard),
		unaryMethod("ListCompanies", PurchasingServer.ListCompanies),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "purchasing/v1/purchasing.proto",
}

// RegisterPurchasingServer attaches srv to s.
func RegisterPurchasingServer(s grpc.ServiceRegistrar, srv PurchasingServer) {
	s.RegisterService(&PurchasingServiceDesc, srv)
}

// Client calls PurchasingService over a client connection.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// Call invokes method with a Struct request.
func (c *Client) Call(ctx context.Context, method string, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, "/"+ServiceName+"/"+method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
