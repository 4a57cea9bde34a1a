package server

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// ServiceName is also the name the health service reports on.
const ServiceName = "loquia.billing.v1.Subscriptions"

const (
	getSubscriptionMethod = "/" + ServiceName + "/GetSubscription"
	listPaymentsMethod    = "/" + ServiceName + "/ListPayments"
)

// SubscriptionsServer is keyed by tenant id. Responses use the well-known
// protobuf types so no generated code is needed on either side.
type SubscriptionsServer interface {
	GetSubscription(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
	ListPayments(context.Context, *wrapperspb.StringValue) (*structpb.ListValue, error)
}

func RegisterSubscriptionsServer(s grpc.ServiceRegistrar, srv SubscriptionsServer) {
	s.RegisterService(&subscriptionsServiceDesc, srv)
}

var subscriptionsServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*SubscriptionsServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetSubscription", Handler: getSubscriptionHandler},
		{MethodName: "ListPayments", Handler: listPaymentsHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "loquia/billing/v1/subscriptions.proto",
}

func getSubscriptionHandler(
	srv any,
	ctx context.Context,
	dec func(any) error,
	interceptor grpc.UnaryServerInterceptor,
) (any, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SubscriptionsServer).GetSubscription(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: getSubscriptionMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(SubscriptionsServer).GetSubscription(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

func listPaymentsHandler(
	srv any,
	ctx context.Context,
	dec func(any) error,
	interceptor grpc.UnaryServerInterceptor,
) (any, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SubscriptionsServer).ListPayments(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: listPaymentsMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(SubscriptionsServer).ListPayments(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

// Client calls the Subscriptions service over an existing connection.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func (c *Client) GetSubscription(ctx context.Context, tenantId string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, getSubscriptionMethod, wrapperspb.String(tenantId), out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListPayments(ctx context.Context, tenantId string, opts ...grpc.CallOption) (*structpb.ListValue, error) {
	out := new(structpb.ListValue)
	if err := c.cc.Invoke(ctx, listPaymentsMethod, wrapperspb.String(tenantId), out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
