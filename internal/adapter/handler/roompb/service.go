package roompb

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	ServiceName     = "rooms.v1.RoomService"
	BookMethod      = "/" + ServiceName + "/Book"
	ResetMethod     = "/" + ServiceName + "/Reset"
	RandomizeMethod = "/" + ServiceName + "/Randomize"
	SnapshotMethod  = "/" + ServiceName + "/Snapshot"
)

type RoomServiceServer interface {
	Book(context.Context, *BookRequest) (*BookResponse, error)
	Reset(context.Context, *ResetRequest) (*InventoryResponse, error)
	Randomize(context.Context, *RandomizeRequest) (*InventoryResponse, error)
	Snapshot(context.Context, *SnapshotRequest) (*InventoryResponse, error)
}

// UnimplementedRoomServiceServer can be embedded for forward compatibility.
type UnimplementedRoomServiceServer struct{}

func (UnimplementedRoomServiceServer) Book(context.Context, *BookRequest) (*BookResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Book not implemented")
}

func (UnimplementedRoomServiceServer) Reset(context.Context, *ResetRequest) (*InventoryResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Reset not implemented")
}

func (UnimplementedRoomServiceServer) Randomize(context.Context, *RandomizeRequest) (*InventoryResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Randomize not implemented")
}

func (UnimplementedRoomServiceServer) Snapshot(context.Context, *SnapshotRequest) (*InventoryResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Snapshot not implemented")
}

func RegisterRoomServiceServer(s grpc.ServiceRegistrar, srv RoomServiceServer) {
	s.RegisterService(&RoomService_ServiceDesc, srv)
}

func unary[Req any, Resp any](method string, call func(RoomServiceServer, context.Context, *Req) (*Resp, error)) func(any, context.Context, func(any) error, grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(RoomServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: method}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(RoomServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var RoomService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*RoomServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Book", Handler: unary(BookMethod, RoomServiceServer.Book)},
		{MethodName: "Reset", Handler: unary(ResetMethod, RoomServiceServer.Reset)},
		{MethodName: "Randomize", Handler: unary(RandomizeMethod, RoomServiceServer.Randomize)},
		{MethodName: "Snapshot", Handler: unary(SnapshotMethod, RoomServiceServer.Snapshot)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "rooms/v1/rooms",
}

type RoomServiceClient interface {
	Book(ctx context.Context, in *BookRequest, opts ...grpc.CallOption) (*BookResponse, error)
	Reset(ctx context.Context, in *ResetRequest, opts ...grpc.CallOption) (*InventoryResponse, error)
	Randomize(ctx context.Context, in *RandomizeRequest, opts ...grpc.CallOption) (*InventoryResponse, error)
	Snapshot(ctx context.Context, in *SnapshotRequest, opts ...grpc.CallOption) (*InventoryResponse, error)
}

type roomServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewRoomServiceClient(cc grpc.ClientConnInterface) RoomServiceClient {
	return &roomServiceClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *roomServiceClient) Book(ctx context.Context, in *BookRequest, opts ...grpc.CallOption) (*BookResponse, error) {
	return invoke[BookResponse](ctx, c.cc, BookMethod, in, opts)
}

func (c *roomServiceClient) Reset(ctx context.Context, in *ResetRequest, opts ...grpc.CallOption) (*InventoryResponse, error) {
	return invoke[InventoryResponse](ctx, c.cc, ResetMethod, in, opts)
}

func (c *roomServiceClient) Randomize(ctx context.Context, in *RandomizeRequest, opts ...grpc.CallOption) (*InventoryResponse, error) {
	return invoke[InventoryResponse](ctx, c.cc, RandomizeMethod, in, opts)
}

func (c *roomServiceClient) Snapshot(ctx context.Context, in *SnapshotRequest, opts ...grpc.CallOption) (*InventoryResponse, error) {
	return invoke[InventoryResponse](ctx, c.cc, SnapshotMethod, in, opts)
}
