package handler

import (
	"context"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/test/bufconn"

	"github.com/rl1809/room-allocator/internal/adapter/handler/roompb"
	"github.com/rl1809/room-allocator/internal/core/domain"
	"github.com/rl1809/room-allocator/internal/logger"
)

func newTestGRPCClient(t *testing.T, rooms RoomService) roompb.RoomServiceClient {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer()
	roompb.RegisterRoomServiceServer(srv, NewGRPCHandler(rooms, logger.Discard()))
	go srv.Serve(lis)
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return roompb.NewRoomServiceClient(conn)
}

func TestGRPCBook(t *testing.T) {
	ctx := context.Background()
	client := newTestGRPCClient(t, newTestRoomService(t, domain.NewInventory()))

	resp, err := client.Book(ctx, &roompb.BookRequest{RequestId: "req-1", Count: 3})
	require.NoError(t, err)
	assert.True(t, resp.GetSuccess())
	assert.Equal(t, []int32{101, 102, 103}, resp.GetRooms())

	resp, err = client.Book(ctx, &roompb.BookRequest{RequestId: "req-2", Count: 3})
	require.NoError(t, err)
	assert.Equal(t, []int32{104, 105, 106}, resp.GetRooms())

	resp, err = client.Book(ctx, &roompb.BookRequest{RequestId: "req-2", Count: 3})
	require.NoError(t, err)
	assert.False(t, resp.GetSuccess())
	assert.Equal(t, "duplicate request", resp.Message)
}

func TestGRPCBook_Rejections(t *testing.T) {
	ctx := context.Background()
	client := newTestGRPCClient(t, newTestRoomService(t, domain.NewInventory()))

	resp, err := client.Book(ctx, &roompb.BookRequest{RequestId: "req-1", Count: 6})
	require.NoError(t, err)
	assert.False(t, resp.GetSuccess())
	assert.Equal(t, "room count must be between 1 and 5", resp.Message)

	one := 1.0
	_, err = client.Randomize(ctx, &roompb.RandomizeRequest{Probability: &one})
	require.NoError(t, err)

	resp, err = client.Book(ctx, &roompb.BookRequest{RequestId: "req-2", Count: 1})
	require.NoError(t, err)
	assert.False(t, resp.GetSuccess())
	assert.Equal(t, "not enough rooms available", resp.Message)
}

func TestGRPCSnapshotAndReset(t *testing.T) {
	ctx := context.Background()
	client := newTestGRPCClient(t, newTestRoomService(t, domain.NewInventory()))

	_, err := client.Book(ctx, &roompb.BookRequest{RequestId: "req-1", Count: 2})
	require.NoError(t, err)

	snap, err := client.Snapshot(ctx, &roompb.SnapshotRequest{})
	require.NoError(t, err)
	require.Len(t, snap.GetFloors(), 10)
	assert.Equal(t, int32(8), snap.Floors[0].Available)
	assert.True(t, snap.Floors[0].Rooms[1].Booked)
	assert.Len(t, snap.Floors[9].Rooms, 7)

	reset, err := client.Reset(ctx, &roompb.ResetRequest{})
	require.NoError(t, err)
	assert.True(t, reset.Success)
	assert.Equal(t, int32(10), reset.Floors[0].Available)
	assert.Equal(t, int64(3), reset.Version)
}

func TestGRPCRandomize(t *testing.T) {
	ctx := context.Background()
	client := newTestGRPCClient(t, newTestRoomService(t, domain.NewInventory()))

	resp, err := client.Randomize(ctx, &roompb.RandomizeRequest{})
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Len(t, resp.Floors, 10)

	bad := -0.5
	resp, err = client.Randomize(ctx, &roompb.RandomizeRequest{Probability: &bad})
	require.NoError(t, err)
	assert.False(t, resp.Success)
}

func TestGRPCInternalError(t *testing.T) {
	client := newTestGRPCClient(t, brokenRooms{})

	resp, err := client.Book(context.Background(), &roompb.BookRequest{RequestId: "x", Count: 1})
	require.NoError(t, err)
	assert.False(t, resp.GetSuccess())
	assert.Equal(t, "internal error", resp.Message)

	snap, err := client.Snapshot(context.Background(), &roompb.SnapshotRequest{})
	require.NoError(t, err)
	assert.False(t, snap.Success)
}
