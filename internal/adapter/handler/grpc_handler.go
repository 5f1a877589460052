package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/rl1809/room-allocator/internal/adapter/handler/roompb"
	"github.com/rl1809/room-allocator/internal/core/domain"
)

type GRPCHandler struct {
	roompb.UnimplementedRoomServiceServer
	rooms RoomService
	log   *slog.Logger
}

func NewGRPCHandler(rooms RoomService, log *slog.Logger) *GRPCHandler {
	return &GRPCHandler{rooms: rooms, log: log}
}

func (h *GRPCHandler) Book(ctx context.Context, req *roompb.BookRequest) (*roompb.BookResponse, error) {
	booking, err := h.rooms.Book(ctx, req.GetRequestId(), int(req.GetCount()))
	if err != nil {
		status, message := bookingError(err)
		if status == http.StatusInternalServerError {
			h.log.Error("booking failed", "request_id", req.GetRequestId(), "err", err)
		}
		return &roompb.BookResponse{
			Success: false,
			Message: message,
		}, nil
	}

	rooms := make([]int32, len(booking.Rooms))
	for i, r := range booking.Rooms {
		rooms[i] = int32(r.Number)
	}
	return &roompb.BookResponse{
		Success:   true,
		Message:   "rooms booked successfully",
		BookingId: booking.ID,
		Rooms:     rooms,
		Version:   booking.InventoryVersion,
	}, nil
}

func (h *GRPCHandler) Reset(ctx context.Context, _ *roompb.ResetRequest) (*roompb.InventoryResponse, error) {
	inv, version, err := h.rooms.Reset(ctx)
	return h.inventoryReply(inv, version, err)
}

func (h *GRPCHandler) Randomize(ctx context.Context, req *roompb.RandomizeRequest) (*roompb.InventoryResponse, error) {
	probability, ok := req.GetProbability()
	if !ok {
		probability = domain.DefaultOccupancy
	}
	inv, version, err := h.rooms.Randomize(ctx, probability)
	return h.inventoryReply(inv, version, err)
}

func (h *GRPCHandler) Snapshot(ctx context.Context, _ *roompb.SnapshotRequest) (*roompb.InventoryResponse, error) {
	inv, version, err := h.rooms.Snapshot(ctx)
	return h.inventoryReply(inv, version, err)
}

func (h *GRPCHandler) inventoryReply(inv domain.Inventory, version int64, err error) (*roompb.InventoryResponse, error) {
	if errors.Is(err, domain.ErrInvalidProbability) {
		return &roompb.InventoryResponse{Success: false, Message: "probability must be between 0 and 1"}, nil
	}
	if err != nil {
		h.log.Error("inventory request failed", "err", err)
		return &roompb.InventoryResponse{Success: false, Message: "internal error"}, nil
	}

	floors := make([]roompb.Floor, 0, domain.FloorCount)
	for _, fv := range inv.Floors() {
		rooms := make([]roompb.Room, len(fv.Rooms))
		for i, r := range fv.Rooms {
			rooms[i] = roompb.Room{Number: int32(r.Number), Booked: r.Booked}
		}
		floors = append(floors, roompb.Floor{
			Floor:     int32(fv.Floor),
			Available: int32(fv.Available),
			Rooms:     rooms,
		})
	}
	return &roompb.InventoryResponse{Success: true, Version: version, Floors: floors}, nil
}
