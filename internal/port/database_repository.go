package port

import (
	"context"
	"errors"

	"github.com/rl1809/room-allocator/internal/core/domain"
)

var ErrOptimisticLock = errors.New("optimistic lock conflict")

type InventoryStore interface {
	// Load returns the current inventory snapshot and its version
	Load(ctx context.Context) (domain.Inventory, int64, error)

	// Save replaces the inventory if expectedVersion is still current and
	// returns the new version, or ErrOptimisticLock
	Save(ctx context.Context, inv domain.Inventory, expectedVersion int64) (int64, error)
}

type BookingRepository interface {
	// SaveBooking appends a committed booking to the journal
	SaveBooking(ctx context.Context, booking domain.Booking) error

	// ListBookings returns the most recent bookings, newest first
	ListBookings(ctx context.Context, limit int) ([]domain.Booking, error)
}
