package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/rl1809/room-allocator/internal/core/domain"
	"github.com/rl1809/room-allocator/internal/port"
)

const journalWriteTimeout = 5 * time.Second

// RunJournalWorker persists queued bookings until the queue is closed. A
// failed write is logged; the in-memory booking stands.
func RunJournalWorker(id int, queue <-chan domain.Booking, repo port.BookingRepository, log *slog.Logger) {
	for booking := range queue {
		ctx, cancel := context.WithTimeout(context.Background(), journalWriteTimeout)

		if err := repo.SaveBooking(ctx, booking); err != nil {
			log.Error("failed to journal booking", "worker", id, "booking_id", booking.ID, "rooms", booking.RoomNumbers(), "err", err)
		} else {
			log.Debug("journaled booking", "worker", id, "booking_id", booking.ID)
		}

		cancel()
	}
}
