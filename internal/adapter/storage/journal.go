package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rl1809/room-allocator/internal/core/domain"
)

var ErrDuplicateBooking = errors.New("booking already journaled")

// insertBooking writes the booking and its rooms in one transaction. The
// schema shares one shape across drivers; both use ? placeholders.
func insertBooking(ctx context.Context, db *sql.DB, b domain.Booking) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO bookings (id, request_id, room_count, inventory_version, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		b.ID, b.RequestID, len(b.Rooms), b.InventoryVersion, string(b.Status), b.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert booking: %w", err)
	}

	for i, r := range b.Rooms {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO booking_rooms (booking_id, position, floor, room_number)
			VALUES (?, ?, ?, ?)`,
			b.ID, i, r.Floor, r.Number,
		)
		if err != nil {
			return fmt.Errorf("insert booking room %d: %w", r.Number, err)
		}
	}

	return tx.Commit()
}

// listBookings returns the newest bookings first. Inventory versions restart
// with every process, so recency comes from created_at.
func listBookings(ctx context.Context, db *sql.DB, limit int) ([]domain.Booking, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := db.QueryContext(ctx, `
		SELECT id, request_id, inventory_version, status, created_at
		FROM bookings
		ORDER BY created_at DESC, inventory_version DESC
		LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query bookings: %w", err)
	}

	var bookings []domain.Booking
	for rows.Next() {
		var b domain.Booking
		var status string
		if err := rows.Scan(&b.ID, &b.RequestID, &b.InventoryVersion, &status, &b.CreatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		b.Status = domain.BookingStatus(status)
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("query bookings: %w", err)
	}
	rows.Close()

	for i := range bookings {
		rooms, err := bookingRooms(ctx, db, bookings[i].ID)
		if err != nil {
			return nil, err
		}
		bookings[i].Rooms = rooms
	}
	return bookings, nil
}

func bookingRooms(ctx context.Context, db *sql.DB, bookingID string) ([]domain.RoomRef, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT floor, room_number FROM booking_rooms
		WHERE booking_id = ?
		ORDER BY position`, bookingID,
	)
	if err != nil {
		return nil, fmt.Errorf("query booking rooms: %w", err)
	}
	defer rows.Close()

	var rooms []domain.RoomRef
	for rows.Next() {
		var r domain.RoomRef
		if err := rows.Scan(&r.Floor, &r.Number); err != nil {
			return nil, fmt.Errorf("scan booking room: %w", err)
		}
		rooms = append(rooms, r)
	}
	return rooms, rows.Err()
}
