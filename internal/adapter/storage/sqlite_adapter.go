package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"

	"github.com/rl1809/room-allocator/internal/core/domain"
)

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS bookings (
  id TEXT PRIMARY KEY,
  request_id TEXT NOT NULL,
  room_count INTEGER NOT NULL,
  inventory_version INTEGER NOT NULL,
  status TEXT NOT NULL,
  created_at DATETIME NOT NULL
);`,
	`CREATE TABLE IF NOT EXISTS booking_rooms (
  booking_id TEXT NOT NULL,
  position INTEGER NOT NULL,
  floor INTEGER NOT NULL,
  room_number INTEGER NOT NULL,
  PRIMARY KEY (booking_id, position)
);`,
	`CREATE INDEX IF NOT EXISTS idx_booking_rooms_room ON booking_rooms(room_number);`,
	`CREATE INDEX IF NOT EXISTS idx_bookings_created ON bookings(created_at);`,
}

type SQLiteAdapter struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the journal database at path and ensures
// its schema.
func OpenSQLite(ctx context.Context, path string) (*SQLiteAdapter, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	// one writer keeps sqlite from returning SQLITE_BUSY under the worker pool
	db.SetMaxOpenConns(1)

	adapter := NewSQLiteAdapter(db)
	if err := adapter.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return adapter, nil
}

func NewSQLiteAdapter(db *sql.DB) *SQLiteAdapter {
	return &SQLiteAdapter{db: db}
}

func (s *SQLiteAdapter) EnsureSchema(ctx context.Context) error {
	for _, stmt := range sqliteSchema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create sqlite schema: %w", err)
		}
	}
	return nil
}

func (s *SQLiteAdapter) SaveBooking(ctx context.Context, booking domain.Booking) error {
	err := insertBooking(ctx, s.db, booking)
	var se sqlite3.Error
	if errors.As(err, &se) && se.Code == sqlite3.ErrConstraint {
		return fmt.Errorf("%w: %s", ErrDuplicateBooking, booking.ID)
	}
	return err
}

func (s *SQLiteAdapter) ListBookings(ctx context.Context, limit int) ([]domain.Booking, error) {
	return listBookings(ctx, s.db, limit)
}

func (s *SQLiteAdapter) Close() error {
	return s.db.Close()
}
