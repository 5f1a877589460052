package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"

	"github.com/rl1809/room-allocator/internal/core/domain"
)

const mysqlDuplicateEntry = 1062

var mysqlSchema = []string{
	`CREATE TABLE IF NOT EXISTS bookings (
		id VARCHAR(36) PRIMARY KEY,
		request_id VARCHAR(128) NOT NULL,
		room_count INT NOT NULL,
		inventory_version BIGINT NOT NULL,
		status VARCHAR(16) NOT NULL,
		created_at DATETIME(6) NOT NULL,
		KEY idx_bookings_created (created_at)
	)`,
	`CREATE TABLE IF NOT EXISTS booking_rooms (
		booking_id VARCHAR(36) NOT NULL,
		position INT NOT NULL,
		floor INT NOT NULL,
		room_number INT NOT NULL,
		PRIMARY KEY (booking_id, position)
	)`,
}

type MySQLAdapter struct {
	db *sql.DB
}

func NewMySQLAdapter(db *sql.DB) *MySQLAdapter {
	return &MySQLAdapter{db: db}
}

func (m *MySQLAdapter) EnsureSchema(ctx context.Context) error {
	for _, stmt := range mysqlSchema {
		if _, err := m.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create mysql schema: %w", err)
		}
	}
	return nil
}

func (m *MySQLAdapter) SaveBooking(ctx context.Context, booking domain.Booking) error {
	err := insertBooking(ctx, m.db, booking)
	var me *mysql.MySQLError
	if errors.As(err, &me) && me.Number == mysqlDuplicateEntry {
		return fmt.Errorf("%w: %s", ErrDuplicateBooking, booking.ID)
	}
	return err
}

func (m *MySQLAdapter) ListBookings(ctx context.Context, limit int) ([]domain.Booking, error) {
	return listBookings(ctx, m.db, limit)
}
