package service

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rl1809/room-allocator/internal/adapter/storage"
	"github.com/rl1809/room-allocator/internal/core/domain"
	"github.com/rl1809/room-allocator/internal/logger"
)

type failingRepo struct {
	attempts atomic.Int32
}

func (f *failingRepo) SaveBooking(ctx context.Context, booking domain.Booking) error {
	f.attempts.Add(1)
	return errors.New("disk full")
}

func (f *failingRepo) ListBookings(ctx context.Context, limit int) ([]domain.Booking, error) {
	return nil, nil
}

func TestJournalWorker_PersistsBookings(t *testing.T) {
	ctx := context.Background()
	journal, err := storage.OpenSQLite(ctx, filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	defer journal.Close()

	svc := newTestService(t, storage.NewMemoryInventoryStore(domain.NewInventory()), storage.NewMemoryCache())

	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			RunJournalWorker(id, svc.GetBookingQueue(), journal, logger.Discard())
		}(i)
	}

	var booked []domain.Booking
	for i := 0; i < 4; i++ {
		b, err := svc.Book(ctx, "", 5)
		require.NoError(t, err)
		booked = append(booked, b)
	}

	svc.Close()
	wg.Wait()

	bookings, err := journal.ListBookings(ctx, 10)
	require.NoError(t, err)
	require.Len(t, bookings, 4)

	// newest first
	assert.Equal(t, booked[3].ID, bookings[0].ID)
	assert.Equal(t, []int{206, 207, 208, 209, 210}, bookings[0].RoomNumbers())
	assert.Equal(t, []int{101, 102, 103, 104, 105}, bookings[3].RoomNumbers())
}

// journalSession books with a fresh service against the journal, the way a
// newly started server would.
func journalSession(t *testing.T, journal *storage.SQLiteAdapter, count int) domain.Booking {
	t.Helper()
	svc := newTestService(t, storage.NewMemoryInventoryStore(domain.NewInventory()), storage.NewMemoryCache())

	done := make(chan struct{})
	go func() {
		defer close(done)
		RunJournalWorker(0, svc.GetBookingQueue(), journal, logger.Discard())
	}()

	b, err := svc.Book(context.Background(), "", count)
	require.NoError(t, err)
	svc.Close()
	<-done
	return b
}

func TestJournalWorker_KeepsJournalingAfterRestart(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "journal.db")

	journal, err := storage.OpenSQLite(ctx, path)
	require.NoError(t, err)
	first := journalSession(t, journal, 2)
	require.NoError(t, journal.Close())

	journal, err = storage.OpenSQLite(ctx, path)
	require.NoError(t, err)
	defer journal.Close()
	second := journalSession(t, journal, 2)

	// both sessions start from the same inventory version
	assert.Equal(t, first.InventoryVersion, second.InventoryVersion)

	bookings, err := journal.ListBookings(ctx, 10)
	require.NoError(t, err)
	require.Len(t, bookings, 2)
	assert.Equal(t, second.ID, bookings[0].ID)
	assert.Equal(t, first.ID, bookings[1].ID)
}

func TestJournalWorker_FailureDoesNotStopWorker(t *testing.T) {
	repo := &failingRepo{}
	queue := make(chan domain.Booking, 3)
	for i := 0; i < 3; i++ {
		queue <- domain.Booking{ID: "b"}
	}
	close(queue)

	RunJournalWorker(0, queue, repo, logger.Discard())
	assert.Equal(t, int32(3), repo.attempts.Load())
}
