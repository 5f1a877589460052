package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rl1809/room-allocator/internal/core/allocation"
	"github.com/rl1809/room-allocator/internal/core/domain"
	"github.com/rl1809/room-allocator/internal/logger"
	"github.com/rl1809/room-allocator/internal/port"
)

const defaultMaxCommitRetries = 5

var (
	ErrDuplicateRequest = errors.New("duplicate request")
	ErrCommitConflict   = errors.New("inventory changed concurrently, retries exhausted")
)

// BookingService owns the read-allocate-commit cycle against a shared
// inventory. Concurrent callers are serialized through the store's version
// check, so two requests never receive the same room.
type BookingService struct {
	store        port.InventoryStore
	cache        port.CacheRepository
	bookingQueue chan domain.Booking
	maxRetries   int
	log          *slog.Logger

	rngMu sync.Mutex
	rng   *rand.Rand

	queueMu sync.RWMutex
	closed  bool
}

type Option func(*BookingService)

func WithMaxCommitRetries(n int) Option {
	return func(s *BookingService) {
		if n > 0 {
			s.maxRetries = n
		}
	}
}

// WithRand sets the source used by Randomize.
func WithRand(rng *rand.Rand) Option {
	return func(s *BookingService) {
		if rng != nil {
			s.rng = rng
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(s *BookingService) {
		if l != nil {
			s.log = l
		}
	}
}

func NewBookingService(store port.InventoryStore, cache port.CacheRepository, queueSize int, opts ...Option) *BookingService {
	s := &BookingService{
		store:        store,
		cache:        cache,
		bookingQueue: make(chan domain.Booking, queueSize),
		maxRetries:   defaultMaxCommitRetries,
		log:          logger.L,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		seed := uint64(time.Now().UnixNano())
		s.rng = rand.New(rand.NewPCG(seed, seed>>1))
	}
	return s
}

// Book allocates count rooms for requestID and commits them. An empty
// requestID gets a fresh one. Failures leave the inventory untouched.
func (s *BookingService) Book(ctx context.Context, requestID string, count int) (domain.Booking, error) {
	if err := domain.ValidateCount(count); err != nil {
		return domain.Booking{}, err
	}
	if requestID == "" {
		requestID = uuid.NewString()
	}

	idempotencyKey := fmt.Sprintf("booking:%s", requestID)
	ok, err := s.cache.SetIdempotency(ctx, idempotencyKey)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("idempotency check failed: %w", err)
	}
	if !ok {
		return domain.Booking{}, ErrDuplicateRequest
	}

	booking, next, err := s.commit(ctx, requestID, count)
	if err != nil {
		if relErr := s.cache.ReleaseIdempotency(ctx, idempotencyKey); relErr != nil {
			s.log.Warn("release idempotency key", "key", idempotencyKey, "err", relErr)
		}
		return domain.Booking{}, err
	}

	s.publish(ctx, booking.InventoryVersion, next)
	s.enqueue(ctx, booking)

	s.log.Info("booked rooms", "booking_id", booking.ID, "request_id", requestID, "rooms", booking.RoomNumbers())
	return booking, nil
}

// enqueue hands the booking to the journal workers. Bookings committed after
// Close are kept but not journaled.
func (s *BookingService) enqueue(ctx context.Context, booking domain.Booking) {
	s.queueMu.RLock()
	defer s.queueMu.RUnlock()

	if s.closed {
		s.log.Warn("booking committed after shutdown, not journaled", "booking_id", booking.ID)
		return
	}
	select {
	case s.bookingQueue <- booking:
	case <-ctx.Done():
		s.log.Warn("booking committed but not journaled", "booking_id", booking.ID, "err", ctx.Err())
	}
}

func (s *BookingService) commit(ctx context.Context, requestID string, count int) (domain.Booking, domain.Inventory, error) {
	for attempt := 1; attempt <= s.maxRetries; attempt++ {
		inv, version, err := s.store.Load(ctx)
		if err != nil {
			return domain.Booking{}, domain.Inventory{}, fmt.Errorf("load inventory: %w", err)
		}

		selection, err := allocation.Allocate(inv, count)
		if err != nil {
			return domain.Booking{}, domain.Inventory{}, err
		}

		next, err := inv.WithBooked(selection)
		if err != nil {
			s.log.Error("allocator produced an invalid selection", "rooms", selection, "err", err)
			return domain.Booking{}, domain.Inventory{}, fmt.Errorf("apply selection: %w", err)
		}

		newVersion, err := s.store.Save(ctx, next, version)
		if errors.Is(err, port.ErrOptimisticLock) {
			s.log.Debug("inventory version conflict", "request_id", requestID, "attempt", attempt)
			continue
		}
		if err != nil {
			return domain.Booking{}, domain.Inventory{}, fmt.Errorf("save inventory: %w", err)
		}

		return domain.Booking{
			ID:               uuid.NewString(),
			RequestID:        requestID,
			Rooms:            selection,
			InventoryVersion: newVersion,
			Status:           domain.BookingStatusConfirmed,
			CreatedAt:        time.Now().UTC(),
		}, next, nil
	}
	return domain.Booking{}, domain.Inventory{}, ErrCommitConflict
}

// Reset discards every booking.
func (s *BookingService) Reset(ctx context.Context) (domain.Inventory, int64, error) {
	inv := domain.NewInventory()
	version, err := s.replace(ctx, inv)
	if err != nil {
		return domain.Inventory{}, 0, err
	}
	s.log.Info("inventory reset", "version", version)
	return inv, version, nil
}

// Randomize replaces the inventory with one where each room is booked with
// the given probability.
func (s *BookingService) Randomize(ctx context.Context, probability float64) (domain.Inventory, int64, error) {
	s.rngMu.Lock()
	inv, err := domain.Randomized(probability, s.rng)
	s.rngMu.Unlock()
	if err != nil {
		return domain.Inventory{}, 0, err
	}

	version, err := s.replace(ctx, inv)
	if err != nil {
		return domain.Inventory{}, 0, err
	}
	s.log.Info("inventory randomized", "version", version, "probability", probability, "booked", inv.BookedCount())
	return inv, version, nil
}

func (s *BookingService) Snapshot(ctx context.Context) (domain.Inventory, int64, error) {
	return s.store.Load(ctx)
}

// Availability reports free rooms per floor as last published to the cache.
// Before anything is published it falls back to the live inventory.
func (s *BookingService) Availability(ctx context.Context) (int64, map[int]int, error) {
	version, counts, err := s.cache.Availability(ctx)
	if err != nil {
		return 0, nil, fmt.Errorf("read availability: %w", err)
	}
	if version >= 0 {
		return version, counts, nil
	}

	inv, version, err := s.store.Load(ctx)
	if err != nil {
		return 0, nil, fmt.Errorf("load inventory: %w", err)
	}
	return version, inv.Availability(), nil
}

// SyncAvailability replaces whatever a previous process published with the
// current inventory. Versions restart with the process, so stale counts
// would otherwise shadow every new publish.
func (s *BookingService) SyncAvailability(ctx context.Context) error {
	if err := s.cache.ClearAvailability(ctx); err != nil {
		return fmt.Errorf("clear availability: %w", err)
	}
	inv, version, err := s.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load inventory: %w", err)
	}
	if err := s.cache.PublishAvailability(ctx, version, inv.Availability()); err != nil {
		return fmt.Errorf("publish availability: %w", err)
	}
	return nil
}

func (s *BookingService) replace(ctx context.Context, inv domain.Inventory) (int64, error) {
	for attempt := 1; attempt <= s.maxRetries; attempt++ {
		_, version, err := s.store.Load(ctx)
		if err != nil {
			return 0, fmt.Errorf("load inventory: %w", err)
		}
		newVersion, err := s.store.Save(ctx, inv, version)
		if errors.Is(err, port.ErrOptimisticLock) {
			continue
		}
		if err != nil {
			return 0, fmt.Errorf("save inventory: %w", err)
		}
		s.publish(ctx, newVersion, inv)
		return newVersion, nil
	}
	return 0, ErrCommitConflict
}

func (s *BookingService) publish(ctx context.Context, version int64, inv domain.Inventory) {
	if err := s.cache.PublishAvailability(ctx, version, inv.Availability()); err != nil {
		s.log.Warn("publish availability", "version", version, "err", err)
	}
}

func (s *BookingService) GetBookingQueue() <-chan domain.Booking {
	return s.bookingQueue
}

// Close stops journaling. It waits for in-flight enqueues and is safe to
// call more than once.
func (s *BookingService) Close() {
	s.queueMu.Lock()
	defer s.queueMu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	close(s.bookingQueue)
}
