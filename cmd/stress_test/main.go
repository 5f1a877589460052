package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/rl1809/room-allocator/internal/adapter/storage"
	"github.com/rl1809/room-allocator/internal/core/domain"
	"github.com/rl1809/room-allocator/internal/core/service"
	"github.com/rl1809/room-allocator/internal/logger"
	"github.com/rl1809/room-allocator/internal/port"
)

func main() {
	os.Exit(run())
}

// run returns the process exit code so deferred cleanup runs first.
func run() int {
	redisAddr := flag.String("redis", "", "Redis address for idempotency keys (in-process cache when empty)")
	totalRequests := flag.Int("requests", 200, "number of concurrent booking requests")
	occupancy := flag.Float64("occupancy", 0, "initial occupancy probability")
	seed := flag.Uint64("seed", 1, "random seed")
	flag.Parse()

	ctx := context.Background()
	log := logger.L

	var cache port.CacheRepository = storage.NewMemoryCache()
	if *redisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: *redisAddr})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Error("failed to connect redis", "err", err)
			return 1
		}
		cache = storage.NewRedisAdapter(rdb)
	}

	rng := rand.New(rand.NewPCG(*seed, *seed))
	initial, err := domain.Randomized(*occupancy, rng)
	if err != nil {
		log.Error("invalid occupancy", "err", err)
		return 1
	}

	store := storage.NewMemoryInventoryStore(initial)
	bookingService := service.NewBookingService(store, cache, *totalRequests,
		service.WithMaxCommitRetries(*totalRequests),
		service.WithLogger(logger.Discard()),
	)
	defer bookingService.Close()

	// Drain the booking queue in background
	go func() {
		for range bookingService.GetBookingQueue() {
		}
	}()

	counts := make([]int, *totalRequests)
	for i := range counts {
		counts[i] = rng.IntN(domain.MaxRequest) + 1
	}

	var (
		successCount  atomic.Int32
		soldOutCount  atomic.Int32
		conflictCount atomic.Int32
		mu            sync.Mutex
		bookings      []domain.Booking
		wg            sync.WaitGroup
	)
	start := time.Now()

	for i := 0; i < *totalRequests; i++ {
		wg.Add(1)
		go func(count int) {
			defer wg.Done()

			b, err := bookingService.Book(ctx, uuid.NewString(), count)
			switch {
			case err == nil:
				successCount.Add(1)
				mu.Lock()
				bookings = append(bookings, b)
				mu.Unlock()
			case errors.Is(err, domain.ErrAllocationFailed):
				soldOutCount.Add(1)
			default:
				conflictCount.Add(1)
			}
		}(counts[i])
	}

	wg.Wait()
	elapsed := time.Since(start)

	final, _, _ := store.Load(ctx)

	fmt.Println("========== STRESS TEST RESULTS ==========")
	fmt.Printf("Initially Booked: %d / %d\n", initial.BookedCount(), domain.TotalRooms)
	fmt.Printf("Total Requests:   %d\n", *totalRequests)
	fmt.Printf("Successful:       %d\n", successCount.Load())
	fmt.Printf("Not Enough Rooms: %d\n", soldOutCount.Load())
	fmt.Printf("Other Failures:   %d\n", conflictCount.Load())
	fmt.Printf("Duration:         %v\n", elapsed)
	fmt.Println("==========================================")

	failed := false

	seen := make(map[int]bool)
	bookedRooms := 0
	for _, b := range bookings {
		for _, n := range b.RoomNumbers() {
			if seen[n] {
				fmt.Printf("FAIL: room %d handed out twice\n", n)
				failed = true
			}
			seen[n] = true
			if r, _ := initial.Room(n); r.Booked {
				fmt.Printf("FAIL: room %d was already occupied\n", n)
				failed = true
			}
		}
		bookedRooms += len(b.Rooms)
	}

	if want := initial.BookedCount() + bookedRooms; final.BookedCount() != want {
		fmt.Printf("FAIL: expected %d booked rooms, inventory has %d\n", want, final.BookedCount())
		failed = true
	}
	if final.RoomCount() != domain.TotalRooms {
		fmt.Printf("FAIL: inventory lost rooms: %d\n", final.RoomCount())
		failed = true
	}

	if failed {
		return 1
	}
	fmt.Printf("PASS: %d rooms booked without overlap, %d left free\n", bookedRooms, final.TotalAvailable())
	return 0
}
