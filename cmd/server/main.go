package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	"github.com/rl1809/room-allocator/internal/adapter/handler"
	"github.com/rl1809/room-allocator/internal/adapter/handler/roompb"
	"github.com/rl1809/room-allocator/internal/adapter/storage"
	"github.com/rl1809/room-allocator/internal/config"
	"github.com/rl1809/room-allocator/internal/core/domain"
	"github.com/rl1809/room-allocator/internal/core/service"
	"github.com/rl1809/room-allocator/internal/logger"
	"github.com/rl1809/room-allocator/internal/port"
)

func main() {
	if err := run(); err != nil {
		logger.L.Error("server exited", "err", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(".env")
	if err != nil {
		return err
	}
	if err := logger.Init(logger.Options{Level: cfg.LogLevel, Format: cfg.LogFormat}); err != nil {
		return err
	}
	log := logger.L

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize cache
	var cache port.CacheRepository = storage.NewMemoryCache()
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			PoolSize: 100,
		})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		log.Info("connected to redis", "addr", cfg.RedisAddr)
		cache = storage.NewRedisAdapter(rdb)
	}

	// Initialize booking journal
	journal, closeJournal, err := openJournal(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeJournal()

	seed := cfg.RandomSeed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	store := storage.NewMemoryInventoryStore(domain.NewInventory())
	bookingService := service.NewBookingService(store, cache, cfg.QueueSize,
		service.WithMaxCommitRetries(cfg.MaxCommitRetries),
		service.WithRand(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))),
		service.WithLogger(log),
	)
	if err := bookingService.SyncAvailability(ctx); err != nil {
		return err
	}

	// Start worker pool
	var wg sync.WaitGroup
	for i := 0; i < cfg.WorkerCount; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			if journal == nil {
				for range bookingService.GetBookingQueue() {
				}
				return
			}
			service.RunJournalWorker(id, bookingService.GetBookingQueue(), journal, log)
		}(i)
	}
	log.Info("started journal workers", "count", cfg.WorkerCount, "driver", cfg.JournalDriver)

	grpcServer := grpc.NewServer()
	roompb.RegisterRoomServiceServer(grpcServer, handler.NewGRPCHandler(bookingService, log))

	gin.SetMode(gin.ReleaseMode)
	httpServer := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: handler.NewHTTPHandler(bookingService, journal, log).Router(),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		lis, err := net.Listen("tcp", cfg.GRPCAddr)
		if err != nil {
			return fmt.Errorf("listen grpc: %w", err)
		}
		log.Info("gRPC server listening", "addr", cfg.GRPCAddr)
		return grpcServer.Serve(lis)
	})
	g.Go(func() error {
		log.Info("HTTP server listening", "addr", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Warn("HTTP shutdown", "err", err)
		}
		log.Info("HTTP server stopped")

		grpcServer.GracefulStop()
		log.Info("gRPC server stopped")
		return nil
	})

	err = g.Wait()

	// Close booking queue and wait for workers. Handlers still running after
	// a shutdown timeout keep their bookings but skip the journal.
	bookingService.Close()
	wg.Wait()
	log.Info("workers stopped")

	return err
}

// openJournal returns a nil repository when journaling is disabled.
func openJournal(ctx context.Context, cfg *config.Config, log *slog.Logger) (port.BookingRepository, func(), error) {
	switch cfg.JournalDriver {
	case config.JournalSQLite:
		adapter, err := storage.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite journal: %w", err)
		}
		log.Info("opened sqlite journal", "path", cfg.SQLitePath)
		return adapter, func() { adapter.Close() }, nil

	case config.JournalMySQL:
		db, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("connect mysql: %w", err)
		}
		db.SetMaxOpenConns(50)
		db.SetMaxIdleConns(25)
		db.SetConnMaxLifetime(5 * time.Minute)

		if err := db.PingContext(ctx); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("ping mysql: %w", err)
		}
		adapter := storage.NewMySQLAdapter(db)
		if err := adapter.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		log.Info("connected to mysql")
		return adapter, func() { db.Close() }, nil
	}
	return nil, func() {}, nil
}
