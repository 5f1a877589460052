package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rl1809/room-allocator/internal/core/domain"
	"github.com/rl1809/room-allocator/internal/core/service"
	"github.com/rl1809/room-allocator/internal/port"
)

// RoomService is what the transports need from the booking service.
type RoomService interface {
	Book(ctx context.Context, requestID string, count int) (domain.Booking, error)
	Reset(ctx context.Context) (domain.Inventory, int64, error)
	Randomize(ctx context.Context, probability float64) (domain.Inventory, int64, error)
	Snapshot(ctx context.Context) (domain.Inventory, int64, error)
	Availability(ctx context.Context) (int64, map[int]int, error)
}

type HTTPHandler struct {
	rooms   RoomService
	journal port.BookingRepository
	log     *slog.Logger
}

type BookHTTPRequest struct {
	RequestID string `json:"request_id"`
	Count     int    `json:"count"`
}

type BookHTTPResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	BookingID string `json:"booking_id,omitempty"`
	Rooms     []int  `json:"rooms,omitempty"`
	Version   int64  `json:"version,omitempty"`
}

type RandomizeHTTPRequest struct {
	Probability *float64 `json:"probability"`
}

type InventoryHTTPResponse struct {
	Version        int64              `json:"version"`
	TotalRooms     int                `json:"total_rooms"`
	AvailableRooms int                `json:"available_rooms"`
	Floors         []domain.FloorView `json:"floors"`
}

type AvailabilityHTTPResponse struct {
	Version        int64       `json:"version"`
	AvailableRooms int         `json:"available_rooms"`
	Floors         map[int]int `json:"floors"`
}

type BookingHTTPResponse struct {
	ID        string    `json:"id"`
	RequestID string    `json:"request_id"`
	Rooms     []int     `json:"rooms"`
	Version   int64     `json:"version"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// NewHTTPHandler wires the handler; journal may be nil when bookings are not
// journaled.
func NewHTTPHandler(rooms RoomService, journal port.BookingRepository, log *slog.Logger) *HTTPHandler {
	return &HTTPHandler{rooms: rooms, journal: journal, log: log}
}

// Router builds the gin engine with every route registered.
func (h *HTTPHandler) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), h.requestLogger())

	r.GET("/health", h.HealthCheck)
	api := r.Group("/api")
	api.GET("/inventory", h.Inventory)
	api.GET("/availability", h.Availability)
	api.POST("/inventory/reset", h.Reset)
	api.POST("/inventory/randomize", h.Randomize)
	api.POST("/bookings", h.Book)
	api.GET("/bookings", h.ListBookings)
	return r
}

func (h *HTTPHandler) Book(c *gin.Context) {
	var req BookHTTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, BookHTTPResponse{
			Success: false,
			Message: "invalid request body",
		})
		return
	}

	booking, err := h.rooms.Book(c.Request.Context(), req.RequestID, req.Count)
	if err != nil {
		status, message := bookingError(err)
		if status == http.StatusInternalServerError {
			h.log.Error("booking failed", "request_id", req.RequestID, "err", err)
		}
		c.JSON(status, BookHTTPResponse{
			Success: false,
			Message: message,
		})
		return
	}

	c.JSON(http.StatusOK, BookHTTPResponse{
		Success:   true,
		Message:   "rooms booked successfully",
		BookingID: booking.ID,
		Rooms:     booking.RoomNumbers(),
		Version:   booking.InventoryVersion,
	})
}

func bookingError(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		return http.StatusBadRequest, "room count must be between 1 and 5"
	case errors.Is(err, service.ErrDuplicateRequest):
		return http.StatusConflict, "duplicate request"
	case errors.Is(err, domain.ErrAllocationFailed):
		return http.StatusGone, "not enough rooms available"
	case errors.Is(err, service.ErrCommitConflict):
		return http.StatusServiceUnavailable, "inventory busy, try again"
	}
	return http.StatusInternalServerError, "internal error"
}

func (h *HTTPHandler) Inventory(c *gin.Context) {
	inv, version, err := h.rooms.Snapshot(c.Request.Context())
	if err != nil {
		h.internalError(c, "snapshot failed", err)
		return
	}
	c.JSON(http.StatusOK, inventoryResponse(inv, version))
}

// Availability serves the per-floor counts published to the cache.
func (h *HTTPHandler) Availability(c *gin.Context) {
	version, counts, err := h.rooms.Availability(c.Request.Context())
	if err != nil {
		h.internalError(c, "availability failed", err)
		return
	}

	total := 0
	for _, n := range counts {
		total += n
	}
	c.JSON(http.StatusOK, AvailabilityHTTPResponse{
		Version:        version,
		AvailableRooms: total,
		Floors:         counts,
	})
}

func (h *HTTPHandler) Reset(c *gin.Context) {
	inv, version, err := h.rooms.Reset(c.Request.Context())
	if err != nil {
		h.internalError(c, "reset failed", err)
		return
	}
	c.JSON(http.StatusOK, inventoryResponse(inv, version))
}

func (h *HTTPHandler) Randomize(c *gin.Context) {
	var req RandomizeHTTPRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
	}
	probability := domain.DefaultOccupancy
	if req.Probability != nil {
		probability = *req.Probability
	}

	inv, version, err := h.rooms.Randomize(c.Request.Context(), probability)
	if errors.Is(err, domain.ErrInvalidProbability) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "probability must be between 0 and 1"})
		return
	}
	if err != nil {
		h.internalError(c, "randomize failed", err)
		return
	}
	c.JSON(http.StatusOK, inventoryResponse(inv, version))
}

func (h *HTTPHandler) ListBookings(c *gin.Context) {
	if h.journal == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "booking journal disabled"})
		return
	}

	limit := 50
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = n
	}

	bookings, err := h.journal.ListBookings(c.Request.Context(), limit)
	if err != nil {
		h.internalError(c, "list bookings failed", err)
		return
	}

	out := make([]BookingHTTPResponse, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, BookingHTTPResponse{
			ID:        b.ID,
			RequestID: b.RequestID,
			Rooms:     b.RoomNumbers(),
			Version:   b.InventoryVersion,
			Status:    string(b.Status),
			CreatedAt: b.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"bookings": out})
}

func (h *HTTPHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *HTTPHandler) internalError(c *gin.Context, msg string, err error) {
	h.log.Error(msg, "path", c.FullPath(), "err", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}

func (h *HTTPHandler) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		h.log.Debug("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

func inventoryResponse(inv domain.Inventory, version int64) InventoryHTTPResponse {
	return InventoryHTTPResponse{
		Version:        version,
		TotalRooms:     inv.RoomCount(),
		AvailableRooms: inv.TotalAvailable(),
		Floors:         inv.Floors(),
	}
}
