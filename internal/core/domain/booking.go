package domain

import "time"

type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "confirmed"
)

// Booking records a committed allocation.
type Booking struct {
	ID               string
	RequestID        string
	Rooms            []RoomRef
	InventoryVersion int64
	Status           BookingStatus
	CreatedAt        time.Time
}

func (b Booking) RoomNumbers() []int {
	numbers := make([]int, len(b.Rooms))
	for i, r := range b.Rooms {
		numbers[i] = r.Number
	}
	return numbers
}

// FloorView is a read-only rendering of one floor.
type FloorView struct {
	Floor     int    `json:"floor"`
	Available int    `json:"available"`
	Rooms     []Room `json:"rooms"`
}

func (inv Inventory) Floors() []FloorView {
	views := make([]FloorView, 0, FloorCount)
	for f := 1; f <= FloorCount; f++ {
		views = append(views, FloorView{
			Floor:     f,
			Available: inv.AvailableCount(f),
			Rooms:     inv.FloorRooms(f),
		})
	}
	return views
}
