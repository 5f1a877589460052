package domain

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
)

const (
	FloorCount       = 10
	RoomsPerFloor    = 10
	TopFloorRooms    = 7
	TotalRooms       = (FloorCount-1)*RoomsPerFloor + TopFloorRooms
	MinRequest       = 1
	MaxRequest       = 5
	DefaultOccupancy = 0.3
)

var (
	ErrInvalidRequest     = errors.New("invalid room count")
	ErrAllocationFailed   = errors.New("not enough rooms available")
	ErrInvalidSelection   = errors.New("invalid selection")
	ErrInvalidProbability = errors.New("invalid occupancy probability")
)

type Room struct {
	Number int  `json:"number"`
	Booked bool `json:"booked"`
}

// RoomRef points at a room inside an inventory. Floor is redundant with
// Number but lets lookups skip the derivation.
type RoomRef struct {
	Floor  int `json:"floor"`
	Number int `json:"number"`
}

func (r Room) Ref() RoomRef {
	return RoomRef{Floor: FloorOf(r.Number), Number: r.Number}
}

// FloorOf derives the floor from a room number. 101..110 live on floor 1,
// 1001..1007 on floor 10.
func FloorOf(number int) int {
	return number / 100
}

// Inventory is an immutable snapshot of every room in the property. The zero
// value is not valid; use NewInventory.
type Inventory struct {
	floors [FloorCount][]Room
}

func NewInventory() Inventory {
	var inv Inventory
	for f := 1; f <= FloorCount; f++ {
		size := RoomsPerFloor
		if f == FloorCount {
			size = TopFloorRooms
		}
		rooms := make([]Room, size)
		for i := range rooms {
			rooms[i] = Room{Number: f*100 + i + 1}
		}
		inv.floors[f-1] = rooms
	}
	return inv
}

// ValidateCount reports whether count is an acceptable booking request size.
func ValidateCount(count int) error {
	if count < MinRequest || count > MaxRequest {
		return fmt.Errorf("%w: %d is outside [%d,%d]", ErrInvalidRequest, count, MinRequest, MaxRequest)
	}
	return nil
}

// FloorRooms returns a copy of the rooms on floor, ascending by number.
// Unknown floors yield nil.
func (inv Inventory) FloorRooms(floor int) []Room {
	if floor < 1 || floor > FloorCount {
		return nil
	}
	return append([]Room(nil), inv.floors[floor-1]...)
}

// AvailableRooms returns the unbooked rooms of floor in ascending order.
func (inv Inventory) AvailableRooms(floor int) []Room {
	if floor < 1 || floor > FloorCount {
		return nil
	}
	var free []Room
	for _, r := range inv.floors[floor-1] {
		if !r.Booked {
			free = append(free, r)
		}
	}
	return free
}

func (inv Inventory) AvailableCount(floor int) int {
	if floor < 1 || floor > FloorCount {
		return 0
	}
	n := 0
	for _, r := range inv.floors[floor-1] {
		if !r.Booked {
			n++
		}
	}
	return n
}

// Availability returns the available room count per floor, keyed by floor.
func (inv Inventory) Availability() map[int]int {
	counts := make(map[int]int, FloorCount)
	for f := 1; f <= FloorCount; f++ {
		counts[f] = inv.AvailableCount(f)
	}
	return counts
}

func (inv Inventory) TotalAvailable() int {
	n := 0
	for f := 1; f <= FloorCount; f++ {
		n += inv.AvailableCount(f)
	}
	return n
}

func (inv Inventory) RoomCount() int {
	n := 0
	for _, rooms := range inv.floors {
		n += len(rooms)
	}
	return n
}

func (inv Inventory) BookedCount() int {
	return inv.RoomCount() - inv.TotalAvailable()
}

func (inv Inventory) Room(number int) (Room, bool) {
	i, ok := inv.index(RoomRef{Floor: FloorOf(number), Number: number})
	if !ok {
		return Room{}, false
	}
	return inv.floors[FloorOf(number)-1][i], true
}

func (inv Inventory) index(ref RoomRef) (int, bool) {
	if ref.Floor < 1 || ref.Floor > FloorCount || FloorOf(ref.Number) != ref.Floor {
		return 0, false
	}
	i := ref.Number - ref.Floor*100 - 1
	if i < 0 || i >= len(inv.floors[ref.Floor-1]) {
		return 0, false
	}
	return i, true
}

// WithBooked returns a copy of inv with every referenced room booked. The
// receiver is never modified, even on failure.
func (inv Inventory) WithBooked(selection []RoomRef) (Inventory, error) {
	next := inv.clone()
	for _, ref := range selection {
		i, ok := next.index(ref)
		if !ok {
			return inv, fmt.Errorf("%w: room %d on floor %d does not exist", ErrInvalidSelection, ref.Number, ref.Floor)
		}
		room := &next.floors[ref.Floor-1][i]
		if room.Booked {
			return inv, fmt.Errorf("%w: room %d is already booked", ErrInvalidSelection, ref.Number)
		}
		room.Booked = true
	}
	return next, nil
}

// Randomized returns a fresh inventory where each room is booked
// independently with the given probability.
func Randomized(probability float64, rng *rand.Rand) (Inventory, error) {
	if math.IsNaN(probability) || probability < 0 || probability > 1 {
		return Inventory{}, fmt.Errorf("%w: %v", ErrInvalidProbability, probability)
	}
	inv := NewInventory()
	for f := range inv.floors {
		for i := range inv.floors[f] {
			inv.floors[f][i].Booked = rng.Float64() < probability
		}
	}
	return inv, nil
}

func (inv Inventory) clone() Inventory {
	var c Inventory
	for f, rooms := range inv.floors {
		c.floors[f] = append([]Room(nil), rooms...)
	}
	return c
}
