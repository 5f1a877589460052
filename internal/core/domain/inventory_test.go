package domain

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertLayout(t *testing.T, inv Inventory) {
	t.Helper()

	require.Equal(t, TotalRooms, inv.RoomCount())
	seen := make(map[int]bool, TotalRooms)
	for f := 1; f <= FloorCount; f++ {
		rooms := inv.FloorRooms(f)
		want := RoomsPerFloor
		if f == FloorCount {
			want = TopFloorRooms
		}
		require.Len(t, rooms, want, "floor %d", f)
		for i, r := range rooms {
			assert.Equal(t, f*100+i+1, r.Number)
			assert.False(t, seen[r.Number], "duplicate room %d", r.Number)
			seen[r.Number] = true
		}
	}
}

func TestNewInventory_Layout(t *testing.T) {
	inv := NewInventory()

	assertLayout(t, inv)
	assert.Equal(t, 97, inv.TotalAvailable())
	assert.Equal(t, 0, inv.BookedCount())
	assert.Equal(t, []Room{{Number: 1001}, {Number: 1002}, {Number: 1003}, {Number: 1004}, {Number: 1005}, {Number: 1006}, {Number: 1007}}, inv.FloorRooms(10))
}

func TestNewInventory_Deterministic(t *testing.T) {
	assert.Equal(t, NewInventory(), NewInventory())
}

func TestFloorOf(t *testing.T) {
	assert.Equal(t, 1, FloorOf(101))
	assert.Equal(t, 1, FloorOf(110))
	assert.Equal(t, 9, FloorOf(910))
	assert.Equal(t, 10, FloorOf(1001))
	assert.Equal(t, 10, FloorOf(1007))
}

func TestAvailableRooms(t *testing.T) {
	inv, err := NewInventory().WithBooked([]RoomRef{{Floor: 3, Number: 302}, {Floor: 3, Number: 305}})
	require.NoError(t, err)

	free := inv.AvailableRooms(3)
	numbers := make([]int, len(free))
	for i, r := range free {
		numbers[i] = r.Number
	}
	assert.Equal(t, []int{301, 303, 304, 306, 307, 308, 309, 310}, numbers)
	assert.Equal(t, 8, inv.AvailableCount(3))
	assert.Equal(t, 10, inv.AvailableCount(4))
	assert.Equal(t, 95, inv.TotalAvailable())
	assert.Equal(t, 8, inv.Availability()[3])
}

func TestAvailableRooms_UnknownFloor(t *testing.T) {
	inv := NewInventory()

	assert.Nil(t, inv.AvailableRooms(0))
	assert.Nil(t, inv.AvailableRooms(11))
	assert.Equal(t, 0, inv.AvailableCount(11))
	assert.Nil(t, inv.FloorRooms(-1))
}

func TestRoomLookup(t *testing.T) {
	inv := NewInventory()

	r, ok := inv.Room(1007)
	assert.True(t, ok)
	assert.Equal(t, 1007, r.Number)

	for _, n := range []int{100, 111, 1008, 0, 1100, 55} {
		_, ok := inv.Room(n)
		assert.False(t, ok, "room %d", n)
	}
}

func TestWithBooked_Success(t *testing.T) {
	inv := NewInventory()

	next, err := inv.WithBooked([]RoomRef{{Floor: 1, Number: 101}, {Floor: 10, Number: 1007}})
	require.NoError(t, err)

	r, _ := next.Room(101)
	assert.True(t, r.Booked)
	r, _ = next.Room(1007)
	assert.True(t, r.Booked)
	assert.Equal(t, 2, next.BookedCount())
	assertLayout(t, next)

	// original snapshot untouched
	assert.Equal(t, NewInventory(), inv)
}

func TestWithBooked_InvalidSelection(t *testing.T) {
	booked, err := NewInventory().WithBooked([]RoomRef{{Floor: 2, Number: 204}})
	require.NoError(t, err)

	cases := []struct {
		name string
		sel  []RoomRef
	}{
		{"nonexistent room", []RoomRef{{Floor: 10, Number: 1008}}},
		{"floor mismatch", []RoomRef{{Floor: 3, Number: 204}}},
		{"already booked", []RoomRef{{Floor: 2, Number: 204}}},
		{"duplicate in selection", []RoomRef{{Floor: 5, Number: 501}, {Floor: 5, Number: 501}}},
		{"valid then invalid", []RoomRef{{Floor: 5, Number: 502}, {Floor: 0, Number: 12}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			next, err := booked.WithBooked(tc.sel)
			assert.ErrorIs(t, err, ErrInvalidSelection)
			assert.Equal(t, booked, next)
			assert.Equal(t, 1, booked.BookedCount())
		})
	}
}

func TestValidateCount(t *testing.T) {
	for _, n := range []int{1, 2, 3, 4, 5} {
		assert.NoError(t, ValidateCount(n))
	}
	for _, n := range []int{-1, 0, 6, 100} {
		assert.ErrorIs(t, ValidateCount(n), ErrInvalidRequest)
	}
}

func TestRandomized_Bounds(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))

	none, err := Randomized(0, rng)
	require.NoError(t, err)
	assert.Equal(t, 0, none.BookedCount())

	all, err := Randomized(1, rng)
	require.NoError(t, err)
	assert.Equal(t, TotalRooms, all.BookedCount())
	assertLayout(t, all)

	for _, p := range []float64{-0.1, 1.5} {
		_, err := Randomized(p, rng)
		assert.ErrorIs(t, err, ErrInvalidProbability)
	}
}

func TestRandomized_SeededIsReproducible(t *testing.T) {
	a, err := Randomized(DefaultOccupancy, rand.New(rand.NewPCG(42, 7)))
	require.NoError(t, err)
	b, err := Randomized(DefaultOccupancy, rand.New(rand.NewPCG(42, 7)))
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestRandomized_Distribution(t *testing.T) {
	rng := rand.New(rand.NewPCG(2024, 11))
	const trials = 2000

	booked := 0
	perRoom := make(map[int]int)
	for i := 0; i < trials; i++ {
		inv, err := Randomized(DefaultOccupancy, rng)
		require.NoError(t, err)
		booked += inv.BookedCount()
		for _, fv := range inv.Floors() {
			for _, r := range fv.Rooms {
				if r.Booked {
					perRoom[r.Number]++
				}
			}
		}
	}

	ratio := float64(booked) / float64(trials*TotalRooms)
	assert.InDelta(t, 0.3, ratio, 0.01)

	// every room individually lands near the target rate
	for number, n := range perRoom {
		assert.InDelta(t, 0.3, float64(n)/trials, 0.06, "room %d", number)
	}
	assert.Len(t, perRoom, TotalRooms)
}

func TestFloors_View(t *testing.T) {
	inv, err := NewInventory().WithBooked([]RoomRef{{Floor: 10, Number: 1001}})
	require.NoError(t, err)

	views := inv.Floors()
	require.Len(t, views, FloorCount)
	assert.Equal(t, 10, views[9].Floor)
	assert.Equal(t, 6, views[9].Available)
	assert.True(t, views[9].Rooms[0].Booked)
}

func TestBookingRoomNumbers(t *testing.T) {
	b := Booking{Rooms: []RoomRef{{Floor: 1, Number: 103}, {Floor: 2, Number: 201}}}
	assert.Equal(t, []int{103, 201}, b.RoomNumbers())
}
