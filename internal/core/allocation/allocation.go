// Package allocation decides which rooms satisfy a booking request.
//
// Requests are served same-floor first: the lowest floor with enough free
// rooms wins and its lowest-numbered rooms are taken. When no single floor
// fits, rooms are gathered across floors ranked by free-room count
// (descending, ties to the lower floor).
package allocation

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/rl1809/room-allocator/internal/core/domain"
)

// Allocate returns the rooms to book for count, or ErrAllocationFailed when
// the property cannot hold the request. It never modifies inv and never
// returns a partial selection.
func Allocate(inv domain.Inventory, count int) ([]domain.RoomRef, error) {
	if err := domain.ValidateCount(count); err != nil {
		return nil, err
	}

	if sel, ok := sameFloor(inv, count); ok {
		return sel, nil
	}
	if sel, ok := crossFloor(inv, count); ok {
		return sel, nil
	}
	return nil, fmt.Errorf("%w: requested %d, %d free", domain.ErrAllocationFailed, count, inv.TotalAvailable())
}

// first fit, not best fit
func sameFloor(inv domain.Inventory, count int) ([]domain.RoomRef, bool) {
	for f := 1; f <= domain.FloorCount; f++ {
		free := inv.AvailableRooms(f)
		if len(free) < count {
			continue
		}
		return refs(free[:count]), true
	}
	return nil, false
}

func crossFloor(inv domain.Inventory, count int) ([]domain.RoomRef, bool) {
	sel := make([]domain.RoomRef, 0, count)
	for _, f := range RankFloors(inv) {
		for _, r := range inv.AvailableRooms(f) {
			sel = append(sel, r.Ref())
			if len(sel) == count {
				return sel, true
			}
		}
	}
	return nil, false
}

// RankFloors orders all floors by available rooms, most first, breaking ties
// toward the lower floor number.
func RankFloors(inv domain.Inventory) []int {
	floors := make([]int, domain.FloorCount)
	for i := range floors {
		floors[i] = i + 1
	}
	avail := inv.Availability()
	slices.SortStableFunc(floors, func(a, b int) int {
		if c := cmp.Compare(avail[b], avail[a]); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})
	return floors
}

func refs(rooms []domain.Room) []domain.RoomRef {
	out := make([]domain.RoomRef, len(rooms))
	for i, r := range rooms {
		out[i] = r.Ref()
	}
	return out
}
