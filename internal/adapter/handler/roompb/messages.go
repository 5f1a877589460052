package roompb

type BookRequest struct {
	RequestId string `json:"request_id,omitempty"`
	Count     int32  `json:"count,omitempty"`
}

func (x *BookRequest) GetRequestId() string {
	if x != nil {
		return x.RequestId
	}
	return ""
}

func (x *BookRequest) GetCount() int32 {
	if x != nil {
		return x.Count
	}
	return 0
}

type BookResponse struct {
	Success   bool    `json:"success,omitempty"`
	Message   string  `json:"message,omitempty"`
	BookingId string  `json:"booking_id,omitempty"`
	Rooms     []int32 `json:"rooms,omitempty"`
	Version   int64   `json:"version,omitempty"`
}

func (x *BookResponse) GetSuccess() bool {
	if x != nil {
		return x.Success
	}
	return false
}

func (x *BookResponse) GetRooms() []int32 {
	if x != nil {
		return x.Rooms
	}
	return nil
}

type ResetRequest struct{}

type SnapshotRequest struct{}

type RandomizeRequest struct {
	// Probability defaults to 0.3 when unset.
	Probability *float64 `json:"probability,omitempty"`
}

func (x *RandomizeRequest) GetProbability() (float64, bool) {
	if x != nil && x.Probability != nil {
		return *x.Probability, true
	}
	return 0, false
}

type Room struct {
	Number int32 `json:"number,omitempty"`
	Booked bool  `json:"booked,omitempty"`
}

type Floor struct {
	Floor     int32  `json:"floor,omitempty"`
	Available int32  `json:"available,omitempty"`
	Rooms     []Room `json:"rooms,omitempty"`
}

type InventoryResponse struct {
	Success bool    `json:"success,omitempty"`
	Message string  `json:"message,omitempty"`
	Version int64   `json:"version,omitempty"`
	Floors  []Floor `json:"floors,omitempty"`
}

func (x *InventoryResponse) GetFloors() []Floor {
	if x != nil {
		return x.Floors
	}
	return nil
}
