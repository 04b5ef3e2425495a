package models

import "time"

type Kind string

const (
	KindBookings   Kind = "bookings"
	KindRevenue    Kind = "revenue"
	KindOccupancy  Kind = "occupancy"
	KindChannels   Kind = "channels"
	KindRoomTypes  Kind = "room_types"
	KindRoomStatus Kind = "room_status"
)

func Kinds() []Kind {
	return []Kind{KindBookings, KindRevenue, KindOccupancy, KindChannels, KindRoomTypes, KindRoomStatus}
}

// Categorical reports whether samples of this kind are named categories
// rather than a chronological time series.
func (k Kind) Categorical() bool {
	switch k {
	case KindChannels, KindRoomTypes, KindRoomStatus:
		return true
	}
	return false
}

func (k Kind) Valid() bool {
	for _, v := range Kinds() {
		if v == k {
			return true
		}
	}
	return false
}

type Sample struct {
	Label  string     `json:"label"`
	Date   *time.Time `json:"date,omitempty"`
	Values []float64  `json:"values"`
}

// Value returns the primary value of the sample.
func (s Sample) Value() float64 {
	if len(s.Values) == 0 {
		return 0
	}
	return s.Values[0]
}

type Series struct {
	Kind        Kind          `json:"kind"`
	Range       RangeSelector `json:"range"`
	Fields      []string      `json:"fields"`
	Samples     []Sample      `json:"samples"`
	GeneratedAt time.Time     `json:"generated_at"`
}

func (s Series) Len() int    { return len(s.Samples) }
func (s Series) Empty() bool { return len(s.Samples) == 0 }
func (s Series) Labels() []string {
	out := make([]string, 0, len(s.Samples))
	for _, smp := range s.Samples {
		out = append(out, smp.Label)
	}
	return out
}

// Total sums the primary values.
func (s Series) Total() float64 {
	var t float64
	for _, smp := range s.Samples {
		t += smp.Value()
	}
	return t
}

type Share struct {
	Name    string  `json:"name"`
	Value   float64 `json:"value"`
	Percent float64 `json:"percent"`
}

type KPI struct {
	Label  string  `json:"label"`
	Value  float64 `json:"value"`
	Change float64 `json:"change"` // percent vs previous window
}

type Room struct {
	Number int    `json:"number"`
	Type   string `json:"type"`
	Status string `json:"status"`
}

type Dashboard struct {
	Stats      []KPI   `json:"stats"`
	Occupancy  float64 `json:"occupancy_percent"`
	TotalRooms int     `json:"total_rooms"`
	RoomStatus []Share `json:"room_status"`
}

type Summary struct {
	Range         RangeSelector `json:"range"`
	TotalRevenue  KPI           `json:"total_revenue"`
	AvgOccupancy  KPI           `json:"avg_occupancy"`
	ADR           KPI           `json:"adr"`
	TotalBookings KPI           `json:"total_bookings"`
}

type Report struct {
	Summary   Summary `json:"summary"`
	Bookings  Series  `json:"bookings"`
	Revenue   Series  `json:"revenue"`
	Occupancy Series  `json:"occupancy"`
	RoomTypes Series  `json:"room_types"`
	Channels  []Share `json:"channels"`
}
