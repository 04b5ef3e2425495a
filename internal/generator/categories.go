package generator

import "github.com/AngelCh415/hotel-analytics/internal/models"

const (
	ChannelDirect    = "Direct"
	ChannelOTA       = "Online Travel Agencies"
	ChannelCorporate = "Corporate"
	ChannelWalkIn    = "Walk-in"

	StatusOccupied   = "Occupied"
	StatusAvailable  = "Available"
	StatusUnoccupied = "Unoccupied"
	StatusService    = "To be serviced"
)

type category struct {
	name  string
	value float64
}

func categories(kind models.Kind, sel models.RangeSelector) []models.Sample {
	if !sel.Valid() {
		return []models.Sample{}
	}
	var cs []category
	switch kind {
	case models.KindChannels:
		cs = channels(sel)
	case models.KindRoomTypes:
		cs = roomTypes(sel)
	case models.KindRoomStatus:
		cs = roomStatus()
	}
	out := make([]models.Sample, 0, len(cs))
	for _, c := range cs {
		out = append(out, models.Sample{Label: c.name, Values: []float64{c.value}})
	}
	return out
}

// channels does not sum to 100 for custom ranges; consumers normalize.
func channels(sel models.RangeSelector) []category {
	if sel.Token.Custom() {
		d := float64(sel.SpanDays())
		return []category{
			{ChannelDirect, 40 + mod(d, 10)},
			{ChannelOTA, 30 - mod(d, 5)},
			{ChannelCorporate, 15 + mod(d, 3)},
			{ChannelWalkIn, 15},
		}
	}
	switch sel.Token {
	case models.TokenWeek:
		return []category{{ChannelDirect, 48}, {ChannelOTA, 30}, {ChannelCorporate, 12}, {ChannelWalkIn, 10}}
	case models.TokenMonth:
		return []category{{ChannelDirect, 45}, {ChannelOTA, 35}, {ChannelCorporate, 10}, {ChannelWalkIn, 10}}
	default:
		return []category{{ChannelDirect, 50}, {ChannelOTA, 25}, {ChannelCorporate, 15}, {ChannelWalkIn, 10}}
	}
}

// roomTypes is occupancy percent per room type.
func roomTypes(sel models.RangeSelector) []category {
	var shift float64
	if sel.Token.Custom() {
		shift = mod(float64(sel.SpanDays()), 4)
	}
	return []category{
		{"Standard", 95 - shift},
		{"Deluxe", 82 - shift},
		{"Suite", 75 - shift},
		{"Penthouse", 60 - shift},
	}
}

// roomStatus is a room count per housekeeping state.
func roomStatus() []category {
	return []category{
		{StatusOccupied, 78},
		{StatusUnoccupied, 34},
		{StatusService, 8},
	}
}

func mod(a, b float64) float64 { return float64(int(a) % int(b)) }

// Rooms is the fixed roster shown on the rooms overview.
func Rooms() []models.Room {
	return []models.Room{
		{Number: 101, Type: "Deluxe", Status: StatusOccupied},
		{Number: 102, Type: "Standard", Status: StatusAvailable},
		{Number: 103, Type: "Suite", Status: StatusService},
		{Number: 104, Type: "Executive", Status: StatusOccupied},
	}
}
