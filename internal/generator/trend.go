package generator

import (
	"math"

	"github.com/AngelCh415/hotel-analytics/internal/models"
)

// Trend is base + sin(i/period)*amplitude + U[0,jitter), floored and clamped.
type Trend struct {
	Base      float64
	Amplitude float64
	Period    float64
	Jitter    float64
	Max       float64 // 0 means unbounded
}

var trends = map[models.Kind]Trend{
	models.KindBookings:  {Base: 200, Amplitude: 50, Period: 5, Jitter: 20},
	models.KindRevenue:   {Base: 24000, Amplitude: 6000, Period: 7, Jitter: 1500},
	models.KindOccupancy: {Base: 75, Amplitude: 12, Period: 6, Jitter: 8, Max: 100},
}

// TrendFor returns the parameters used for a time-series kind.
func TrendFor(kind models.Kind) (Trend, bool) {
	t, ok := trends[kind]
	return t, ok
}

// At computes point i given u in [0,1).
func (t Trend) At(i int, u float64) float64 {
	v := math.Floor(t.Base + math.Sin(float64(i)/t.Period)*t.Amplitude + u*t.Jitter)
	if v < 0 {
		v = 0
	}
	if t.Max > 0 && v > t.Max {
		v = t.Max
	}
	return v
}

// Bounds is the closed interval every generated value falls in.
func (t Trend) Bounds() (lo, hi float64) {
	lo = math.Max(0, math.Floor(t.Base-t.Amplitude))
	hi = math.Floor(t.Base + t.Amplitude + t.Jitter)
	if t.Max > 0 && hi > t.Max {
		hi = t.Max
	}
	return lo, hi
}
