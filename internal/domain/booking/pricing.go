package booking

import (
	"math"
	"time"
)

// TotalPrice converts a half-open window and an hourly rate into the amount
// charged, rounded to 2 decimal places. Pure; window validation happens
// before pricing, not here.
func TotalPrice(start, end time.Time, pricePerHour float64) float64 {
	hours := end.Sub(start).Hours()
	return math.Round(hours*pricePerHour*100) / 100
}
