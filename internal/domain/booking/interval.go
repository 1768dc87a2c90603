package booking

import (
	"time"

	"github.com/veltaro/facility-booking/internal/httperr"
)

// Overlaps reports whether the half-open intervals [aStart, aEnd) and
// [bStart, bEnd) intersect. A booking ending exactly when another starts
// does not overlap it.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

// ValidateWindow rejects empty and inverted windows. Without this guard a
// reversed window would price negative and slip past the conflict check.
func ValidateWindow(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return httperr.ValidationErr("missing_time", "Both start_time and end_time are required.")
	}
	if !end.After(start) {
		return httperr.ValidationErr("invalid_time_range", "end_time must be after start_time.")
	}
	return nil
}
