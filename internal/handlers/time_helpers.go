package handlers

import (
	"time"

	"github.com/veltaro/facility-booking/internal/httperr"
)

// validateOpeningHours enforces the facility invariant: open_at and close_at
// are either both present (as valid "15:04" times of day) or both absent.
func validateOpeningHours(openAt, closeAt *string) error {
	if openAt == nil && closeAt == nil {
		return nil
	}
	if openAt == nil || closeAt == nil {
		return httperr.ValidationErr("open_close_both_or_none", "open_at and close_at must be supplied together.")
	}
	for _, v := range []string{*openAt, *closeAt} {
		if _, err := time.Parse("15:04", v); err != nil {
			return httperr.ValidationErr("invalid_time_of_day", "Opening hours must use the HH:MM format.")
		}
	}
	return nil
}
