package booking

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/veltaro/facility-booking/internal/audit"
	domain "github.com/veltaro/facility-booking/internal/domain/booking"
	"github.com/veltaro/facility-booking/internal/httperr"
	"github.com/veltaro/facility-booking/internal/models"
)

// UpdateBookingInput carries partial-update semantics explicitly: nil means
// "keep the existing value".
type UpdateBookingInput struct {
	BookingID uuid.UUID

	ResourceID *uuid.UUID
	StartTime  *time.Time
	EndTime    *time.Time
}

type UpdateBooking struct {
	repo  domain.Repository
	locks *domain.ResourceLocker
	audit *audit.Dispatcher
}

func NewUpdateBooking(
	repo domain.Repository,
	locks *domain.ResourceLocker,
	auditDispatcher *audit.Dispatcher,
) *UpdateBooking {
	return &UpdateBooking{
		repo:  repo,
		locks: locks,
		audit: auditDispatcher,
	}
}

func (uc *UpdateBooking) Execute(
	ctx context.Context,
	requester *models.User,
	in UpdateBookingInput,
) (*models.Booking, error) {

	b, err := uc.repo.GetBookingByID(ctx, in.BookingID)
	if err != nil {
		return nil, err
	}

	if b.UserID != requester.ID && !requester.IsSuperuser {
		return nil, httperr.ForbiddenErr("not_booking_owner", "You do not have permission to modify this booking.")
	}

	targetResourceID := b.ResourceID
	if in.ResourceID != nil {
		targetResourceID = *in.ResourceID
	}
	resource, err := uc.repo.GetResourceByID(ctx, targetResourceID)
	if err != nil {
		return nil, err
	}

	start := b.StartTime
	if in.StartTime != nil {
		start = *in.StartTime
	}
	end := b.EndTime
	if in.EndTime != nil {
		end = *in.EndTime
	}

	if err := domain.ValidateWindow(start, end); err != nil {
		return nil, err
	}

	// Lock the old and new resource keys together; a resource move must not
	// race against writers on either side.
	unlock := uc.locks.Lock(b.ResourceID, resource.ID)
	defer unlock()

	b.ResourceID = resource.ID
	b.StartTime = start
	b.EndTime = end
	b.TotalPrice = domain.TotalPrice(start, end, resource.PricePerHour)

	// The repository re-checks conflicts for the effective window,
	// excluding this booking itself.
	if err := uc.repo.UpdateBooking(ctx, b); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &requester.ID,
		Action:   "booking_updated",
		Entity:   "booking",
		EntityID: &b.ID,
	})

	return b, nil
}
