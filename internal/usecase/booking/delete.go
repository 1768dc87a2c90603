package booking

import (
	"context"

	"github.com/google/uuid"

	"github.com/veltaro/facility-booking/internal/audit"
	domain "github.com/veltaro/facility-booking/internal/domain/booking"
	"github.com/veltaro/facility-booking/internal/httperr"
	"github.com/veltaro/facility-booking/internal/models"
)

type DeleteBooking struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewDeleteBooking(
	repo domain.Repository,
	auditDispatcher *audit.Dispatcher,
) *DeleteBooking {
	return &DeleteBooking{
		repo:  repo,
		audit: auditDispatcher,
	}
}

func (uc *DeleteBooking) Execute(
	ctx context.Context,
	requester *models.User,
	bookingID uuid.UUID,
) error {

	b, err := uc.repo.GetBookingByID(ctx, bookingID)
	if err != nil {
		return err
	}

	if b.UserID != requester.ID && !requester.IsSuperuser {
		return httperr.ForbiddenErr("not_booking_owner", "You do not have permission to delete this booking.")
	}

	if err := uc.repo.DeleteBooking(ctx, bookingID); err != nil {
		return err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &requester.ID,
		Action:   "booking_cancelled",
		Entity:   "booking",
		EntityID: &bookingID,
	})

	return nil
}
