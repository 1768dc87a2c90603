package booking

import (
	"context"

	"github.com/google/uuid"

	domain "github.com/veltaro/facility-booking/internal/domain/booking"
	"github.com/veltaro/facility-booking/internal/httperr"
	"github.com/veltaro/facility-booking/internal/models"
)

type GetBooking struct {
	repo domain.Repository
}

func NewGetBooking(repo domain.Repository) *GetBooking {
	return &GetBooking{repo: repo}
}

func (uc *GetBooking) Execute(
	ctx context.Context,
	requester *models.User,
	bookingID uuid.UUID,
) (*models.Booking, error) {

	b, err := uc.repo.GetBookingByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if b.UserID != requester.ID && !requester.IsSuperuser {
		return nil, httperr.ForbiddenErr("not_booking_owner", "You do not have permission to access this booking.")
	}

	return b, nil
}
