package booking

import (
	"context"

	"github.com/google/uuid"

	domain "github.com/veltaro/facility-booking/internal/domain/booking"
	"github.com/veltaro/facility-booking/internal/httperr"
	"github.com/veltaro/facility-booking/internal/models"
)

// ListBookingsInput selects at most one filter; with none set the listing
// covers every booking and is reserved for superusers.
type ListBookingsInput struct {
	UserID     *uuid.UUID
	ResourceID *uuid.UUID
	FacilityID *uuid.UUID

	Limit  int
	Offset int
}

type ListBookings struct {
	repo domain.Repository
}

func NewListBookings(repo domain.Repository) *ListBookings {
	return &ListBookings{repo: repo}
}

func (uc *ListBookings) Execute(
	ctx context.Context,
	requester *models.User,
	in ListBookingsInput,
) ([]models.Booking, error) {

	switch {
	case in.UserID != nil:
		if *in.UserID != requester.ID && !requester.IsSuperuser {
			return nil, httperr.ForbiddenErr("not_allowed", "You may only list your own bookings.")
		}
		return uc.repo.ListByUser(ctx, *in.UserID, in.Limit, in.Offset)

	case in.ResourceID != nil:
		return uc.repo.ListByResource(ctx, *in.ResourceID, in.Limit, in.Offset)

	case in.FacilityID != nil:
		return uc.repo.ListByFacility(ctx, *in.FacilityID, in.Limit, in.Offset)

	default:
		if !requester.IsSuperuser {
			return nil, httperr.ForbiddenErr("superuser_required", "Listing all bookings requires superuser privileges.")
		}
		return uc.repo.ListAll(ctx, in.Limit, in.Offset)
	}
}
