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

// ======================================================
// INPUT
// ======================================================

type CreateBookingInput struct {
	FacilityID uuid.UUID
	ResourceID uuid.UUID
	UserID     uuid.UUID

	StartTime time.Time
	EndTime   time.Time
}

// ======================================================
// USE CASE
// ======================================================

type CreateBooking struct {
	repo  domain.Repository
	locks *domain.ResourceLocker
	audit *audit.Dispatcher
}

func NewCreateBooking(
	repo domain.Repository,
	locks *domain.ResourceLocker,
	auditDispatcher *audit.Dispatcher,
) *CreateBooking {
	return &CreateBooking{
		repo:  repo,
		locks: locks,
		audit: auditDispatcher,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateBooking) Execute(
	ctx context.Context,
	in CreateBookingInput,
) (*models.Booking, error) {

	if err := domain.ValidateWindow(in.StartTime, in.EndTime); err != nil {
		return nil, err
	}

	resource, err := uc.repo.GetResourceInFacility(ctx, in.ResourceID, in.FacilityID)
	if err != nil {
		return nil, err
	}

	// Serialize against other writers on this resource for the whole
	// check-and-write sequence.
	unlock := uc.locks.Lock(resource.ID)
	defer unlock()

	b := &models.Booking{
		ResourceID: resource.ID,
		UserID:     in.UserID,
		StartTime:  in.StartTime,
		EndTime:    in.EndTime,
		TotalPrice: domain.TotalPrice(in.StartTime, in.EndTime, resource.PricePerHour),
	}

	if err := uc.repo.CreateBooking(ctx, b); err != nil {
		if httperr.IsKind(err, httperr.KindConflict) {
			uc.audit.Dispatch(audit.Event{
				UserID: &in.UserID,
				Action: "booking_conflict",
				Entity: "booking",
				Metadata: map[string]any{
					"resource_id": resource.ID,
					"start":       in.StartTime,
					"end":         in.EndTime,
				},
			})
		}
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &in.UserID,
		Action:   "booking_created",
		Entity:   "booking",
		EntityID: &b.ID,
	})

	return b, nil
}
