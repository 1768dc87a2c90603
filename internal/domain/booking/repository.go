package booking

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/veltaro/facility-booking/internal/models"
)

type Repository interface {
	// -------- Lookups --------
	GetResourceByID(
		ctx context.Context,
		id uuid.UUID,
	) (*models.Resource, error)

	GetResourceInFacility(
		ctx context.Context,
		resourceID uuid.UUID,
		facilityID uuid.UUID,
	) (*models.Resource, error)

	GetBookingByID(
		ctx context.Context,
		id uuid.UUID,
	) (*models.Booking, error)

	// -------- Conflict detection --------

	// HasConflict is the side-effect-free predicate: true iff a booking
	// for resourceID other than excludeID satisfies
	// start_time < end AND end_time > start.
	HasConflict(
		ctx context.Context,
		resourceID uuid.UUID,
		start time.Time,
		end time.Time,
		excludeID *uuid.UUID,
	) (bool, error)

	// -------- Mutations (conflict check and write share one transaction) --------

	CreateBooking(
		ctx context.Context,
		b *models.Booking,
	) error

	UpdateBooking(
		ctx context.Context,
		b *models.Booking,
	) error

	DeleteBooking(
		ctx context.Context,
		id uuid.UUID,
	) error

	// -------- Listings --------
	ListByUser(
		ctx context.Context,
		userID uuid.UUID,
		limit, offset int,
	) ([]models.Booking, error)

	ListByResource(
		ctx context.Context,
		resourceID uuid.UUID,
		limit, offset int,
	) ([]models.Booking, error)

	ListByFacility(
		ctx context.Context,
		facilityID uuid.UUID,
		limit, offset int,
	) ([]models.Booking, error)

	ListAll(
		ctx context.Context,
		limit, offset int,
	) ([]models.Booking, error)
}
