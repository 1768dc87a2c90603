package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/veltaro/facility-booking/internal/domain/booking"
	"github.com/veltaro/facility-booking/internal/httperr"
	"github.com/veltaro/facility-booking/internal/models"
)

type BookingGormRepository struct {
	db *gorm.DB
}

func NewBookingGormRepository(db *gorm.DB) *BookingGormRepository {
	return &BookingGormRepository{db: db}
}

// withRowLock adds FOR UPDATE on backends that support it. The sqlite
// backend used in tests serializes writers on its own.
func withRowLock(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

// overlapScope builds the sole correctness-critical predicate:
// rows for resourceID where start_time < end AND end_time > start,
// optionally excluding one booking id.
func overlapScope(
	tx *gorm.DB,
	resourceID uuid.UUID,
	start time.Time,
	end time.Time,
	excludeID *uuid.UUID,
) *gorm.DB {

	q := tx.Model(&models.Booking{}).
		Where(
			"resource_id = ? AND start_time < ? AND end_time > ?",
			resourceID,
			end,
			start,
		)
	if excludeID != nil {
		q = q.Where("id <> ?", *excludeID)
	}
	return q
}

// --------------------------------------------------
// Lookups
// --------------------------------------------------

func (r *BookingGormRepository) GetResourceByID(
	ctx context.Context,
	id uuid.UUID,
) (*models.Resource, error) {

	var resource models.Resource
	if err := r.db.WithContext(ctx).
		First(&resource, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.NotFoundErr("resource_not_found", "Resource not found.")
		}
		return nil, err
	}
	return &resource, nil
}

func (r *BookingGormRepository) GetResourceInFacility(
	ctx context.Context,
	resourceID uuid.UUID,
	facilityID uuid.UUID,
) (*models.Resource, error) {

	var resource models.Resource
	if err := r.db.WithContext(ctx).
		Where("id = ? AND facility_id = ?", resourceID, facilityID).
		First(&resource).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.NotFoundErr("resource_not_found", "Resource not found in the specified facility.")
		}
		return nil, err
	}
	return &resource, nil
}

func (r *BookingGormRepository) GetBookingByID(
	ctx context.Context,
	id uuid.UUID,
) (*models.Booking, error) {

	var b models.Booking
	if err := r.db.WithContext(ctx).
		First(&b, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.NotFoundErr("booking_not_found", "Booking not found.")
		}
		return nil, err
	}
	return &b, nil
}

// --------------------------------------------------
// Conflict detection
// --------------------------------------------------

func (r *BookingGormRepository) HasConflict(
	ctx context.Context,
	resourceID uuid.UUID,
	start time.Time,
	end time.Time,
	excludeID *uuid.UUID,
) (bool, error) {

	var count int64
	if err := overlapScope(r.db.WithContext(ctx), resourceID, start, end, excludeID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// --------------------------------------------------
// Mutations
// --------------------------------------------------

// CreateBooking runs the conflict check and the insert in one transaction.
// The parent resource row is locked first so that concurrent writers on the
// same resource serialize even when no conflicting booking exists yet to
// lock. The exclusion constraint catches anything that still races through.
func (r *BookingGormRepository) CreateBooking(
	ctx context.Context,
	b *models.Booking,
) error {

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var resource models.Resource
		if err := withRowLock(tx).
			First(&resource, "id = ?", b.ResourceID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return httperr.NotFoundErr("resource_not_found", "Resource not found.")
			}
			return err
		}

		var conflicts []models.Booking
		if err := overlapScope(withRowLock(tx), b.ResourceID, b.StartTime, b.EndTime, nil).
			Find(&conflicts).Error; err != nil {
			return err
		}
		if len(conflicts) > 0 {
			return httperr.ConflictErr("booking_conflict", "The resource is already booked for the specified time range.")
		}

		return tx.Create(b).Error
	})

	return httperr.FromStoreError(err)
}

// UpdateBooking re-runs the conflict check for the booking's effective
// resource and window, excluding the booking itself, then saves all fields.
func (r *BookingGormRepository) UpdateBooking(
	ctx context.Context,
	b *models.Booking,
) error {

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var resource models.Resource
		if err := withRowLock(tx).
			First(&resource, "id = ?", b.ResourceID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return httperr.NotFoundErr("resource_not_found", "Resource not found.")
			}
			return err
		}

		var conflicts []models.Booking
		if err := overlapScope(withRowLock(tx), b.ResourceID, b.StartTime, b.EndTime, &b.ID).
			Find(&conflicts).Error; err != nil {
			return err
		}
		if len(conflicts) > 0 {
			return httperr.ConflictErr("booking_conflict", "The resource is already booked for the specified time range.")
		}

		return tx.Save(b).Error
	})

	return httperr.FromStoreError(err)
}

func (r *BookingGormRepository) DeleteBooking(
	ctx context.Context,
	id uuid.UUID,
) error {

	res := r.db.WithContext(ctx).Delete(&models.Booking{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return httperr.NotFoundErr("booking_not_found", "Booking not found.")
	}
	return nil
}

// --------------------------------------------------
// Listings (stable insertion order, paginated)
// --------------------------------------------------

func (r *BookingGormRepository) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
	limit, offset int,
) ([]models.Booking, error) {

	var bookings []models.Booking
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC, id ASC").
		Limit(limit).Offset(offset).
		Find(&bookings).Error
	return bookings, err
}

func (r *BookingGormRepository) ListByResource(
	ctx context.Context,
	resourceID uuid.UUID,
	limit, offset int,
) ([]models.Booking, error) {

	var bookings []models.Booking
	err := r.db.WithContext(ctx).
		Where("resource_id = ?", resourceID).
		Order("created_at ASC, id ASC").
		Limit(limit).Offset(offset).
		Find(&bookings).Error
	return bookings, err
}

func (r *BookingGormRepository) ListByFacility(
	ctx context.Context,
	facilityID uuid.UUID,
	limit, offset int,
) ([]models.Booking, error) {

	var bookings []models.Booking
	err := r.db.WithContext(ctx).
		Joins("JOIN resources ON resources.id = bookings.resource_id").
		Where("resources.facility_id = ?", facilityID).
		Order("bookings.created_at ASC, bookings.id ASC").
		Limit(limit).Offset(offset).
		Find(&bookings).Error
	return bookings, err
}

func (r *BookingGormRepository) ListAll(
	ctx context.Context,
	limit, offset int,
) ([]models.Booking, error) {

	var bookings []models.Booking
	err := r.db.WithContext(ctx).
		Order("created_at ASC, id ASC").
		Limit(limit).Offset(offset).
		Find(&bookings).Error
	return bookings, err
}

// Compile-time check
var _ domain.Repository = (*BookingGormRepository)(nil)
