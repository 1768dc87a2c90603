package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/veltaro/facility-booking/internal/httperr"
	"github.com/veltaro/facility-booking/internal/models"
)

// CatalogGormRepository owns the facility/resource side of the store,
// including the cascade deletes that keep the ownership chain consistent:
// a facility takes its resources with it, a resource takes its bookings.
type CatalogGormRepository struct {
	db *gorm.DB
}

func NewCatalogGormRepository(db *gorm.DB) *CatalogGormRepository {
	return &CatalogGormRepository{db: db}
}

func (r *CatalogGormRepository) GetFacilityByID(
	ctx context.Context,
	id uuid.UUID,
) (*models.Facility, error) {

	var facility models.Facility
	if err := r.db.WithContext(ctx).
		First(&facility, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.NotFoundErr("facility_not_found", "Facility not found.")
		}
		return nil, err
	}
	return &facility, nil
}

// DeleteFacilityCascade removes a facility, its resources, and every booking
// on those resources in one transaction.
func (r *CatalogGormRepository) DeleteFacilityCascade(
	ctx context.Context,
	id uuid.UUID,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var facility models.Facility
		if err := tx.First(&facility, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return httperr.NotFoundErr("facility_not_found", "Facility not found.")
			}
			return err
		}

		resourceIDs := tx.Model(&models.Resource{}).
			Select("id").
			Where("facility_id = ?", id)

		if err := tx.Where("resource_id IN (?)", resourceIDs).
			Delete(&models.Booking{}).Error; err != nil {
			return err
		}
		if err := tx.Where("facility_id = ?", id).
			Delete(&models.Resource{}).Error; err != nil {
			return err
		}
		return tx.Delete(&facility).Error
	})
}

// DeleteResourceCascade removes a resource and its bookings. Nothing
// cascades upward to the facility.
func (r *CatalogGormRepository) DeleteResourceCascade(
	ctx context.Context,
	id uuid.UUID,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var resource models.Resource
		if err := tx.First(&resource, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return httperr.NotFoundErr("resource_not_found", "Resource not found.")
			}
			return err
		}

		if err := tx.Where("resource_id = ?", id).
			Delete(&models.Booking{}).Error; err != nil {
			return err
		}
		return tx.Delete(&resource).Error
	})
}
