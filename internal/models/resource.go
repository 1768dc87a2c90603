package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Resource struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	FacilityID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uix_resource_facility_name" json:"facility_id"`
	Facility   Facility  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`

	Name         string  `gorm:"size:100;not null;uniqueIndex:uix_resource_facility_name" json:"name"`
	Description  *string `gorm:"size:500" json:"description,omitempty"`
	PricePerHour float64 `gorm:"not null" json:"price_per_hour"`

	Bookings []Booking `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (r *Resource) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
