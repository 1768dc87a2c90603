package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Facility struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	Name    string `gorm:"size:255;not null;uniqueIndex:uix_facility_name_city;uniqueIndex:uix_facility_name_address" json:"name"`
	State   string `gorm:"size:100" json:"state"`
	City    string `gorm:"size:100;uniqueIndex:uix_facility_name_city" json:"city"`
	Address string `gorm:"size:255;uniqueIndex:uix_facility_name_address" json:"address"`

	// Opening hours as "15:04" time-of-day. Either both are set or neither.
	OpenAt  *string `gorm:"size:5" json:"open_at,omitempty"`
	CloseAt *string `gorm:"size:5" json:"close_at,omitempty"`

	Amenities map[string]any `gorm:"serializer:json" json:"amenities,omitempty"`

	Resources []Resource `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (f *Facility) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}
