package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Booking reserves one resource for one user across [StartTime, EndTime).
// The end is exclusive, so back-to-back bookings never conflict.
type Booking struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	ResourceID uuid.UUID `gorm:"type:uuid;not null;index:ix_booking_resource_window,priority:1" json:"resource_id"`
	Resource   Resource  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`

	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	User   User      `gorm:"constraint:OnUpdate:CASCADE" json:"-"`

	StartTime time.Time `gorm:"not null;index:ix_booking_resource_window,priority:2" json:"start_time"`
	EndTime   time.Time `gorm:"not null;index:ix_booking_resource_window,priority:3" json:"end_time"`

	TotalPrice float64 `gorm:"not null" json:"total_price"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}
