package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	FullName     string  `gorm:"size:100;not null" json:"full_name"`
	Email        string  `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string  `gorm:"size:255;not null" json:"-"`
	PhoneNumber  *string `gorm:"size:20;uniqueIndex" json:"phone_number,omitempty"`

	ProfileImageKey *string `gorm:"size:255" json:"profile_image_key,omitempty"`

	IsActive    bool `gorm:"default:true" json:"is_active"`
	IsSuperuser bool `gorm:"default:false" json:"is_superuser"`
	IsVerified  bool `gorm:"default:false" json:"is_verified"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
