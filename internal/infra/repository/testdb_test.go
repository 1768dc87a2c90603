package repository

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/veltaro/facility-booking/internal/models"
)

// openTestDB spins up an in-memory sqlite store with the full schema.
// A single connection keeps writers serialized, which is all these tests
// need; postgres-only guarantees (FOR UPDATE, the exclusion constraint)
// are exercised against a real server, not here.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Facility{},
		&models.Resource{},
		&models.Booking{},
		&models.RefreshToken{},
		&models.AuditLog{},
	))
	return db
}

func seedUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()

	user := &models.User{
		FullName:     "Test User",
		Email:        "user+" + uuid.NewString() + "@example.com",
		PasswordHash: "x",
		IsActive:     true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedFacility(t *testing.T, db *gorm.DB, name, city string) *models.Facility {
	t.Helper()

	facility := &models.Facility{
		Name:    name,
		City:    city,
		Address: name + " street, " + city,
	}
	require.NoError(t, db.Create(facility).Error)
	return facility
}

func seedResource(t *testing.T, db *gorm.DB, facility *models.Facility, name string, rate float64) *models.Resource {
	t.Helper()

	resource := &models.Resource{
		FacilityID:   facility.ID,
		Name:         name,
		PricePerHour: rate,
	}
	require.NoError(t, db.Create(resource).Error)
	return resource
}

func window(hour, minute, durMinutes int) (time.Time, time.Time) {
	start := time.Date(2026, 3, 10, hour, minute, 0, 0, time.UTC)
	return start, start.Add(time.Duration(durMinutes) * time.Minute)
}
