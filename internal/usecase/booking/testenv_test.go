package booking

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/veltaro/facility-booking/internal/audit"
	domain "github.com/veltaro/facility-booking/internal/domain/booking"
	"github.com/veltaro/facility-booking/internal/infra/repository"
	"github.com/veltaro/facility-booking/internal/models"
)

// testEnv wires real collaborators (sqlite store, keyed locker, audit
// dispatcher) so use case tests cover the same paths the handlers hit.
type testEnv struct {
	db    *gorm.DB
	repo  *repository.BookingGormRepository
	locks *domain.ResourceLocker
	audit *audit.Dispatcher
}

func newTestEnv(t *testing.T) *testEnv {
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
		&models.AuditLog{},
	))

	return &testEnv{
		db:    db,
		repo:  repository.NewBookingGormRepository(db),
		locks: domain.NewResourceLocker(),
		audit: audit.NewDispatcher(audit.New(db), zerolog.Nop()),
	}
}

func (e *testEnv) user(t *testing.T, superuser bool) *models.User {
	t.Helper()

	u := &models.User{
		FullName:     "Test User",
		Email:        "user+" + uuid.NewString() + "@example.com",
		PasswordHash: "x",
		IsActive:     true,
		IsSuperuser:  superuser,
	}
	require.NoError(t, e.db.Create(u).Error)
	return u
}

func (e *testEnv) facility(t *testing.T, name string) *models.Facility {
	t.Helper()

	f := &models.Facility{Name: name, City: "Springfield", Address: name + " street"}
	require.NoError(t, e.db.Create(f).Error)
	return f
}

func (e *testEnv) resource(t *testing.T, f *models.Facility, name string, rate float64) *models.Resource {
	t.Helper()

	r := &models.Resource{FacilityID: f.ID, Name: name, PricePerHour: rate}
	require.NoError(t, e.db.Create(r).Error)
	return r
}

func at(hour, minute int) time.Time {
	return time.Date(2026, 3, 10, hour, minute, 0, 0, time.UTC)
}
