package db

import (
	"time"

	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/veltaro/facility-booking/internal/config"
	"github.com/veltaro/facility-booking/internal/models"
)

func NewDB(cfg *config.Config, log zerolog.Logger) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt: true,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to get sql.DB")
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := db.AutoMigrate(
		&models.User{},
		&models.Facility{},
		&models.Resource{},
		&models.Booking{},
		&models.RefreshToken{},
		&models.AuditLog{},
	); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate")
	}

	if err := ensureConstraints(db); err != nil {
		log.Fatal().Err(err).Msg("failed to install booking constraints")
	}

	return db
}

// ensureConstraints installs what AutoMigrate cannot express: the exclusion
// constraint that makes overlapping bookings impossible no matter how many
// service instances are writing, and the facility open/close pairing check.
func ensureConstraints(db *gorm.DB) error {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS btree_gist`).Error; err != nil {
		return err
	}

	if err := db.Exec(`
        DO $$ BEGIN
            IF NOT EXISTS (
                SELECT 1 FROM pg_constraint WHERE conname = 'bookings_no_overlap'
            ) THEN
                ALTER TABLE bookings ADD CONSTRAINT bookings_no_overlap
                    EXCLUDE USING gist (
                        resource_id WITH =,
                        tstzrange(start_time, end_time) WITH &&
                    );
            END IF;
        END $$
    `).Error; err != nil {
		return err
	}

	return db.Exec(`
        DO $$ BEGIN
            IF NOT EXISTS (
                SELECT 1 FROM pg_constraint WHERE conname = 'facility_open_close_both_or_none'
            ) THEN
                ALTER TABLE facilities ADD CONSTRAINT facility_open_close_both_or_none
                    CHECK (
                        (open_at IS NULL AND close_at IS NULL)
                        OR (open_at IS NOT NULL AND close_at IS NOT NULL)
                    );
            END IF;
        END $$
    `).Error
}
