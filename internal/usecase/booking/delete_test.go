package booking

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veltaro/facility-booking/internal/httperr"
	"github.com/veltaro/facility-booking/internal/models"
)

func TestDeleteBooking_Execute(t *testing.T) {
	env := newTestEnv(t)
	createUC := NewCreateBooking(env.repo, env.locks, env.audit)
	deleteUC := NewDeleteBooking(env.repo, env.audit)
	getUC := NewGetBooking(env.repo)
	ctx := context.Background()

	owner := env.user(t, false)
	stranger := env.user(t, false)
	admin := env.user(t, true)

	facility := env.facility(t, "Downtown Sports Center")
	court := env.resource(t, facility, "Court A", 40)

	create := func(t *testing.T, startHour int) *models.Booking {
		t.Helper()
		b, err := createUC.Execute(ctx, CreateBookingInput{
			FacilityID: facility.ID,
			ResourceID: court.ID,
			UserID:     owner.ID,
			StartTime:  at(startHour, 0),
			EndTime:    at(startHour+1, 0),
		})
		require.NoError(t, err)
		return b
	}

	t.Run("owner cancels own booking and frees the window", func(t *testing.T) {
		b := create(t, 10)
		require.NoError(t, deleteUC.Execute(ctx, owner, b.ID))

		_, err := getUC.Execute(ctx, owner, b.ID)
		assert.True(t, httperr.IsBusiness(err, "booking_not_found"))

		// the slot can be booked again
		_, err = createUC.Execute(ctx, CreateBookingInput{
			FacilityID: facility.ID,
			ResourceID: court.ID,
			UserID:     owner.ID,
			StartTime:  at(10, 0),
			EndTime:    at(11, 0),
		})
		require.NoError(t, err)
	})

	t.Run("stranger is forbidden", func(t *testing.T) {
		b := create(t, 12)
		err := deleteUC.Execute(ctx, stranger, b.ID)
		assert.True(t, httperr.IsBusiness(err, "not_booking_owner"))
	})

	t.Run("superuser cancels any booking", func(t *testing.T) {
		b := create(t, 14)
		require.NoError(t, deleteUC.Execute(ctx, admin, b.ID))
	})

	t.Run("second delete reports not found", func(t *testing.T) {
		b := create(t, 16)
		require.NoError(t, deleteUC.Execute(ctx, owner, b.ID))

		err := deleteUC.Execute(ctx, owner, b.ID)
		assert.True(t, httperr.IsBusiness(err, "booking_not_found"))
	})
}
