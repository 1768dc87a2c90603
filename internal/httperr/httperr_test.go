package httperr

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		kind Kind
		want int
	}{
		{KindNotFound, http.StatusNotFound},
		{KindConflict, http.StatusConflict},
		{KindAlreadyExists, http.StatusConflict},
		{KindForbidden, http.StatusForbidden},
		{KindUnauthorized, http.StatusUnauthorized},
		{KindValidation, http.StatusBadRequest},
		{KindInternal, http.StatusInternalServerError},
		{Kind("unknown"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, StatusFor(tt.kind), "kind %s", tt.kind)
	}
}

func TestBusinessError_Matching(t *testing.T) {
	err := NotFoundErr("booking_not_found", "Booking not found.")

	assert.True(t, IsKind(err, KindNotFound))
	assert.False(t, IsKind(err, KindConflict))
	assert.True(t, IsBusiness(err, "booking_not_found"))
	assert.False(t, IsBusiness(err, "other_code"))

	// survives wrapping
	wrapped := fmt.Errorf("create booking: %w", err)
	assert.True(t, IsKind(wrapped, KindNotFound))
	assert.True(t, IsBusiness(wrapped, "booking_not_found"))

	assert.False(t, IsKind(errors.New("plain"), KindNotFound))
}

func TestFromStoreError(t *testing.T) {
	t.Run("nil passes through", func(t *testing.T) {
		require.NoError(t, FromStoreError(nil))
	})

	t.Run("exclusion violation becomes booking conflict", func(t *testing.T) {
		err := FromStoreError(&pgconn.PgError{Code: "23P01", ConstraintName: "bookings_no_overlap"})
		assert.True(t, IsKind(err, KindConflict))
		assert.True(t, IsBusiness(err, "booking_conflict"))
	})

	t.Run("unique violation becomes already exists", func(t *testing.T) {
		err := FromStoreError(&pgconn.PgError{Code: "23505", ConstraintName: "uix_facility_name_city"})
		assert.True(t, IsKind(err, KindAlreadyExists))
		assert.True(t, IsBusiness(err, "already_exists"))
	})

	t.Run("wrapped driver errors are still translated", func(t *testing.T) {
		inner := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23P01"})
		err := FromStoreError(inner)
		assert.True(t, IsBusiness(err, "booking_conflict"))
	})

	t.Run("unrelated errors pass through", func(t *testing.T) {
		sentinel := errors.New("connection reset")
		assert.Same(t, sentinel, FromStoreError(sentinel))
	})
}

func TestWriteError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("business error keeps code and status", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		WriteError(c, ForbiddenErr("not_booking_owner", "You do not own this booking."))

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.JSONEq(t,
			`{"error_code":"not_booking_owner","message":"You do not own this booking."}`,
			w.Body.String())
	})

	t.Run("unknown error becomes opaque 500", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		WriteError(c, errors.New("pq: something leaked"))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "leaked")
	})
}
