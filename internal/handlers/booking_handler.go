package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/veltaro/facility-booking/internal/httperr"
	"github.com/veltaro/facility-booking/internal/httpresp"
	"github.com/veltaro/facility-booking/internal/middleware"
	"github.com/veltaro/facility-booking/internal/pagination"
	ucBooking "github.com/veltaro/facility-booking/internal/usecase/booking"
)

// ======================================================
// HANDLER
// ======================================================

type BookingHandler struct {
	createUC *ucBooking.CreateBooking
	updateUC *ucBooking.UpdateBooking
	deleteUC *ucBooking.DeleteBooking
	getUC    *ucBooking.GetBooking
	listUC   *ucBooking.ListBookings
}

func NewBookingHandler(
	createUC *ucBooking.CreateBooking,
	updateUC *ucBooking.UpdateBooking,
	deleteUC *ucBooking.DeleteBooking,
	getUC *ucBooking.GetBooking,
	listUC *ucBooking.ListBookings,
) *BookingHandler {
	return &BookingHandler{
		createUC: createUC,
		updateUC: updateUC,
		deleteUC: deleteUC,
		getUC:    getUC,
		listUC:   listUC,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateBookingRequest struct {
	ResourceID string    `json:"resource_id" binding:"required,uuid"`
	StartTime  time.Time `json:"start_time" binding:"required"`
	EndTime    time.Time `json:"end_time" binding:"required"`
}

type UpdateBookingRequest struct {
	ResourceID *string    `json:"resource_id" binding:"omitempty,uuid"`
	StartTime  *time.Time `json:"start_time"`
	EndTime    *time.Time `json:"end_time"`
}

// ======================================================
// CREATE - POST /facilities/:id/bookings
// ======================================================

func (h *BookingHandler) Create(c *gin.Context) {
	user := middleware.CurrentUser(c)

	facilityID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	booking, err := h.createUC.Execute(c.Request.Context(), ucBooking.CreateBookingInput{
		FacilityID: facilityID,
		ResourceID: mustUUID(req.ResourceID),
		UserID:     user.ID,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
	})
	if err != nil {
		httperr.WriteError(c, err)
		return
	}

	httpresp.Created(c, booking)
}

// ======================================================
// READ / UPDATE / DELETE - /bookings/:id
// ======================================================

func (h *BookingHandler) Get(c *gin.Context) {
	user := middleware.CurrentUser(c)

	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	booking, err := h.getUC.Execute(c.Request.Context(), user, id)
	if err != nil {
		httperr.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, booking)
}

func (h *BookingHandler) Update(c *gin.Context) {
	user := middleware.CurrentUser(c)

	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	in := ucBooking.UpdateBookingInput{
		BookingID: id,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	}
	if req.ResourceID != nil {
		rid := mustUUID(*req.ResourceID)
		in.ResourceID = &rid
	}

	booking, err := h.updateUC.Execute(c.Request.Context(), user, in)
	if err != nil {
		httperr.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, booking)
}

func (h *BookingHandler) Delete(c *gin.Context) {
	user := middleware.CurrentUser(c)

	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.deleteUC.Execute(c.Request.Context(), user, id); err != nil {
		httperr.WriteError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ======================================================
// LIST - GET /bookings?user_id=|resource_id=|facility_id=
// ======================================================

func (h *BookingHandler) List(c *gin.Context) {
	user := middleware.CurrentUser(c)
	p := pagination.FromQuery(c)

	in := ucBooking.ListBookingsInput{
		Limit:  p.Limit(),
		Offset: p.Offset(),
	}

	for query, target := range map[string]**uuid.UUID{
		"user_id":     &in.UserID,
		"resource_id": &in.ResourceID,
		"facility_id": &in.FacilityID,
	} {
		if v := c.Query(query); v != "" {
			id, err := uuid.Parse(v)
			if err != nil {
				httperr.BadRequest(c, "invalid_id", "Query parameter '"+query+"' must be a UUID.")
				return
			}
			*target = &id
		}
	}

	bookings, err := h.listUC.Execute(c.Request.Context(), user, in)
	if err != nil {
		httperr.WriteError(c, err)
		return
	}

	httpresp.List(c, bookings, p.Page, p.PageSize)
}
