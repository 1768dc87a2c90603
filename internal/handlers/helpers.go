package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/veltaro/facility-booking/internal/httperr"
)

// parseUUIDParam reads a path parameter as a UUID, writing a 400 and
// returning false when it is malformed.
func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Path parameter '"+name+"' must be a UUID.")
		return uuid.Nil, false
	}
	return id, true
}

// mustUUID parses a value already validated by a binding:"uuid" tag.
func mustUUID(s string) uuid.UUID {
	return uuid.MustParse(s)
}
