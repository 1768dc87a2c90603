package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/veltaro/facility-booking/internal/httperr"
	"github.com/veltaro/facility-booking/internal/httpresp"
	"github.com/veltaro/facility-booking/internal/infra/repository"
	"github.com/veltaro/facility-booking/internal/models"
	"github.com/veltaro/facility-booking/internal/pagination"
)

type FacilityHandler struct {
	db      *gorm.DB
	catalog *repository.CatalogGormRepository
}

func NewFacilityHandler(db *gorm.DB, catalog *repository.CatalogGormRepository) *FacilityHandler {
	return &FacilityHandler{db: db, catalog: catalog}
}

type CreateFacilityRequest struct {
	Name      string         `json:"name" binding:"required"`
	State     string         `json:"state" binding:"required"`
	City      string         `json:"city" binding:"required"`
	Address   string         `json:"address" binding:"required"`
	OpenAt    *string        `json:"open_at"`
	CloseAt   *string        `json:"close_at"`
	Amenities map[string]any `json:"amenities"`
}

type UpdateFacilityRequest struct {
	Name      *string        `json:"name"`
	State     *string        `json:"state"`
	City      *string        `json:"city"`
	Address   *string        `json:"address"`
	OpenAt    *string        `json:"open_at"`
	CloseAt   *string        `json:"close_at"`
	Amenities map[string]any `json:"amenities"`
}

func (h *FacilityHandler) List(c *gin.Context) {
	p := pagination.FromQuery(c)

	var facilities []models.Facility
	if err := h.db.
		Order("created_at ASC, id ASC").
		Limit(p.Limit()).Offset(p.Offset()).
		Find(&facilities).Error; err != nil {
		httperr.Internal(c, "internal_error", "Something went wrong.")
		return
	}

	httpresp.List(c, facilities, p.Page, p.PageSize)
}

func (h *FacilityHandler) Get(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	facility, err := h.catalog.GetFacilityByID(c.Request.Context(), id)
	if err != nil {
		httperr.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, facility)
}

func (h *FacilityHandler) Create(c *gin.Context) {
	var req CreateFacilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	if err := validateOpeningHours(req.OpenAt, req.CloseAt); err != nil {
		httperr.WriteError(c, err)
		return
	}

	if taken, err := h.nameCityTaken(req.Name, req.City, uuid.Nil); err != nil {
		httperr.Internal(c, "internal_error", "Something went wrong.")
		return
	} else if taken {
		httperr.Write(c, http.StatusConflict, "facility_already_exists", "A facility with the same name already exists in the city.")
		return
	}

	facility := models.Facility{
		Name:      req.Name,
		State:     req.State,
		City:      req.City,
		Address:   req.Address,
		OpenAt:    req.OpenAt,
		CloseAt:   req.CloseAt,
		Amenities: req.Amenities,
	}

	if err := h.db.Create(&facility).Error; err != nil {
		httperr.WriteError(c, httperr.FromStoreError(err))
		return
	}

	httpresp.Created(c, facility)
}

func (h *FacilityHandler) Update(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	facility, err := h.catalog.GetFacilityByID(c.Request.Context(), id)
	if err != nil {
		httperr.WriteError(c, err)
		return
	}

	var req UpdateFacilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	if req.Name != nil {
		facility.Name = *req.Name
	}
	if req.State != nil {
		facility.State = *req.State
	}
	if req.City != nil {
		facility.City = *req.City
	}
	if req.Address != nil {
		facility.Address = *req.Address
	}
	if req.OpenAt != nil || req.CloseAt != nil {
		openAt, closeAt := facility.OpenAt, facility.CloseAt
		if req.OpenAt != nil {
			openAt = emptyToNil(req.OpenAt)
		}
		if req.CloseAt != nil {
			closeAt = emptyToNil(req.CloseAt)
		}
		if err := validateOpeningHours(openAt, closeAt); err != nil {
			httperr.WriteError(c, err)
			return
		}
		facility.OpenAt, facility.CloseAt = openAt, closeAt
	}
	if req.Amenities != nil {
		facility.Amenities = req.Amenities
	}

	if req.Name != nil || req.City != nil {
		if taken, err := h.nameCityTaken(facility.Name, facility.City, facility.ID); err != nil {
			httperr.Internal(c, "internal_error", "Something went wrong.")
			return
		} else if taken {
			httperr.Write(c, http.StatusConflict, "facility_already_exists", "A facility with the same name already exists in the city.")
			return
		}
	}

	if err := h.db.Save(facility).Error; err != nil {
		httperr.WriteError(c, httperr.FromStoreError(err))
		return
	}

	c.JSON(http.StatusOK, facility)
}

func (h *FacilityHandler) Delete(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.catalog.DeleteFacilityCascade(c.Request.Context(), id); err != nil {
		httperr.WriteError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// --------- Helpers ---------

func (h *FacilityHandler) nameCityTaken(name, city string, excludeID uuid.UUID) (bool, error) {
	var existing models.Facility
	err := h.db.Where("name = ? AND city = ?", name, city).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return existing.ID != excludeID, nil
}

func emptyToNil(s *string) *string {
	if s != nil && *s == "" {
		return nil
	}
	return s
}
