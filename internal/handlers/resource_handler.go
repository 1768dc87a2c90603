package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/veltaro/facility-booking/internal/httperr"
	"github.com/veltaro/facility-booking/internal/httpresp"
	"github.com/veltaro/facility-booking/internal/infra/repository"
	"github.com/veltaro/facility-booking/internal/models"
	"github.com/veltaro/facility-booking/internal/pagination"
)

type ResourceHandler struct {
	db      *gorm.DB
	catalog *repository.CatalogGormRepository
}

func NewResourceHandler(db *gorm.DB, catalog *repository.CatalogGormRepository) *ResourceHandler {
	return &ResourceHandler{db: db, catalog: catalog}
}

type CreateResourceRequest struct {
	FacilityID   string  `json:"facility_id" binding:"required,uuid"`
	Name         string  `json:"name" binding:"required"`
	Description  *string `json:"description"`
	PricePerHour float64 `json:"price_per_hour" binding:"required,gt=0"`
}

type UpdateResourceRequest struct {
	Name         *string  `json:"name"`
	Description  *string  `json:"description"`
	PricePerHour *float64 `json:"price_per_hour"`
}

func (h *ResourceHandler) List(c *gin.Context) {
	p := pagination.FromQuery(c)

	var resources []models.Resource
	if err := h.db.
		Order("created_at ASC, id ASC").
		Limit(p.Limit()).Offset(p.Offset()).
		Find(&resources).Error; err != nil {
		httperr.Internal(c, "internal_error", "Something went wrong.")
		return
	}

	httpresp.List(c, resources, p.Page, p.PageSize)
}

func (h *ResourceHandler) ListByFacility(c *gin.Context) {
	facilityID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	p := pagination.FromQuery(c)

	if _, err := h.catalog.GetFacilityByID(c.Request.Context(), facilityID); err != nil {
		httperr.WriteError(c, err)
		return
	}

	var resources []models.Resource
	if err := h.db.
		Where("facility_id = ?", facilityID).
		Order("created_at ASC, id ASC").
		Limit(p.Limit()).Offset(p.Offset()).
		Find(&resources).Error; err != nil {
		httperr.Internal(c, "internal_error", "Something went wrong.")
		return
	}

	httpresp.List(c, resources, p.Page, p.PageSize)
}

func (h *ResourceHandler) Get(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var resource models.Resource
	if err := h.db.First(&resource, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "resource_not_found", "Resource not found.")
			return
		}
		httperr.Internal(c, "internal_error", "Something went wrong.")
		return
	}

	c.JSON(http.StatusOK, resource)
}

func (h *ResourceHandler) Create(c *gin.Context) {
	var req CreateResourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	facility, err := h.catalog.GetFacilityByID(c.Request.Context(), mustUUID(req.FacilityID))
	if err != nil {
		httperr.WriteError(c, err)
		return
	}

	resource := models.Resource{
		FacilityID:   facility.ID,
		Name:         req.Name,
		Description:  req.Description,
		PricePerHour: req.PricePerHour,
	}

	if err := h.db.Create(&resource).Error; err != nil {
		httperr.WriteError(c, httperr.FromStoreError(err))
		return
	}

	httpresp.Created(c, resource)
}

func (h *ResourceHandler) Update(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var resource models.Resource
	if err := h.db.First(&resource, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "resource_not_found", "Resource not found.")
			return
		}
		httperr.Internal(c, "internal_error", "Something went wrong.")
		return
	}

	var req UpdateResourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	if req.Name != nil {
		resource.Name = *req.Name
	}
	if req.Description != nil {
		resource.Description = req.Description
	}
	if req.PricePerHour != nil {
		if *req.PricePerHour <= 0 {
			httperr.BadRequest(c, "invalid_price", "price_per_hour must be positive.")
			return
		}
		resource.PricePerHour = *req.PricePerHour
	}

	if err := h.db.Save(&resource).Error; err != nil {
		httperr.WriteError(c, httperr.FromStoreError(err))
		return
	}

	c.JSON(http.StatusOK, resource)
}

func (h *ResourceHandler) Delete(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.catalog.DeleteResourceCascade(c.Request.Context(), id); err != nil {
		httperr.WriteError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
