package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/veltaro/facility-booking/internal/httperr"
	"github.com/veltaro/facility-booking/internal/middleware"
	"github.com/veltaro/facility-booking/internal/models"
	"github.com/veltaro/facility-booking/internal/storage"
)

type MeHandler struct {
	db      *gorm.DB
	avatars *storage.AvatarStore
}

func NewMeHandler(db *gorm.DB, avatars *storage.AvatarStore) *MeHandler {
	return &MeHandler{db: db, avatars: avatars}
}

type UpdateMeRequest struct {
	FullName    *string `json:"full_name"`
	Email       *string `json:"email"`
	PhoneNumber *string `json:"phone_number"`
}

func (h *MeHandler) GetMe(c *gin.Context) {
	c.JSON(http.StatusOK, middleware.CurrentUser(c))
}

func (h *MeHandler) UpdateMe(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var req UpdateMeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	if req.FullName != nil {
		user.FullName = *req.FullName
	}
	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		var count int64
		if err := h.db.Model(&models.User{}).
			Where("email = ? AND id <> ?", email, user.ID).
			Count(&count).Error; err != nil {
			httperr.Internal(c, "internal_error", "Something went wrong.")
			return
		}
		if count > 0 {
			httperr.Write(c, http.StatusConflict, "email_already_registered", "Email already registered to another user.")
			return
		}
		user.Email = email
	}
	if req.PhoneNumber != nil {
		user.PhoneNumber = req.PhoneNumber
	}

	if err := h.db.Save(user).Error; err != nil {
		httperr.WriteError(c, httperr.FromStoreError(err))
		return
	}

	c.JSON(http.StatusOK, user)
}

// UploadAvatar accepts a png/jpeg under the "file" form field, normalizes it
// to webp, and stores it under a fresh key so stale CDN entries never show
// another user's image.
func (h *MeHandler) UploadAvatar(c *gin.Context) {
	user := middleware.CurrentUser(c)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		httperr.BadRequest(c, "missing_file", "A 'file' form field is required.")
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		httperr.BadRequest(c, "unreadable_file", "Could not read the uploaded file.")
		return
	}
	defer f.Close()

	data, err := storage.ProcessAvatar(f)
	if err != nil {
		httperr.BadRequest(c, "invalid_image", "The uploaded file is not a supported image.")
		return
	}

	key := fmt.Sprintf("avatars/%s.webp", uuid.New())
	if err := h.avatars.Upload(c.Request.Context(), key, data, "image/webp"); err != nil {
		httperr.Internal(c, "upload_failed", "Could not store the avatar.")
		return
	}

	user.ProfileImageKey = &key
	if err := h.db.Save(user).Error; err != nil {
		httperr.Internal(c, "internal_error", "Something went wrong.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"profile_image_key": key,
		"url":               h.avatars.URL(key),
	})
}
