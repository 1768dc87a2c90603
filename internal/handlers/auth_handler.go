package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/veltaro/facility-booking/internal/credentials"
	"github.com/veltaro/facility-booking/internal/httperr"
	"github.com/veltaro/facility-booking/internal/middleware"
	"github.com/veltaro/facility-booking/internal/models"
	"github.com/veltaro/facility-booking/internal/validators"
)

// dummyPasswordHash is verified against when the email does not resolve to a
// user, so a failed login costs the same whether or not the account exists.
const dummyPasswordHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

type AuthHandler struct {
	db    *gorm.DB
	creds *credentials.Service
}

func NewAuthHandler(db *gorm.DB, creds *credentials.Service) *AuthHandler {
	return &AuthHandler{db: db, creds: creds}
}

// --------- Requests ---------

type SignupRequest struct {
	FullName    string  `json:"full_name" binding:"required"`
	Email       string  `json:"email" binding:"required,email"`
	Password    string  `json:"password" binding:"required,min=8"`
	PhoneNumber *string `json:"phone_number"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	RefreshToken string `json:"refresh_token"`
}

// --------- Handlers ---------

func (h *AuthHandler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !validators.IsEmailDomainValid(email) {
		httperr.BadRequest(c, "invalid_email_domain", "The email domain does not appear to be valid.")
		return
	}

	var count int64
	if err := h.db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		httperr.Internal(c, "internal_error", "Something went wrong.")
		return
	}
	if count > 0 {
		httperr.Write(c, http.StatusConflict, "email_already_registered", "Email already registered.")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		httperr.Internal(c, "failed_to_hash_password", "Could not process the password.")
		return
	}

	user := models.User{
		FullName:     req.FullName,
		Email:        email,
		PasswordHash: string(hashed),
		PhoneNumber:  req.PhoneNumber,
	}

	if err := h.db.Create(&user).Error; err != nil {
		httperr.WriteError(c, httperr.FromStoreError(err))
		return
	}

	c.JSON(http.StatusCreated, user)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var user models.User
	err := h.db.Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Burn comparable hashing time before rejecting.
			_ = bcrypt.CompareHashAndPassword([]byte(dummyPasswordHash), []byte(req.Password))
			httperr.Unauthorized(c, "invalid_credentials", "Invalid email or password.")
			return
		}
		httperr.Internal(c, "internal_error", "Something went wrong.")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		httperr.Unauthorized(c, "invalid_credentials", "Invalid email or password.")
		return
	}

	if !user.IsActive {
		httperr.Unauthorized(c, "inactive_user", "User account is inactive.")
		return
	}

	resp, err := h.issueTokens(c, &user)
	if err != nil {
		httperr.Internal(c, "failed_to_issue_tokens", "Could not issue credentials.")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Refresh rotates the presented refresh token: the stored hash is replaced,
// never merely checked, so a replayed old token is dead on arrival.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	hashed := credentials.HashRefreshToken(req.RefreshToken)

	var entry models.RefreshToken
	err := h.db.
		Where("token_hash = ? AND expires_at > ?", hashed, time.Now()).
		First(&entry).Error
	if err != nil {
		httperr.Unauthorized(c, "invalid_refresh_token", "Refresh token is invalid or expired.")
		return
	}

	var user models.User
	if err := h.db.First(&user, "id = ?", entry.UserID).Error; err != nil || !user.IsActive {
		httperr.Unauthorized(c, "invalid_refresh_token", "Refresh token is invalid or expired.")
		return
	}

	plain, err := credentials.NewRefreshToken()
	if err != nil {
		httperr.Internal(c, "failed_to_issue_tokens", "Could not issue credentials.")
		return
	}

	entry.TokenHash = credentials.HashRefreshToken(plain)
	entry.ExpiresAt = time.Now().Add(h.creds.RefreshTTL())
	if err := h.db.Save(&entry).Error; err != nil {
		httperr.Internal(c, "failed_to_issue_tokens", "Could not issue credentials.")
		return
	}

	access, err := h.creds.Issue(user.ID)
	if err != nil {
		httperr.Internal(c, "failed_to_issue_tokens", "Could not issue credentials.")
		return
	}

	c.JSON(http.StatusOK, tokenResponse{
		AccessToken:  access,
		TokenType:    "bearer",
		ExpiresIn:    int(h.creds.AccessTTL().Seconds()),
		RefreshToken: plain,
	})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	if err := h.db.
		Where("user_id = ? AND token_hash = ?", user.ID, credentials.HashRefreshToken(req.RefreshToken)).
		Delete(&models.RefreshToken{}).Error; err != nil {
		httperr.Internal(c, "internal_error", "Could not revoke the refresh token.")
		return
	}

	c.Status(http.StatusNoContent)
}

// --------- Helpers ---------

func (h *AuthHandler) issueTokens(c *gin.Context, user *models.User) (*tokenResponse, error) {
	access, err := h.creds.Issue(user.ID)
	if err != nil {
		return nil, err
	}

	plain, err := credentials.NewRefreshToken()
	if err != nil {
		return nil, err
	}

	entry := models.RefreshToken{
		UserID:    user.ID,
		TokenHash: credentials.HashRefreshToken(plain),
		ExpiresAt: time.Now().Add(h.creds.RefreshTTL()),
	}
	if err := h.db.WithContext(c.Request.Context()).Create(&entry).Error; err != nil {
		return nil, err
	}

	return &tokenResponse{
		AccessToken:  access,
		TokenType:    "bearer",
		ExpiresIn:    int(h.creds.AccessTTL().Seconds()),
		RefreshToken: plain,
	}, nil
}
