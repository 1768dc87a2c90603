package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/veltaro/facility-booking/internal/credentials"
	"github.com/veltaro/facility-booking/internal/httperr"
	"github.com/veltaro/facility-booking/internal/models"
)

const ContextUser = "currentUser"

// AuthMiddleware resolves the bearer credential to an active user and stores
// it in the request context. It fails closed: a malformed or expired token,
// an unknown subject, or an inactive account all end the request with 401.
func AuthMiddleware(creds *credentials.Service, db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			httperr.Unauthorized(c, "missing_authorization_header", "Authorization header is required.")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			httperr.Unauthorized(c, "invalid_authorization_header", "Expected a bearer token.")
			c.Abort()
			return
		}

		userID, err := creds.Resolve(parts[1])
		if err != nil {
			httperr.Unauthorized(c, "invalid_token", "Could not validate credentials.")
			c.Abort()
			return
		}

		var user models.User
		if err := db.First(&user, "id = ?", userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				httperr.Unauthorized(c, "invalid_token", "Could not validate credentials.")
			} else {
				httperr.Internal(c, "internal_error", "Something went wrong.")
			}
			c.Abort()
			return
		}

		if !user.IsActive {
			httperr.Unauthorized(c, "inactive_user", "User account is inactive.")
			c.Abort()
			return
		}

		c.Set(ContextUser, &user)
		c.Next()
	}
}

// RequireSuperuser gates an already-authenticated route.
func RequireSuperuser() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			httperr.Unauthorized(c, "unauthenticated", "Authentication required.")
			c.Abort()
			return
		}
		if !user.IsSuperuser {
			httperr.Forbidden(c, "superuser_required", "The user doesn't have enough privileges.")
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentUser returns the user resolved by AuthMiddleware, or nil.
func CurrentUser(c *gin.Context) *models.User {
	v, ok := c.Get(ContextUser)
	if !ok {
		return nil
	}
	user, ok := v.(*models.User)
	if !ok {
		return nil
	}
	return user
}
