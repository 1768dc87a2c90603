package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/veltaro/facility-booking/internal/credentials"
	"github.com/veltaro/facility-booking/internal/middleware"
	"github.com/veltaro/facility-booking/internal/models"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Facility{},
		&models.Resource{},
		&models.Booking{},
		&models.RefreshToken{},
		&models.AuditLog{},
	))
	return db
}

func newAuthRouter(t *testing.T) (*gin.Engine, *gorm.DB, *credentials.Service) {
	t.Helper()

	gin.SetMode(gin.TestMode)
	db := openTestDB(t)
	creds := credentials.New("test-secret", 30*time.Minute, 14*24*time.Hour)
	h := NewAuthHandler(db, creds)

	r := gin.New()
	r.POST("/auth/signup", h.Signup)
	r.POST("/auth/login", h.Login)
	r.POST("/auth/refresh", h.Refresh)
	r.POST("/auth/logout", middleware.AuthMiddleware(creds, db), h.Logout)
	return r, db, creds
}

func seedAccount(t *testing.T, db *gorm.DB, email, password string, active bool) *models.User {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{
		FullName:     "Test User",
		Email:        email,
		PasswordHash: string(hashed),
		IsActive:     active,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func postJSON(r *gin.Engine, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	buf, _ := json.Marshal(body)
	req := httptest.NewRequest("POST", path, bytes.NewReader(buf))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestLogin(t *testing.T) {
	r, db, creds := newAuthRouter(t)
	seedAccount(t, db, "alice@example.com", "correct horse", true)
	seedAccount(t, db, "dormant@example.com", "correct horse", false)

	t.Run("valid credentials issue a token pair", func(t *testing.T) {
		w := postJSON(r, "/auth/login", gin.H{
			"email":    "alice@example.com",
			"password": "correct horse",
		}, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			AccessToken  string `json:"access_token"`
			TokenType    string `json:"token_type"`
			ExpiresIn    int    `json:"expires_in"`
			RefreshToken string `json:"refresh_token"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

		assert.Equal(t, "bearer", resp.TokenType)
		assert.Equal(t, 1800, resp.ExpiresIn)
		assert.NotEmpty(t, resp.RefreshToken)

		_, err := creds.Resolve(resp.AccessToken)
		require.NoError(t, err)
	})

	t.Run("email lookup is case insensitive", func(t *testing.T) {
		w := postJSON(r, "/auth/login", gin.H{
			"email":    "  ALICE@example.com ",
			"password": "correct horse",
		}, nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("wrong password", func(t *testing.T) {
		w := postJSON(r, "/auth/login", gin.H{
			"email":    "alice@example.com",
			"password": "wrong",
		}, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "invalid_credentials")
	})

	t.Run("unknown email answers exactly like a wrong password", func(t *testing.T) {
		w := postJSON(r, "/auth/login", gin.H{
			"email":    "nobody@example.com",
			"password": "whatever",
		}, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "invalid_credentials")
	})

	t.Run("inactive account is rejected", func(t *testing.T) {
		w := postJSON(r, "/auth/login", gin.H{
			"email":    "dormant@example.com",
			"password": "correct horse",
		}, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "inactive_user")
	})
}

func TestRefresh_RotatesToken(t *testing.T) {
	r, db, _ := newAuthRouter(t)
	seedAccount(t, db, "alice@example.com", "correct horse", true)

	login := postJSON(r, "/auth/login", gin.H{
		"email":    "alice@example.com",
		"password": "correct horse",
	}, nil)
	require.Equal(t, http.StatusOK, login.Code)

	var pair struct {
		RefreshToken string `json:"refresh_token"`
	}
	require.NoError(t, json.Unmarshal(login.Body.Bytes(), &pair))

	refresh := postJSON(r, "/auth/refresh", gin.H{"refresh_token": pair.RefreshToken}, nil)
	require.Equal(t, http.StatusOK, refresh.Code)

	var rotated struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	}
	require.NoError(t, json.Unmarshal(refresh.Body.Bytes(), &rotated))
	assert.NotEmpty(t, rotated.AccessToken)
	assert.NotEqual(t, pair.RefreshToken, rotated.RefreshToken)

	// the consumed token must be dead
	replay := postJSON(r, "/auth/refresh", gin.H{"refresh_token": pair.RefreshToken}, nil)
	assert.Equal(t, http.StatusUnauthorized, replay.Code)

	// the rotated one works
	again := postJSON(r, "/auth/refresh", gin.H{"refresh_token": rotated.RefreshToken}, nil)
	assert.Equal(t, http.StatusOK, again.Code)
}

func TestRefresh_Expired(t *testing.T) {
	r, db, _ := newAuthRouter(t)
	user := seedAccount(t, db, "alice@example.com", "correct horse", true)

	plain, err := credentials.NewRefreshToken()
	require.NoError(t, err)
	require.NoError(t, db.Create(&models.RefreshToken{
		UserID:    user.ID,
		TokenHash: credentials.HashRefreshToken(plain),
		ExpiresAt: time.Now().Add(-time.Minute),
	}).Error)

	w := postJSON(r, "/auth/refresh", gin.H{"refresh_token": plain}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogout(t *testing.T) {
	r, db, _ := newAuthRouter(t)
	seedAccount(t, db, "alice@example.com", "correct horse", true)

	login := postJSON(r, "/auth/login", gin.H{
		"email":    "alice@example.com",
		"password": "correct horse",
	}, nil)
	require.Equal(t, http.StatusOK, login.Code)

	var pair struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	}
	require.NoError(t, json.Unmarshal(login.Body.Bytes(), &pair))

	headers := map[string]string{"Authorization": "Bearer " + pair.AccessToken}

	w := postJSON(r, "/auth/logout", gin.H{"refresh_token": pair.RefreshToken}, headers)
	assert.Equal(t, http.StatusNoContent, w.Code)

	replay := postJSON(r, "/auth/refresh", gin.H{"refresh_token": pair.RefreshToken}, nil)
	assert.Equal(t, http.StatusUnauthorized, replay.Code)
}

func TestLogout_StoreFailureIsNot204(t *testing.T) {
	r, db, _ := newAuthRouter(t)
	seedAccount(t, db, "alice@example.com", "correct horse", true)

	login := postJSON(r, "/auth/login", gin.H{
		"email":    "alice@example.com",
		"password": "correct horse",
	}, nil)
	require.Equal(t, http.StatusOK, login.Code)

	var pair struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	}
	require.NoError(t, json.Unmarshal(login.Body.Bytes(), &pair))

	// break the token store so the revocation cannot succeed
	require.NoError(t, db.Exec("DROP TABLE refresh_tokens").Error)

	w := postJSON(r, "/auth/logout", gin.H{"refresh_token": pair.RefreshToken},
		map[string]string{"Authorization": "Bearer " + pair.AccessToken})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestSignup_Validation(t *testing.T) {
	r, _, _ := newAuthRouter(t)

	t.Run("missing fields", func(t *testing.T) {
		w := postJSON(r, "/auth/signup", gin.H{"email": "a@example.com"}, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("short password", func(t *testing.T) {
		w := postJSON(r, "/auth/signup", gin.H{
			"full_name": "Test User",
			"email":     "a@example.com",
			"password":  "short",
		}, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := openTestDB(t)
	creds := credentials.New("test-secret", 30*time.Minute, time.Hour)

	r := gin.New()
	r.GET("/protected", middleware.AuthMiddleware(creds, db), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": middleware.CurrentUser(c).ID})
	})

	get := func(authorization string) *httptest.ResponseRecorder {
		req := httptest.NewRequest("GET", "/protected", nil)
		if authorization != "" {
			req.Header.Set("Authorization", authorization)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	user := seedAccount(t, db, "alice@example.com", "pw-not-used", true)
	inactive := seedAccount(t, db, "dormant@example.com", "pw-not-used", false)

	t.Run("valid token", func(t *testing.T) {
		token, err := creds.Issue(user.ID)
		require.NoError(t, err)

		w := get("Bearer " + token)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), user.ID.String())
	})

	t.Run("missing header", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, get("").Code)
	})

	t.Run("malformed header", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, get("Token abc").Code)
	})

	t.Run("token for deleted user", func(t *testing.T) {
		token, err := creds.Issue(uuid.New())
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, get("Bearer "+token).Code)
	})

	t.Run("token for inactive user", func(t *testing.T) {
		token, err := creds.Issue(inactive.ID)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, get("Bearer "+token).Code)
	})
}
