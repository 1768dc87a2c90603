package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/veltaro/facility-booking/internal/audit"
	"github.com/veltaro/facility-booking/internal/config"
	"github.com/veltaro/facility-booking/internal/credentials"
	domainBooking "github.com/veltaro/facility-booking/internal/domain/booking"
	"github.com/veltaro/facility-booking/internal/handlers"
	infraRepo "github.com/veltaro/facility-booking/internal/infra/repository"
	"github.com/veltaro/facility-booking/internal/middleware"
	"github.com/veltaro/facility-booking/internal/storage"
	ucBooking "github.com/veltaro/facility-booking/internal/usecase/booking"
)

func RegisterRoutes(
	r *gin.Engine,
	db *gorm.DB,
	cfg *config.Config,
	log zerolog.Logger,
	rdb *redis.Client,
) {

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	creds := credentials.New(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

	bookingRepo := infraRepo.NewBookingGormRepository(db)
	catalogRepo := infraRepo.NewCatalogGormRepository(db)
	resourceLocks := domainBooking.NewResourceLocker()

	auditLogger := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLogger, log)

	avatarStore := storage.NewAvatarStore(cfg.Storage)

	// ======================================================
	// USE CASES - BOOKINGS
	// ======================================================
	createBookingUC := ucBooking.NewCreateBooking(bookingRepo, resourceLocks, auditDispatcher)
	updateBookingUC := ucBooking.NewUpdateBooking(bookingRepo, resourceLocks, auditDispatcher)
	deleteBookingUC := ucBooking.NewDeleteBooking(bookingRepo, auditDispatcher)
	getBookingUC := ucBooking.NewGetBooking(bookingRepo)
	listBookingsUC := ucBooking.NewListBookings(bookingRepo)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, creds)
	meHandler := handlers.NewMeHandler(db, avatarStore)
	userHandler := handlers.NewUserHandler(db)
	facilityHandler := handlers.NewFacilityHandler(db, catalogRepo)
	resourceHandler := handlers.NewResourceHandler(db, catalogRepo)

	bookingHandler := handlers.NewBookingHandler(
		createBookingUC,
		updateBookingUC,
		deleteBookingUC,
		getBookingUC,
		listBookingsUC,
	)

	authRequired := middleware.AuthMiddleware(creds, db)
	superuserOnly := middleware.RequireSuperuser()
	cached := middleware.CacheGET(rdb, cfg.CacheTTL)

	api := r.Group("/api/v1")
	{
		// ------------------------------
		// AUTH
		// ------------------------------
		api.POST("/auth/signup", authHandler.Signup)
		api.POST("/auth/login", authHandler.Login)
		api.POST("/auth/refresh", authHandler.Refresh)
		api.POST("/auth/logout", authRequired, authHandler.Logout)

		// ------------------------------
		// PROFILE
		// ------------------------------
		me := api.Group("/me", authRequired)
		{
			me.GET("", meHandler.GetMe)
			me.PATCH("", meHandler.UpdateMe)
			me.POST("/avatar", meHandler.UploadAvatar)
		}

		// ------------------------------
		// USER ADMINISTRATION
		// ------------------------------
		users := api.Group("/users", authRequired, superuserOnly)
		{
			users.GET("", userHandler.List)
			users.GET("/:id", userHandler.Get)
			users.PATCH("/:id", userHandler.Update)
			users.DELETE("/:id", userHandler.Delete)
		}

		// ------------------------------
		// FACILITIES
		// ------------------------------
		api.GET("/facilities", cached, facilityHandler.List)
		api.GET("/facilities/:id", cached, facilityHandler.Get)
		api.GET("/facilities/:id/resources", cached, resourceHandler.ListByFacility)
		facilities := api.Group("/facilities", authRequired, superuserOnly)
		{
			facilities.POST("", facilityHandler.Create)
			facilities.PUT("/:id", facilityHandler.Update)
			facilities.DELETE("/:id", facilityHandler.Delete)
		}

		// ------------------------------
		// RESOURCES
		// ------------------------------
		api.GET("/resources/:id", resourceHandler.Get)
		resources := api.Group("/resources", authRequired, superuserOnly)
		{
			resources.GET("", resourceHandler.List)
			resources.POST("", resourceHandler.Create)
			resources.PUT("/:id", resourceHandler.Update)
			resources.DELETE("/:id", resourceHandler.Delete)
		}

		// ------------------------------
		// BOOKINGS
		// ------------------------------
		api.POST("/facilities/:id/bookings", authRequired, bookingHandler.Create)
		bookings := api.Group("/bookings", authRequired)
		{
			bookings.GET("", bookingHandler.List)
			bookings.GET("/:id", bookingHandler.Get)
			bookings.PUT("/:id", bookingHandler.Update)
			bookings.DELETE("/:id", bookingHandler.Delete)
		}
	}
}
