package routes

import (
	"time"

	"relocare/handlers"
	"relocare/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORSMiddleware allows the marketing site and admin area to call the API.
func CORSMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowOriginFunc = func(string) bool { return true }
	} else {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", handlers.Health)
}

// RegisterPublicRoutes registers the booking form and catalogue endpoints.
func RegisterPublicRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api")
	{
		api.POST("/bookings", middleware.RateLimitMiddleware(hb.MaxRequestsPerMin), hb.Bookings.CreateBooking)
		api.GET("/services", hb.Catalog.GetAvailableServices)
		api.GET("/services/:id", hb.Catalog.GetServiceByID)
	}
}

// RegisterSessionRoutes registers endpoints open to any signed-in user.
func RegisterSessionRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/auth")
	{
		api.Use(middleware.SessionAuth(hb.JWTSecret, hb.UserRepo, hb.RoleCache))
		api.GET("/session", hb.Session.GetSession)
	}
}

// RegisterBookingRoutes registers the booking endpoints that need an admin session.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	bookings := r.Group("/api/bookings")
	{
		bookings.Use(middleware.SessionAuth(hb.JWTSecret, hb.UserRepo, hb.RoleCache), middleware.RequireAdmin())
		bookings.GET("", hb.Bookings.ListBookings)
		bookings.GET("/:bookingId", hb.Bookings.GetBooking)
		bookings.PUT("/:bookingId", hb.Bookings.UpdateBookingStatus)
		bookings.DELETE("/:bookingId", hb.Bookings.DeleteBooking)
	}
}

// RegisterAdminRoutes registers the admin area.
func RegisterAdminRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	admin := r.Group("/api/admin")
	admin.Use(middleware.SessionAuth(hb.JWTSecret, hb.UserRepo, hb.RoleCache), middleware.RequireAdmin())

	bookings := admin.Group("/bookings")
	{
		bookings.GET("", hb.Admin.ListAdminBookings)
		bookings.GET("/stats", hb.Admin.GetBookingStats)
		bookings.GET("/:bookingId", hb.Admin.GetBooking)
		bookings.PUT("/:bookingId", hb.Admin.UpdateAdminBooking)
		bookings.DELETE("/:bookingId", hb.Admin.DeleteBooking)
	}

	services := admin.Group("/services")
	{
		services.GET("", hb.Catalog.ListServices)
		services.POST("", hb.Catalog.CreateService)
		services.GET("/:id", hb.Catalog.GetService)
		services.PUT("/:id", hb.Catalog.UpdateService)
		services.DELETE("/:id", hb.Catalog.DeleteService)

		services.GET("/:id/sub-services", hb.Catalog.ListSubServices)
		services.POST("/:id/sub-services", hb.Catalog.CreateSubService)
		services.GET("/:id/sub-services/:subId", hb.Catalog.GetSubService)
		services.PUT("/:id/sub-services/:subId", hb.Catalog.UpdateSubService)
		services.DELETE("/:id/sub-services/:subId", hb.Catalog.DeleteSubService)
	}

	admin.POST("/maintenance/orphan-sub-services", hb.Catalog.SweepOrphanSubServices)

	users := admin.Group("/users")
	{
		users.GET("", hb.Admin.GetAllUsersHandler)
		users.GET("/:id", hb.Admin.GetUserHandler)
		users.PUT("/:id/role", hb.Admin.UpdateUserRoleHandler)
	}
}

// Setup builds the engine with the middleware chain and every route group.
func Setup(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(CORSMiddleware(hb.AllowedOrigins))
	RegisterHealthRoute(r)
	RegisterPublicRoutes(r, hb)
	RegisterSessionRoutes(r, hb)
	RegisterBookingRoutes(r, hb)
	RegisterAdminRoutes(r, hb)
}
