package routes

import (
	"time"

	"storehub-backend/handlers"
	"storehub-backend/middleware"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func SetupRoutes(r *gin.Engine, db *gorm.DB) {
	// Initialize handlers
	authHandler := &handlers.AuthHandler{DB: db}
	storeHandler := &handlers.StoreHandler{DB: db}
	addressHandler := &handlers.AddressHandler{DB: db}
	openingHoursHandler := &handlers.OpeningHoursHandler{DB: db}

	api := r.Group("/api")

	// Auth routes, rate limited against credential guessing
	authLimiter := middleware.NewRateLimiter(10, time.Minute)
	api.POST("/auth/register", authLimiter.Middleware(), authHandler.Register)
	api.POST("/auth/login", authLimiter.Middleware(), authHandler.Login)
	api.POST("/auth/refresh", authHandler.RefreshTokenHandler)

	// Every resource route requires a bearer token
	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware())
	{
		protected.GET("/auth/profile", authHandler.GetProfile)

		protected.GET("/stores", storeHandler.ListStores)
		protected.POST("/stores", storeHandler.CreateStore)
		protected.GET("/stores/:id", storeHandler.GetStore)
		protected.PUT("/stores/:id", storeHandler.UpdateStore)
		protected.DELETE("/stores/:id", storeHandler.DeleteStore)

		protected.GET("/addresses", addressHandler.ListAddresses)
		protected.POST("/addresses", addressHandler.CreateAddress)
		protected.GET("/addresses/:id", addressHandler.GetAddress)
		protected.PUT("/addresses/:id", addressHandler.UpdateAddress)
		protected.DELETE("/addresses/:id", addressHandler.DeleteAddress)

		protected.GET("/openinghours", openingHoursHandler.ListOpeningHours)
		protected.POST("/openinghours", openingHoursHandler.CreateOpeningHours)
		protected.GET("/openinghours/:id", openingHoursHandler.GetOpeningHours)
		protected.PUT("/openinghours/:id", openingHoursHandler.UpdateOpeningHours)
		protected.DELETE("/openinghours/:id", openingHoursHandler.DeleteOpeningHours)
	}

	// Admin routes (require admin role)
	admin := api.Group("/admin")
	admin.Use(middleware.AuthMiddleware())
	admin.Use(middleware.AdminMiddleware())
	{
		admin.GET("/users", authHandler.ListUsers)
	}

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
}
