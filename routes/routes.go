package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ececomak/Dental-Appointment/cache"
	"github.com/ececomak/Dental-Appointment/config"
	"github.com/ececomak/Dental-Appointment/controllers"
	"github.com/ececomak/Dental-Appointment/handlers"
	"github.com/ececomak/Dental-Appointment/middlewares"
	"github.com/ececomak/Dental-Appointment/repositories"
	"github.com/ececomak/Dental-Appointment/services"
)

// SetupRoutes initializes the routes and middleware for the server
func SetupRoutes(cache *cache.Cache, config *config.AppConfig, db *gorm.DB) http.Handler {
	// Set Gin to release mode
	gin.SetMode(gin.ReleaseMode)

	// Create a Gin router
	router := gin.Default()

	// Apply Bearer token validation to all routes
	router.Use(middlewares.ValidateBearerToken(config.GetBearerToken()))

	// Create and apply CORS middleware configuration
	corsConfig := &middlewares.CorsConfig{
		AllowedOrigins:   []string{"http://localhost:3000", "https://www.example.com", "https://example-dev.com"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}
	router.Use(middlewares.CorsMiddleware(corsConfig))

	// Apply rate limiter middleware
	router.Use(middlewares.NewRateLimiterMiddleware(middlewares.RateLimiterConfig{
		RequestsPerSecond: 15, // 15 requests per second
		Burst:             30, // Burst of 30
	}))

	// Apply logging middleware
	router.Use(middlewares.LoggingMiddleware())

	// Initialize repositories, services, and handlers
	appointmentRepo := repositories.NewAppointmentRepository(cache)
	invoiceRepo := repositories.NewInvoiceRepository(cache)
	patientRepo := repositories.NewPatientRepository(cache)
	dentistRepo := repositories.NewDentistRepository(cache)
	treatmentRepo := repositories.NewTreatmentRepository(cache)
	userRepo := repositories.NewUserRepository()

	appointmentService := services.NewAppointmentService(appointmentRepo, patientRepo, dentistRepo, treatmentRepo, invoiceRepo)
	slotService := services.NewSlotService(appointmentRepo, dentistRepo, treatmentRepo)
	billingService := services.NewBillingService(invoiceRepo)
	authService := services.NewAuthService(userRepo)

	appointmentHandler := handlers.NewAppointmentHandler(appointmentService, slotService)
	invoiceHandler := handlers.NewInvoiceHandler(billingService)
	authHandler := handlers.NewAuthHandler(authService)
	catalogHandler := handlers.NewCatalogHandler(services.NewDentistService(dentistRepo), services.NewTreatmentService(treatmentRepo))

	// Register routes
	controllers.SetupAppointmentRoutes(router, appointmentHandler, invoiceHandler, catalogHandler)

	authController := controllers.NewAuthController(authHandler)
	authController.RegisterRoutes(router)

	controllers.SetupRootRoute(router)

	return router
}
