package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/ececomak/Dental-Appointment/handlers"
	"github.com/ececomak/Dental-Appointment/middlewares"
)

type AuthController struct {
	Handler *handlers.AuthHandler
}

// NewAuthController creates a new AuthController with the given AuthHandler
func NewAuthController(authHandler *handlers.AuthHandler) *AuthController {
	return &AuthController{
		Handler: authHandler,
	}
}

// RegisterRoutes initializes all authentication routes directly on the router
func (ac *AuthController) RegisterRoutes(router *gin.Engine) {
	// Public routes: No authentication required
	router.POST("/auth/login", ac.Handler.Login)
	router.POST("/auth/refresh-token", ac.Handler.RefreshToken)

	// Protected routes: Requires a valid token
	authGroup := router.Group("/auth").Use(middlewares.TokenAuthMiddleware())
	{
		authGroup.POST("/logoff", ac.Handler.Logoff)
	}
}
