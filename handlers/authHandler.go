package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/ececomak/Dental-Appointment/services"
	"github.com/ececomak/Dental-Appointment/utils"
)

type AuthHandler struct {
	service *services.AuthService
}

func NewAuthHandler(service *services.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

// Login authenticates the account and sets the auth cookies.
func (h *AuthHandler) Login(c *gin.Context) {
	var credentials struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&credentials); err != nil {
		c.JSON(400, gin.H{"error": "Invalid request body"})
		return
	}

	account, err := h.service.Authenticate(c.Request.Context(), credentials.Email, credentials.Password)
	if err != nil {
		c.JSON(401, gin.H{"error": "Invalid email or password"})
		return
	}

	accessToken, refreshToken, err := utils.GenerateTokens(account.Email, account.Role)
	if err != nil {
		c.JSON(500, gin.H{"error": "Failed to generate tokens"})
		return
	}
	utils.SetAuthCookies(c, accessToken, refreshToken)

	c.JSON(200, gin.H{
		"accessToken":  accessToken,
		"refreshToken": refreshToken,
		"email":        account.Email,
		"role":         account.Role,
	})
}

// RefreshToken issues a fresh access token from a still-valid one.
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	token, err := c.Cookie("refreshToken")
	if err != nil || token == "" {
		token = c.DefaultQuery("accessToken", "")
	}
	if token == "" {
		c.JSON(400, gin.H{"error": "access token is required"})
		return
	}

	claims, err := utils.ValidateToken(token)
	if err != nil {
		c.JSON(401, gin.H{"error": "Invalid access token"})
		return
	}

	accessToken, err := utils.GenerateAccessToken(claims.Email, claims.Role)
	if err != nil {
		c.JSON(500, gin.H{"error": "Failed to generate access token"})
		return
	}
	c.JSON(200, gin.H{"accessToken": accessToken})
}

// Logoff clears the auth cookies.
func (h *AuthHandler) Logoff(c *gin.Context) {
	utils.ClearAuthCookies(c)
	c.Status(200)
}
