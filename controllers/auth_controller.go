package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"camsapi/middleware"
	"camsapi/pkg/logger"
	"camsapi/services"
	"camsapi/services/dto"
	"camsapi/utils"
)

var authSrv services.AuthService

// SetAuthService initializes the auth service instance.
// Used for dependency injection in tests to provide mock implementations.
func SetAuthService(s services.AuthService) {
	authSrv = s
}

// Register creates a new user account
// @Summary Register a new account
// @Description Creates a user with the default role after enforcing the password policy
// @Tags Auth
// @Accept json
// @Produce json
// @Param account body dto.RegisterRequest true "Account details"
// @Success 201 {object} dto.UserResponse "Account created"
// @Failure 400 {object} map[string]interface{} "Validation error"
// @Router /api/auth/register [post]
func register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BindError(c, err)
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.ErrorResponse(c, err)
		return
	}

	user, err := authSrv.Register(c.Request.Context(), req, clientInfo(c))
	if err != nil {
		logger.Warnf("Registration failed for %s: %v", req.Username, err)
		utils.ErrorResponse(c, err)
		return
	}
	logger.Infof("Registered user %s with ID %d", user.Username, user.ID)
	utils.JSONResponse(c, http.StatusCreated, user)
}

// Login authenticates a user
// @Summary Log in
// @Description Verifies credentials and issues an access token and rotating refresh token
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body dto.LoginRequest true "Credentials"
// @Success 200 {object} dto.TokenResponse "Token pair"
// @Failure 400 {object} map[string]interface{} "Invalid credentials"
// @Router /api/auth/login [post]
func login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BindError(c, err)
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.ErrorResponse(c, err)
		return
	}

	tokensResp, err := authSrv.Login(c.Request.Context(), req, clientInfo(c))
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	utils.JSONResponse(c, http.StatusOK, tokensResp)
}

// Refresh rotates the refresh token
// @Summary Refresh tokens
// @Description Exchanges a valid refresh token for a new token pair
// @Tags Auth
// @Accept json
// @Produce json
// @Param token body dto.RefreshRequest true "Refresh token"
// @Success 200 {object} dto.TokenResponse "New token pair"
// @Failure 400 {object} map[string]interface{} "Invalid or expired refresh token"
// @Router /api/auth/refresh [post]
func refresh(c *gin.Context) {
	var req dto.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BindError(c, err)
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.ErrorResponse(c, err)
		return
	}

	tokensResp, err := authSrv.Refresh(c.Request.Context(), req.RefreshToken, clientInfo(c))
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	utils.JSONResponse(c, http.StatusOK, tokensResp)
}

// Logout clears the caller's refresh token
// @Summary Log out
// @Description Invalidates the caller's refresh token
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Logged out"
// @Failure 401 {object} map[string]interface{} "Not authenticated"
// @Router /api/auth/logout [post]
func logout(c *gin.Context) {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "authentication required"})
		return
	}

	if err := authSrv.Logout(c.Request.Context(), claims.UserID, clientInfo(c)); err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	utils.JSONResponse(c, http.StatusOK, gin.H{"message": "logged out"})
}

// RegisterAuthRoutes registers authentication routes
func RegisterAuthRoutes(rg *gin.RouterGroup) {
	if authSrv == nil {
		authSrv = services.NewAuthService(tokens)
	}

	auth := rg.Group("/auth")
	{
		auth.POST("/register", register)
		auth.POST("/login", login)
		auth.POST("/refresh", refresh)
		auth.POST("/logout", requireAuth(), logout)
	}
}
