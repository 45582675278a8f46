package handlers

import (
	"tripshare/internal/middleware"
	"tripshare/internal/services"
	"tripshare/internal/utils"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService services.AuthService
}

func NewAuthHandler(authService services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Login exchanges a provider-issued ID token for a backend session and
// token pair. Registration is implicit: an unknown verified identity
// gets a user record on first login.
func (h *AuthHandler) Login(c *gin.Context) {
	var request services.LoginRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}
	request.UserAgent = c.GetHeader("User-Agent")
	request.IPAddress = c.ClientIP()

	response, err := h.authService.Login(c.Request.Context(), &request)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Login successful", response)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	userID := middleware.CurrentUserID(c)
	if userID.IsZero() {
		utils.UnauthorizedResponse(c)
		return
	}

	if err := h.authService.Logout(c.Request.Context(), userID, middleware.CurrentSessionID(c)); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Logout successful", nil)
}

func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var request struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Refresh token is required")
		return
	}

	response, err := h.authService.RefreshToken(c.Request.Context(), request.RefreshToken)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Token refreshed successfully", response)
}

// RevokeAllSessions force-logs-out every device of the caller.
func (h *AuthHandler) RevokeAllSessions(c *gin.Context) {
	userID := middleware.CurrentUserID(c)
	if userID.IsZero() {
		utils.UnauthorizedResponse(c)
		return
	}

	if err := h.authService.RevokeAllSessions(c.Request.Context(), userID); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "All sessions revoked", nil)
}
