package handlers

import (
	"tripshare/internal/middleware"
	"tripshare/internal/services"
	"tripshare/internal/utils"
	"tripshare/internal/validators"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserHandler struct {
	userService services.UserService
}

func NewUserHandler(userService services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

func (h *UserHandler) GetMyProfile(c *gin.Context) {
	userID := middleware.CurrentUserID(c)
	if userID.IsZero() {
		utils.UnauthorizedResponse(c)
		return
	}

	user, err := h.userService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Profile retrieved successfully", user)
}

func (h *UserHandler) GetUserProfile(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid user ID")
		return
	}

	user, err := h.userService.GetPublicProfile(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Profile retrieved successfully", user)
}

func (h *UserHandler) UpdateMyProfile(c *gin.Context) {
	userID := middleware.CurrentUserID(c)
	if userID.IsZero() {
		utils.UnauthorizedResponse(c)
		return
	}

	var request services.UpdateProfileRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}

	if errs := validators.ValidateProfileUpdate(&request); len(errs) > 0 {
		respondValidationErrors(c, errs)
		return
	}

	user, err := h.userService.UpdateProfile(c.Request.Context(), userID, &request)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Profile updated successfully", user)
}

func (h *UserHandler) GetUserStats(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid user ID")
		return
	}

	stats, err := h.userService.GetUserStats(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Stats retrieved successfully", stats)
}

// UploadAvatar accepts a multipart image, scales it down and stores it.
func (h *UserHandler) UploadAvatar(c *gin.Context) {
	userID := middleware.CurrentUserID(c)
	if userID.IsZero() {
		utils.UnauthorizedResponse(c)
		return
	}

	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		utils.BadRequestResponse(c, "Avatar file is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		utils.BadRequestResponse(c, "Could not read avatar file")
		return
	}
	defer file.Close()

	url, err := h.userService.UploadAvatar(c.Request.Context(), userID, file, fileHeader.Filename, fileHeader.Size)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Avatar updated successfully", gin.H{"avatar": url})
}

func (h *UserHandler) CreateReview(c *gin.Context) {
	userID := middleware.CurrentUserID(c)
	if userID.IsZero() {
		utils.UnauthorizedResponse(c)
		return
	}

	var request services.CreateReviewRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}

	if errs := validators.ValidateCreateReview(&request); len(errs) > 0 {
		respondValidationErrors(c, errs)
		return
	}

	review, err := h.userService.CreateReview(c.Request.Context(), userID, &request)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, "Review created successfully", review)
}

func (h *UserHandler) GetUserReviews(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid user ID")
		return
	}

	params := utils.GetPaginationParams(c)
	reviews, total, err := h.userService.GetUserReviews(c.Request.Context(), userID, params)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, "Reviews retrieved successfully", reviews, &utils.Meta{
		Pagination: utils.CreatePaginationMeta(params, total),
		Total:      total,
		Count:      len(reviews),
	})
}

func (h *UserHandler) GetTripReviews(c *gin.Context) {
	tripID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid trip ID")
		return
	}

	params := utils.GetPaginationParams(c)
	reviews, total, err := h.userService.GetTripReviews(c.Request.Context(), tripID, params)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, "Reviews retrieved successfully", reviews, &utils.Meta{
		Pagination: utils.CreatePaginationMeta(params, total),
		Total:      total,
		Count:      len(reviews),
	})
}
