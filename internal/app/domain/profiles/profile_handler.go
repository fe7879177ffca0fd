package profiles

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/eventify/eventify-go/internal/app/middleware"
	"github.com/eventify/eventify-go/internal/app/models"
)

// maxAvatarSize caps uploads at 5 MiB before decoding.
const maxAvatarSize = 5 << 20

type ProfileHandlers struct {
	profileService Service
	logger         *zap.Logger
}

func NewProfileHandlers(profileService Service, logger *zap.Logger) *ProfileHandlers {
	return &ProfileHandlers{
		profileService: profileService,
		logger:         logger,
	}
}

func (h *ProfileHandlers) currentUser(c *gin.Context) (uuid.UUID, bool) {
	userIDStr := middleware.GetUserIDFromContext(c)
	if userIDStr == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return uuid.Nil, false
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return uuid.Nil, false
	}
	return userID, true
}

func (h *ProfileHandlers) GetProfile(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}

	profile, err := h.profileService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to fetch profile", zap.String("user_id", userID.String()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch profile"})
		return
	}
	if profile == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *ProfileHandlers) UpdateProfile(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}

	var params models.UpdateProfileParams
	if err := c.ShouldBindJSON(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid profile payload"})
		return
	}

	profile, err := h.profileService.UpdateProfile(c.Request.Context(), userID, params)
	if err != nil {
		h.logger.Error("Failed to update profile", zap.String("user_id", userID.String()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update profile"})
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *ProfileHandlers) UploadAvatar(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "avatar file is required"})
		return
	}
	if fileHeader.Size > maxAvatarSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "avatar too large"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read avatar file"})
		return
	}
	defer file.Close()

	profile, err := h.profileService.UploadAvatar(c.Request.Context(), userID, fileHeader.Filename, file)
	if err != nil {
		h.logger.Error("Failed to upload avatar", zap.String("user_id", userID.String()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to upload avatar"})
		return
	}
	c.JSON(http.StatusOK, profile)
}
