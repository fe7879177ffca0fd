package favorites

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/eventify/eventify-go/internal/app/middleware"
)

type FavoriteHandlers struct {
	favoriteService Service
	logger          *zap.Logger
}

func NewFavoriteHandlers(favoriteService Service, logger *zap.Logger) *FavoriteHandlers {
	return &FavoriteHandlers{
		favoriteService: favoriteService,
		logger:          logger,
	}
}

func (h *FavoriteHandlers) currentUser(c *gin.Context) (uuid.UUID, bool) {
	userIDStr := middleware.GetUserIDFromContext(c)
	if userIDStr == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return uuid.Nil, false
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		h.logger.Error("Invalid user ID in context", zap.String("user_id", userIDStr), zap.Error(err))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return uuid.Nil, false
	}
	return userID, true
}

func (h *FavoriteHandlers) GetFavoriteEvents(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	events := h.favoriteService.GetFavoriteEvents(c.Request.Context(), userID)
	c.JSON(http.StatusOK, gin.H{"data": events})
}

func (h *FavoriteHandlers) GetFavoriteVenues(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	venues := h.favoriteService.GetFavoriteVenues(c.Request.Context(), userID)
	c.JSON(http.StatusOK, gin.H{"data": venues})
}

func (h *FavoriteHandlers) AddEventFavorite(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	if !h.favoriteService.AddEventFavorite(c.Request.Context(), userID, eventID) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to add favorite"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"favorited": true})
}

func (h *FavoriteHandlers) RemoveEventFavorite(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	if !h.favoriteService.RemoveEventFavorite(c.Request.Context(), userID, eventID) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to remove favorite"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"favorited": false})
}

func (h *FavoriteHandlers) AddVenueFavorite(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	venueID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid venue id"})
		return
	}

	if !h.favoriteService.AddVenueFavorite(c.Request.Context(), userID, venueID) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to add favorite"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"favorited": true})
}

func (h *FavoriteHandlers) RemoveVenueFavorite(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	venueID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid venue id"})
		return
	}

	if !h.favoriteService.RemoveVenueFavorite(c.Request.Context(), userID, venueID) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to remove favorite"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"favorited": false})
}

func (h *FavoriteHandlers) IsEventFavorited(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	favorited := h.favoriteService.IsEventFavorited(c.Request.Context(), userID, eventID)
	c.JSON(http.StatusOK, gin.H{"favorited": favorited})
}

func (h *FavoriteHandlers) IsVenueFavorited(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	venueID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid venue id"})
		return
	}

	favorited := h.favoriteService.IsVenueFavorited(c.Request.Context(), userID, venueID)
	c.JSON(http.StatusOK, gin.H{"favorited": favorited})
}
