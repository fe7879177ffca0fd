package venues

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/eventify/eventify-go/internal/app/models"
)

type VenueHandlers struct {
	venueService Service
	logger       *zap.Logger
}

func NewVenueHandlers(venueService Service, logger *zap.Logger) *VenueHandlers {
	return &VenueHandlers{
		venueService: venueService,
		logger:       logger,
	}
}

func (h *VenueHandlers) GetVenues(c *gin.Context) {
	venues, err := h.venueService.GetAllVenues(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to fetch venues", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch venues"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": venues})
}

func (h *VenueHandlers) GetVenue(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid venue id"})
		return
	}

	venue, err := h.venueService.GetVenueByID(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("Failed to fetch venue", zap.String("venue_id", id.String()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch venue"})
		return
	}
	if venue == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "venue not found"})
		return
	}
	c.JSON(http.StatusOK, venue)
}

func (h *VenueHandlers) GetPopularVenues(c *gin.Context) {
	limit := defaultPopularVenuesLimit
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	result := h.venueService.GetPopularVenues(c.Request.Context(), limit)
	if result.Source == models.SourceNone {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "data temporarily unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": result.Data, "source": result.Source})
}

func (h *VenueHandlers) GetVenueEvents(c *gin.Context) {
	venueID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid venue id"})
		return
	}

	result := h.venueService.GetVenueEvents(c.Request.Context(), venueID)
	if result.Source == models.SourceNone {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "data temporarily unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": result.Data, "source": result.Source})
}
