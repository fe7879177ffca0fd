package events

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/eventify/eventify-go/internal/app/models"
	"github.com/eventify/eventify-go/internal/app/observability/metrics"
	"github.com/eventify/eventify-go/internal/pkg/eventfilter"
)

type EventHandlers struct {
	eventService Service
	logger       *zap.Logger
}

func NewEventHandlers(eventService Service, logger *zap.Logger) *EventHandlers {
	return &EventHandlers{
		eventService: eventService,
		logger:       logger,
	}
}

// listResponse is the envelope for best-effort list reads. Source tells the
// client whether it is looking at live, cached or stale data.
type listResponse[T any] struct {
	Data   T                 `json:"data"`
	Source models.DataSource `json:"source"`
}

func listJSON[T any](c *gin.Context, result models.Result[T]) {
	if result.Reason != nil {
		metrics.RecordDBQueryError(c.Request.Context(), c.FullPath())
	}
	if result.Source == models.SourceNone {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "data temporarily unavailable"})
		return
	}
	c.JSON(http.StatusOK, listResponse[T]{Data: result.Data, Source: result.Source})
}

func (h *EventHandlers) GetEvents(c *gin.Context) {
	result := h.eventService.GetAllEvents(c.Request.Context())
	if result.Degraded() {
		h.logger.Warn("serving degraded event list", zap.String("source", string(result.Source)), zap.Error(result.Reason))
	}
	listJSON(c, result)
}

func (h *EventHandlers) GetEvent(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	event, err := h.eventService.GetEventByID(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("Failed to fetch event", zap.String("event_id", id.String()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch event"})
		return
	}
	if event == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
		return
	}
	c.JSON(http.StatusOK, event)
}

func (h *EventHandlers) GetFeaturedEvents(c *gin.Context) {
	limit := parseLimit(c, defaultFeaturedLimit)
	listJSON(c, h.eventService.GetFeaturedEvents(c.Request.Context(), limit))
}

func (h *EventHandlers) GetPopularEvents(c *gin.Context) {
	limit := parseLimit(c, defaultPopularLimit)
	listJSON(c, h.eventService.GetPopularEvents(c.Request.Context(), limit))
}

func (h *EventHandlers) GetEventsByCategory(c *gin.Context) {
	categoryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category id"})
		return
	}

	events, err := h.eventService.GetEventsByCategory(c.Request.Context(), categoryID)
	if err != nil {
		h.logger.Error("Failed to fetch category events", zap.String("category_id", categoryID.String()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch events"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": events})
}

func (h *EventHandlers) SearchEvents(c *gin.Context) {
	query := c.Query("q")
	filters := eventfilter.Filters{
		City:      c.Query("city"),
		Window:    eventfilter.DateWindow(c.Query("date")),
		PriceBand: eventfilter.PriceBand(c.Query("price")),
		Limit:     parseLimit(c, 0),
	}

	listJSON(c, h.eventService.SearchEvents(c.Request.Context(), query, filters))
}

func (h *EventHandlers) GetEventCities(c *gin.Context) {
	listJSON(c, h.eventService.GetUniqueEventCities(c.Request.Context()))
}

func parseLimit(c *gin.Context, fallback int) int {
	raw := c.Query("limit")
	if raw == "" {
		return fallback
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		return fallback
	}
	return limit
}
