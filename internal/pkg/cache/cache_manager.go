package cache

import (
	"time"

	"go.uber.org/zap"

	"github.com/eventify/eventify-go/internal/app/models"
)

// Documented cache keys. Callers outside this package must use these
// constants rather than raw strings.
const (
	KeyAllEvents      = "events_all"
	KeyFeaturedEvents = "events_featured"
	KeyPopularEvents  = "events_popular"
	KeyEventCities    = "events_cities"
	KeyPopularVenues  = "venues_popular"
	KeyAllCategories  = "categories_all"

	// KeyVenueEventsPrefix is completed with the venue id.
	KeyVenueEventsPrefix = "venue_events_"
)

// KeyVenueEvents builds the per-venue event list key.
func KeyVenueEvents(venueID string) string {
	return KeyVenueEventsPrefix + venueID
}

// Manager holds all application caches. It is constructed explicitly and
// injected into the data access services so the advisory nature of the cache
// is visible at every call site.
type Manager struct {
	// Event collections (slow-changing catalog data, longest TTL)
	Events         *Cache[[]models.Event]
	FeaturedEvents *Cache[[]models.Event]
	PopularEvents  *Cache[[]models.Event]
	Cities         *Cache[[]string]

	// Venue data
	PopularVenues *Cache[[]models.Venue]
	VenueEvents   *Cache[[]models.Event]

	// Category list
	Categories *Cache[[]models.Category]
}

// TTLs groups the per-entity cache durations.
type TTLs struct {
	Events     time.Duration
	Venues     time.Duration
	Categories time.Duration
}

// DefaultTTLs: event collections are cached for an hour, venue data for ten
// minutes, categories in between.
func DefaultTTLs() TTLs {
	return TTLs{
		Events:     60 * time.Minute,
		Venues:     10 * time.Minute,
		Categories: 30 * time.Minute,
	}
}

// NewManager creates a cache manager with the given TTLs.
func NewManager(ttls TTLs, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		Events:         New[[]models.Event](ttls.Events, "events", logger),
		FeaturedEvents: New[[]models.Event](ttls.Events, "events_featured", logger),
		PopularEvents:  New[[]models.Event](ttls.Events, "events_popular", logger),
		Cities:         New[[]string](ttls.Events, "event_cities", logger),
		PopularVenues:  New[[]models.Venue](ttls.Venues, "venues_popular", logger),
		VenueEvents:    New[[]models.Event](ttls.Venues, "venue_events", logger),
		Categories:     New[[]models.Category](ttls.Categories, "categories", logger),
	}
}

// GetAllMetrics returns metrics for all caches.
func (m *Manager) GetAllMetrics() map[string]Metrics {
	return map[string]Metrics{
		"events":          m.Events.GetMetrics(),
		"events_featured": m.FeaturedEvents.GetMetrics(),
		"events_popular":  m.PopularEvents.GetMetrics(),
		"event_cities":    m.Cities.GetMetrics(),
		"venues_popular":  m.PopularVenues.GetMetrics(),
		"venue_events":    m.VenueEvents.GetMetrics(),
		"categories":      m.Categories.GetMetrics(),
	}
}

// ClearAll drops every cached collection.
func (m *Manager) ClearAll() {
	m.Events.Clear()
	m.FeaturedEvents.Clear()
	m.PopularEvents.Clear()
	m.Cities.Clear()
	m.PopularVenues.Clear()
	m.VenueEvents.Clear()
	m.Categories.Clear()
}

// ResetSessionScoped clears the caches whose contents may differ between
// signed-in sessions. Catalog data (events, venues, categories, cities) is
// user-independent and survives a sign-out.
func (m *Manager) ResetSessionScoped() {
	m.PopularEvents.Clear()
	m.FeaturedEvents.Clear()
}
