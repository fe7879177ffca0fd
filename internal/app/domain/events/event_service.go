package events

import (
	"context"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/eventify/eventify-go/internal/app/models"
	"github.com/eventify/eventify-go/internal/pkg/cache"
	"github.com/eventify/eventify-go/internal/pkg/eventfilter"
)

var _ Service = (*ServiceImpl)(nil)

// Service exposes best-effort event reads. Every list operation answers from
// the cache when it is fresh, refreshes from the repository otherwise, and on
// repository failure falls back to whatever stale copy the cache still holds.
// The returned Result records which of those paths produced the data.
type Service interface {
	GetAllEvents(ctx context.Context) models.Result[[]models.Event]
	GetEventByID(ctx context.Context, id uuid.UUID) (*models.Event, error)
	GetFeaturedEvents(ctx context.Context, limit int) models.Result[[]models.Event]
	GetPopularEvents(ctx context.Context, limit int) models.Result[[]models.Event]
	GetEventsByCategory(ctx context.Context, categoryID uuid.UUID) ([]models.Event, error)
	SearchEvents(ctx context.Context, query string, filters eventfilter.Filters) models.Result[[]models.Event]
	GetUniqueEventCities(ctx context.Context) models.Result[[]string]
}

const (
	defaultFeaturedLimit = 5
	defaultPopularLimit  = 8
)

type ServiceImpl struct {
	logger *zap.Logger
	repo   Repository
	cache  *cache.Manager
}

func NewService(repo Repository, cacheManager *cache.Manager, logger *zap.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger: logger,
		repo:   repo,
		cache:  cacheManager,
	}
}

func (s *ServiceImpl) GetAllEvents(ctx context.Context) models.Result[[]models.Event] {
	ctx, span := otel.Tracer("EventService").Start(ctx, "GetAllEvents")
	defer span.End()
	l := s.logger.With(zap.String("method", "GetAllEvents"))

	if events, expired, ok := s.cache.Events.Get(cache.KeyAllEvents); ok && !expired {
		return models.Cached(events)
	}

	events, err := s.repo.GetAll(ctx)
	if err != nil {
		l.Warn("failed to fetch events, trying stale cache", zap.Error(err))
		return s.staleEvents(cache.KeyAllEvents, err)
	}
	s.cache.Events.Set(cache.KeyAllEvents, events)
	return models.Fresh(events)
}

// GetEventByID fetches a single event. Not-found is nil, nil. A backend
// failure is still answered from the cached event list when the id is there.
func (s *ServiceImpl) GetEventByID(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	ctx, span := otel.Tracer("EventService").Start(ctx, "GetEventByID")
	defer span.End()
	span.SetAttributes(attribute.String("event.id", id.String()))
	l := s.logger.With(zap.String("method", "GetEventByID"), zap.String("event_id", id.String()))

	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		l.Warn("failed to fetch event, scanning cached list", zap.Error(err))
		if events, _, ok := s.cache.Events.Get(cache.KeyAllEvents); ok {
			for i := range events {
				if events[i].ID == id {
					return &events[i], nil
				}
			}
		}
		return nil, err
	}
	return event, nil
}

func (s *ServiceImpl) GetFeaturedEvents(ctx context.Context, limit int) models.Result[[]models.Event] {
	ctx, span := otel.Tracer("EventService").Start(ctx, "GetFeaturedEvents")
	defer span.End()
	l := s.logger.With(zap.String("method", "GetFeaturedEvents"))

	if limit <= 0 {
		limit = defaultFeaturedLimit
	}

	if events, expired, ok := s.cache.FeaturedEvents.Get(cache.KeyFeaturedEvents); ok && !expired {
		return models.Cached(events)
	}

	events, err := s.repo.GetFeatured(ctx, limit)
	if err != nil {
		l.Warn("failed to fetch featured events, trying stale cache", zap.Error(err))
		if events, _, ok := s.cache.FeaturedEvents.Get(cache.KeyFeaturedEvents); ok {
			return models.Stale(events, err)
		}
		return models.None[[]models.Event](err)
	}
	if len(events) == 0 {
		// An empty featured list usually means upstream curation lapsed;
		// prefer the previous non-empty snapshot and leave the cache alone.
		if stale, _, ok := s.cache.FeaturedEvents.Get(cache.KeyFeaturedEvents); ok && len(stale) > 0 {
			return models.Stale(stale, nil)
		}
		return models.Fresh(events)
	}
	s.cache.FeaturedEvents.Set(cache.KeyFeaturedEvents, events)
	return models.Fresh(events)
}

// GetPopularEvents samples the most recently created events across every
// category: one query per category, run concurrently, each asking for an
// equal share of the limit. A failure in any single query discards the whole
// batch so that one category never silently disappears from the mix.
func (s *ServiceImpl) GetPopularEvents(ctx context.Context, limit int) models.Result[[]models.Event] {
	ctx, span := otel.Tracer("EventService").Start(ctx, "GetPopularEvents")
	defer span.End()
	l := s.logger.With(zap.String("method", "GetPopularEvents"))

	if limit <= 0 {
		limit = defaultPopularLimit
	}

	if events, expired, ok := s.cache.PopularEvents.Get(cache.KeyPopularEvents); ok && !expired {
		return truncated(models.Cached(events), limit)
	}

	events, err := s.fetchPopular(ctx, limit)
	if err != nil {
		l.Warn("failed to fetch popular events, trying stale cache", zap.Error(err))
		if events, _, ok := s.cache.PopularEvents.Get(cache.KeyPopularEvents); ok {
			return truncated(models.Stale(events, err), limit)
		}
		return models.None[[]models.Event](err)
	}
	s.cache.PopularEvents.Set(cache.KeyPopularEvents, events)
	return truncated(models.Fresh(events), limit)
}

func (s *ServiceImpl) fetchPopular(ctx context.Context, limit int) ([]models.Event, error) {
	categoryIDs, err := s.repo.ListCategoryIDs(ctx)
	if err != nil {
		return nil, err
	}
	if len(categoryIDs) == 0 {
		return []models.Event{}, nil
	}

	perCategory := (limit + len(categoryIDs) - 1) / len(categoryIDs)

	g, gctx := errgroup.WithContext(ctx)
	batches := make([][]models.Event, len(categoryIDs))
	for i, categoryID := range categoryIDs {
		g.Go(func() error {
			events, err := s.repo.GetRecentByCategory(gctx, categoryID, perCategory)
			if err != nil {
				return err
			}
			batches[i] = events
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var merged []models.Event
	for _, batch := range batches {
		merged = append(merged, batch...)
	}
	rand.Shuffle(len(merged), func(i, j int) {
		merged[i], merged[j] = merged[j], merged[i]
	})
	return merged, nil
}

// GetEventsByCategory lists a category's events newest first. On backend
// failure the cached event list is filtered by category as a degraded answer.
func (s *ServiceImpl) GetEventsByCategory(ctx context.Context, categoryID uuid.UUID) ([]models.Event, error) {
	ctx, span := otel.Tracer("EventService").Start(ctx, "GetEventsByCategory")
	defer span.End()
	span.SetAttributes(attribute.String("category.id", categoryID.String()))
	l := s.logger.With(zap.String("method", "GetEventsByCategory"), zap.String("category_id", categoryID.String()))

	events, err := s.repo.GetByCategory(ctx, categoryID)
	if err != nil {
		l.Warn("failed to fetch category events, filtering cached list", zap.Error(err))
		if cached, _, ok := s.cache.Events.Get(cache.KeyAllEvents); ok {
			filtered := make([]models.Event, 0)
			for _, e := range cached {
				if e.CategoryID == categoryID {
					filtered = append(filtered, e)
				}
			}
			return filtered, nil
		}
		return nil, err
	}
	return events, nil
}

// SearchEvents runs a free-text query against the repository and applies the
// remaining filters in memory. With no query text it filters the full event
// listing instead, so city and date filters work as a plain browse.
func (s *ServiceImpl) SearchEvents(ctx context.Context, query string, filters eventfilter.Filters) models.Result[[]models.Event] {
	ctx, span := otel.Tracer("EventService").Start(ctx, "SearchEvents")
	defer span.End()
	span.SetAttributes(attribute.String("search.query", query))
	l := s.logger.With(zap.String("method", "SearchEvents"), zap.String("query", query))

	now := time.Now()

	if strings.TrimSpace(query) == "" {
		result := s.GetAllEvents(ctx)
		if result.Source == models.SourceNone {
			return result
		}
		result.Data = eventfilter.Apply(result.Data, filters, now)
		return result
	}

	// Over-fetch so in-memory filters still have enough rows to fill the cap.
	prefetch := 0
	if filters.Limit > 0 {
		prefetch = filters.Limit * 2
	}
	events, err := s.repo.Search(ctx, query, prefetch)
	if err != nil {
		l.Warn("event search failed, scanning cached list", zap.Error(err))
		if cached, _, ok := s.cache.Events.Get(cache.KeyAllEvents); ok {
			return models.Stale(eventfilter.Search(cached, query, filters, now), err)
		}
		return models.None[[]models.Event](err)
	}
	return models.Fresh(eventfilter.Search(events, query, filters, now))
}

func (s *ServiceImpl) GetUniqueEventCities(ctx context.Context) models.Result[[]string] {
	ctx, span := otel.Tracer("EventService").Start(ctx, "GetUniqueEventCities")
	defer span.End()
	l := s.logger.With(zap.String("method", "GetUniqueEventCities"))

	if cities, expired, ok := s.cache.Cities.Get(cache.KeyEventCities); ok && !expired {
		return models.Cached(cities)
	}

	locations, err := s.repo.GetLocations(ctx)
	if err != nil {
		l.Warn("failed to fetch event locations, trying stale cache", zap.Error(err))
		if cities, _, ok := s.cache.Cities.Get(cache.KeyEventCities); ok {
			return models.Stale(cities, err)
		}
		return models.None[[]string](err)
	}
	cities := eventfilter.UniqueCities(locations)
	s.cache.Cities.Set(cache.KeyEventCities, cities)
	return models.Fresh(cities)
}

func (s *ServiceImpl) staleEvents(key string, cause error) models.Result[[]models.Event] {
	if events, _, ok := s.cache.Events.Get(key); ok {
		return models.Stale(events, cause)
	}
	return models.None[[]models.Event](cause)
}

func truncated(r models.Result[[]models.Event], limit int) models.Result[[]models.Event] {
	if limit > 0 && len(r.Data) > limit {
		r.Data = r.Data[:limit]
	}
	return r
}
