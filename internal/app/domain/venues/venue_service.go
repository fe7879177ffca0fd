package venues

import (
	"context"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/eventify/eventify-go/internal/app/models"
	"github.com/eventify/eventify-go/internal/pkg/cache"
)

var _ Service = (*ServiceImpl)(nil)

// Service exposes best-effort venue reads with the same cache-then-stale
// policy as the events service.
type Service interface {
	GetAllVenues(ctx context.Context) ([]models.Venue, error)
	GetVenueByID(ctx context.Context, id uuid.UUID) (*models.Venue, error)
	GetPopularVenues(ctx context.Context, limit int) models.Result[[]models.Venue]
	GetVenueEvents(ctx context.Context, venueID uuid.UUID) models.Result[[]models.Event]
}

const defaultPopularVenuesLimit = 6

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

func (s *ServiceImpl) GetAllVenues(ctx context.Context) ([]models.Venue, error) {
	ctx, span := otel.Tracer("VenueService").Start(ctx, "GetAllVenues")
	defer span.End()

	return s.repo.GetAll(ctx)
}

func (s *ServiceImpl) GetVenueByID(ctx context.Context, id uuid.UUID) (*models.Venue, error) {
	ctx, span := otel.Tracer("VenueService").Start(ctx, "GetVenueByID")
	defer span.End()
	span.SetAttributes(attribute.String("venue.id", id.String()))

	return s.repo.GetByID(ctx, id)
}

func (s *ServiceImpl) GetPopularVenues(ctx context.Context, limit int) models.Result[[]models.Venue] {
	ctx, span := otel.Tracer("VenueService").Start(ctx, "GetPopularVenues")
	defer span.End()
	l := s.logger.With(zap.String("method", "GetPopularVenues"))

	if limit <= 0 {
		limit = defaultPopularVenuesLimit
	}

	if venues, expired, ok := s.cache.PopularVenues.Get(cache.KeyPopularVenues); ok && !expired {
		return models.Cached(venues)
	}

	venues, err := s.repo.GetPopular(ctx, limit)
	if err != nil {
		l.Warn("failed to fetch popular venues, trying stale cache", zap.Error(err))
		if venues, _, ok := s.cache.PopularVenues.Get(cache.KeyPopularVenues); ok {
			return models.Stale(venues, err)
		}
		return models.None[[]models.Venue](err)
	}
	s.cache.PopularVenues.Set(cache.KeyPopularVenues, venues)
	return models.Fresh(venues)
}

func (s *ServiceImpl) GetVenueEvents(ctx context.Context, venueID uuid.UUID) models.Result[[]models.Event] {
	ctx, span := otel.Tracer("VenueService").Start(ctx, "GetVenueEvents")
	defer span.End()
	span.SetAttributes(attribute.String("venue.id", venueID.String()))
	l := s.logger.With(zap.String("method", "GetVenueEvents"), zap.String("venue_id", venueID.String()))

	key := cache.KeyVenueEvents(venueID.String())
	if events, expired, ok := s.cache.VenueEvents.Get(key); ok && !expired {
		return models.Cached(events)
	}

	events, err := s.repo.GetVenueEvents(ctx, venueID)
	if err != nil {
		l.Warn("failed to fetch venue events, trying stale cache", zap.Error(err))
		if events, _, ok := s.cache.VenueEvents.Get(key); ok {
			return models.Stale(events, err)
		}
		return models.None[[]models.Event](err)
	}
	s.cache.VenueEvents.Set(key, events)
	return models.Fresh(events)
}
