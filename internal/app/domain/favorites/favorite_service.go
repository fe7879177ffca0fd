package favorites

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/eventify/eventify-go/internal/app/models"
)

var _ Service = (*ServiceImpl)(nil)

// Service exposes favorite reads and writes. Reads degrade to an empty slice
// on failure; writes report plain success or failure, with adding an already
// present favorite counting as success.
type Service interface {
	GetFavoriteEvents(ctx context.Context, userID uuid.UUID) []models.Event
	GetFavoriteVenues(ctx context.Context, userID uuid.UUID) []models.Venue
	AddEventFavorite(ctx context.Context, userID, eventID uuid.UUID) bool
	AddVenueFavorite(ctx context.Context, userID, venueID uuid.UUID) bool
	RemoveEventFavorite(ctx context.Context, userID, eventID uuid.UUID) bool
	RemoveVenueFavorite(ctx context.Context, userID, venueID uuid.UUID) bool
	IsEventFavorited(ctx context.Context, userID, eventID uuid.UUID) bool
	IsVenueFavorited(ctx context.Context, userID, venueID uuid.UUID) bool
}

type ServiceImpl struct {
	logger *zap.Logger
	repo   Repository
}

func NewService(repo Repository, logger *zap.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger: logger,
		repo:   repo,
	}
}

func (s *ServiceImpl) GetFavoriteEvents(ctx context.Context, userID uuid.UUID) []models.Event {
	ctx, span := otel.Tracer("FavoriteService").Start(ctx, "GetFavoriteEvents")
	defer span.End()

	events, err := s.repo.GetFavoriteEvents(ctx, userID)
	if err != nil {
		s.logger.Warn("failed to fetch favorite events",
			zap.String("user_id", userID.String()), zap.Error(err))
		return []models.Event{}
	}
	if events == nil {
		return []models.Event{}
	}
	return events
}

func (s *ServiceImpl) GetFavoriteVenues(ctx context.Context, userID uuid.UUID) []models.Venue {
	ctx, span := otel.Tracer("FavoriteService").Start(ctx, "GetFavoriteVenues")
	defer span.End()

	venues, err := s.repo.GetFavoriteVenues(ctx, userID)
	if err != nil {
		s.logger.Warn("failed to fetch favorite venues",
			zap.String("user_id", userID.String()), zap.Error(err))
		return []models.Venue{}
	}
	if venues == nil {
		return []models.Venue{}
	}
	return venues
}

// AddEventFavorite records the favorite unless it already exists; favoriting
// twice is success, not conflict. When the check-then-insert race loses to a
// concurrent add, the unique-index conflict means the favorite exists, which
// is the requested outcome.
func (s *ServiceImpl) AddEventFavorite(ctx context.Context, userID, eventID uuid.UUID) bool {
	ctx, span := otel.Tracer("FavoriteService").Start(ctx, "AddEventFavorite")
	defer span.End()
	span.SetAttributes(attribute.String("event.id", eventID.String()))
	l := s.logger.With(zap.String("method", "AddEventFavorite"),
		zap.String("user_id", userID.String()), zap.String("event_id", eventID.String()))

	exists, err := s.repo.EventFavoriteExists(ctx, userID, eventID)
	if err != nil {
		l.Warn("failed to check event favorite", zap.Error(err))
		return false
	}
	if exists {
		return true
	}
	if err := s.repo.InsertEventFavorite(ctx, userID, eventID); err != nil {
		if errors.Is(err, models.ErrConflict) {
			return true
		}
		l.Warn("failed to add event favorite", zap.Error(err))
		return false
	}
	return true
}

func (s *ServiceImpl) AddVenueFavorite(ctx context.Context, userID, venueID uuid.UUID) bool {
	ctx, span := otel.Tracer("FavoriteService").Start(ctx, "AddVenueFavorite")
	defer span.End()
	span.SetAttributes(attribute.String("venue.id", venueID.String()))
	l := s.logger.With(zap.String("method", "AddVenueFavorite"),
		zap.String("user_id", userID.String()), zap.String("venue_id", venueID.String()))

	exists, err := s.repo.VenueFavoriteExists(ctx, userID, venueID)
	if err != nil {
		l.Warn("failed to check venue favorite", zap.Error(err))
		return false
	}
	if exists {
		return true
	}
	if err := s.repo.InsertVenueFavorite(ctx, userID, venueID); err != nil {
		if errors.Is(err, models.ErrConflict) {
			return true
		}
		l.Warn("failed to add venue favorite", zap.Error(err))
		return false
	}
	return true
}

// RemoveEventFavorite deletes unconditionally; removing an absent favorite is
// success.
func (s *ServiceImpl) RemoveEventFavorite(ctx context.Context, userID, eventID uuid.UUID) bool {
	ctx, span := otel.Tracer("FavoriteService").Start(ctx, "RemoveEventFavorite")
	defer span.End()

	if err := s.repo.DeleteEventFavorite(ctx, userID, eventID); err != nil {
		s.logger.Warn("failed to remove event favorite",
			zap.String("user_id", userID.String()), zap.String("event_id", eventID.String()), zap.Error(err))
		return false
	}
	return true
}

func (s *ServiceImpl) RemoveVenueFavorite(ctx context.Context, userID, venueID uuid.UUID) bool {
	ctx, span := otel.Tracer("FavoriteService").Start(ctx, "RemoveVenueFavorite")
	defer span.End()

	if err := s.repo.DeleteVenueFavorite(ctx, userID, venueID); err != nil {
		s.logger.Warn("failed to remove venue favorite",
			zap.String("user_id", userID.String()), zap.String("venue_id", venueID.String()), zap.Error(err))
		return false
	}
	return true
}

func (s *ServiceImpl) IsEventFavorited(ctx context.Context, userID, eventID uuid.UUID) bool {
	ctx, span := otel.Tracer("FavoriteService").Start(ctx, "IsEventFavorited")
	defer span.End()

	exists, err := s.repo.EventFavoriteExists(ctx, userID, eventID)
	if err != nil {
		s.logger.Warn("failed to check event favorite",
			zap.String("user_id", userID.String()), zap.Error(err))
		return false
	}
	return exists
}

func (s *ServiceImpl) IsVenueFavorited(ctx context.Context, userID, venueID uuid.UUID) bool {
	ctx, span := otel.Tracer("FavoriteService").Start(ctx, "IsVenueFavorited")
	defer span.End()

	exists, err := s.repo.VenueFavoriteExists(ctx, userID, venueID)
	if err != nil {
		s.logger.Warn("failed to check venue favorite",
			zap.String("user_id", userID.String()), zap.Error(err))
		return false
	}
	return exists
}
