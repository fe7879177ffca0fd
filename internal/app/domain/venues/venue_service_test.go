package venues

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/eventify/eventify-go/internal/app/models"
	"github.com/eventify/eventify-go/internal/pkg/cache"
)

type MockVenueRepository struct {
	mock.Mock
}

func (m *MockVenueRepository) GetAll(ctx context.Context) ([]models.Venue, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Venue), args.Error(1)
}

func (m *MockVenueRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Venue, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Venue), args.Error(1)
}

func (m *MockVenueRepository) GetPopular(ctx context.Context, limit int) ([]models.Venue, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Venue), args.Error(1)
}

func (m *MockVenueRepository) GetVenueEvents(ctx context.Context, venueID uuid.UUID) ([]models.Event, error) {
	args := m.Called(ctx, venueID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Event), args.Error(1)
}

func newTestService(repo Repository) (*ServiceImpl, *cache.Manager) {
	manager := cache.NewManager(cache.DefaultTTLs(), zap.NewNop())
	return NewService(repo, manager, zap.NewNop()), manager
}

func TestGetPopularVenues_FreshThenCached(t *testing.T) {
	mockRepo := new(MockVenueRepository)
	svc, _ := newTestService(mockRepo)

	venues := []models.Venue{{ID: uuid.New(), Name: "Zorlu PSM", City: "İstanbul"}}
	mockRepo.On("GetPopular", mock.Anything, 6).Return(venues, nil).Once()

	result := svc.GetPopularVenues(context.Background(), 0)
	assert.Equal(t, models.SourceBackend, result.Source)
	assert.Equal(t, venues, result.Data)

	result = svc.GetPopularVenues(context.Background(), 0)
	assert.Equal(t, models.SourceCache, result.Source)
	mockRepo.AssertExpectations(t)
}

func TestGetPopularVenues_StaleFallback(t *testing.T) {
	mockRepo := new(MockVenueRepository)
	svc, manager := newTestService(mockRepo)

	stale := []models.Venue{{ID: uuid.New(), Name: "Harbiye", City: "İstanbul"}}
	manager.PopularVenues.SetWithTTL(cache.KeyPopularVenues, stale, 0)

	backendErr := errors.New("connection refused")
	mockRepo.On("GetPopular", mock.Anything, 6).Return(nil, backendErr).Once()

	result := svc.GetPopularVenues(context.Background(), 6)

	assert.Equal(t, models.SourceStaleCache, result.Source)
	assert.Equal(t, stale, result.Data)
	assert.ErrorIs(t, result.Reason, backendErr)
}

func TestGetVenueEvents_PerVenueCacheKeys(t *testing.T) {
	mockRepo := new(MockVenueRepository)
	svc, manager := newTestService(mockRepo)

	venueA, venueB := uuid.New(), uuid.New()
	eventsA := []models.Event{{ID: uuid.New(), Title: "Concert A"}}
	eventsB := []models.Event{{ID: uuid.New(), Title: "Concert B"}}
	mockRepo.On("GetVenueEvents", mock.Anything, venueA).Return(eventsA, nil).Once()
	mockRepo.On("GetVenueEvents", mock.Anything, venueB).Return(eventsB, nil).Once()

	resultA := svc.GetVenueEvents(context.Background(), venueA)
	resultB := svc.GetVenueEvents(context.Background(), venueB)

	require.Equal(t, models.SourceBackend, resultA.Source)
	require.Equal(t, models.SourceBackend, resultB.Source)
	assert.Equal(t, eventsA, resultA.Data)
	assert.Equal(t, eventsB, resultB.Data)

	// Each venue caches under its own key.
	cachedA, ok := manager.VenueEvents.GetFresh(cache.KeyVenueEvents(venueA.String()))
	require.True(t, ok)
	assert.Equal(t, eventsA, cachedA)

	resultA = svc.GetVenueEvents(context.Background(), venueA)
	assert.Equal(t, models.SourceCache, resultA.Source)
	mockRepo.AssertExpectations(t)
}

func TestGetVenueEvents_NoDataWithoutCache(t *testing.T) {
	mockRepo := new(MockVenueRepository)
	svc, _ := newTestService(mockRepo)

	venueID := uuid.New()
	backendErr := errors.New("timeout")
	mockRepo.On("GetVenueEvents", mock.Anything, venueID).Return(nil, backendErr).Once()

	result := svc.GetVenueEvents(context.Background(), venueID)

	assert.Equal(t, models.SourceNone, result.Source)
	assert.ErrorIs(t, result.Reason, backendErr)
}

func TestGetVenueByID_NotFoundIsNilNil(t *testing.T) {
	mockRepo := new(MockVenueRepository)
	svc, _ := newTestService(mockRepo)

	id := uuid.New()
	mockRepo.On("GetByID", mock.Anything, id).Return(nil, nil).Once()

	venue, err := svc.GetVenueByID(context.Background(), id)

	require.NoError(t, err)
	assert.Nil(t, venue)
}
