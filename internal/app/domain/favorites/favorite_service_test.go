package favorites

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/eventify/eventify-go/internal/app/models"
)

type MockFavoriteRepository struct {
	mock.Mock
}

func (m *MockFavoriteRepository) GetFavoriteEvents(ctx context.Context, userID uuid.UUID) ([]models.Event, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Event), args.Error(1)
}

func (m *MockFavoriteRepository) GetFavoriteVenues(ctx context.Context, userID uuid.UUID) ([]models.Venue, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Venue), args.Error(1)
}

func (m *MockFavoriteRepository) EventFavoriteExists(ctx context.Context, userID, eventID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID, eventID)
	return args.Bool(0), args.Error(1)
}

func (m *MockFavoriteRepository) VenueFavoriteExists(ctx context.Context, userID, venueID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID, venueID)
	return args.Bool(0), args.Error(1)
}

func (m *MockFavoriteRepository) InsertEventFavorite(ctx context.Context, userID, eventID uuid.UUID) error {
	args := m.Called(ctx, userID, eventID)
	return args.Error(0)
}

func (m *MockFavoriteRepository) InsertVenueFavorite(ctx context.Context, userID, venueID uuid.UUID) error {
	args := m.Called(ctx, userID, venueID)
	return args.Error(0)
}

func (m *MockFavoriteRepository) DeleteEventFavorite(ctx context.Context, userID, eventID uuid.UUID) error {
	args := m.Called(ctx, userID, eventID)
	return args.Error(0)
}

func (m *MockFavoriteRepository) DeleteVenueFavorite(ctx context.Context, userID, venueID uuid.UUID) error {
	args := m.Called(ctx, userID, venueID)
	return args.Error(0)
}

func TestAddEventFavorite_NewFavoriteInserts(t *testing.T) {
	mockRepo := new(MockFavoriteRepository)
	svc := NewService(mockRepo, zap.NewNop())

	userID, eventID := uuid.New(), uuid.New()
	mockRepo.On("EventFavoriteExists", mock.Anything, userID, eventID).Return(false, nil).Once()
	mockRepo.On("InsertEventFavorite", mock.Anything, userID, eventID).Return(nil).Once()

	assert.True(t, svc.AddEventFavorite(context.Background(), userID, eventID))
	mockRepo.AssertExpectations(t)
}

func TestAddEventFavorite_AlreadyPresentIsNoOpSuccess(t *testing.T) {
	mockRepo := new(MockFavoriteRepository)
	svc := NewService(mockRepo, zap.NewNop())

	userID, eventID := uuid.New(), uuid.New()
	mockRepo.On("EventFavoriteExists", mock.Anything, userID, eventID).Return(true, nil).Once()

	assert.True(t, svc.AddEventFavorite(context.Background(), userID, eventID))
	mockRepo.AssertNotCalled(t, "InsertEventFavorite", mock.Anything, mock.Anything, mock.Anything)
}

func TestAddEventFavorite_ConcurrentInsertConflictIsSuccess(t *testing.T) {
	mockRepo := new(MockFavoriteRepository)
	svc := NewService(mockRepo, zap.NewNop())

	// A concurrent add can slip between the existence check and the insert;
	// the unique-index conflict then means the favorite exists.
	userID, eventID := uuid.New(), uuid.New()
	mockRepo.On("EventFavoriteExists", mock.Anything, userID, eventID).Return(false, nil).Once()
	mockRepo.On("InsertEventFavorite", mock.Anything, userID, eventID).Return(models.ErrConflict).Once()

	assert.True(t, svc.AddEventFavorite(context.Background(), userID, eventID))
	mockRepo.AssertExpectations(t)
}

func TestAddVenueFavorite_ConcurrentInsertConflictIsSuccess(t *testing.T) {
	mockRepo := new(MockFavoriteRepository)
	svc := NewService(mockRepo, zap.NewNop())

	userID, venueID := uuid.New(), uuid.New()
	mockRepo.On("VenueFavoriteExists", mock.Anything, userID, venueID).Return(false, nil).Once()
	mockRepo.On("InsertVenueFavorite", mock.Anything, userID, venueID).Return(models.ErrConflict).Once()

	assert.True(t, svc.AddVenueFavorite(context.Background(), userID, venueID))
	mockRepo.AssertExpectations(t)
}

func TestAddEventFavorite_InsertFailureReportsFalse(t *testing.T) {
	mockRepo := new(MockFavoriteRepository)
	svc := NewService(mockRepo, zap.NewNop())

	userID, eventID := uuid.New(), uuid.New()
	mockRepo.On("EventFavoriteExists", mock.Anything, userID, eventID).Return(false, nil).Once()
	mockRepo.On("InsertEventFavorite", mock.Anything, userID, eventID).
		Return(errors.New("constraint violation")).Once()

	assert.False(t, svc.AddEventFavorite(context.Background(), userID, eventID))
}

func TestRemoveEventFavorite_AbsentRowStillSucceeds(t *testing.T) {
	mockRepo := new(MockFavoriteRepository)
	svc := NewService(mockRepo, zap.NewNop())

	userID, eventID := uuid.New(), uuid.New()
	mockRepo.On("DeleteEventFavorite", mock.Anything, userID, eventID).Return(nil).Once()

	assert.True(t, svc.RemoveEventFavorite(context.Background(), userID, eventID))
}

func TestGetFavoriteEvents_ErrorDegradesToEmpty(t *testing.T) {
	mockRepo := new(MockFavoriteRepository)
	svc := NewService(mockRepo, zap.NewNop())

	userID := uuid.New()
	mockRepo.On("GetFavoriteEvents", mock.Anything, userID).
		Return(nil, errors.New("connection refused")).Once()

	events := svc.GetFavoriteEvents(context.Background(), userID)

	assert.NotNil(t, events)
	assert.Empty(t, events)
}

func TestGetFavoriteVenues_NilResultBecomesEmptySlice(t *testing.T) {
	mockRepo := new(MockFavoriteRepository)
	svc := NewService(mockRepo, zap.NewNop())

	userID := uuid.New()
	mockRepo.On("GetFavoriteVenues", mock.Anything, userID).Return([]models.Venue(nil), nil).Once()

	venues := svc.GetFavoriteVenues(context.Background(), userID)

	assert.NotNil(t, venues)
	assert.Empty(t, venues)
}

func TestAddVenueFavorite_ExistenceCheckErrorReportsFalse(t *testing.T) {
	mockRepo := new(MockFavoriteRepository)
	svc := NewService(mockRepo, zap.NewNop())

	userID, venueID := uuid.New(), uuid.New()
	mockRepo.On("VenueFavoriteExists", mock.Anything, userID, venueID).
		Return(false, errors.New("timeout")).Once()

	assert.False(t, svc.AddVenueFavorite(context.Background(), userID, venueID))
	mockRepo.AssertNotCalled(t, "InsertVenueFavorite", mock.Anything, mock.Anything, mock.Anything)
}
