package categories

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

type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) GetAll(ctx context.Context) ([]models.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Category), args.Error(1)
}

func (m *MockCategoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

func (m *MockCategoryRepository) Insert(ctx context.Context, categories []models.Category) error {
	args := m.Called(ctx, categories)
	return args.Error(0)
}

func newTestService(repo Repository) (*ServiceImpl, *cache.Manager) {
	manager := cache.NewManager(cache.DefaultTTLs(), zap.NewNop())
	return NewService(repo, manager, zap.NewNop()), manager
}

func storedCategories() []models.Category {
	stored := make([]models.Category, 0, 7)
	for _, c := range DefaultCategories() {
		c.ID = uuid.New()
		stored = append(stored, c)
	}
	return stored
}

func TestGetCategories_NonEmptyStoreSkipsSeeding(t *testing.T) {
	mockRepo := new(MockCategoryRepository)
	svc, _ := newTestService(mockRepo)

	stored := storedCategories()
	mockRepo.On("GetAll", mock.Anything).Return(stored, nil).Once()

	result := svc.GetCategories(context.Background())

	assert.Equal(t, models.SourceBackend, result.Source)
	assert.Equal(t, stored, result.Data)
	mockRepo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)

	// Second read is served from cache.
	result = svc.GetCategories(context.Background())
	assert.Equal(t, models.SourceCache, result.Source)
	mockRepo.AssertExpectations(t)
}

func TestGetCategories_EmptyStoreSeedsDefaultsAndRereads(t *testing.T) {
	mockRepo := new(MockCategoryRepository)
	svc, _ := newTestService(mockRepo)

	stored := storedCategories()
	mockRepo.On("GetAll", mock.Anything).Return([]models.Category{}, nil).Once()
	mockRepo.On("Insert", mock.Anything, DefaultCategories()).Return(nil).Once()
	mockRepo.On("GetAll", mock.Anything).Return(stored, nil).Once()

	result := svc.GetCategories(context.Background())

	assert.Equal(t, models.SourceBackend, result.Source)
	// The rows read back after seeding carry store-generated ids.
	assert.Equal(t, stored, result.Data)
	mockRepo.AssertExpectations(t)
}

func TestGetCategories_SeedFailureStillServesDefaults(t *testing.T) {
	mockRepo := new(MockCategoryRepository)
	svc, _ := newTestService(mockRepo)

	mockRepo.On("GetAll", mock.Anything).Return([]models.Category{}, nil).Once()
	mockRepo.On("Insert", mock.Anything, mock.Anything).Return(errors.New("permission denied")).Once()
	mockRepo.On("GetAll", mock.Anything).Return([]models.Category{}, nil).Once()

	result := svc.GetCategories(context.Background())

	assert.Equal(t, models.SourceBackend, result.Source)
	assert.Equal(t, DefaultCategories(), result.Data)
}

func TestGetCategories_BackendFailureDegradesToDefaults(t *testing.T) {
	mockRepo := new(MockCategoryRepository)
	svc, _ := newTestService(mockRepo)

	backendErr := errors.New("connection refused")
	mockRepo.On("GetAll", mock.Anything).Return(nil, backendErr).Once()

	result := svc.GetCategories(context.Background())

	assert.Equal(t, models.SourceDefaults, result.Source)
	assert.Equal(t, DefaultCategories(), result.Data)
	assert.True(t, result.Degraded())
	assert.ErrorIs(t, result.Reason, backendErr)
}

func TestGetCategories_StaleCacheBeatsDefaults(t *testing.T) {
	mockRepo := new(MockCategoryRepository)
	svc, manager := newTestService(mockRepo)

	stale := storedCategories()[:2]
	manager.Categories.SetWithTTL(cache.KeyAllCategories, stale, 0)

	mockRepo.On("GetAll", mock.Anything).Return(nil, errors.New("timeout")).Once()

	result := svc.GetCategories(context.Background())

	assert.Equal(t, models.SourceStaleCache, result.Source)
	assert.Equal(t, stale, result.Data)
}

func TestGetCategoryByID_Memoized(t *testing.T) {
	mockRepo := new(MockCategoryRepository)
	svc, _ := newTestService(mockRepo)

	id := uuid.New()
	category := &models.Category{ID: id, Name: "Konser", Icon: "music"}
	mockRepo.On("GetByID", mock.Anything, id).Return(category, nil).Once()

	got, err := svc.GetCategoryByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, category, got)

	// Second lookup must hit the memo, not the repo.
	got, err = svc.GetCategoryByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, category, got)
	mockRepo.AssertExpectations(t)
}

func TestGetCategoryByID_MissingNotMemoized(t *testing.T) {
	mockRepo := new(MockCategoryRepository)
	svc, _ := newTestService(mockRepo)

	id := uuid.New()
	mockRepo.On("GetByID", mock.Anything, id).Return(nil, nil).Twice()

	got, err := svc.GetCategoryByID(context.Background(), id)
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = svc.GetCategoryByID(context.Background(), id)
	require.NoError(t, err)
	assert.Nil(t, got)
	mockRepo.AssertExpectations(t)
}
