package categories

import (
	"context"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/eventify/eventify-go/internal/app/models"
	"github.com/eventify/eventify-go/internal/pkg/cache"
)

var _ Service = (*ServiceImpl)(nil)

// Service exposes category reads. The category list always succeeds: a
// backend failure degrades to the built-in defaults rather than an error.
type Service interface {
	GetCategories(ctx context.Context) models.Result[[]models.Category]
	GetCategoryByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	EnsureDefaultCategories(ctx context.Context) error
}

// DefaultCategories are the canonical set seeded into an empty store and
// served when the store is unreachable. Icon values are symbolic glyph names
// resolved by clients.
func DefaultCategories() []models.Category {
	return []models.Category{
		{Name: "Konser", Icon: "music"},
		{Name: "Tiyatro", Icon: "theater"},
		{Name: "Festival", Icon: "calendar-days"},
		{Name: "Workshop", Icon: "pen-tool"},
		{Name: "Spor", Icon: "dumbbell"},
		{Name: "Gastronomi", Icon: "utensils"},
		{Name: "Sanat", Icon: "paint-bucket"},
	}
}

type ServiceImpl struct {
	logger *zap.Logger
	repo   Repository
	cache  *cache.Manager
	// byID memoizes single-category lookups; unlike the list caches these
	// entries are evicted on expiry, so no stale fallback applies.
	byID *gocache.Cache
}

func NewService(repo Repository, cacheManager *cache.Manager, logger *zap.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger: logger,
		repo:   repo,
		cache:  cacheManager,
		byID:   gocache.New(5*time.Minute, 10*time.Minute),
	}
}

// GetCategories returns the category list, seeding the defaults into an empty
// store on first read. Seed failures are not fatal: whatever the store holds
// after the attempt is served, and a completely unreachable store degrades to
// the in-memory defaults.
func (s *ServiceImpl) GetCategories(ctx context.Context) models.Result[[]models.Category] {
	ctx, span := otel.Tracer("CategoryService").Start(ctx, "GetCategories")
	defer span.End()
	l := s.logger.With(zap.String("method", "GetCategories"))

	if categories, expired, ok := s.cache.Categories.Get(cache.KeyAllCategories); ok && !expired {
		return models.Cached(categories)
	}

	categories, err := s.repo.GetAll(ctx)
	if err != nil {
		l.Warn("failed to fetch categories, serving defaults", zap.Error(err))
		if categories, _, ok := s.cache.Categories.Get(cache.KeyAllCategories); ok {
			return models.Stale(categories, err)
		}
		return models.Defaults(DefaultCategories(), err)
	}

	if len(categories) == 0 {
		categories = s.seed(ctx, l)
	}

	s.cache.Categories.Set(cache.KeyAllCategories, categories)
	return models.Fresh(categories)
}

// seed inserts the defaults and re-reads the table so callers observe the
// stored rows (with generated ids) rather than the in-memory templates.
func (s *ServiceImpl) seed(ctx context.Context, l *zap.Logger) []models.Category {
	l.Info("category table empty, seeding defaults")

	if err := s.repo.Insert(ctx, DefaultCategories()); err != nil {
		l.Warn("failed to seed default categories", zap.Error(err))
	}
	categories, err := s.repo.GetAll(ctx)
	if err != nil {
		l.Warn("failed to re-read categories after seeding, serving defaults", zap.Error(err))
		return DefaultCategories()
	}
	if len(categories) == 0 {
		return DefaultCategories()
	}
	return categories
}

// EnsureDefaultCategories seeds the defaults when the table is empty. Safe to
// call at startup on every instance; once any row exists it is a no-op.
func (s *ServiceImpl) EnsureDefaultCategories(ctx context.Context) error {
	ctx, span := otel.Tracer("CategoryService").Start(ctx, "EnsureDefaultCategories")
	defer span.End()
	l := s.logger.With(zap.String("method", "EnsureDefaultCategories"))

	categories, err := s.repo.GetAll(ctx)
	if err != nil {
		return err
	}
	if len(categories) > 0 {
		return nil
	}
	s.seed(ctx, l)
	return nil
}

func (s *ServiceImpl) GetCategoryByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	ctx, span := otel.Tracer("CategoryService").Start(ctx, "GetCategoryByID")
	defer span.End()
	span.SetAttributes(attribute.String("category.id", id.String()))

	if cached, found := s.byID.Get(id.String()); found {
		return cached.(*models.Category), nil
	}

	category, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if category != nil {
		s.byID.Set(id.String(), category, gocache.DefaultExpiration)
	}
	return category, nil
}
