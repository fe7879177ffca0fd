package routes

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/eventify/eventify-go/internal/app/domain/auth"
	"github.com/eventify/eventify-go/internal/app/domain/categories"
	"github.com/eventify/eventify-go/internal/app/domain/events"
	"github.com/eventify/eventify-go/internal/app/domain/favorites"
	"github.com/eventify/eventify-go/internal/app/domain/profiles"
	"github.com/eventify/eventify-go/internal/app/domain/venues"
	"github.com/eventify/eventify-go/internal/app/middleware"
	"github.com/eventify/eventify-go/internal/app/observability/metrics"
	"github.com/eventify/eventify-go/internal/pkg/cache"
	"github.com/eventify/eventify-go/internal/pkg/config"
	"github.com/eventify/eventify-go/internal/pkg/storage"
)

// AppHandlers groups every HTTP handler the router mounts.
type AppHandlers struct {
	Events     *events.EventHandlers
	Venues     *venues.VenueHandlers
	Categories *categories.CategoryHandlers
	Favorites  *favorites.FavoriteHandlers
	Profiles   *profiles.ProfileHandlers
	Auth       *auth.AuthHandlers
}

// Setup wires repositories, services and handlers onto the router.
func Setup(r *gin.Engine, dbPool *pgxpool.Pool, cfg *config.Config, log *zap.Logger) {
	handlers, caches := setupDependencies(dbPool, cfg, log)
	setupRouter(r, handlers, caches, cfg, log)
}

func setupDependencies(dbPool *pgxpool.Pool, cfg *config.Config, log *zap.Logger) (*AppHandlers, *cache.Manager) {
	caches := cache.NewManager(cache.TTLs{
		Events:     cfg.Cache.EventsTTL,
		Venues:     cfg.Cache.VenuesTTL,
		Categories: cfg.Cache.CategoriesTTL,
	}, log)
	if err := metrics.RegisterCacheObserver(func() map[string]metrics.CacheCounters {
		snap := make(map[string]metrics.CacheCounters)
		for name, m := range caches.GetAllMetrics() {
			snap[name] = metrics.CacheCounters{Hits: m.Hits, Misses: m.Misses, Stale: m.Stale}
		}
		return snap
	}); err != nil {
		log.Warn("Failed to register cache metrics observer", zap.Error(err))
	}
	store := storage.NewService(cfg.Storage.UploadDir, cfg.Storage.PublicBaseURL, log)

	eventRepo := events.NewRepository(dbPool, log)
	venueRepo := venues.NewRepository(dbPool, log)
	categoryRepo := categories.NewRepository(dbPool, log)
	favoriteRepo := favorites.NewRepository(dbPool, log)
	profileRepo := profiles.NewRepository(dbPool, log)
	authRepo := auth.NewPostgresAuthRepo(dbPool, log)

	eventService := events.NewService(eventRepo, caches, log)
	venueService := venues.NewService(venueRepo, caches, log)
	categoryService := categories.NewService(categoryRepo, caches, log)
	favoriteService := favorites.NewService(favoriteRepo, log)
	profileService := profiles.NewService(profileRepo, store, log)
	authService := auth.NewAuthService(authRepo, cfg, log)

	// Category defaults are seeded once per boot; reads self-heal anyway.
	if err := categoryService.EnsureDefaultCategories(context.Background()); err != nil {
		log.Warn("Failed to seed default categories", zap.Error(err))
	}

	sessions := auth.NewSessionContext(authService, caches, log)
	cookieMaxAge := int(cfg.Auth.TokenExpiration.Seconds())

	return &AppHandlers{
		Events:     events.NewEventHandlers(eventService, log),
		Venues:     venues.NewVenueHandlers(venueService, log),
		Categories: categories.NewCategoryHandlers(categoryService, log),
		Favorites:  favorites.NewFavoriteHandlers(favoriteService, log),
		Profiles:   profiles.NewProfileHandlers(profileService, log),
		Auth:       auth.NewAuthHandlers(authService, sessions, cookieMaxAge, log),
	}, caches
}

func setupRouter(r *gin.Engine, h *AppHandlers, caches *cache.Manager, cfg *config.Config, log *zap.Logger) {
	jwtCfg := auth.JWTConfig{
		SecretKey:       cfg.Auth.JWTSecretKey,
		TokenExpiration: cfg.Auth.TokenExpiration,
		Logger:          log,
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/health/caches", func(c *gin.Context) {
		c.JSON(http.StatusOK, caches.GetAllMetrics())
	})

	api := r.Group("/api/v1")

	// Catalog endpoints are public. OptionalAuth lets signed-in clients be
	// identified in traces without blocking anonymous traffic.
	public := api.Group("")
	public.Use(middleware.OptionalAuthMiddleware(jwtCfg))
	{
		public.GET("/events", h.Events.GetEvents)
		public.GET("/events/featured", h.Events.GetFeaturedEvents)
		public.GET("/events/popular", h.Events.GetPopularEvents)
		public.GET("/events/search", h.Events.SearchEvents)
		public.GET("/events/cities", h.Events.GetEventCities)
		public.GET("/events/:id", h.Events.GetEvent)

		public.GET("/venues", h.Venues.GetVenues)
		public.GET("/venues/popular", h.Venues.GetPopularVenues)
		public.GET("/venues/:id", h.Venues.GetVenue)
		public.GET("/venues/:id/events", h.Venues.GetVenueEvents)

		public.GET("/categories", h.Categories.GetCategories)
		public.GET("/categories/:id", h.Categories.GetCategory)
		public.GET("/categories/:id/events", h.Events.GetEventsByCategory)
	}

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", h.Auth.Register)
		authGroup.POST("/login", h.Auth.Login)
		authGroup.POST("/refresh", h.Auth.Refresh)
	}

	protected := api.Group("")
	protected.Use(middleware.JWTAuthMiddleware(jwtCfg))
	{
		protected.POST("/auth/logout", h.Auth.Logout)
		protected.GET("/auth/me", h.Auth.Me)

		protected.GET("/favorites/events", h.Favorites.GetFavoriteEvents)
		protected.GET("/favorites/venues", h.Favorites.GetFavoriteVenues)
		protected.POST("/favorites/events/:id", h.Favorites.AddEventFavorite)
		protected.DELETE("/favorites/events/:id", h.Favorites.RemoveEventFavorite)
		protected.GET("/favorites/events/:id", h.Favorites.IsEventFavorited)
		protected.POST("/favorites/venues/:id", h.Favorites.AddVenueFavorite)
		protected.DELETE("/favorites/venues/:id", h.Favorites.RemoveVenueFavorite)
		protected.GET("/favorites/venues/:id", h.Favorites.IsVenueFavorited)

		protected.GET("/profile", h.Profiles.GetProfile)
		protected.PUT("/profile", h.Profiles.UpdateProfile)
		protected.POST("/profile/avatar", h.Profiles.UploadAvatar)
	}
}
