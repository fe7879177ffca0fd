package profiles

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/eventify/eventify-go/internal/app/models"
	"github.com/eventify/eventify-go/internal/pkg/storage"
)

var _ Service = (*ServiceImpl)(nil)

// Service exposes profile reads and the lazy-create upsert write.
type Service interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*models.UserProfile, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, params models.UpdateProfileParams) (*models.UserProfile, error)
	UploadAvatar(ctx context.Context, userID uuid.UUID, filename string, r io.Reader) (*models.UserProfile, error)
}

const avatarBucket = "avatars"

type ServiceImpl struct {
	logger  *zap.Logger
	repo    Repository
	storage *storage.Service
}

func NewService(repo Repository, store *storage.Service, logger *zap.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:  logger,
		repo:    repo,
		storage: store,
	}
}

// GetProfile returns nil, nil when the user has no profile row yet.
func (s *ServiceImpl) GetProfile(ctx context.Context, userID uuid.UUID) (*models.UserProfile, error) {
	ctx, span := otel.Tracer("ProfileService").Start(ctx, "GetProfile")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", userID.String()))

	return s.repo.GetByUserID(ctx, userID)
}

// UpdateProfile patches the profile, creating the row first when the user has
// none. The row check and the write are separate statements; a concurrent
// first write may race, and the unique constraint on user_id resolves it.
func (s *ServiceImpl) UpdateProfile(ctx context.Context, userID uuid.UUID, params models.UpdateProfileParams) (*models.UserProfile, error) {
	ctx, span := otel.Tracer("ProfileService").Start(ctx, "UpdateProfile")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", userID.String()))
	l := s.logger.With(zap.String("method", "UpdateProfile"), zap.String("user_id", userID.String()))

	existing, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		l.Debug("no profile row, creating on first write")
		return s.repo.Insert(ctx, userID, params)
	}
	return s.repo.Update(ctx, userID, params)
}

// UploadAvatar resizes and stores the image under the avatars bucket, then
// writes the public URL back to the profile.
func (s *ServiceImpl) UploadAvatar(ctx context.Context, userID uuid.UUID, filename string, r io.Reader) (*models.UserProfile, error) {
	ctx, span := otel.Tracer("ProfileService").Start(ctx, "UploadAvatar")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", userID.String()))
	l := s.logger.With(zap.String("method", "UploadAvatar"), zap.String("user_id", userID.String()))

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if ext == "" {
		ext = "jpg"
	}
	path := fmt.Sprintf("profiles/%s/avatar.%s", userID, ext)

	url, err := s.storage.UploadImage(ctx, avatarBucket, path, r)
	if err != nil {
		l.Error("avatar upload failed", zap.Error(err))
		return nil, fmt.Errorf("failed to upload avatar: %w", err)
	}

	profile, err := s.UpdateProfile(ctx, userID, models.UpdateProfileParams{AvatarURL: &url})
	if err != nil {
		l.Error("failed to record avatar url", zap.String("url", url), zap.Error(err))
		return nil, err
	}
	l.Info("avatar updated", zap.String("url", url))
	return profile, nil
}
