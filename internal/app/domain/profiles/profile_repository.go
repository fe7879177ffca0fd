package profiles

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/eventify/eventify-go/internal/app/models"
)

var _ Repository = (*RepositoryImpl)(nil)

// Repository is the profiles data access contract against the backing store.
type Repository interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*models.UserProfile, error)
	Insert(ctx context.Context, userID uuid.UUID, params models.UpdateProfileParams) (*models.UserProfile, error)
	Update(ctx context.Context, userID uuid.UUID, params models.UpdateProfileParams) (*models.UserProfile, error)
}

const profileColumns = `id, user_id, full_name, avatar_url, bio, city, interests,
	notification_preferences, created_at, updated_at`

type RepositoryImpl struct {
	logger *zap.Logger
	pgpool *pgxpool.Pool
}

func NewRepository(pgpool *pgxpool.Pool, logger *zap.Logger) *RepositoryImpl {
	return &RepositoryImpl{
		logger: logger,
		pgpool: pgpool,
	}
}

func (r *RepositoryImpl) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.UserProfile, error) {
	query := fmt.Sprintf(`SELECT %s FROM profiles WHERE user_id = $1`, profileColumns)
	profile, err := scanProfile(r.pgpool.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// A missing profile row is a normal state for fresh accounts.
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query profile for user %s: %w", userID, err)
	}
	return profile, nil
}

func (r *RepositoryImpl) Insert(ctx context.Context, userID uuid.UUID, params models.UpdateProfileParams) (*models.UserProfile, error) {
	prefs := models.NotificationPreferences{Email: true, Push: false}
	if params.NotificationPreferences != nil {
		prefs = *params.NotificationPreferences
	}
	interests := params.Interests
	if interests == nil {
		interests = []string{}
	}
	query := fmt.Sprintf(`INSERT INTO profiles (user_id, full_name, avatar_url, bio, city, interests, notification_preferences)
		VALUES ($1, COALESCE($2, ''), $3, $4, $5, $6, $7)
		RETURNING %s`, profileColumns)
	profile, err := scanProfile(r.pgpool.QueryRow(ctx, query,
		userID, params.FullName, params.AvatarURL, params.Bio, params.City, interests, prefs,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to insert profile for user %s: %w", userID, err)
	}
	return profile, nil
}

// Update patches only the non-nil fields and bumps updated_at.
func (r *RepositoryImpl) Update(ctx context.Context, userID uuid.UUID, params models.UpdateProfileParams) (*models.UserProfile, error) {
	query := fmt.Sprintf(`UPDATE profiles SET
		full_name = COALESCE($2, full_name),
		avatar_url = COALESCE($3, avatar_url),
		bio = COALESCE($4, bio),
		city = COALESCE($5, city),
		interests = COALESCE($6, interests),
		notification_preferences = COALESCE($7, notification_preferences),
		updated_at = now()
		WHERE user_id = $1
		RETURNING %s`, profileColumns)
	profile, err := scanProfile(r.pgpool.QueryRow(ctx, query,
		userID, params.FullName, params.AvatarURL, params.Bio, params.City, params.Interests, params.NotificationPreferences,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update profile for user %s: %w", userID, err)
	}
	return profile, nil
}

func scanProfile(row pgx.Row) (*models.UserProfile, error) {
	var p models.UserProfile
	err := row.Scan(
		&p.ID, &p.UserID, &p.FullName, &p.AvatarURL, &p.Bio, &p.City, &p.Interests,
		&p.NotificationPreferences, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
