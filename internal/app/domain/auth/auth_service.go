package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/eventify/eventify-go/internal/app/models"
	"github.com/eventify/eventify-go/internal/pkg/config"
)

var _ AuthService = (*AuthServiceImpl)(nil)

// AuthService defines the authentication business logic contract.
type AuthService interface {
	Login(ctx context.Context, email, password string) (accessToken string, refreshToken string, err error)
	Logout(ctx context.Context, refreshToken string) error
	RefreshSession(ctx context.Context, refreshToken string) (accessToken string, newRefreshToken string, err error)
	Register(ctx context.Context, username, email, password string) (string, error)
	UpdatePassword(ctx context.Context, userID, oldPassword, newPassword string) error
	GetUserByID(ctx context.Context, userID string) (*models.UserAuth, error)
	ValidateToken(tokenString string) (*Claims, error)
}

const minPasswordLength = 8

// AuthServiceImpl provides the implementation for AuthService.
type AuthServiceImpl struct {
	logger *zap.Logger
	repo   AuthRepo
	cfg    *config.Config
	jwt    *JWTService
}

func NewAuthService(repo AuthRepo, cfg *config.Config, logger *zap.Logger) *AuthServiceImpl {
	return &AuthServiceImpl{
		logger: logger,
		repo:   repo,
		cfg:    cfg,
		jwt:    NewJWTService(),
	}
}

func (s *AuthServiceImpl) jwtConfig() JWTConfig {
	return JWTConfig{
		SecretKey:       s.cfg.Auth.JWTSecretKey,
		TokenExpiration: s.cfg.Auth.TokenExpiration,
		Logger:          s.logger,
	}
}

// Login validates credentials, generates tokens and stores the refresh token.
func (s *AuthServiceImpl) Login(ctx context.Context, email, password string) (string, string, error) {
	l := s.logger.With(zap.String("method", "Login"), zap.String("email", email))
	l.Debug("Attempting login")

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		l.Warn("GetUserByEmail failed")
		// Don't reveal whether the user exists or the password is wrong.
		return "", "", fmt.Errorf("invalid credentials: %w", models.ErrUnauthenticated)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		l.Warn("Password comparison failed", zap.String("userID", user.ID))
		return "", "", fmt.Errorf("invalid credentials: %w", models.ErrUnauthenticated)
	}

	accessToken, refreshToken, err := s.generateTokens(user)
	if err != nil {
		l.Error("Failed to generate tokens", zap.String("userID", user.ID), zap.Error(err))
		return "", "", fmt.Errorf("app error generating tokens: %w", err)
	}

	refreshExpiresAt := time.Now().Add(s.cfg.Auth.RefreshTTL)
	if err := s.repo.StoreRefreshToken(ctx, user.ID, refreshToken, refreshExpiresAt); err != nil {
		l.Error("Failed to store refresh token", zap.String("userID", user.ID), zap.Error(err))
		return "", "", fmt.Errorf("app error storing session: %w", err)
	}

	l.Info("Login successful")
	return accessToken, refreshToken, nil
}

// Register validates the input, creates the user and its profile row. All
// validation happens before any database call.
func (s *AuthServiceImpl) Register(ctx context.Context, username, email, password string) (string, error) {
	l := s.logger.With(zap.String("method", "Register"), zap.String("email", email))
	l.Debug("Attempting registration")

	ctx, span := otel.Tracer("AuthService").Start(ctx, "Register", trace.WithAttributes(
		attribute.String("username", username),
	))
	defer span.End()

	if err := validateRegistration(username, email, password); err != nil {
		span.SetStatus(codes.Error, "Validation failed")
		return "", err
	}

	hashedPasswordBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		l.Error("Failed to hash password", zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Password hashing failed")
		return "", fmt.Errorf("could not process password")
	}

	userID, err := s.repo.Register(ctx, username, email, string(hashedPasswordBytes))
	if err != nil {
		l.Error("Repository registration failed", zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Repository registration failed")
		return "", fmt.Errorf("registration failed: %w", err)
	}

	// The profile row is created eagerly so profile reads never 404 for a
	// valid user. A conflict means a concurrent register already did it.
	if err := s.repo.CreateProfile(ctx, userID); err != nil && err != models.ErrConflict {
		l.Warn("Failed to create profile row", zap.String("userID", userID), zap.Error(err))
	}

	l.Info("Registration successful", zap.String("userID", userID))
	span.SetStatus(codes.Ok, "User registered")
	return userID, nil
}

// RefreshSession validates the refresh token, rotates it and issues new tokens.
func (s *AuthServiceImpl) RefreshSession(ctx context.Context, refreshToken string) (string, string, error) {
	l := s.logger.With(zap.String("method", "RefreshSession"))
	l.Debug("Attempting token refresh")

	userID, err := s.repo.ValidateRefreshTokenAndGetUserID(ctx, refreshToken)
	if err != nil {
		l.Warn("Refresh token validation failed", zap.Error(err))
		return "", "", fmt.Errorf("invalid or expired refresh token: %w", err)
	}

	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		l.Error("Failed to get user after refresh token validation", zap.String("userID", userID), zap.Error(err))
		if err := s.repo.InvalidateRefreshToken(ctx, refreshToken); err != nil {
			l.Warn("Failed to invalidate suspicious refresh token", zap.Error(err))
		}
		return "", "", fmt.Errorf("app error retrieving user during refresh: %w", models.ErrUnauthenticated)
	}

	newAccessToken, newRefreshToken, err := s.generateTokens(user)
	if err != nil {
		l.Error("Failed to generate new tokens", zap.String("userID", user.ID), zap.Error(err))
		return "", "", fmt.Errorf("app error generating tokens: %w", err)
	}

	refreshExpiresAt := time.Now().Add(s.cfg.Auth.RefreshTTL)
	if err := s.repo.StoreRefreshToken(ctx, user.ID, newRefreshToken, refreshExpiresAt); err != nil {
		l.Error("Failed to store new refresh token", zap.String("userID", user.ID), zap.Error(err))
		return "", "", fmt.Errorf("app error storing new session: %w", err)
	}

	// Rotation: the old token must not stay usable.
	if err := s.repo.InvalidateRefreshToken(ctx, refreshToken); err != nil {
		l.Warn("Failed to invalidate old refresh token during rotation", zap.String("userID", user.ID), zap.Error(err))
	}

	l.Info("Token refresh successful", zap.String("userID", user.ID))
	return newAccessToken, newRefreshToken, nil
}

// Logout invalidates the provided refresh token.
func (s *AuthServiceImpl) Logout(ctx context.Context, refreshToken string) error {
	l := s.logger.With(zap.String("method", "Logout"))

	if refreshToken == "" {
		return nil
	}
	if err := s.repo.InvalidateRefreshToken(ctx, refreshToken); err != nil {
		l.Error("Failed to invalidate refresh token on logout", zap.Error(err))
		return fmt.Errorf("logout failed: %w", err)
	}
	l.Info("Logout successful")
	return nil
}

func (s *AuthServiceImpl) UpdatePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	l := s.logger.With(zap.String("method", "UpdatePassword"), zap.String("userID", userID))

	if len(newPassword) < minPasswordLength {
		return fmt.Errorf("password must be at least %d characters: %w", minPasswordLength, models.ErrValidation)
	}

	if err := s.repo.VerifyPassword(ctx, userID, oldPassword); err != nil {
		l.Warn("Old password verification failed", zap.Error(err))
		return fmt.Errorf("invalid credentials: %w", models.ErrUnauthenticated)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("could not process password")
	}
	if err := s.repo.UpdatePassword(ctx, userID, string(hashed)); err != nil {
		return err
	}

	// Changing the password ends every other session.
	if err := s.repo.InvalidateAllUserRefreshTokens(ctx, userID); err != nil {
		l.Warn("Failed to invalidate sessions after password change", zap.Error(err))
	}
	return nil
}

func (s *AuthServiceImpl) GetUserByID(ctx context.Context, userID string) (*models.UserAuth, error) {
	return s.repo.GetUserByID(ctx, userID)
}

func (s *AuthServiceImpl) ValidateToken(tokenString string) (*Claims, error) {
	return s.jwt.ValidateToken(s.jwtConfig(), tokenString)
}

func (s *AuthServiceImpl) generateTokens(user *models.UserAuth) (string, string, error) {
	accessToken, err := s.jwt.GenerateToken(s.jwtConfig(), user.ID, user.Email, user.Username)
	if err != nil {
		return "", "", err
	}
	// Refresh tokens are opaque; validity lives server-side.
	refreshToken := uuid.NewString()
	return accessToken, refreshToken, nil
}

func validateRegistration(username, email, password string) error {
	if strings.TrimSpace(username) == "" {
		return fmt.Errorf("username is required: %w", models.ErrValidation)
	}
	if !strings.Contains(email, "@") {
		return fmt.Errorf("invalid email address: %w", models.ErrValidation)
	}
	if len(password) < minPasswordLength {
		return fmt.Errorf("password must be at least %d characters: %w", minPasswordLength, models.ErrValidation)
	}
	return nil
}
