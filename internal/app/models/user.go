package models

import (
	"time"

	"github.com/google/uuid"
)

// UserAuth holds the fields needed for credential checks and token generation.
type UserAuth struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"-"` // bcrypt hash, never serialized
}

// NotificationPreferences is stored as jsonb on the profile row.
type NotificationPreferences struct {
	Email bool `json:"email"`
	Push  bool `json:"push"`
}

// UserProfile is the 1:1 public profile of an authenticated user.
// Created lazily on first write (upsert semantics).
type UserProfile struct {
	ID                      uuid.UUID               `json:"id"`
	UserID                  uuid.UUID               `json:"user_id"`
	FullName                string                  `json:"full_name"`
	AvatarURL               *string                 `json:"avatar_url,omitempty"`
	Bio                     *string                 `json:"bio,omitempty"`
	City                    *string                 `json:"city,omitempty"`
	Interests               []string                `json:"interests,omitempty"`
	NotificationPreferences NotificationPreferences `json:"notification_preferences"`
	CreatedAt               time.Time               `json:"created_at"`
	UpdatedAt               time.Time               `json:"updated_at"`
}

// UpdateProfileParams is the patch applied by profile upserts. Nil fields are
// left untouched on existing rows.
type UpdateProfileParams struct {
	FullName                *string                  `json:"full_name,omitempty"`
	AvatarURL               *string                  `json:"avatar_url,omitempty"`
	Bio                     *string                  `json:"bio,omitempty"`
	City                    *string                  `json:"city,omitempty"`
	Interests               []string                 `json:"interests,omitempty"`
	NotificationPreferences *NotificationPreferences `json:"notification_preferences,omitempty"`
}

// Favorite joins a user to exactly one of an event or a venue.
type Favorite struct {
	ID        uuid.UUID  `json:"id"`
	UserID    uuid.UUID  `json:"user_id"`
	EventID   *uuid.UUID `json:"event_id,omitempty"`
	VenueID   *uuid.UUID `json:"venue_id,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}
