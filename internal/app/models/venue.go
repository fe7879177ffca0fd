package models

import (
	"time"

	"github.com/google/uuid"
)

// Venue is a physical event location.
type Venue struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	ImageURL    string    `json:"image_url"`
	Address     string    `json:"address"`
	City        string    `json:"city"`
	Country     string    `json:"country"`
	Capacity    *int      `json:"capacity,omitempty"`
	Email       *string   `json:"email,omitempty"`
	Phone       *string   `json:"phone,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Category groups events. Icon is a symbolic glyph name for clients.
type Category struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	Popularity  int       `json:"popularity"`
	CreatedAt   time.Time `json:"created_at"`
}
