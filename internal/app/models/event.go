package models

import (
	"time"

	"github.com/google/uuid"
)

// Event is a single ticketed event. Location is free text, usually in the
// "City, Venue" form the filter engine relies on.
type Event struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	ImageURL    string     `json:"image_url"`
	Location    string     `json:"location"`
	StartDate   time.Time  `json:"start_date"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	Price       float64    `json:"price"`
	CategoryID  uuid.UUID  `json:"category_id"`
	VenueID     uuid.UUID  `json:"venue_id"`
	TicketURL   *string    `json:"ticket_url,omitempty"`
	Attendees   *int       `json:"attendees,omitempty"`
	Rating      *float64   `json:"rating,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// IsFree reports whether the event has no admission price.
func (e Event) IsFree() bool {
	return e.Price == 0
}
