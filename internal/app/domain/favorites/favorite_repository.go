package favorites

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/eventify/eventify-go/internal/app/models"
)

var _ Repository = (*RepositoryImpl)(nil)

// DB is the subset of pgxpool.Pool the repository needs. Narrowing the
// dependency lets tests drive it with pgxmock.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository is the favorites data access contract against the backing store.
type Repository interface {
	GetFavoriteEvents(ctx context.Context, userID uuid.UUID) ([]models.Event, error)
	GetFavoriteVenues(ctx context.Context, userID uuid.UUID) ([]models.Venue, error)
	EventFavoriteExists(ctx context.Context, userID, eventID uuid.UUID) (bool, error)
	VenueFavoriteExists(ctx context.Context, userID, venueID uuid.UUID) (bool, error)
	InsertEventFavorite(ctx context.Context, userID, eventID uuid.UUID) error
	InsertVenueFavorite(ctx context.Context, userID, venueID uuid.UUID) error
	DeleteEventFavorite(ctx context.Context, userID, eventID uuid.UUID) error
	DeleteVenueFavorite(ctx context.Context, userID, venueID uuid.UUID) error
}

type RepositoryImpl struct {
	logger *zap.Logger
	db     DB
}

func NewRepository(db DB, logger *zap.Logger) *RepositoryImpl {
	return &RepositoryImpl{
		logger: logger,
		db:     db,
	}
}

func (r *RepositoryImpl) GetFavoriteEvents(ctx context.Context, userID uuid.UUID) ([]models.Event, error) {
	query := `SELECT e.id, e.title, e.description, e.image_url, e.location, e.start_date, e.end_date,
		e.price, e.category_id, e.venue_id, e.ticket_url, e.attendees, e.rating, e.created_at
		FROM favorites f
		JOIN events e ON e.id = f.event_id
		WHERE f.user_id = $1
		ORDER BY f.created_at DESC`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query favorite events: %w", err)
	}
	defer rows.Close()

	var events []models.Event
	for rows.Next() {
		var e models.Event
		err := rows.Scan(
			&e.ID, &e.Title, &e.Description, &e.ImageURL, &e.Location, &e.StartDate, &e.EndDate,
			&e.Price, &e.CategoryID, &e.VenueID, &e.TicketURL, &e.Attendees, &e.Rating, &e.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan favorite event row: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating favorite event rows: %w", err)
	}
	return events, nil
}

func (r *RepositoryImpl) GetFavoriteVenues(ctx context.Context, userID uuid.UUID) ([]models.Venue, error) {
	query := `SELECT v.id, v.name, v.description, v.image_url, v.address, v.city, v.country,
		v.capacity, v.email, v.phone, v.created_at
		FROM favorites f
		JOIN venues v ON v.id = f.venue_id
		WHERE f.user_id = $1
		ORDER BY f.created_at DESC`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query favorite venues: %w", err)
	}
	defer rows.Close()

	var venues []models.Venue
	for rows.Next() {
		var v models.Venue
		err := rows.Scan(
			&v.ID, &v.Name, &v.Description, &v.ImageURL, &v.Address, &v.City, &v.Country,
			&v.Capacity, &v.Email, &v.Phone, &v.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan favorite venue row: %w", err)
		}
		venues = append(venues, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating favorite venue rows: %w", err)
	}
	return venues, nil
}

func (r *RepositoryImpl) EventFavoriteExists(ctx context.Context, userID, eventID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM favorites WHERE user_id = $1 AND event_id = $2)`,
		userID, eventID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check event favorite: %w", err)
	}
	return exists, nil
}

func (r *RepositoryImpl) VenueFavoriteExists(ctx context.Context, userID, venueID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM favorites WHERE user_id = $1 AND venue_id = $2)`,
		userID, venueID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check venue favorite: %w", err)
	}
	return exists, nil
}

func (r *RepositoryImpl) InsertEventFavorite(ctx context.Context, userID, eventID uuid.UUID) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO favorites (user_id, event_id) VALUES ($1, $2)`,
		userID, eventID,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return models.ErrConflict
		}
		return fmt.Errorf("failed to insert event favorite: %w", err)
	}
	return nil
}

func (r *RepositoryImpl) InsertVenueFavorite(ctx context.Context, userID, venueID uuid.UUID) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO favorites (user_id, venue_id) VALUES ($1, $2)`,
		userID, venueID,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return models.ErrConflict
		}
		return fmt.Errorf("failed to insert venue favorite: %w", err)
	}
	return nil
}

func (r *RepositoryImpl) DeleteEventFavorite(ctx context.Context, userID, eventID uuid.UUID) error {
	_, err := r.db.Exec(ctx,
		`DELETE FROM favorites WHERE user_id = $1 AND event_id = $2`,
		userID, eventID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete event favorite: %w", err)
	}
	return nil
}

func (r *RepositoryImpl) DeleteVenueFavorite(ctx context.Context, userID, venueID uuid.UUID) error {
	_, err := r.db.Exec(ctx,
		`DELETE FROM favorites WHERE user_id = $1 AND venue_id = $2`,
		userID, venueID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete venue favorite: %w", err)
	}
	return nil
}
