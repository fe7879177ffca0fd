package venues

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

// Repository is the venues data access contract against the backing store.
type Repository interface {
	GetAll(ctx context.Context) ([]models.Venue, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Venue, error)
	GetPopular(ctx context.Context, limit int) ([]models.Venue, error)
	GetVenueEvents(ctx context.Context, venueID uuid.UUID) ([]models.Event, error)
}

const venueColumns = `id, name, description, image_url, address, city, country,
	capacity, email, phone, created_at`

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

func (r *RepositoryImpl) GetAll(ctx context.Context) ([]models.Venue, error) {
	query := fmt.Sprintf(`SELECT %s FROM venues ORDER BY name`, venueColumns)
	rows, err := r.pgpool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query venues: %w", err)
	}
	defer rows.Close()
	return scanVenues(rows)
}

func (r *RepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*models.Venue, error) {
	query := fmt.Sprintf(`SELECT %s FROM venues WHERE id = $1`, venueColumns)
	row := r.pgpool.QueryRow(ctx, query, id)
	venue, err := scanVenue(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Absent rows are a normal result, not an error.
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query venue %s: %w", id, err)
	}
	return venue, nil
}

// GetPopular approximates popularity by event volume: venues hosting the most
// upcoming events first, ties broken by capacity.
func (r *RepositoryImpl) GetPopular(ctx context.Context, limit int) ([]models.Venue, error) {
	query := `SELECT v.id, v.name, v.description, v.image_url, v.address, v.city, v.country,
		v.capacity, v.email, v.phone, v.created_at
		FROM venues v
		LEFT JOIN events e ON e.venue_id = v.id AND e.start_date >= now()
		GROUP BY v.id
		ORDER BY COUNT(e.id) DESC, v.capacity DESC NULLS LAST
		LIMIT $1`
	rows, err := r.pgpool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query popular venues: %w", err)
	}
	defer rows.Close()
	return scanVenues(rows)
}

func (r *RepositoryImpl) GetVenueEvents(ctx context.Context, venueID uuid.UUID) ([]models.Event, error) {
	query := `SELECT id, title, description, image_url, location, start_date, end_date,
		price, category_id, venue_id, ticket_url, attendees, rating, created_at
		FROM events WHERE venue_id = $1 ORDER BY start_date`
	rows, err := r.pgpool.Query(ctx, query, venueID)
	if err != nil {
		return nil, fmt.Errorf("failed to query events for venue %s: %w", venueID, err)
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
			return nil, fmt.Errorf("failed to scan venue event row: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating venue event rows: %w", err)
	}
	return events, nil
}

func scanVenue(row pgx.Row) (*models.Venue, error) {
	var v models.Venue
	err := row.Scan(
		&v.ID, &v.Name, &v.Description, &v.ImageURL, &v.Address, &v.City, &v.Country,
		&v.Capacity, &v.Email, &v.Phone, &v.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func scanVenues(rows pgx.Rows) ([]models.Venue, error) {
	var venues []models.Venue
	for rows.Next() {
		venue, err := scanVenue(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan venue row: %w", err)
		}
		venues = append(venues, *venue)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating venue rows: %w", err)
	}
	return venues, nil
}
