package events

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/eventify/eventify-go/internal/app/models"
)

var _ Repository = (*RepositoryImpl)(nil)

// Repository is the events data access contract against the backing store.
type Repository interface {
	GetAll(ctx context.Context) ([]models.Event, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Event, error)
	GetFeatured(ctx context.Context, limit int) ([]models.Event, error)
	GetByCategory(ctx context.Context, categoryID uuid.UUID) ([]models.Event, error)
	GetRecentByCategory(ctx context.Context, categoryID uuid.UUID, limit int) ([]models.Event, error)
	Search(ctx context.Context, query string, limit int) ([]models.Event, error)
	GetLocations(ctx context.Context) ([]string, error)
	ListCategoryIDs(ctx context.Context) ([]uuid.UUID, error)
}

const eventColumns = `id, title, description, image_url, location, start_date, end_date,
	price, category_id, venue_id, ticket_url, attendees, rating, created_at`

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

func (r *RepositoryImpl) GetAll(ctx context.Context) ([]models.Event, error) {
	query := fmt.Sprintf(`SELECT %s FROM events ORDER BY start_date`, eventColumns)
	rows, err := r.pgpool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()
	return scanEvents(rows)
}

func (r *RepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	query := fmt.Sprintf(`SELECT %s FROM events WHERE id = $1`, eventColumns)
	row := r.pgpool.QueryRow(ctx, query, id)
	event, err := scanEvent(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Absent rows are a normal result, not an error.
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query event %s: %w", id, err)
	}
	return event, nil
}

func (r *RepositoryImpl) GetFeatured(ctx context.Context, limit int) ([]models.Event, error) {
	query := fmt.Sprintf(`SELECT %s FROM events ORDER BY created_at DESC LIMIT $1`, eventColumns)
	rows, err := r.pgpool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query featured events: %w", err)
	}
	defer rows.Close()
	return scanEvents(rows)
}

func (r *RepositoryImpl) GetByCategory(ctx context.Context, categoryID uuid.UUID) ([]models.Event, error) {
	query := fmt.Sprintf(`SELECT %s FROM events WHERE category_id = $1 ORDER BY start_date DESC`, eventColumns)
	rows, err := r.pgpool.Query(ctx, query, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to query events for category %s: %w", categoryID, err)
	}
	defer rows.Close()
	return scanEvents(rows)
}

func (r *RepositoryImpl) GetRecentByCategory(ctx context.Context, categoryID uuid.UUID, limit int) ([]models.Event, error) {
	query := fmt.Sprintf(`SELECT %s FROM events WHERE category_id = $1 ORDER BY created_at DESC LIMIT $2`, eventColumns)
	rows, err := r.pgpool.Query(ctx, query, categoryID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent events for category %s: %w", categoryID, err)
	}
	defer rows.Close()
	return scanEvents(rows)
}

// Search matches the term case-insensitively against title, description and
// location. The limit here is a coarse pre-cap; relevance ordering and the
// final cap happen in the service after client-side filtering.
func (r *RepositoryImpl) Search(ctx context.Context, query string, limit int) ([]models.Event, error) {
	pattern := "%" + query + "%"
	builder := sq.Select(
		"id", "title", "description", "image_url", "location", "start_date", "end_date",
		"price", "category_id", "venue_id", "ticket_url", "attendees", "rating", "created_at",
	).
		From("events").
		Where(sq.Or{
			sq.ILike{"title": pattern},
			sq.ILike{"description": pattern},
			sq.ILike{"location": pattern},
		}).
		PlaceholderFormat(sq.Dollar)
	if limit > 0 {
		builder = builder.Limit(uint64(limit))
	}

	sqlQuery, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build search query: %w", err)
	}

	rows, err := r.pgpool.Query(ctx, sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search events: %w", err)
	}
	defer rows.Close()
	return scanEvents(rows)
}

func (r *RepositoryImpl) GetLocations(ctx context.Context) ([]string, error) {
	rows, err := r.pgpool.Query(ctx, `SELECT location FROM events`)
	if err != nil {
		return nil, fmt.Errorf("failed to query event locations: %w", err)
	}
	defer rows.Close()

	var locations []string
	for rows.Next() {
		var location string
		if err := rows.Scan(&location); err != nil {
			return nil, fmt.Errorf("failed to scan event location: %w", err)
		}
		locations = append(locations, location)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating event locations: %w", err)
	}
	return locations, nil
}

func (r *RepositoryImpl) ListCategoryIDs(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := r.pgpool.Query(ctx, `SELECT id FROM categories ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query category ids: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan category id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating category ids: %w", err)
	}
	return ids, nil
}

func scanEvent(row pgx.Row) (*models.Event, error) {
	var e models.Event
	err := row.Scan(
		&e.ID, &e.Title, &e.Description, &e.ImageURL, &e.Location, &e.StartDate, &e.EndDate,
		&e.Price, &e.CategoryID, &e.VenueID, &e.TicketURL, &e.Attendees, &e.Rating, &e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func scanEvents(rows pgx.Rows) ([]models.Event, error) {
	var events []models.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event row: %w", err)
		}
		events = append(events, *event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating event rows: %w", err)
	}
	return events, nil
}
