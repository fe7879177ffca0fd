package categories

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

// Repository is the categories data access contract against the backing store.
type Repository interface {
	GetAll(ctx context.Context) ([]models.Category, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	Insert(ctx context.Context, categories []models.Category) error
}

const categoryColumns = `id, name, description, icon, popularity, created_at`

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

func (r *RepositoryImpl) GetAll(ctx context.Context) ([]models.Category, error) {
	query := fmt.Sprintf(`SELECT %s FROM categories ORDER BY name`, categoryColumns)
	rows, err := r.pgpool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.Icon, &c.Popularity, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan category row: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating category rows: %w", err)
	}
	return categories, nil
}

func (r *RepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	query := fmt.Sprintf(`SELECT %s FROM categories WHERE id = $1`, categoryColumns)
	var c models.Category
	err := r.pgpool.QueryRow(ctx, query, id).
		Scan(&c.ID, &c.Name, &c.Description, &c.Icon, &c.Popularity, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query category %s: %w", id, err)
	}
	return &c, nil
}

// Insert writes the given categories one row at a time. Seeding deliberately
// runs outside a transaction; concurrent seeders may both succeed and the
// duplicate rows are accepted.
func (r *RepositoryImpl) Insert(ctx context.Context, categories []models.Category) error {
	for _, c := range categories {
		_, err := r.pgpool.Exec(ctx,
			`INSERT INTO categories (name, description, icon) VALUES ($1, $2, $3)`,
			c.Name, c.Description, c.Icon,
		)
		if err != nil {
			return fmt.Errorf("failed to insert category %q: %w", c.Name, err)
		}
	}
	return nil
}
