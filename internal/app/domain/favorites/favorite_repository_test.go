package favorites

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/eventify/eventify-go/internal/app/models"
)

func newMockRepo(t *testing.T) (pgxmock.PgxPoolIface, *RepositoryImpl) {
	t.Helper()
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mockPool.Close)
	return mockPool, NewRepository(mockPool, zap.NewNop())
}

func TestRepositoryEventFavoriteExists(t *testing.T) {
	mockPool, repo := newMockRepo(t)

	userID, eventID := uuid.New(), uuid.New()
	mockPool.ExpectQuery(`SELECT EXISTS \(SELECT 1 FROM favorites WHERE user_id = \$1 AND event_id = \$2\)`).
		WithArgs(userID, eventID).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.EventFavoriteExists(context.Background(), userID, eventID)

	require.NoError(t, err)
	assert.True(t, exists)
	require.NoError(t, mockPool.ExpectationsWereMet())
}

func TestRepositoryInsertEventFavorite(t *testing.T) {
	mockPool, repo := newMockRepo(t)

	userID, eventID := uuid.New(), uuid.New()
	mockPool.ExpectExec(`INSERT INTO favorites \(user_id, event_id\) VALUES \(\$1, \$2\)`).
		WithArgs(userID, eventID).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, repo.InsertEventFavorite(context.Background(), userID, eventID))
	require.NoError(t, mockPool.ExpectationsWereMet())
}

func TestRepositoryInsertEventFavorite_UniqueViolationIsConflict(t *testing.T) {
	mockPool, repo := newMockRepo(t)

	userID, eventID := uuid.New(), uuid.New()
	mockPool.ExpectExec(`INSERT INTO favorites \(user_id, event_id\) VALUES \(\$1, \$2\)`).
		WithArgs(userID, eventID).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	err := repo.InsertEventFavorite(context.Background(), userID, eventID)
	assert.ErrorIs(t, err, models.ErrConflict)
	require.NoError(t, mockPool.ExpectationsWereMet())
}

func TestRepositoryDeleteEventFavorite_ZeroRowsIsNotAnError(t *testing.T) {
	mockPool, repo := newMockRepo(t)

	userID, eventID := uuid.New(), uuid.New()
	mockPool.ExpectExec(`DELETE FROM favorites WHERE user_id = \$1 AND event_id = \$2`).
		WithArgs(userID, eventID).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	require.NoError(t, repo.DeleteEventFavorite(context.Background(), userID, eventID))
	require.NoError(t, mockPool.ExpectationsWereMet())
}

func TestRepositoryGetFavoriteEvents(t *testing.T) {
	mockPool, repo := newMockRepo(t)

	userID := uuid.New()
	eventID, categoryID, venueID := uuid.New(), uuid.New(), uuid.New()
	start := time.Now().Add(24 * time.Hour)
	created := time.Now()

	rows := pgxmock.NewRows([]string{
		"id", "title", "description", "image_url", "location", "start_date", "end_date",
		"price", "category_id", "venue_id", "ticket_url", "attendees", "rating", "created_at",
	}).AddRow(
		eventID, "Jazz Night", "desc", "img", "İstanbul, Babylon", start, (*time.Time)(nil),
		150.0, categoryID, venueID, (*string)(nil), (*int)(nil), (*float64)(nil), created,
	)
	mockPool.ExpectQuery(`SELECT e\.id, e\.title,`).
		WithArgs(userID).
		WillReturnRows(rows)

	events, err := repo.GetFavoriteEvents(context.Background(), userID)

	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Jazz Night", events[0].Title)
	assert.Equal(t, eventID, events[0].ID)
	require.NoError(t, mockPool.ExpectationsWereMet())
}
