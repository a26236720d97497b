// AngelaMos | 2026
// repository_test.go

package campaign

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josealexandro/chaama/internal/core"
)

func setupMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDB.Close() })

	return sqlx.NewDb(mockDB, "postgres"), mock
}

func TestExpireDueSingleStatement(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewRepository(db)
	now := time.Date(2026, 5, 13, 10, 0, 0, 0, time.UTC)

	mock.ExpectExec(`UPDATE ad_campaigns\s+SET status = \$1, updated_at = NOW\(\)\s+WHERE status IN \(\$2, \$3\) AND end_at < \$4`).
		WithArgs(StatusExpired, StatusActive, StatusPaused, now).
		WillReturnResult(sqlmock.NewResult(0, 4))

	n, err := repo.ExpireDue(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListActiveFiltersStatusAndRegionOnly(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewRepository(db)

	mock.ExpectQuery(`FROM "ad_campaigns" WHERE \(\("status" = \$1\) AND \("city_key" = \$2\) AND \("state_key" = \$3\) AND \("country" = \$4\)\)`).
		WithArgs("active", "natal", "rn", "BR", int64(10)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "status"}).
			AddRow("c1", "Academia", "active"))

	campaigns, err := repo.ListActive(context.Background(), Region{CityKey: "natal", StateKey: "rn", Country: "BR"}, 10)
	require.NoError(t, err)
	require.Len(t, campaigns, 1)
	assert.Equal(t, StatusActive, campaigns[0].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListActiveAlwaysFiltersCity(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewRepository(db)

	mock.ExpectQuery(`FROM "ad_campaigns" WHERE \(\("status" = \$1\) AND \("city_key" = \$2\)\) ORDER BY`).
		WithArgs("active", "natal", int64(10)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "status"}))

	campaigns, err := repo.ListActive(context.Background(), Region{CityKey: "natal"}, 10)
	require.NoError(t, err)
	assert.Empty(t, campaigns)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIncrementUnknownCampaign(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewRepository(db)

	mock.ExpectExec(`UPDATE ad_campaigns SET click_count = click_count \+ 1 WHERE id = \$1`).
		WithArgs("ghost").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Increment(context.Background(), "ghost", CounterClicks)
	assert.ErrorIs(t, err, core.ErrNotFound)

	err = repo.Increment(context.Background(), "c1", Counter("rating"))
	assert.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestTransitionRequiresOpenWindow(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewRepository(db)
	now := time.Now()

	mock.ExpectExec(`AND status = \$3 AND end_at > \$5`).
		WithArgs("c1", "owner", StatusPaused, StatusActive, now).
		WillReturnResult(sqlmock.NewResult(0, 0))

	changed, err := repo.Transition(context.Background(), "c1", "owner", StatusPaused, StatusActive, now)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.NoError(t, mock.ExpectationsWereMet())
}
