// AngelaMos | 2026
// repository_test.go

package provider

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

var columns = []string{
	"id", "name", "service", "service_key", "description", "city", "city_key", "whatsapp",
	"photo_ref", "avg_price", "map_link", "premium", "active", "rating_count", "rating_mean",
	"created_at", "updated_at",
}

func TestUpsertDoesNotWriteRatingFields(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewRepository(db)
	now := time.Now()

	mock.ExpectQuery(`INSERT INTO "providers" .* ON CONFLICT \(id\) DO UPDATE SET .* RETURNING "premium", "rating_count", "rating_mean"`).
		WillReturnRows(sqlmock.NewRows([]string{"premium", "rating_count", "rating_mean", "created_at", "updated_at"}).
			AddRow(false, 4, 4.25, now, now))

	p := &Provider{ID: "p1", Name: "Maria", Service: "Pintor", ServiceKey: "pintor", City: "Natal", CityKey: "natal"}
	require.NoError(t, repo.Upsert(context.Background(), p))
	assert.Equal(t, 4, p.RatingCount)
	assert.Equal(t, 4.25, p.RatingMean)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByIDNotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewRepository(db)

	mock.ExpectQuery(`SELECT .* FROM "providers" AS "p" WHERE \("p"."id" = \$1\)`).
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows(columns))

	_, err := repo.GetByID(context.Background(), "ghost")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestSearchFiltersOnActiveSubscription(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewRepository(db)
	now := time.Now()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM "providers" AS "p" INNER JOIN "accounts" AS "a"`).
		WithArgs("active", "%encanador%", "sao paulo").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`ORDER BY "p"."premium" DESC, "p"."rating_mean" DESC`).
		WillReturnRows(sqlmock.NewRows(columns).AddRow(
			"p1", "João", "Encanador", "encanador", "", "São Paulo", "sao paulo", "+55",
			nil, nil, nil, true, true, 2, 4.5, now, now,
		))

	params := SearchParams{Service: "encanador", City: "sao paulo", PageParams: core.PageParams{Page: 1, PageSize: 20}}
	providers, total, err := repo.Search(context.Background(), params)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, providers, 1)
	assert.Equal(t, "João", providers[0].Name)
	assert.Nil(t, providers[0].PhotoRef)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSearchEscapesLikeWildcards(t *testing.T) {
	tests := []struct {
		service string
		want    string
	}{
		{"100%", `%100\%%`},
		{"a_b", `%a\_b%`},
		{`c:\`, `%c:\\%`},
	}

	for _, tt := range tests {
		t.Run(tt.service, func(t *testing.T) {
			db, mock := setupMockDB(t)
			repo := NewRepository(db)

			mock.ExpectQuery(`SELECT COUNT\(\*\)`).
				WithArgs("active", tt.want).
				WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
			mock.ExpectQuery(`ORDER BY`).
				WillReturnRows(sqlmock.NewRows(columns))

			params := SearchParams{Service: tt.service, PageParams: core.PageParams{Page: 1, PageSize: 20}}
			_, total, err := repo.Search(context.Background(), params)
			require.NoError(t, err)
			assert.Zero(t, total)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
