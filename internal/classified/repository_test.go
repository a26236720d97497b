// AngelaMos | 2026
// repository_test.go

package classified

import (
	"context"
	"testing"

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

func TestPatchRecordSetsOnlyPresentFields(t *testing.T) {
	title := "Novo título"
	active := false

	record := patchRecord(Patch{Title: &title, Active: &active})

	assert.Len(t, record, 3)
	assert.Equal(t, "Novo título", record["title"])
	assert.Equal(t, false, record["active"])
	assert.Contains(t, record, "updated_at")
	assert.NotContains(t, record, "description")
}

func TestUpdateScopedToOwner(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewRepository(db)

	mock.ExpectExec(`UPDATE "classifieds" SET .* WHERE \(\("id" = \$\d\) AND \("owner_id" = \$\d\)\)`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	title := "x"
	err := repo.Update(context.Background(), "c1", "intruder", Patch{Title: &title})
	assert.ErrorIs(t, err, core.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListOnlyActive(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewRepository(db)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM "classifieds" WHERE \(\("active" IS TRUE\) AND \("city_key" = \$1\)\)`).
		WithArgs("belem").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`FROM "classifieds"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	items, total, err := repo.List(context.Background(), ListParams{
		City:       "belem",
		PageParams: core.PageParams{Page: 1, PageSize: 20},
	})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, items)
	assert.NoError(t, mock.ExpectationsWereMet())
}
