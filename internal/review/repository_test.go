// AngelaMos | 2026
// repository_test.go

package review

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
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

var aggregateColumns = []string{"rating_count", "rating_sum", "rating_mean"}

func TestLockAggregate(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewRepository(db)

	mock.ExpectQuery(`SELECT rating_count, rating_sum, rating_mean\s+FROM providers\s+WHERE id = \$1\s+FOR UPDATE`).
		WithArgs("p1").
		WillReturnRows(sqlmock.NewRows(aggregateColumns).AddRow(2, 9, 4.5))

	agg, err := repo.LockAggregate(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, Aggregate{Count: 2, Sum: 9, Mean: 4.5}, agg)

	mock.ExpectQuery(`FROM providers`).
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows(aggregateColumns))

	_, err = repo.LockAggregate(context.Background(), "ghost")
	assert.ErrorIs(t, err, core.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateReviewDuplicateIsConflict(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewRepository(db)

	mock.ExpectQuery(`INSERT INTO reviews`).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	err := repo.Create(context.Background(), &Review{ID: "r1", ProviderID: "p1", ReviewerID: "a", Score: 4})
	assert.ErrorIs(t, err, core.ErrConflict)
	assert.True(t, core.IsRetryable(err))
}

func TestCreateReviewWithoutAccountIsForbidden(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewRepository(db)

	mock.ExpectQuery(`INSERT INTO reviews`).
		WithArgs("r1", "p1", "no-account", 5, "").
		WillReturnError(&pgconn.PgError{Code: "23503", ConstraintName: "reviews_reviewer_id_fkey"})

	err := repo.Create(context.Background(), &Review{ID: "r1", ProviderID: "p1", ReviewerID: "no-account", Score: 5})
	assert.ErrorIs(t, err, core.ErrForbidden)
	assert.False(t, core.IsRetryable(err))

	appErr := core.FromError(err, "review")
	assert.Equal(t, http.StatusForbidden, appErr.StatusCode)
	assert.Equal(t, "complete your account signup first", appErr.Message)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveAggregateMissingProvider(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewRepository(db)

	mock.ExpectExec(`UPDATE providers`).
		WithArgs("ghost", 1, int64(4), 4.0).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.SaveAggregate(context.Background(), "ghost", Aggregate{Count: 1, Sum: 4, Mean: 4})
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestStoreSubmitCommitsReviewAndAggregateTogether(t *testing.T) {
	db, mock := setupMockDB(t)
	svc := newTestService(NewStore(db))
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(`FOR UPDATE`).
		WithArgs("p1").
		WillReturnRows(sqlmock.NewRows(aggregateColumns).AddRow(1, 5, 5.0))
	mock.ExpectQuery(`FROM reviews\s+WHERE provider_id = \$1 AND reviewer_id = \$2`).
		WithArgs("p1", "a").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(`INSERT INTO reviews`).
		WithArgs(sqlmock.AnyArg(), "p1", "a", 4, "pontual").
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))
	mock.ExpectExec(`UPDATE providers`).
		WithArgs("p1", 2, int64(9), 4.5).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	res, err := svc.SubmitReview(context.Background(), "p1", "a", SubmitReviewRequest{Score: 4, Comment: " pontual "})
	require.NoError(t, err)
	assert.True(t, res.Created)
	assert.Equal(t, Aggregate{Count: 2, Sum: 9, Mean: 4.5}, res.Aggregate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreSubmitRollsBackAndRetriesDeadlock(t *testing.T) {
	db, mock := setupMockDB(t)
	svc := newTestService(NewStore(db))
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(`FOR UPDATE`).
		WillReturnError(&pgconn.PgError{Code: "40P01"})
	mock.ExpectRollback()

	mock.ExpectBegin()
	mock.ExpectQuery(`FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows(aggregateColumns).AddRow(1, 4, 4.0))
	mock.ExpectQuery(`FROM reviews`).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "provider_id", "reviewer_id", "score", "comment", "created_at", "updated_at",
		}).AddRow("r1", "p1", "a", 4, "old", now, now))
	mock.ExpectQuery(`UPDATE reviews`).
		WithArgs("r1", 2, "changed my mind").
		WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(now))
	mock.ExpectExec(`UPDATE providers`).
		WithArgs("p1", 1, int64(2), 2.0).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	res, err := svc.SubmitReview(context.Background(), "p1", "a",
		SubmitReviewRequest{Score: 2, Comment: "changed my mind"})
	require.NoError(t, err)
	assert.False(t, res.Created)
	assert.Equal(t, "r1", res.Review.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListByProviderJoinsReviewerName(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewRepository(db)
	now := time.Now()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM reviews`).
		WithArgs("p1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery(`LEFT JOIN accounts a ON a.id = r.reviewer_id`).
		WithArgs("p1", 20, 0).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "provider_id", "reviewer_id", "score", "comment",
			"created_at", "updated_at", "reviewer_name",
		}).
			AddRow("r2", "p1", "b", 5, "great", now, now, nil).
			AddRow("r1", "p1", "a", 4, "good", now, now, "Ana"))

	reviews, total, err := repo.ListByProvider(context.Background(), "p1", core.PageParams{Page: 1, PageSize: 20})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, reviews, 2)
	assert.Nil(t, reviews[0].ReviewerName)
	assert.Equal(t, "Ana", *reviews[1].ReviewerName)
	assert.NoError(t, mock.ExpectationsWereMet())
}
